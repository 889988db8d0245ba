// Package ffierr defines the error taxonomy traverse, construct, and xcall
// return across the cdt/cdts boundary (spec.md §7).
//
// Error extends the standard error interface with a machine-checkable Kind
// and supports errors.Is/errors.As via Unwrap, so a caller can match the
// taxonomy without string-matching Error().
package ffierr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. Values are stable identifiers, safe to log,
// compare, and use as metric labels.
type Kind string

// The eight error kinds spec.md §7 defines.
const (
	// InvalidType reports a recognized tag that is not acceptable where it
	// appears — e.g. primitive.Any at a position that needs a concrete tag,
	// or a leaf tag with no matching traversal callback registered.
	InvalidType Kind = "invalid_type"

	// TypeMismatch reports that a value's runtime shape does not match the
	// tag a caller asserted for it (e.g. a get_int32 callback invoked at a
	// position whose declared tag is string8).
	TypeMismatch Kind = "type_mismatch"

	// UnknownTag reports a tag value this runtime does not recognize at
	// all, as distinct from InvalidType's "recognized but nonsensical here".
	UnknownTag Kind = "unknown_tag"

	// InvalidEncoding reports malformed string bytes (e.g. a string8 buffer
	// that is not valid UTF-8).
	InvalidEncoding Kind = "invalid_encoding"

	// OutOfMemory reports an allocation failure from an allocator hook.
	OutOfMemory Kind = "out_of_memory"

	// ArrayShapeMismatch reports a ragged/rectangular mismatch: a
	// fixed_dimensions declaration that does not match the actual tree
	// shape encountered during traversal or construction.
	ArrayShapeMismatch Kind = "array_shape_mismatch"

	// ForeignError wraps an error value returned from foreign-language
	// callback code (a panic recovered across an ABI boundary, or an
	// explicit error return from a host callback).
	ForeignError Kind = "foreign_error"

	// HandleProtocolViolation reports a misuse of the handle lifecycle —
	// e.g. releasing the same Handle a second time, or dispatching a
	// Callable that has no Invoke function (spec.md §3.3, §4.6).
	HandleProtocolViolation Kind = "handle_protocol_violation"
)

// Error is the concrete error type every CDTS engine entry point returns.
type Error struct {
	Kind    Kind
	Message string
	// Path is the index path (spec.md §3.2) at which the error occurred,
	// if applicable. Empty for errors not tied to a tree position.
	Path []uint64
	cause error
}

// New constructs an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given kind that wraps cause, so
// errors.Is/errors.As can reach through to it.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// AtPath returns a copy of e with Path set, used by traverse/construct to
// annotate an error with the tree position it occurred at without the
// originating check needing to know the current path.
func (e *Error) AtPath(path []uint64) *Error {
	cp := *e
	cp.Path = append([]uint64(nil), path...)
	return &cp
}

func (e *Error) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s at %v: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, or nil if there is none, enabling
// errors.Is/errors.As to reach through to an underlying domain or foreign
// error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, ffierr.New(ffierr.TypeMismatch, "")) matches regardless of
// Message or Path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and ok=true.
// Otherwise ok is false.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
