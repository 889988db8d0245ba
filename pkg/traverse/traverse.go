// Package traverse implements the CDTS depth-first visitor (spec.md §4.3,
// C3): it walks a cdt.Array, calling one Callbacks method per leaf and per
// array boundary, with an index path describing the position.
package traverse

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MetaFFI/plugin-sdk/internal/logger"
	"github.com/MetaFFI/plugin-sdk/internal/telemetry"
	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/metrics"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// Callbacks is the typed visitor set a caller supplies to Run. Every field
// is optional; a nil callback for a tag that is actually encountered is
// itself a caller bug and surfaces as an ffierr.InvalidType error naming the
// missing callback, rather than silently skipping the element.
//
// Path is always the full index path from the traversal root to the current
// element (spec.md §3.2): for a root-level scalar, len(Path) == 1.
type Callbacks struct {
	OnFloat64  func(path []uint64, val float64) error
	OnFloat32  func(path []uint64, val float32) error
	OnInt8     func(path []uint64, val int8) error
	OnInt16    func(path []uint64, val int16) error
	OnInt32    func(path []uint64, val int32) error
	OnInt64    func(path []uint64, val int64) error
	OnUint8    func(path []uint64, val uint8) error
	OnUint16   func(path []uint64, val uint16) error
	OnUint32   func(path []uint64, val uint32) error
	OnUint64   func(path []uint64, val uint64) error
	OnBool     func(path []uint64, val bool) error
	OnSize     func(path []uint64, val uint64) error
	OnChar8    func(path []uint64, val rune) error
	OnChar16   func(path []uint64, val uint16) error
	OnChar32   func(path []uint64, val rune) error
	OnString8  func(path []uint64, val string) error
	OnString16 func(path []uint64, val string) error
	OnString32 func(path []uint64, val string) error
	OnHandle   func(path []uint64, val *cdt.Handle) error
	OnCallable func(path []uint64, val *cdt.Callable) error
	OnNull     func(path []uint64) error

	// OnArray is invoked at every array boundary, including the traversal
	// root. It returns recurse=false to skip descending into val (the
	// metaffi_bool short-circuit spec.md §4.3 describes); recurse=true
	// continues the depth-first walk into val's elements.
	OnArray func(path []uint64, val *cdt.Array, fixedDimensions int64, commonType primitive.Tag) (recurse bool, err error)
}

// Option configures a Run call.
type Option func(*config)

type config struct {
	startPath []uint64
	metrics   metrics.EngineMetrics
}

// WithStartPath seeds the index path Run reports for arr's own elements,
// rather than starting fresh at the root. Used to re-enter a subtree (the
// original runtime's starting_index overloads, spec.md §13.3).
func WithStartPath(path []uint64) Option {
	return func(c *config) {
		c.startPath = append([]uint64(nil), path...)
	}
}

// WithMetrics attaches an EngineMetrics sink. A nil m (the zero value of the
// interface) disables metrics, matching every other optional-metrics call
// site in this module.
func WithMetrics(m metrics.EngineMetrics) Option {
	return func(c *config) { c.metrics = m }
}

// Run walks arr depth-first, invoking cb for each leaf and array boundary
// encountered. It returns the first error any callback returns, wrapped at
// the index path it occurred at.
func Run(arr *cdt.Array, cb Callbacks, opts ...Option) error {
	cfg := config{startPath: nil}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	leaves := 0
	err := runArray(arr, cfg.startPath, cb, &leaves)
	if cfg.metrics != nil {
		cfg.metrics.ObserveTraversal(leaves, time.Since(start))
		if err != nil {
			if kind, ok := ffierr.KindOf(err); ok {
				cfg.metrics.RecordError(string(kind))
			}
		}
	}
	return err
}

// RunTraced is Run with a correlation ID, structured logging, and an
// OpenTelemetry span around the whole traversal — the entry point a real
// host adapter should call; Run itself stays context-free for callers (and
// tests) that don't need one.
func RunTraced(ctx context.Context, arr *cdt.Array, cb Callbacks, opts ...Option) error {
	correlationID := uuid.New().String()
	ctx, span := telemetry.StartTraverseSpan(ctx, int(arr.Len()), correlationID)
	defer span.End()

	logger.Debug("traverse starting", "correlation_id", correlationID, "root_len", arr.Len())

	if err := Run(arr, cb, opts...); err != nil {
		telemetry.RecordError(ctx, err)
		logger.Error("traverse failed", "correlation_id", correlationID, "error", err)
		return err
	}

	logger.Debug("traverse completed", "correlation_id", correlationID)
	return nil
}

func runArray(arr *cdt.Array, parentPath []uint64, cb Callbacks, leaves *int) error {
	if arr == nil {
		return nil
	}
	if cb.OnArray != nil {
		common := commonElementType(arr)
		recurse, err := cb.OnArray(parentPath, arr, arr.FixedDimensions, common)
		if err != nil {
			return wrapPath(err, parentPath)
		}
		if !recurse {
			return nil
		}
	}

	for i := range arr.Elements {
		path := append(append([]uint64(nil), parentPath...), uint64(i))
		if err := runValue(&arr.Elements[i], path, cb, leaves); err != nil {
			return err
		}
	}
	return nil
}

func runValue(v *cdt.Value, path []uint64, cb Callbacks, leaves *int) error {
	if v.Tag.IsArray() {
		sub, err := v.AsArray()
		if err != nil {
			return wrapPath(err, path)
		}
		return runArray(sub, path, cb, leaves)
	}

	*leaves++

	var err error
	switch v.Tag {
	case primitive.Float64:
		err = callOr(cb.OnFloat64 != nil, func() error { val, e := v.AsFloat64(); if e != nil { return e }; return cb.OnFloat64(path, val) }, v, "on_float64")
	case primitive.Float32:
		err = callOr(cb.OnFloat32 != nil, func() error { val, e := v.AsFloat32(); if e != nil { return e }; return cb.OnFloat32(path, val) }, v, "on_float32")
	case primitive.Int8:
		err = callOr(cb.OnInt8 != nil, func() error { val, e := v.AsInt8(); if e != nil { return e }; return cb.OnInt8(path, val) }, v, "on_int8")
	case primitive.Int16:
		err = callOr(cb.OnInt16 != nil, func() error { val, e := v.AsInt16(); if e != nil { return e }; return cb.OnInt16(path, val) }, v, "on_int16")
	case primitive.Int32:
		err = callOr(cb.OnInt32 != nil, func() error { val, e := v.AsInt32(); if e != nil { return e }; return cb.OnInt32(path, val) }, v, "on_int32")
	case primitive.Int64:
		err = callOr(cb.OnInt64 != nil, func() error { val, e := v.AsInt64(); if e != nil { return e }; return cb.OnInt64(path, val) }, v, "on_int64")
	case primitive.Uint8:
		err = callOr(cb.OnUint8 != nil, func() error { val, e := v.AsUint8(); if e != nil { return e }; return cb.OnUint8(path, val) }, v, "on_uint8")
	case primitive.Uint16:
		err = callOr(cb.OnUint16 != nil, func() error { val, e := v.AsUint16(); if e != nil { return e }; return cb.OnUint16(path, val) }, v, "on_uint16")
	case primitive.Uint32:
		err = callOr(cb.OnUint32 != nil, func() error { val, e := v.AsUint32(); if e != nil { return e }; return cb.OnUint32(path, val) }, v, "on_uint32")
	case primitive.Uint64:
		err = callOr(cb.OnUint64 != nil, func() error { val, e := v.AsUint64(); if e != nil { return e }; return cb.OnUint64(path, val) }, v, "on_uint64")
	case primitive.Bool:
		err = callOr(cb.OnBool != nil, func() error { val, e := v.AsBool(); if e != nil { return e }; return cb.OnBool(path, val) }, v, "on_bool")
	case primitive.Size:
		err = callOr(cb.OnSize != nil, func() error { val, e := v.AsSize(); if e != nil { return e }; return cb.OnSize(path, val) }, v, "on_size")
	case primitive.Char8:
		err = callOr(cb.OnChar8 != nil, func() error { val, e := v.AsChar8(); if e != nil { return e }; return cb.OnChar8(path, val) }, v, "on_char8")
	case primitive.Char16:
		err = callOr(cb.OnChar16 != nil, func() error { val, e := v.AsChar16(); if e != nil { return e }; return cb.OnChar16(path, val) }, v, "on_char16")
	case primitive.Char32:
		err = callOr(cb.OnChar32 != nil, func() error { val, e := v.AsChar32(); if e != nil { return e }; return cb.OnChar32(path, val) }, v, "on_char32")
	case primitive.String8:
		err = callOr(cb.OnString8 != nil, func() error { val, e := v.AsString(); if e != nil { return e }; return cb.OnString8(path, val) }, v, "on_string8")
	case primitive.String16:
		err = callOr(cb.OnString16 != nil, func() error { val, e := v.AsString(); if e != nil { return e }; return cb.OnString16(path, val) }, v, "on_string16")
	case primitive.String32:
		err = callOr(cb.OnString32 != nil, func() error { val, e := v.AsString(); if e != nil { return e }; return cb.OnString32(path, val) }, v, "on_string32")
	case primitive.Handle:
		err = callOr(cb.OnHandle != nil, func() error { val, e := v.AsHandle(); if e != nil { return e }; return cb.OnHandle(path, val) }, v, "on_handle")
	case primitive.Callable:
		err = callOr(cb.OnCallable != nil, func() error { val, e := v.AsCallable(); if e != nil { return e }; return cb.OnCallable(path, val) }, v, "on_callable")
	case primitive.Null:
		if cb.OnNull == nil {
			err = ffierr.New(ffierr.InvalidType, "null encountered but no on_null callback registered")
		} else {
			err = cb.OnNull(path)
		}
	case primitive.Any:
		err = ffierr.New(ffierr.InvalidType, "any must be resolved to a concrete tag before traversal reaches a leaf")
	default:
		err = ffierr.Newf(ffierr.UnknownTag, "unrecognized leaf tag 0x%x", uint64(v.Tag))
	}
	if err != nil {
		return wrapPath(err, path)
	}
	return nil
}

func callOr(has bool, fn func() error, v *cdt.Value, name string) error {
	if !has {
		return ffierr.Newf(ffierr.InvalidType, "tag %s encountered but no %s callback registered", v.Tag, name)
	}
	return fn()
}

func commonElementType(arr *cdt.Array) primitive.Tag {
	if arr == nil || len(arr.Elements) == 0 {
		return 0
	}
	first := arr.Elements[0].Tag
	for _, e := range arr.Elements[1:] {
		if e.Tag != first {
			return 0
		}
	}
	return first
}

func wrapPath(err error, path []uint64) error {
	var fe *ffierr.Error
	if e, ok := err.(*ffierr.Error); ok {
		fe = e
	} else {
		fe = ffierr.Wrap(ffierr.ForeignError, err, err.Error())
	}
	if len(fe.Path) == 0 {
		return fe.AtPath(path)
	}
	return fe
}
