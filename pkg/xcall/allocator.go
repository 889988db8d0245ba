package xcall

import "github.com/MetaFFI/plugin-sdk/pkg/ffierr"

// ErrOut formats err as the nul-terminated error string the err_out
// double-pointer convention carries (spec.md §6.3): the callee (this
// process) allocates the message via alloc, the caller is responsible for
// freeing it with the matching free hook once it has copied or logged the
// text.
//
// A nil err produces a nil ptr and no allocation, matching "no error" being
// representable as a nil err_out rather than an empty string.
func ErrOut(err error, alloc Allocator) (ptr any, allocErr error) {
	if err == nil {
		return nil, nil
	}
	ptr, allocErr = alloc.AllocString(err.Error())
	if allocErr != nil {
		return nil, ffierr.Wrap(ffierr.OutOfMemory, allocErr, "failed to allocate err_out message")
	}
	return ptr, nil
}

// GoAllocator is the trivial in-process Allocator: strings live on the Go
// heap and FreeString is a no-op, since nothing outside the garbage
// collector needs to reclaim them. Host adapters that hand raw pointers to
// a foreign runtime (e.g. across cgo) supply their own Allocator instead.
type GoAllocator struct{}

func (GoAllocator) AllocString(s string) (any, error) { return s, nil }
func (GoAllocator) FreeString(any) error               { return nil }
