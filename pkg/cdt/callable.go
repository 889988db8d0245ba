package cdt

import (
	"sync/atomic"

	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// Callable is the cdt_metaffi_callable payload: an opaque reference to a
// foreign function plus the dispatcher that knows how to invoke it. The
// actual ABI-shape dispatch (spec.md §6.2, C5) lives in pkg/xcall; Callable
// only carries what a Value needs to hold a reference to one.
type Callable struct {
	// Context is the opaque foreign function context (closure environment,
	// vtable pointer, JNI method ID — whatever the producing runtime needs
	// to invoke itself later). Never interpreted by this package.
	Context any

	// RuntimeID identifies the runtime that produced this Callable.
	RuntimeID uint64

	// ParamTypes and ReturnTypes are the callable's declared signature
	// (spec.md §3.4): their lengths, not any one call's actual params/returns
	// array, are what determine which of the four ABI shapes a dispatch uses
	// (spec.md §6.2) — a callable declared with no return type never produces
	// one, regardless of what a given call happens to pass.
	ParamTypes  []primitive.Tag
	ReturnTypes []primitive.Tag

	// Invoke performs one xcall dispatch: params may be nil (no-params
	// shape) and the returned Array may be nil (no-return shape). The four
	// ABI shapes spec.md §6.2 enumerates collapse to this one signature —
	// a nil params/returns Array is how "absent" is represented.
	Invoke func(params *Array) (returns *Array, err error)

	freed int32
}

// Free releases Callable.Context via whatever mechanism the producing
// runtime associated with it at construction time. Idempotent.
func (c *Callable) Free() {
	if c == nil {
		return
	}
	if !atomic.CompareAndSwapInt32(&c.freed, 0, 1) {
		return
	}
	if freer, ok := c.Context.(interface{ Free() }); ok {
		freer.Free()
	}
}
