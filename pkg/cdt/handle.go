package cdt

import (
	"sync/atomic"

	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
)

// ReleaseFunc releases the foreign resource behind a Handle's raw pointer.
// Called at most once per Handle: a second Release returns
// ffierr.HandleProtocolViolation instead of invoking this function again.
type ReleaseFunc func(raw any) error

// Handle is the (raw_handle, runtime_id, release_fn) triple spec.md §3.3
// defines: an opaque foreign-owned object plus the runtime that owns it and
// the function that frees it.
//
// A Handle has exactly one owner at a time. Copying a Handle for transport
// (e.g. to hand to a second foreign call without granting ownership) must go
// through ForTransport, which nulls the releaser on the copy so only the
// original can ever release the underlying resource.
type Handle struct {
	// Raw is the opaque foreign pointer/reference. This package never
	// dereferences it; only the owning runtime's release function and the
	// foreign code that produced it understand its shape.
	Raw any

	// RuntimeID identifies which runtime created Raw (spec.md §6.4). It is
	// load-bearing for the wrapping policy invoked when a Handle crosses
	// into a different runtime than the one that created it.
	RuntimeID uint64

	release  ReleaseFunc
	released int32
}

// NewHandle constructs a Handle that owns release (may be nil for
// foreign-owned handles this runtime never frees).
func NewHandle(raw any, runtimeID uint64, release ReleaseFunc) *Handle {
	return &Handle{Raw: raw, RuntimeID: runtimeID, release: release}
}

// Release invokes the release function exactly once. A nil Handle is a
// no-op (there is nothing to release). A second call on the same Handle is
// the double-release protocol violation spec.md §4.6 describes: it is
// reported as ffierr.HandleProtocolViolation rather than silently
// succeeding or re-invoking the release function, since the resource may
// already be gone by the time a second caller asks to free it. Value.Destroy
// and Array.Destroy avoid triggering this in the ordinary case (each owning
// Value only destroys its Handle once, via FreeRequired), so it only fires
// when a Handle genuinely outlives its single release — e.g. two Values
// that alias the same *Handle both being destroyed.
func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&h.released, 0, 1) {
		return ffierr.New(ffierr.HandleProtocolViolation, "handle released more than once")
	}
	if h.release == nil {
		return nil
	}
	fn := h.release
	h.release = nil
	if err := fn(h.Raw); err != nil {
		return ffierr.Wrap(ffierr.ForeignError, err, "handle release failed")
	}
	return nil
}

// ForTransport returns a copy of h suitable for passing onward (e.g. as an
// argument to a second xcall) without transferring ownership: the copy's
// releaser is nulled, so only h itself can ever release the resource.
func (h *Handle) ForTransport() *Handle {
	if h == nil {
		return nil
	}
	return &Handle{Raw: h.Raw, RuntimeID: h.RuntimeID}
}

// HasReleaser reports whether this Handle (as opposed to a ForTransport
// copy) owns a non-nil release function.
func (h *Handle) HasReleaser() bool {
	return h != nil && h.release != nil
}
