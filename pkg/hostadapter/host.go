// Package hostadapter specifies the narrow surface a host-language binding
// (e.g. a JVM adapter) must implement to plug into this engine, and ships
// one in-memory reference implementation standing in for that binding in
// tests and the CLI. A real JVM/Python/etc. adapter is explicitly out of
// scope (spec.md §1 Non-goals); this package only pins the interface such a
// binding would implement.
package hostadapter

import (
	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/runtimeid"
)

// Host is what a foreign-language binding implements to participate in
// representation switching (spec.md §4.5): boxing a primitive into that
// runtime's native object representation and unboxing it back.
type Host interface {
	// RuntimeID identifies this host for Handle.RuntimeID and the
	// is-local-runtime policy in pkg/runtimeid.
	RuntimeID() runtimeid.ID

	// Box converts a primitive/string Value into this host's native object
	// representation, returning the opaque raw reference and the function
	// that releases it.
	Box(v cdt.Value) (raw any, release cdt.ReleaseFunc, err error)

	// Unbox converts a previously boxed raw reference back into a
	// primitive/string Value.
	Unbox(raw any) (cdt.Value, error)
}

// MemoryHost is the reference Host: boxing stores the Value itself as the
// "foreign" object (there is no real foreign runtime to cross into), and
// releasing is a no-op. It exists so tests and the CLI can exercise
// SwitchToObject/SwitchToPrimitive and the handle protocol without a real
// foreign binding.
type MemoryHost struct {
	id runtimeid.ID
}

// NewMemoryHost returns a MemoryHost identified by id.
func NewMemoryHost(id runtimeid.ID) *MemoryHost {
	return &MemoryHost{id: id}
}

func (h *MemoryHost) RuntimeID() runtimeid.ID { return h.id }

func (h *MemoryHost) Box(v cdt.Value) (any, cdt.ReleaseFunc, error) {
	boxed := v
	return &boxed, func(any) error { return nil }, nil
}

func (h *MemoryHost) Unbox(raw any) (cdt.Value, error) {
	v, ok := raw.(*cdt.Value)
	if !ok {
		return cdt.Value{}, unboxTypeError(raw)
	}
	return *v, nil
}
