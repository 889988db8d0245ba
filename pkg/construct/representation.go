package construct

import (
	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// SwitchToObject boxes a primitive-tagged Value into a handle-tagged Value
// (spec.md §4.5): the position-local operation a host adapter uses when a
// foreign call site expects an object representation (e.g. a boxed
// java.lang.Integer) rather than the raw primitive. box is the function
// that performs the actual boxing for v's tag into some foreign-owned
// object; its return becomes the new Handle's Raw.
//
// SwitchToObject never recurses into array elements — it operates on
// exactly the Value passed in, matching the original's non-recursive
// contract for representation switches.
func SwitchToObject(v cdt.Value, box func(cdt.Value) (raw any, release cdt.ReleaseFunc, err error), runtimeID uint64) (cdt.Value, error) {
	if v.Tag == primitive.Handle {
		return v, nil
	}
	raw, release, err := box(v)
	if err != nil {
		return cdt.Value{}, ffierr.Wrap(ffierr.ForeignError, err, "switch-to-object boxing failed")
	}
	return cdt.HandleValue(cdt.NewHandle(raw, runtimeID, release)), nil
}

// SwitchToPrimitive unboxes a handle-tagged Value back into a primitive or
// string Value (spec.md §4.5): the dual of SwitchToObject, used when a
// foreign call site produced an object representation but the caller needs
// the primitive underneath (e.g. unwrapping a java.lang.Integer back to
// int32). unbox performs the actual unboxing, given the handle's raw
// pointer, and reports which tag it produced.
func SwitchToPrimitive(v cdt.Value, unbox func(raw any) (cdt.Value, error)) (cdt.Value, error) {
	if v.Tag != primitive.Handle {
		return v, nil
	}
	h, err := v.AsHandle()
	if err != nil {
		return cdt.Value{}, err
	}
	out, err := unbox(h.Raw)
	if err != nil {
		return cdt.Value{}, ffierr.Wrap(ffierr.ForeignError, err, "switch-to-primitive unboxing failed")
	}
	if out.Tag.IsArray() || out.Tag == primitive.Handle || out.Tag == primitive.Callable {
		return cdt.Value{}, ffierr.Newf(ffierr.TypeMismatch, "unbox produced non-primitive tag %s", out.Tag)
	}
	if err := h.Release(); err != nil {
		return cdt.Value{}, ffierr.Wrap(ffierr.ForeignError, err, "switch-to-primitive release failed")
	}
	return out, nil
}
