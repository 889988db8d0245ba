package commands

import (
	"fmt"

	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// describeValue renders a cdt.Value for table output. It never returns an
// error: a mismatch here means the Value's own Tag lied about its data,
// which callers treat as "shouldn't happen" rather than a CLI-level concern.
func describeValue(v cdt.Value) string {
	if v.IsNull() {
		return "null"
	}

	switch {
	case v.Tag.IsArray():
		arr, err := v.AsArray()
		if err != nil {
			return fmt.Sprintf("<bad array: %v>", err)
		}
		return fmt.Sprintf("<array len=%d>", arr.Len())
	case v.Tag == primitive.Handle:
		h, err := v.AsHandle()
		if err != nil {
			return fmt.Sprintf("<bad handle: %v>", err)
		}
		return fmt.Sprintf("<handle runtime=%d>", h.RuntimeID)
	case v.Tag == primitive.Callable:
		return "<callable>"
	case v.Tag == primitive.String8, v.Tag == primitive.String16, v.Tag == primitive.String32:
		s, err := v.AsString()
		if err != nil {
			return fmt.Sprintf("<bad string: %v>", err)
		}
		return s
	default:
		return describeScalar(v)
	}
}

func describeScalar(v cdt.Value) string {
	switch v.Tag {
	case primitive.Float64:
		f, _ := v.AsFloat64()
		return fmt.Sprintf("%g", f)
	case primitive.Float32:
		f, _ := v.AsFloat32()
		return fmt.Sprintf("%g", f)
	case primitive.Int8:
		n, _ := v.AsInt8()
		return fmt.Sprintf("%d", n)
	case primitive.Int16:
		n, _ := v.AsInt16()
		return fmt.Sprintf("%d", n)
	case primitive.Int32:
		n, _ := v.AsInt32()
		return fmt.Sprintf("%d", n)
	case primitive.Int64:
		n, _ := v.AsInt64()
		return fmt.Sprintf("%d", n)
	case primitive.Uint8:
		n, _ := v.AsUint8()
		return fmt.Sprintf("%d", n)
	case primitive.Uint16:
		n, _ := v.AsUint16()
		return fmt.Sprintf("%d", n)
	case primitive.Uint32:
		n, _ := v.AsUint32()
		return fmt.Sprintf("%d", n)
	case primitive.Uint64:
		n, _ := v.AsUint64()
		return fmt.Sprintf("%d", n)
	case primitive.Bool:
		b, _ := v.AsBool()
		return fmt.Sprintf("%t", b)
	case primitive.Size:
		n, _ := v.AsSize()
		return fmt.Sprintf("%d", n)
	case primitive.Char8:
		c, _ := v.AsChar8()
		return fmt.Sprintf("%c", c)
	case primitive.Char16:
		c, _ := v.AsChar16()
		return fmt.Sprintf("%c", c)
	case primitive.Char32:
		c, _ := v.AsChar32()
		return fmt.Sprintf("%c", c)
	default:
		return "<unknown>"
	}
}
