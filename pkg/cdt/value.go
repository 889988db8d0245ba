package cdt

import (
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

// Value is one cdt: a tagged union over every primitive tag primitive.Tag
// defines, plus Handle, Callable, and Array (array-of-cdt). Exactly one
// accessor matching Tag is meaningful; calling the wrong one returns a
// *ffierr.Error of kind TypeMismatch.
//
// Go has no native tagged union, so Value stores its payload in data as the
// one concrete Go type that tag implies, rather than as twenty-odd typed
// struct fields the original union declares. The accessor methods recover
// the compile-time type.
type Value struct {
	Tag  primitive.Tag
	data any

	// FreeRequired mirrors the original cdt::free_required bit: whether
	// this value owns a resource (a Handle's release function, a
	// Callable's context, or an Array's element storage) that must be
	// released exactly once. Plain numeric/bool/char values never set it;
	// Go's GC already reclaims their storage. A string value carries it when
	// the construct Source reported the string as source-allocated; Destroy
	// then only clears the flag, as Go's GC reclaims the string itself.
	FreeRequired bool
}

// Null returns the null-tagged value.
func Null() Value {
	return Value{Tag: primitive.Null}
}

func newScalar(tag primitive.Tag, v any) Value {
	return Value{Tag: tag, data: v}
}

// Constructors for each primitive tag, mirroring cdt.h's per-primitive
// explicit constructors.

func Float64Value(v float64) Value { return newScalar(primitive.Float64, v) }
func Float32Value(v float32) Value { return newScalar(primitive.Float32, v) }
func Int8Value(v int8) Value       { return newScalar(primitive.Int8, v) }
func Int16Value(v int16) Value     { return newScalar(primitive.Int16, v) }
func Int32Value(v int32) Value     { return newScalar(primitive.Int32, v) }
func Int64Value(v int64) Value     { return newScalar(primitive.Int64, v) }
func Uint8Value(v uint8) Value     { return newScalar(primitive.Uint8, v) }
func Uint16Value(v uint16) Value   { return newScalar(primitive.Uint16, v) }
func Uint32Value(v uint32) Value   { return newScalar(primitive.Uint32, v) }
func Uint64Value(v uint64) Value   { return newScalar(primitive.Uint64, v) }
func BoolValue(v bool) Value       { return newScalar(primitive.Bool, v) }
func SizeValue(v uint64) Value     { return newScalar(primitive.Size, v) }
// Char8Value holds a single UTF-8 character as its decoded code point
// (spec.md §3.1: a metaffi_char8 is 1-4 bytes, which a rune always carries
// regardless of the encoded width). Use primitive.EncodeChar8/DecodeChar8 to
// convert to/from the wire byte sequence.
func Char8Value(v rune) Value      { return newScalar(primitive.Char8, v) }
func Char16Value(v uint16) Value   { return newScalar(primitive.Char16, v) }
func Char32Value(v rune) Value     { return newScalar(primitive.Char32, v) }

// String8Value, String16Value, String32Value hold a Go string regardless of
// declared width; the width tag only dictates how a host adapter encodes the
// bytes on its side of the boundary.
func String8Value(v string) Value  { return newScalar(primitive.String8, v) }
func String16Value(v string) Value { return newScalar(primitive.String16, v) }
func String32Value(v string) Value { return newScalar(primitive.String32, v) }

// HandleValue wraps h as a handle-tagged Value. FreeRequired is set because
// releasing h.Release (if non-nil) is this value's responsibility.
func HandleValue(h *Handle) Value {
	return Value{Tag: primitive.Handle, data: h, FreeRequired: h != nil && h.release != nil}
}

// CallableValue wraps c as a callable-tagged Value.
func CallableValue(c *Callable) Value {
	return Value{Tag: primitive.Callable, data: c, FreeRequired: c != nil}
}

// ArrayValue wraps arr as an array-tagged Value. elemTag is the element
// primitive tag (e.g. primitive.Int32 for a metaffi_int32_array_type value);
// Tag is set to elemTag.OfArray().
func ArrayValue(elemTag primitive.Tag, arr *Array) Value {
	return Value{Tag: elemTag.OfArray(), data: arr, FreeRequired: arr != nil}
}

func typeMismatch(v Value, want string) error {
	return ffierr.Newf(ffierr.TypeMismatch, "value has tag %s, not %s", v.Tag, want)
}

// AsFloat64 returns the float64 payload, or a TypeMismatch error if Tag is
// not primitive.Float64.
func (v Value) AsFloat64() (float64, error) {
	if v.Tag != primitive.Float64 {
		return 0, typeMismatch(v, "float64")
	}
	return v.data.(float64), nil
}

// AsFloat32 returns the float32 payload.
func (v Value) AsFloat32() (float32, error) {
	if v.Tag != primitive.Float32 {
		return 0, typeMismatch(v, "float32")
	}
	return v.data.(float32), nil
}

// AsInt8 returns the int8 payload.
func (v Value) AsInt8() (int8, error) {
	if v.Tag != primitive.Int8 {
		return 0, typeMismatch(v, "int8")
	}
	return v.data.(int8), nil
}

// AsInt16 returns the int16 payload.
func (v Value) AsInt16() (int16, error) {
	if v.Tag != primitive.Int16 {
		return 0, typeMismatch(v, "int16")
	}
	return v.data.(int16), nil
}

// AsInt32 returns the int32 payload.
func (v Value) AsInt32() (int32, error) {
	if v.Tag != primitive.Int32 {
		return 0, typeMismatch(v, "int32")
	}
	return v.data.(int32), nil
}

// AsInt64 returns the int64 payload.
func (v Value) AsInt64() (int64, error) {
	if v.Tag != primitive.Int64 {
		return 0, typeMismatch(v, "int64")
	}
	return v.data.(int64), nil
}

// AsUint8 returns the uint8 payload.
func (v Value) AsUint8() (uint8, error) {
	if v.Tag != primitive.Uint8 {
		return 0, typeMismatch(v, "uint8")
	}
	return v.data.(uint8), nil
}

// AsUint16 returns the uint16 payload.
func (v Value) AsUint16() (uint16, error) {
	if v.Tag != primitive.Uint16 {
		return 0, typeMismatch(v, "uint16")
	}
	return v.data.(uint16), nil
}

// AsUint32 returns the uint32 payload.
func (v Value) AsUint32() (uint32, error) {
	if v.Tag != primitive.Uint32 {
		return 0, typeMismatch(v, "uint32")
	}
	return v.data.(uint32), nil
}

// AsUint64 returns the uint64 payload.
func (v Value) AsUint64() (uint64, error) {
	if v.Tag != primitive.Uint64 {
		return 0, typeMismatch(v, "uint64")
	}
	return v.data.(uint64), nil
}

// AsBool returns the bool payload.
func (v Value) AsBool() (bool, error) {
	if v.Tag != primitive.Bool {
		return false, typeMismatch(v, "bool")
	}
	return v.data.(bool), nil
}

// AsSize returns the metaffi_size payload.
func (v Value) AsSize() (uint64, error) {
	if v.Tag != primitive.Size {
		return 0, typeMismatch(v, "size")
	}
	return v.data.(uint64), nil
}

// AsChar8 returns the char8 payload as its decoded code point.
func (v Value) AsChar8() (rune, error) {
	if v.Tag != primitive.Char8 {
		return 0, typeMismatch(v, "char8")
	}
	return v.data.(rune), nil
}

// AsChar16 returns the char16 payload.
func (v Value) AsChar16() (uint16, error) {
	if v.Tag != primitive.Char16 {
		return 0, typeMismatch(v, "char16")
	}
	return v.data.(uint16), nil
}

// AsChar32 returns the char32 payload.
func (v Value) AsChar32() (rune, error) {
	if v.Tag != primitive.Char32 {
		return 0, typeMismatch(v, "char32")
	}
	return v.data.(rune), nil
}

// AsString returns the string payload, valid for any of String8, String16,
// or String32.
func (v Value) AsString() (string, error) {
	switch v.Tag {
	case primitive.String8, primitive.String16, primitive.String32:
		return v.data.(string), nil
	default:
		return "", typeMismatch(v, "string8/16/32")
	}
}

// AsHandle returns the Handle payload.
func (v Value) AsHandle() (*Handle, error) {
	if v.Tag != primitive.Handle {
		return nil, typeMismatch(v, "handle")
	}
	return v.data.(*Handle), nil
}

// AsCallable returns the Callable payload.
func (v Value) AsCallable() (*Callable, error) {
	if v.Tag != primitive.Callable {
		return nil, typeMismatch(v, "callable")
	}
	return v.data.(*Callable), nil
}

// AsArray returns the Array payload for an array-tagged Value.
func (v Value) AsArray() (*Array, error) {
	if !v.Tag.IsArray() {
		return nil, typeMismatch(v, "array")
	}
	return v.data.(*Array), nil
}

// IsNull reports whether Tag is primitive.Null.
func (v Value) IsNull() bool {
	return v.Tag == primitive.Null
}

// Destroy releases any resource v owns: a Handle's release function, a
// Callable's context, or an Array's elements (recursively). It is
// idempotent — destroying twice is a no-op, not a crash, consistent with
// ffierr.HandleProtocolViolation being reported rather than fatal.
func (v *Value) Destroy() error {
	if !v.FreeRequired {
		return nil
	}
	v.FreeRequired = false

	switch {
	case v.Tag == primitive.Handle:
		if h, ok := v.data.(*Handle); ok {
			return h.Release()
		}
	case v.Tag == primitive.Callable:
		if c, ok := v.data.(*Callable); ok {
			c.Free()
		}
	case v.Tag.IsArray():
		if arr, ok := v.data.(*Array); ok {
			return arr.Destroy()
		}
	}
	return nil
}
