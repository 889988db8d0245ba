package primitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagBitValues(t *testing.T) {
	// These values are load-bearing wire constants, not internal choices;
	// pin each one explicitly so a future edit to this file can't drift.
	cases := map[Tag]uint64{
		Float64:  1,
		Float32:  2,
		Int8:     4,
		Int16:    8,
		Int32:    16,
		Int64:    32,
		Uint8:    64,
		Uint16:   128,
		Uint32:   256,
		Uint64:   512,
		Bool:     1024,
		String8:  4096,
		String16: 8192,
		String32: 16384,
		Handle:   32768,
		Array:    65536,
		Size:     262144,
		Char8:    524288,
		Char16:   1048576,
		Char32:   2097152,
		Any:      4194304,
		Null:     8388608,
		Callable: 16777216,
	}
	for tag, want := range cases {
		assert.Equal(t, want, uint64(tag), "tag %s", tag)
	}
}

func TestArrayComposition(t *testing.T) {
	arr := Int32.OfArray()
	assert.True(t, arr.IsArray())
	assert.Equal(t, Int32, arr.Elem())
	assert.Equal(t, uint64(Int32)|uint64(Array), uint64(arr))
}

func TestElemOnNonArrayIsNoop(t *testing.T) {
	assert.Equal(t, Int32, Int32.Elem())
	assert.False(t, Int32.IsArray())
}

func TestStringName(t *testing.T) {
	assert.Equal(t, "int32", Int32.String())
	assert.Equal(t, "int32_array", Int32.OfArray().String())
	assert.Equal(t, "handle", Handle.String())
	assert.Equal(t, "handle_array", Handle.OfArray().String())
}

func TestIsFixedWidth(t *testing.T) {
	assert.True(t, Int64.IsFixedWidth())
	assert.True(t, Bool.IsFixedWidth())
	assert.False(t, String8.IsFixedWidth())
	assert.True(t, Handle.IsFixedWidth())
	assert.False(t, Any.IsFixedWidth())
	assert.False(t, Null.IsFixedWidth())
	assert.False(t, Callable.IsFixedWidth())
	assert.False(t, Array.IsFixedWidth())
}

func TestElemByteSize(t *testing.T) {
	size, ok := Int64.ElemByteSize()
	require.True(t, ok)
	assert.Equal(t, 8, size)

	size, ok = Int8.ElemByteSize()
	require.True(t, ok)
	assert.Equal(t, 1, size)

	size, ok = Handle.ElemByteSize()
	require.True(t, ok)
	assert.Equal(t, 8, size)

	_, ok = String8.ElemByteSize()
	assert.False(t, ok)
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(Int32))
	assert.True(t, Known(Int32.OfArray()))
	assert.False(t, Known(Tag(0)))
}

func TestStringRoundTrip16(t *testing.T) {
	s := "hello, world"
	units := EncodeString16(s)
	assert.Equal(t, s, DecodeString16(units))
}

func TestStringRoundTrip32(t *testing.T) {
	s := "hello, world"
	runes := EncodeString32(s)
	assert.Equal(t, s, DecodeString32(runes))
}

func TestStringRoundTripNonASCII(t *testing.T) {
	s := "héllo wörld 日本語"
	assert.Equal(t, s, DecodeString16(EncodeString16(s)))
	assert.Equal(t, s, DecodeString32(EncodeString32(s)))
}
