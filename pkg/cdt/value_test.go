package cdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
)

func TestScalarRoundTrip(t *testing.T) {
	v := Int32Value(42)
	assert.Equal(t, primitive.Int32, v.Tag)
	got, err := v.AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(42), got)
}

func TestScalarWrongAccessorIsTypeMismatch(t *testing.T) {
	v := Int32Value(42)
	_, err := v.AsFloat64()
	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.TypeMismatch, kind)
}

func TestStringValueAnyWidth(t *testing.T) {
	for _, v := range []Value{String8Value("hi"), String16Value("hi"), String32Value("hi")} {
		got, err := v.AsString()
		require.NoError(t, err)
		assert.Equal(t, "hi", got)
	}
}

func TestNullValue(t *testing.T) {
	v := Null()
	assert.True(t, v.IsNull())
	assert.Equal(t, primitive.Null, v.Tag)
}

func TestArrayValueAndDestroy(t *testing.T) {
	arr := NewArray(2, 1)
	arr.Elements[0] = Int32Value(1)
	arr.Elements[1] = Int32Value(2)
	v := ArrayValue(primitive.Int32, arr)

	assert.True(t, v.Tag.IsArray())
	got, err := v.AsArray()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Len())

	require.NoError(t, v.Destroy())
	assert.False(t, v.FreeRequired)
	assert.Nil(t, arr.Elements)

	// Idempotent: a second Destroy must not panic or re-release.
	require.NoError(t, v.Destroy())
}

func TestHandleValueReleaseOnce(t *testing.T) {
	calls := 0
	h := NewHandle("raw", 1, func(any) error {
		calls++
		return nil
	})
	v := HandleValue(h)
	assert.True(t, v.FreeRequired)

	require.NoError(t, v.Destroy())
	require.NoError(t, v.Destroy())
	assert.Equal(t, 1, calls)
}

func TestHandleForTransportNullsReleaser(t *testing.T) {
	calls := 0
	h := NewHandle("raw", 1, func(any) error {
		calls++
		return nil
	})
	copy := h.ForTransport()
	assert.False(t, copy.HasReleaser())
	assert.True(t, h.HasReleaser())

	require.NoError(t, copy.Release())
	assert.Equal(t, 0, calls)

	require.NoError(t, h.Release())
	assert.Equal(t, 1, calls)
}

func TestCallableValueFree(t *testing.T) {
	freed := 0
	c := &Callable{
		Context:   freeableStub{onFree: func() { freed++ }},
		RuntimeID: 1,
	}
	v := CallableValue(c)
	require.NoError(t, v.Destroy())
	require.NoError(t, v.Destroy())
	assert.Equal(t, 1, freed)
}

type freeableStub struct {
	onFree func()
}

func (f freeableStub) Free() { f.onFree() }
