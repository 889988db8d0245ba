package hostadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/construct"
	"github.com/MetaFFI/plugin-sdk/pkg/runtimeid"
)

func TestMemoryHostBoxUnbox(t *testing.T) {
	h := NewMemoryHost(runtimeid.Host)
	v := cdt.Int32Value(5)

	raw, release, err := h.Box(v)
	require.NoError(t, err)
	require.NoError(t, release(raw))

	back, err := h.Unbox(raw)
	require.NoError(t, err)
	got, err := back.AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(5), got)
}

func TestMemoryHostUnboxRejectsForeignRaw(t *testing.T) {
	h := NewMemoryHost(runtimeid.Host)
	_, err := h.Unbox("not a boxed value")
	require.Error(t, err)
}

func TestNativeSourceFlatIntArray(t *testing.T) {
	src := NewNativeSource([]any{int32(1), int32(2), int32(3)})
	arr, err := construct.Build(src)
	require.NoError(t, err)
	require.Equal(t, uint64(3), arr.Len())
	for i, want := range []int32{1, 2, 3} {
		got, err := arr.Elements[i].AsInt32()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNativeSourceRaggedArray(t *testing.T) {
	src := NewNativeSource([]any{
		[]any{int32(1)},
		[]any{int32(2), int32(3)},
	})
	arr, err := construct.Build(src)
	require.NoError(t, err)
	require.Equal(t, uint64(2), arr.Len())

	row0, err := arr.Elements[0].AsArray()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), row0.Len())

	row1, err := arr.Elements[1].AsArray()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), row1.Len())
}

func TestNativeSourceStrings(t *testing.T) {
	src := NewNativeSource([]any{"hello", "world"})
	arr, err := construct.Build(src)
	require.NoError(t, err)
	got0, err := arr.Elements[0].AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", got0)
}
