// Package integration runs the CDTS engine end to end: construct, traverse,
// and xcall wired together over a single tree, rather than exercised in
// isolation per package.
package integration

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetaFFI/plugin-sdk/pkg/cdt"
	"github.com/MetaFFI/plugin-sdk/pkg/construct"
	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/MetaFFI/plugin-sdk/pkg/hostadapter"
	"github.com/MetaFFI/plugin-sdk/pkg/primitive"
	"github.com/MetaFFI/plugin-sdk/pkg/traverse"
	"github.com/MetaFFI/plugin-sdk/pkg/xcall"
)

// TestIntegerEcho covers S1: a length-1 array holding int64 = -7.
func TestIntegerEcho(t *testing.T) {
	arr, err := construct.Build(hostadapter.NewNativeSource([]any{int64(-7)}))
	require.NoError(t, err)
	require.Equal(t, uint64(1), arr.Len())

	var got int64
	var calls int
	err = traverse.Run(arr, traverse.Callbacks{
		OnInt64: func(path []uint64, v int64) error {
			calls++
			require.Equal(t, []uint64{0}, path)
			got = v
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(-7), got)
}

// TestTwoElementStringArray covers S2: a two-string root array.
func TestTwoElementStringArray(t *testing.T) {
	arr, err := construct.Build(hostadapter.NewNativeSource([]any{"hello", "world"}))
	require.NoError(t, err)

	var got []string
	err = traverse.Run(arr, traverse.Callbacks{
		OnString8: func(path []uint64, v string) error {
			got = append(got, v)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, got)
}

// TestRaggedTwoDimensionalArray covers S3: an outer array of three
// sub-arrays of lengths 1, 3, 4, rectangular in depth (fixed_dimensions=2)
// though ragged in width.
func TestRaggedTwoDimensionalArray(t *testing.T) {
	tree := []any{
		[]any{
			[]any{int32(1)},
			[]any{int32(2), int32(3), int32(4)},
			[]any{int32(5), int32(6), int32(7), int32(8)},
		},
	}
	arr, err := construct.Build(hostadapter.NewNativeSource(tree))
	require.NoError(t, err)

	var arrayPaths [][]uint64
	var leaves []int32
	var leafPaths [][]uint64

	err = traverse.Run(arr, traverse.Callbacks{
		OnInt32: func(path []uint64, v int32) error {
			leaves = append(leaves, v)
			leafPaths = append(leafPaths, append([]uint64(nil), path...))
			return nil
		},
		OnArray: func(path []uint64, val *cdt.Array, fixedDimensions int64, commonType primitive.Tag) (bool, error) {
			arrayPaths = append(arrayPaths, append([]uint64(nil), path...))
			return true, nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6, 7, 8}, leaves)
	assert.Equal(t, [][]uint64{
		{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 1, 2}, {0, 2, 0}, {0, 2, 1}, {0, 2, 2}, {0, 2, 3},
	}, leafPaths)

	// Root, outer array at [0], and the three sub-arrays at [0,0] [0,1] [0,2].
	require.Len(t, arrayPaths, 5)
	assert.Contains(t, arrayPaths, []uint64{0})
	assert.Contains(t, arrayPaths, []uint64{0, 0})
	assert.Contains(t, arrayPaths, []uint64{0, 1})
	assert.Contains(t, arrayPaths, []uint64{0, 2})
}

// TestHandleRoundTrip covers S4: a handle built by one runtime, observed by
// a second runtime with a different ID, releasing exactly once.
func TestHandleRoundTrip(t *testing.T) {
	const (
		runtimeA = uint64(0xA)
		runtimeB = uint64(0xB)
	)

	releaseCalls := 0
	release := func(raw any) error {
		releaseCalls++
		return nil
	}

	h := cdt.NewHandle(uintptr(0xABCD), runtimeA, release)
	arr, err := construct.Build(hostadapter.NewNativeSource([]any{h}))
	require.NoError(t, err)

	var seen *cdt.Handle
	err = traverse.Run(arr, traverse.Callbacks{
		OnHandle: func(path []uint64, v *cdt.Handle) error {
			seen = v
			return nil
		},
	})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, uintptr(0xABCD), seen.Raw)
	assert.Equal(t, runtimeA, seen.RuntimeID)

	// Runtime B observes a foreign RuntimeID and only ever holds a transport
	// copy: it cannot release the original resource itself.
	require.NotEqual(t, runtimeB, seen.RuntimeID)
	mirror := seen.ForTransport()
	assert.False(t, mirror.HasReleaser())

	require.NoError(t, seen.Release())
	assert.Equal(t, 1, releaseCalls)

	// A second release (e.g. from a double-destroy on B's mirrored wrapper)
	// is reported as a protocol violation, not a second invocation of the
	// release function.
	err = seen.Release()
	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.HandleProtocolViolation, kind)
	assert.Equal(t, 1, releaseCalls)
}

// fastFloat64Source is a minimal construct.FastSource wrapping a NativeSource
// root element, exercising S5's bulk-copy fast path instead of per-element
// callbacks.
type fastFloat64Source struct {
	*hostadapter.NativeSource
	n uint64
}

func (s *fastFloat64Source) GetRootElementsCount() (uint64, error) { return 1, nil }
func (s *fastFloat64Source) GetTypeInfo(path []uint64) (construct.TypeInfo, error) {
	return construct.TypeInfo{Tag: primitive.Float64.OfArray(), FixedDimensions: 1}, nil
}
func (s *fastFloat64Source) GetArrayMetadata(path []uint64) (construct.ArrayMetadata, error) {
	return construct.ArrayMetadata{Length: s.n, IsFixedDimension: true, Is1DArray: true, CommonType: primitive.Float64}, nil
}
func (s *fastFloat64Source) GetArrayBytes(path []uint64, elemTag primitive.Tag, elemCount uint64) ([]byte, error) {
	buf := make([]byte, elemCount*8)
	for i := uint64(0); i < elemCount; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(float64(i)))
	}
	return buf, nil
}

// TestFastPathArrayTraversesToIdenticalBytes covers S5: a 1024-element f64
// fast array, built via the bulk path and traversed back to the same
// values.
func TestFastPathArrayTraversesToIdenticalBytes(t *testing.T) {
	src := &fastFloat64Source{NativeSource: hostadapter.NewNativeSource(nil), n: 1024}
	arr, err := construct.Build(src)
	require.NoError(t, err)
	require.Equal(t, uint64(1), arr.Len())

	row, err := arr.Elements[0].AsArray()
	require.NoError(t, err)
	require.Equal(t, uint64(1024), row.Len())

	var got []float64
	err = traverse.Run(row, traverse.Callbacks{
		OnFloat64: func(path []uint64, v float64) error {
			got = append(got, v)
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 1024)
	for i, v := range got {
		assert.Equal(t, float64(i), v)
	}
}

// TestAnyLeafIsTraversalError covers S6: a leaf left with tag Any fails
// traversal with a type-kind error and no further callbacks run.
func TestAnyLeafIsTraversalError(t *testing.T) {
	arr := &cdt.Array{Elements: []cdt.Value{
		cdt.Int32Value(1),
		{Tag: primitive.Any},
		cdt.Int32Value(3),
	}}

	var visited []int32
	err := traverse.Run(arr, traverse.Callbacks{
		OnInt32: func(path []uint64, v int32) error {
			visited = append(visited, v)
			return nil
		},
	})

	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.InvalidType, kind)

	// Traversal stops at the failing element; the third element is never
	// visited.
	assert.Equal(t, []int32{1}, visited)
}

// TestXcallRoundTrip wires a constructed argument array through an
// in-process Callable, exercising the params-and-return ABI shape end to
// end.
func TestXcallRoundTrip(t *testing.T) {
	params, err := construct.Build(hostadapter.NewNativeSource([]any{int32(2), int32(3)}))
	require.NoError(t, err)

	callable := &cdt.Callable{
		RuntimeID:   0xB,
		ParamTypes:  []primitive.Tag{primitive.Int32, primitive.Int32},
		ReturnTypes: []primitive.Tag{primitive.Int32},
		Invoke: func(params *cdt.Array) (*cdt.Array, error) {
			a, err := params.Elements[0].AsInt32()
			require.NoError(t, err)
			b, err := params.Elements[1].AsInt32()
			require.NoError(t, err)
			return &cdt.Array{Elements: []cdt.Value{cdt.Int32Value(a + b)}}, nil
		},
	}

	returns, err := xcall.Invoke(callable, params, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), returns.Len())

	var sum int32
	err = traverse.Run(returns, traverse.Callbacks{
		OnInt32: func(path []uint64, v int32) error {
			sum = v
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), sum)
}
