package hostadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetaFFI/plugin-sdk/pkg/construct"
)

func TestDecodeJSONTreeScalarsAndArray(t *testing.T) {
	src := `[
		{"type": "int32", "value": 5},
		{"type": "string", "value": "hi"},
		{"type": "array", "items": [
			{"type": "float64", "value": 1.5},
			{"type": "float64", "value": 2.5}
		]}
	]`
	root, err := DecodeJSONTree([]byte(src))
	require.NoError(t, err)
	require.Len(t, root, 3)
	assert.Equal(t, int32(5), root[0])
	assert.Equal(t, "hi", root[1])

	sub, ok := root[2].([]any)
	require.True(t, ok)
	assert.Equal(t, float64(1.5), sub[0])
}

func TestDecodeJSONTreeBuildsThroughConstruct(t *testing.T) {
	root, err := DecodeJSONTree([]byte(`[{"type": "int32", "value": 7}]`))
	require.NoError(t, err)

	arr, err := construct.Build(NewNativeSource(root))
	require.NoError(t, err)
	got, err := arr.Elements[0].AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(7), got)
}

func TestDecodeJSONTreeUnknownType(t *testing.T) {
	_, err := DecodeJSONTree([]byte(`[{"type": "bogus"}]`))
	assert.Error(t, err)
}
