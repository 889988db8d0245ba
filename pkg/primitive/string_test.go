package primitive

import (
	"testing"

	"github.com/MetaFFI/plugin-sdk/pkg/ffierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodepointRoundTripString16(t *testing.T) {
	for _, s := range []string{"a", "é", "€", "😀"} {
		r := []rune(s)[0]
		units, err := EncodeChar16(r)
		require.NoError(t, err)
		got, size, err := DecodeChar16(units)
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.Equal(t, len(units), size)
	}
}

func TestDecodeChar16UnpairedSurrogateFails(t *testing.T) {
	_, _, err := DecodeChar16([]uint16{0xD800})
	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.InvalidEncoding, kind)
}

func TestDecodeChar16LoneLowSurrogateFails(t *testing.T) {
	_, _, err := DecodeChar16([]uint16{0xDC00})
	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.InvalidEncoding, kind)
}

func TestCodepointRoundTripChar8(t *testing.T) {
	for _, s := range []string{"a", "é", "€", "😀"} {
		r := []rune(s)[0]
		b, err := EncodeChar8(r)
		require.NoError(t, err)
		assert.Equal(t, s, string(b))
		got, size, err := DecodeChar8(b)
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.Equal(t, len(b), size)
	}
}

func TestDecodeChar8IllFormedFails(t *testing.T) {
	_, _, err := DecodeChar8([]byte{0xFF})
	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.InvalidEncoding, kind)
}

func TestDecodeChar8EmptyFails(t *testing.T) {
	_, _, err := DecodeChar8(nil)
	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.InvalidEncoding, kind)
}

func TestDecodeChar32RejectsSurrogateHalf(t *testing.T) {
	_, err := DecodeChar32(0xD800)
	require.Error(t, err)
	kind, ok := ffierr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ffierr.InvalidEncoding, kind)
}
