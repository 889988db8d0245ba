package ffierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New(TypeMismatch, "expected int32, got string8")
	assert.Equal(t, "type_mismatch: expected int32, got string8", err.Error())
}

func TestErrorWithPath(t *testing.T) {
	err := New(ArrayShapeMismatch, "ragged row").AtPath([]uint64{0, 2})
	assert.Contains(t, err.Error(), "[0 2]")
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ForeignError, cause, "callback panicked")
	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestIsMatchesByKindOnly(t *testing.T) {
	a := New(OutOfMemory, "alloc failed")
	b := New(OutOfMemory, "different message, different path")
	c := New(InvalidType, "alloc failed")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestKindOf(t *testing.T) {
	err := Newf(HandleProtocolViolation, "release called twice on handle %d", 7)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, HandleProtocolViolation, kind)

	_, ok = KindOf(errors.New("plain error"))
	assert.False(t, ok)
}

func TestKindOfThroughWrap(t *testing.T) {
	inner := New(InvalidEncoding, "invalid utf8")
	outer := fmt.Errorf("wrapper: %w", inner)

	kind, ok := KindOf(outer)
	require.True(t, ok)
	assert.Equal(t, InvalidEncoding, kind)
}
