package asset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextureSizeValidation(t *testing.T) {
	_, err := NewTexture(4, 1, R8, []byte{0, 64, 128})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTextureSize))

	tex, err := NewTexture(4, 1, R8, []byte{0, 64, 128, 255})
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width)
}

func TestSampleWrapsAndDecodesR8(t *testing.T) {
	tex, err := NewTexture(4, 1, R8, []byte{0, 64, 128, 255})
	require.NoError(t, err)

	// u=1.25 wraps to 0.25, landing on texel index 1 (value 64).
	v := Sample(tex, Sampler{}, 1.25, 0.5)
	assert.InDelta(t, 64.0/255.0, v.Elem(0), 0.01)
	assert.InDelta(t, 64.0/255.0, v.Elem(1), 0.01)
	assert.InDelta(t, 64.0/255.0, v.Elem(2), 0.01)
	assert.InDelta(t, 1.0, v.Elem(3), 0.001)
}

func TestSampleDecodesRGBA8(t *testing.T) {
	tex, err := NewTexture(1, 1, RGBA8, []byte{10, 20, 30, 40})
	require.NoError(t, err)

	v := Sample(tex, Sampler{}, 0, 0)
	assert.InDelta(t, 10.0/255.0, v.Elem(0), 0.001)
	assert.InDelta(t, 20.0/255.0, v.Elem(1), 0.001)
	assert.InDelta(t, 30.0/255.0, v.Elem(2), 0.001)
	assert.InDelta(t, 40.0/255.0, v.Elem(3), 0.001)
}

func TestWrapRepeatNegative(t *testing.T) {
	assert.InDelta(t, 0.75, wrapRepeat(-0.25), 0.001)
}
