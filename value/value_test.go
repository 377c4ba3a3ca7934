package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidenNarrowRoundTrip(t *testing.T) {
	tests := []Value{
		F(1.5),
		V2(1, 2),
		V3(1, 2, 3),
		V4(1, 2, 3, 4),
	}
	for _, v := range tests {
		wide := v.AsVec4()
		back := Narrow(wide, v.Kind())
		assert.Equal(t, v.Kind(), back.Kind())
		for i := 0; i < v.Kind().Components(); i++ {
			assert.InDelta(t, v.Elem(i), back.Elem(i), 1e-9)
		}
	}
}

func TestKindComponents(t *testing.T) {
	assert.Equal(t, 1, Scalar.Components())
	assert.Equal(t, 2, Vec2.Components())
	assert.Equal(t, 3, Vec3.Components())
	assert.Equal(t, 4, Vec4.Components())
}

func TestLerp(t *testing.T) {
	a := [4]float32{0, 0, 0, 0}
	b := [4]float32{2, 4, 6, 8}
	got := Lerp(a, b, 0.5)
	assert.Equal(t, [4]float32{1, 2, 3, 4}, got)
}
