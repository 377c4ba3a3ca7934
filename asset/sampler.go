package asset

import "github.com/maja42/swraster/value"

// Sampler currently carries no state; the type exists so the ABI is
// stable when filters/mipmaps arrive (spec.md §4.6).
type Sampler struct{}

// Sample fetches texel (u, v) from tex using nearest-neighbor filtering
// and repeat wrap, decoding per format into a 4-vector (spec.md §4.6).
func Sample(tex *Texture, _ Sampler, u, v float32) value.Value {
	u = wrapRepeat(u)
	v = wrapRepeat(v)

	x := int(u * float32(tex.Width-1))
	y := int(v * float32(tex.Height-1))
	x = clampInt(x, 0, tex.Width-1)
	y = clampInt(y, 0, tex.Height-1)

	off := tex.texelAt(x, y)
	switch tex.Format {
	case R8:
		r := float32(tex.Pixels[off]) / 255
		return value.V4(r, r, r, r)
	case RGB8:
		r := float32(tex.Pixels[off]) / 255
		g := float32(tex.Pixels[off+1]) / 255
		b := float32(tex.Pixels[off+2]) / 255
		return value.V4(r, g, b, 1)
	case RGBA8:
		r := float32(tex.Pixels[off]) / 255
		g := float32(tex.Pixels[off+1]) / 255
		b := float32(tex.Pixels[off+2]) / 255
		a := float32(tex.Pixels[off+3]) / 255
		return value.V4(r, g, b, a)
	}
	return value.V4(0, 0, 0, 0)
}

// wrapRepeat implements the repeat wrap mode: u <- u - floor(u) when
// u is outside [0,1] (spec.md §4.6's "u > 1" case generalized to
// negative u as well, since floor handles both).
func wrapRepeat(u float32) float32 {
	if u >= 0 && u <= 1 {
		return u
	}
	f := u - float32(int(u))
	if f < 0 {
		f += 1
	}
	return f
}

func clampInt(x, min, max int) int {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
