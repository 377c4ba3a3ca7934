package raster

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/stage"
	"github.com/maja42/swraster/value"
)

func solidColorShader(color value.Value) stage.FragmentShader {
	return func(in stage.FragmentInput, _ *binding.Table) stage.FragmentOutput {
		return stage.FragmentOutput{Location: []value.Value{color}}
	}
}

// ndcTriangle builds a clip-space triangle (w=1) covering most of the
// screen, with a different color at each vertex (red, green, blue) so
// interpolation can be observed.
func ndcTriangle(z0, z1, z2 float32) stage.Triangle {
	mk := func(x, y, z float32, c [4]float32) stage.VertexOutput {
		return stage.VertexOutput{
			Position: [4]float32{x, y, z, 1},
			Location: []value.Value{value.V4(c[0], c[1], c[2], c[3])},
		}
	}
	return stage.Triangle{
		mk(-0.9, -0.9, z0, [4]float32{1, 0, 0, 1}),
		mk(0.9, -0.9, z1, [4]float32{0, 1, 0, 1}),
		mk(0.0, 0.9, z2, [4]float32{0, 0, 1, 1}),
	}
}

func TestRasterizeCoversCenterPixel(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	db := NewDepthBuffer(64, 64)
	tri := ndcTriangle(0.5, 0.5, 0.5)

	stats := Rasterize(tri, Viewport{64, 64}, solidColorShader(value.V4(1, 1, 1, 1)), binding.NewTable(), fb, db)
	assert.Greater(t, stats.Covered, 0)

	// Center of the framebuffer should be covered and opaque.
	idx := (32*64 + 32) * 4
	assert.Equal(t, byte(255), fb.Pixels[idx+3])
}

func TestRasterizeReverseZTieBreak(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	db := NewDepthBuffer(8, 8)

	far := ndcTriangle(0.2, 0.2, 0.2)
	near := ndcTriangle(0.2, 0.2, 0.2) // identical depth: later write must lose on tie

	Rasterize(far, Viewport{8, 8}, solidColorShader(value.V4(1, 0, 0, 1)), binding.NewTable(), fb, db)
	idx := (4*8 + 4) * 4
	firstR := fb.Pixels[idx]

	Rasterize(near, Viewport{8, 8}, solidColorShader(value.V4(0, 1, 0, 1)), binding.NewTable(), fb, db)
	secondR := fb.Pixels[idx]

	assert.Equal(t, firstR, secondR, "equal depth must not overwrite the existing fragment")
}

func TestRasterizeDepthTestPrefersNearer(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	db := NewDepthBuffer(8, 8)

	far := ndcTriangle(0.1, 0.1, 0.1)
	near := ndcTriangle(0.9, 0.9, 0.9) // reverse-Z: larger z is nearer

	Rasterize(far, Viewport{8, 8}, solidColorShader(value.V4(1, 0, 0, 1)), binding.NewTable(), fb, db)
	Rasterize(near, Viewport{8, 8}, solidColorShader(value.V4(0, 1, 0, 1)), binding.NewTable(), fb, db)

	idx := (4*8 + 4) * 4
	assert.Equal(t, byte(0), fb.Pixels[idx], "nearer fragment (green) should win")
	assert.Equal(t, byte(255), fb.Pixels[idx+1])
}

func TestRasterizeDegenerateTriangleSkipped(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	db := NewDepthBuffer(8, 8)

	mk := func(x, y float32) stage.VertexOutput {
		return stage.VertexOutput{Position: [4]float32{x, y, 0.5, 1}}
	}
	degenerate := stage.Triangle{mk(0, 0), mk(0, 0), mk(0, 0)}

	stats := Rasterize(degenerate, Viewport{8, 8}, solidColorShader(value.V4(1, 1, 1, 1)), binding.NewTable(), fb, db)
	assert.Equal(t, 0, stats.Fragments)
}

// TestRasterizePerspectiveCorrectInterpolation exercises spec scenario
// 3: a triangle with UV(0,0)/(1,0)/(0,1), projected in perspective by
// giving one vertex a larger clip-space w. The triangle's three screen
// positions are chosen so their centroid lands exactly on pixel
// (32,32)'s center: the centroid of any triangle has screen-linear
// barycentric weights of exactly (1/3, 1/3, 1/3), so the perspective
// divide is the only source of deviation from a 1/3 linear blend.
func TestRasterizePerspectiveCorrectInterpolation(t *testing.T) {
	const dim = 96
	fb := NewFramebuffer(dim, dim)
	db := NewDepthBuffer(dim, dim)

	screenToNDC := func(s float32) float32 { return 2*s/dim - 1 }

	// Screen-space corners, chosen so (2.5+72.5+22.5)/3 == (22.5+22.5+52.5)/3 == 32.5.
	mk := func(sx, sy, w, u, v float32) stage.VertexOutput {
		x, y := screenToNDC(sx), screenToNDC(sy)
		return stage.VertexOutput{
			Position: [4]float32{x * w, y * w, 0.5 * w, w},
			Location: []value.Value{value.V2(u, v)},
		}
	}
	tri := stage.Triangle{
		mk(2.5, 22.5, 1, 0, 0),
		mk(72.5, 22.5, 4, 1, 0),
		mk(22.5, 52.5, 1, 0, 1),
	}

	var gotUV [2]float32
	var sawCentroid bool
	shader := func(in stage.FragmentInput, _ *binding.Table) stage.FragmentOutput {
		if in.Position[0] == 32.5 && in.Position[1] == 32.5 {
			uv := in.Location[0].AsVec4()
			gotUV = [2]float32{uv[0], uv[1]}
			sawCentroid = true
		}
		return stage.FragmentOutput{Location: []value.Value{value.V4(0, 0, 0, 1)}}
	}

	Rasterize(tri, Viewport{dim, dim}, shader, binding.NewTable(), fb, db)

	require.True(t, sawCentroid, "centroid pixel should have been covered")

	// Linear (screen-space) barycentric weights at the centroid are
	// exactly (1/3, 1/3, 1/3); perspective-correcting by 1/w (1, 1/4, 1)
	// and renormalizing gives:
	//   u = (1/3 * 1/4) / (1/3*1 + 1/3*1/4 + 1/3*1) = 0.11111...
	wantU := float32((1.0 / 3.0 * 0.25) / (1.0/3.0 + 1.0/3.0*0.25 + 1.0/3.0))
	assert.InDelta(t, wantU, gotUV[0], 0.005)
	assert.Less(t, gotUV[0], float32(1.0/3.0), "perspective-correct u must differ from the linear midpoint")
}

func TestDrawLineClipsToFramebuffer(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	DrawLine(fb, mgl32.Vec2{-5, 5}, mgl32.Vec2{15, 5}, [4]float32{1, 0, 0, 1})

	idx := (5*10 + 0) * 4
	assert.Equal(t, byte(255), fb.Pixels[idx], "line clipped into view should still paint the left edge")
}
