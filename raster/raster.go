package raster

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/internal/pixel"
	"github.com/maja42/swraster/stage"
	"github.com/maja42/swraster/value"
)

// Viewport describes the target region of the framebuffer a triangle
// maps into. Only the full-framebuffer viewport is exercised today,
// but keeping it as its own type mirrors how the original renderer
// threads RenderSurface.{width,height} through rasterization.
type Viewport struct {
	Width, Height int
}

// Stats accumulates counters for one Rasterize call, for the Renderer
// to fold into its running draw-call statistics.
type Stats struct {
	Fragments int
	Covered   int
}

// Rasterize scans tri's bounding box, shades every covered pixel
// through fragShader, and writes fragments that pass the reverse-Z
// depth test into fb/db. It follows the pipeline's ten-step
// contract: perspective divide, viewport mapping, signed area,
// AABB scan, barycentric coverage, perspective correction, attribute
// interpolation, fragment shading, depth test, color writeback.
func Rasterize(tri stage.Triangle, vp Viewport, fragShader stage.FragmentShader, tbl *binding.Table, fb *Framebuffer, db *DepthBuffer) Stats {
	return RasterizeRegion(tri, vp, pixel.Vec2i{0, 0}, pixel.Vec2i{vp.Width, vp.Height}, fragShader, tbl, fb, db)
}

// ScreenAABB projects tri into framebuffer space (perspective divide
// plus viewport mapping) and returns its pixel-space bounding box,
// clamped to vp. ok is false for a zero-area (degenerate) triangle.
// Exposed for internal/tile's R-tree indexing, which needs a
// triangle's screen footprint before deciding which tile(s) to hand
// it to.
func ScreenAABB(tri stage.Triangle, vp Viewport) (minX, minY, maxX, maxY int, ok bool) {
	screen, area := projectToScreen(tri, vp)
	if area == 0 {
		return 0, 0, 0, 0, false
	}
	min, max := pixel.AABB(screen)
	min = min.Clamp(pixel.Vec2i{0, 0}, pixel.Vec2i{vp.Width, vp.Height})
	max = max.Clamp(pixel.Vec2i{0, 0}, pixel.Vec2i{vp.Width, vp.Height})
	return min[0], min[1], max[0], max[1], true
}

func projectToScreen(tri stage.Triangle, vp Viewport) (screen [3]mgl32.Vec2, area float32) {
	var ndc [3]mgl32.Vec2
	for i, v := range tri {
		w := v.Position[3]
		ndc[i] = mgl32.Vec2{v.Position[0] / w, v.Position[1] / w}
	}
	for i, p := range ndc {
		screen[i] = mgl32.Vec2{
			0.5 * float32(vp.Width) * (p.X() + 1),
			0.5 * float32(vp.Height) * (p.Y() + 1),
		}
	}
	return screen, pixel.PolygonArea(screen)
}

// RasterizeRegion behaves like Rasterize, but clamps the scanned
// bounding box to [regionMin, regionMax) instead of the whole
// viewport. The tile scheduler uses this to restrict each goroutine's
// writes to its own tile, keeping the per-pixel write ordering the
// concurrency model requires.
func RasterizeRegion(tri stage.Triangle, vp Viewport, regionMin, regionMax pixel.Vec2i, fragShader stage.FragmentShader, tbl *binding.Table, fb *Framebuffer, db *DepthBuffer) Stats {
	var stats Stats

	// Steps 1-3: perspective divide, viewport mapping, signed area.
	// Degenerate (zero-area) triangles contribute nothing.
	screen, area := projectToScreen(tri, vp)
	if area == 0 {
		return stats
	}
	frontFacing := area > 0

	var depths, divisors [3]float32
	for i, v := range tri {
		depths[i] = v.Position[2] / v.Position[3]
		divisors[i] = 1 / v.Position[3]
	}

	// Step 4: AABB, clamped to the scanned region.
	min, max := pixel.AABB(screen)
	min = min.Clamp(regionMin, regionMax)
	max = max.Clamp(regionMin, regionMax)

	// Vertex varyings widened to vec4 once, reused for every pixel.
	var widened [3][][4]float32
	for i, v := range tri {
		widened[i] = make([][4]float32, len(v.Location))
		for j, loc := range v.Location {
			widened[i][j] = loc.AsVec4()
		}
	}
	layout := make([]value.Kind, 0)
	if len(tri[0].Location) > 0 {
		layout = make([]value.Kind, len(tri[0].Location))
		for j, loc := range tri[0].Location {
			layout[j] = loc.Kind()
		}
	}

	for y := min[1]; y < max[1]; y++ {
		for x := min[0]; x < max[0]; x++ {
			// Step 5: per-pixel-center barycentric coverage. Edge
			// (v_i, v_{i+1}) is opposite vertex (i+2)%3, so the weight
			// computed against it lands on index (i+2)%3 — the rotation
			// the original source's barycenter helper performs.
			center := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			var bary [3]float32
			for i := 0; i < 3; i++ {
				j := (i + 1) % 3
				w := pixel.EdgeWeight(center, screen[i], screen[j], area)
				bary[(i+2)%3] = w
			}
			if bary[0] < 0 || bary[1] < 0 || bary[2] < 0 {
				continue
			}

			// Step 6: perspective correction.
			var corrected [3]float32
			var sum float32
			for i := range corrected {
				corrected[i] = bary[i] * divisors[i]
				sum += corrected[i]
			}
			for i := range corrected {
				corrected[i] /= sum
			}

			wInterp := corrected[0]*divisors[0] + corrected[1]*divisors[1] + corrected[2]*divisors[2]
			depthInterp := corrected[0]*depths[0] + corrected[1]*depths[1] + corrected[2]*depths[2]

			// Step 7: perspective-correct attribute interpolation,
			// widen/weighted-sum/narrow.
			var locs []value.Value
			if len(layout) > 0 {
				locs = make([]value.Value, len(layout))
				for j, kind := range layout {
					var acc [4]float32
					for i := 0; i < 3; i++ {
						v := widened[i][j]
						for c := range acc {
							acc[c] += v[c] * corrected[i]
						}
					}
					locs[j] = value.Narrow(acc, kind)
				}
			}

			// Step 8: fragment invocation.
			stats.Fragments++
			in := stage.FragmentInput{
				Position:    [4]float32{center.X(), center.Y(), depthInterp, wInterp},
				FrontFacing: frontFacing,
				Location:    locs,
			}
			out := fragShader(in, tbl)

			depth := depthInterp
			if out.FragDepth != nil {
				depth = clampDepth(*out.FragDepth)
			}

			// Step 9: reverse-Z depth test (strict >, a tie loses).
			if !db.TestAndSet(x, y, depth) {
				continue
			}

			// Step 10: color writeback (clamp + truncate + forced alpha).
			if len(out.Location) == 0 {
				logrus.Warnf("raster: fragment shader returned no color at (%d,%d)", x, y)
				continue
			}
			color := out.Location[0].AsVec4()
			fb.WriteColor(x, y, color)
			stats.Covered++
		}
	}
	return stats
}

func clampDepth(d float32) float32 {
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
