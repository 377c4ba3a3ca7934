// Package pixel implements the small integer/float screen-space vector
// helpers the rasterizer needs: framebuffer-space positions, polygon
// area, and axis-aligned bounding boxes.
//
// Based on github.com/maja42/nora's math/veci.go (in turn based on
// github.com/go-gl/mathgl/mgl32), adapted from a general-purpose
// integer-vector library down to the handful of operations the
// rasterizer's AABB scan actually needs.
package pixel

import "github.com/go-gl/mathgl/mgl32"

// Vec2i is an integer 2D vector, used for framebuffer pixel coordinates.
type Vec2i [2]int

// Vecf converts v to a float32 vector.
func (v Vec2i) Vecf() mgl32.Vec2 {
	return mgl32.Vec2{float32(v[0]), float32(v[1])}
}

// Clamp restricts each component of v to [min, max].
func (v Vec2i) Clamp(min, max Vec2i) Vec2i {
	out := v
	for i := range out {
		if out[i] < min[i] {
			out[i] = min[i]
		}
		if out[i] > max[i] {
			out[i] = max[i]
		}
	}
	return out
}

// PolygonArea computes the signed shoelace area of the coordinate ring.
// Positive area encodes one winding direction, negative the other;
// front_facing is exposed as the sign as-is (spec.md's Open Question
// on winding is resolved by not hard-coding a meaning).
func PolygonArea(coords [3]mgl32.Vec2) float32 {
	var area float32
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		area += coords[i].X()*coords[j].Y() - coords[j].X()*coords[i].Y()
	}
	return 0.5 * area
}

// AABB computes the pixel-space bounding box of coords: floor of the
// minimum, ceil of the maximum.
func AABB(coords [3]mgl32.Vec2) (min, max Vec2i) {
	min = Vec2i{int(floor(coords[0].X())), int(floor(coords[0].Y()))}
	max = Vec2i{int(ceil(coords[0].X())), int(ceil(coords[0].Y()))}
	for _, c := range coords[1:] {
		if x := int(floor(c.X())); x < min[0] {
			min[0] = x
		}
		if y := int(floor(c.Y())); y < min[1] {
			min[1] = y
		}
		if x := int(ceil(c.X())); x > max[0] {
			max[0] = x
		}
		if y := int(ceil(c.Y())); y > max[1] {
			max[1] = y
		}
	}
	return min, max
}

// EdgeWeight computes the (unrotated) edge function value for pixel
// center p against the edge (a, b), normalized by the triangle area.
// Rotation into the spec's "opposite vertex" convention is the caller's
// responsibility (see raster.RasterizeRegion), matching the original
// source's calculate_polygon_barycenter, which rotates the result by
// one position after computing it this way.
func EdgeWeight(p, a, b mgl32.Vec2, area float32) float32 {
	pa := p.Sub(a)
	pb := p.Sub(b)
	cross := pa.X()*pb.Y() - pa.Y()*pb.X()
	return cross / (2 * area)
}

func floor(x float32) float32 {
	i := float32(int(x))
	if x < 0 && i != x {
		return i - 1
	}
	return i
}

func ceil(x float32) float32 {
	i := float32(int(x))
	if x > 0 && i != x {
		return i + 1
	}
	return i
}
