package raster

import "github.com/go-gl/mathgl/mgl32"

// outcode bits for Cohen-Sutherland clipping, relative to the
// framebuffer rectangle.
type outcode uint8

const (
	inside outcode = 0
	left   outcode = 1 << 0
	right  outcode = 1 << 1
	bottom outcode = 1 << 2
	top    outcode = 1 << 3
)

func computeOutcode(p mgl32.Vec2, min, max mgl32.Vec2) outcode {
	var c outcode
	switch {
	case p.X() < min.X():
		c |= left
	case p.X() > max.X():
		c |= right
	}
	switch {
	case p.Y() < min.Y():
		c |= bottom
	case p.Y() > max.Y():
		c |= top
	}
	return c
}

// clipLine clips the segment (p0, p1) against the rectangle [min,
// max] using Cohen-Sutherland, returning the clipped endpoints and
// false if the segment lies entirely outside.
func clipLine(p0, p1, min, max mgl32.Vec2) (mgl32.Vec2, mgl32.Vec2, bool) {
	c0 := computeOutcode(p0, min, max)
	c1 := computeOutcode(p1, min, max)

	for {
		if c0|c1 == inside {
			return p0, p1, true
		}
		if c0&c1 != 0 {
			return p0, p1, false
		}

		out := c0
		if out == inside {
			out = c1
		}

		var p mgl32.Vec2
		switch {
		case out&top != 0:
			p = mgl32.Vec2{p0.X() + (p1.X()-p0.X())*(max.Y()-p0.Y())/(p1.Y()-p0.Y()), max.Y()}
		case out&bottom != 0:
			p = mgl32.Vec2{p0.X() + (p1.X()-p0.X())*(min.Y()-p0.Y())/(p1.Y()-p0.Y()), min.Y()}
		case out&right != 0:
			p = mgl32.Vec2{max.X(), p0.Y() + (p1.Y()-p0.Y())*(max.X()-p0.X())/(p1.X()-p0.X())}
		case out&left != 0:
			p = mgl32.Vec2{min.X(), p0.Y() + (p1.Y()-p0.Y())*(min.X()-p0.X())/(p1.X()-p0.X())}
		}

		if out == c0 {
			p0 = p
			c0 = computeOutcode(p0, min, max)
		} else {
			p1 = p
			c1 = computeOutcode(p1, min, max)
		}
	}
}

// DrawLine rasterizes the segment (p0, p1) into fb using
// Cohen-Sutherland clipping against the framebuffer rectangle followed
// by Bresenham/midpoint stepping.
func DrawLine(fb *Framebuffer, p0, p1 mgl32.Vec2, color [4]float32) {
	min := mgl32.Vec2{0, 0}
	max := mgl32.Vec2{float32(fb.Width), float32(fb.Height)}

	p0, p1, ok := clipLine(p0, p1, min, max)
	if !ok {
		return
	}

	x1, y1 := int(p0.X()), int(p0.Y())
	x2, y2 := int(p1.X()), int(p1.Y())

	steep := abs(x1-x2) < abs(y1-y2)
	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}

	dx := x2 - x1
	dy := y2 - y1
	yStep := 1
	if dy < 0 {
		yStep = -1
		dy = -dy
	}

	d := 2*dy - dx
	y := y1
	for x := x1; x <= x2; x++ {
		if steep {
			fb.WriteColor(y, x, color)
		} else {
			fb.WriteColor(x, y, color)
		}
		if d > 0 {
			y += yStep
			d -= 2 * dx
		}
		d += 2 * dy
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
