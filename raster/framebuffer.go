// Package raster implements the rasterization rendering operation:
// turning a clip-space triangle into covered pixels, interpolating
// attributes across it, invoking the fragment shader, and writing the
// result through the reverse-Z depth test into the framebuffer. It
// also owns the framebuffer/depth-buffer storage and a Bresenham line
// drawer for debug wireframes.
//
// Grounded on the original source's crates/pipeline/src/renderer.rs
// (rasterization, draw_pixel, draw_line/clip_line/endpoint_code),
// cross-checked against the idiomatic Go naming used in
// other_examples/94bfa55b_gogpu-wgpu__hal-software-raster-pipeline.go.go
// (Framebuffer/DepthBuffer.TestAndSet/clampByte).
package raster

import "fmt"

// Framebuffer is the RGBA8 color target, row-major, top-left origin.
type Framebuffer struct {
	Width, Height int
	Pixels        []byte
}

// NewFramebuffer allocates a zeroed (black, transparent) framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]byte, width*height*4)}
}

// WriteColor writes color (components in [0,1], not necessarily
// clamped) to pixel (x, y): clamped to [0,255] and truncated toward
// zero, with alpha forced to opaque (spec.md §4.9's writeback rule).
func (fb *Framebuffer) WriteColor(x, y int, color [4]float32) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	idx := (y*fb.Width + x) * 4
	fb.Pixels[idx+0] = clampByte(color[0] * 255)
	fb.Pixels[idx+1] = clampByte(color[1] * 255)
	fb.Pixels[idx+2] = clampByte(color[2] * 255)
	fb.Pixels[idx+3] = 255
}

// Clear fills the framebuffer with a solid color (components [0,1]).
// Unlike WriteColor, the alpha component is stored as given.
func (fb *Framebuffer) Clear(color [4]float32) {
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.WriteColor(x, y, color)
			fb.Pixels[(y*fb.Width+x)*4+3] = clampByte(color[3] * 255)
		}
	}
}

func clampByte(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v) // truncates toward zero, as spec.md §4.9 requires
}

// DepthBuffer holds one float32 depth per pixel, reverse-Z: cleared to
// 0 (far), 1 is the near plane.
type DepthBuffer struct {
	Width, Height int
	Values        []float32
}

// NewDepthBuffer allocates a depth buffer cleared to 0 (far, per
// reverse-Z).
func NewDepthBuffer(width, height int) *DepthBuffer {
	return &DepthBuffer{Width: width, Height: height, Values: make([]float32, width*height)}
}

// Clear resets every depth value to 0 (far).
func (db *DepthBuffer) Clear() {
	for i := range db.Values {
		db.Values[i] = 0
	}
}

// TestAndSet performs the reverse-Z depth test at (x, y): the fragment
// passes only if depth is strictly greater than what's stored (a tie
// loses), and on a pass the new depth is written immediately.
func (db *DepthBuffer) TestAndSet(x, y int, depth float32) bool {
	idx := y*db.Width + x
	if depth <= db.Values[idx] {
		return false
	}
	db.Values[idx] = depth
	return true
}

func (fb *Framebuffer) String() string {
	return fmt.Sprintf("Framebuffer(%dx%d)", fb.Width, fb.Height)
}
