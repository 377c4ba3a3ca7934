package stage

import (
	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/value"
)

// FragmentInput is what the fragment shader receives for one covered
// pixel: its framebuffer-space position (xy in pixels, z the
// interpolated depth, w the perspective-interpolated 1/clip-w), the
// polygon's winding sign, and the perspective-correct varyings.
type FragmentInput struct {
	Position    [4]float32 // (x+0.5, y+0.5, depth, w_divisor), framebuffer space
	FrontFacing bool
	SampleIndex uint32
	Location    []value.Value
}

// FragmentOutput is what the fragment shader produces: location(0) is
// always the pixel color; FragDepth optionally overrides the
// interpolated depth (nil keeps the rasterizer-computed value).
type FragmentOutput struct {
	Location  []value.Value
	FragDepth *float32
}

// FragmentShader computes a pixel's output color (and optionally
// depth) from its interpolated inputs.
type FragmentShader func(FragmentInput, *binding.Table) FragmentOutput
