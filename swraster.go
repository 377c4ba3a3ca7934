// Package swraster implements a CPU-only rasterization pipeline
// mirroring WebGPU's rendering-operations sequence: vertex processing,
// primitive assembly and clipping, rasterization, and framebuffer
// writeback, all executed in software against an in-memory
// framebuffer and depth buffer.
//
// Grounded on github.com/maja42/nora's renderState.go/renderer.go for
// the overall draw sequencing and statistics tracking, retargeted from
// an OpenGL command-issuing renderer to one that runs the whole
// pipeline itself.
package swraster

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/internal/tile"
	"github.com/maja42/swraster/mesh"
	"github.com/maja42/swraster/raster"
	"github.com/maja42/swraster/stage"
)

// Errors surfaced by draw calls (spec.md §7).
var (
	ErrNoVertexBuffer = errors.New("swraster: no vertex buffer bound")
	ErrNoIndexBuffer  = errors.New("swraster: no index buffer bound")
	ErrEmptyRange     = errors.New("swraster: draw range is empty")
)

// VertexState configures the vertex stage: the shader to run and the
// layout its input vertices are decoded with.
type VertexState struct {
	Shader stage.VertexShader
	Layout []mesh.AttributeFormat
}

// FragmentState configures the fragment stage.
type FragmentState struct {
	Shader stage.FragmentShader
}

// RenderSurface describes the framebuffer's dimensions.
type RenderSurface struct {
	Width, Height int
}

// RendererDescriptor configures a new Renderer. It mirrors a (pipeline,
// render-pass) pair: the surface dimensions plus the vertex/fragment
// stage configuration.
type RendererDescriptor struct {
	Surface  RenderSurface
	Vertex   VertexState
	Fragment FragmentState
}

// Renderer owns a framebuffer, depth buffer, and binding table, and
// drives vertex processing -> primitive assembly/clipping ->
// rasterization for each Draw/DrawIndexed call.
type Renderer struct {
	desc RendererDescriptor

	framebuffer *raster.Framebuffer
	depthBuffer *raster.DepthBuffer
	bindings    *binding.Table

	vertexBuffer []byte
	indexBuffer  []uint32

	totalDrawCalls  atomic.Uint64
	totalPrimitives atomic.Uint64
	totalFragments  atomic.Uint64
}

// New creates a Renderer sized and configured per desc.
func New(desc RendererDescriptor) *Renderer {
	logrus.Infof("swraster: creating renderer (%dx%d)", desc.Surface.Width, desc.Surface.Height)
	return &Renderer{
		desc:        desc,
		framebuffer: raster.NewFramebuffer(desc.Surface.Width, desc.Surface.Height),
		depthBuffer: raster.NewDepthBuffer(desc.Surface.Width, desc.Surface.Height),
		bindings:    binding.NewTable(),
	}
}

// SetVertexBuffer replaces the bound vertex buffer.
func (r *Renderer) SetVertexBuffer(buf []byte) {
	r.vertexBuffer = buf
}

// SetIndexBuffer replaces the bound index buffer.
func (r *Renderer) SetIndexBuffer(indices []uint32) {
	r.indexBuffer = indices
}

// SetBindingGroup installs group at the given binding-table index.
func (r *Renderer) SetBindingGroup(index uint32, group *binding.Group) {
	r.bindings.SetGroup(index, group)
}

// Framebuffer returns the current RGBA8 framebuffer contents.
func (r *Renderer) Framebuffer() []byte {
	return r.framebuffer.Pixels
}

// DepthBuffer returns the current depth-buffer contents.
func (r *Renderer) DepthBuffer() []float32 {
	return r.depthBuffer.Values
}

// Reset clears the framebuffer (to transparent black) and the depth
// buffer (to 0, the reverse-Z far value).
func (r *Renderer) Reset() {
	r.framebuffer.Clear([4]float32{0, 0, 0, 0})
	r.depthBuffer.Clear()
	r.totalDrawCalls.Store(0)
	r.totalPrimitives.Store(0)
	r.totalFragments.Store(0)
}

// Draw renders vertices [start, end) of the bound vertex buffer as a
// triangle list, without indexing.
func (r *Renderer) Draw(vertexRange [2]uint32) error {
	start, end := vertexRange[0], vertexRange[1]
	if end <= start {
		return ErrEmptyRange
	}
	indices := make([]uint32, end-start)
	for i := range indices {
		indices[i] = start + uint32(i)
	}
	return r.drawIndices(indices)
}

// DrawIndexed renders index range [start, end) of the bound index
// buffer as a triangle list.
func (r *Renderer) DrawIndexed(indexRange [2]uint32) error {
	if r.indexBuffer == nil {
		return ErrNoIndexBuffer
	}
	start, end := indexRange[0], indexRange[1]
	if end <= start {
		return ErrEmptyRange
	}
	if int(end) > len(r.indexBuffer) {
		return fmt.Errorf("swraster: index range [%d,%d) exceeds bound index buffer (len=%d)", start, end, len(r.indexBuffer))
	}
	return r.drawIndices(r.indexBuffer[start:end])
}

func (r *Renderer) drawIndices(indices []uint32) error {
	return r.drawIndicesWith(indices, func(triangles []stage.Triangle, vp raster.Viewport) raster.Stats {
		var total raster.Stats
		for _, tri := range triangles {
			s := raster.Rasterize(tri, vp, r.desc.Fragment.Shader, r.bindings, r.framebuffer, r.depthBuffer)
			total.Fragments += s.Fragments
			total.Covered += s.Covered
		}
		return total
	})
}

func (r *Renderer) drawIndicesWith(indices []uint32, run func([]stage.Triangle, raster.Viewport) raster.Stats) error {
	if r.vertexBuffer == nil {
		return ErrNoVertexBuffer
	}

	vertexOutputs, err := stage.DriveVertices(r.vertexBuffer, r.desc.Vertex.Layout, r.desc.Vertex.Shader, r.bindings, indices)
	if err != nil {
		return fmt.Errorf("swraster: vertex stage: %w", err)
	}

	triangles := stage.AssembleTriangles(vertexOutputs)
	vp := raster.Viewport{Width: r.desc.Surface.Width, Height: r.desc.Surface.Height}

	stats := run(triangles, vp)
	r.totalFragments.Add(uint64(stats.Fragments))

	r.totalDrawCalls.Inc()
	r.totalPrimitives.Add(uint64(len(triangles)))

	if err := r.bindings.CheckAllRestored(); err != nil {
		return fmt.Errorf("swraster: %w", err)
	}

	logrus.Debugf("swraster: draw call #%d: %d vertices -> %d primitives", r.totalDrawCalls.Load(), len(indices), len(triangles))
	return nil
}

// DrawParallel behaves like Draw, but rasterizes triangles across a
// tile-partitioned goroutine pool instead of sequentially. Results are
// identical to Draw's; only the scheduling differs.
func (r *Renderer) DrawParallel(vertexRange [2]uint32) error {
	start, end := vertexRange[0], vertexRange[1]
	if end <= start {
		return ErrEmptyRange
	}
	indices := make([]uint32, end-start)
	for i := range indices {
		indices[i] = start + uint32(i)
	}
	return r.drawIndicesWith(indices, func(triangles []stage.Triangle, vp raster.Viewport) raster.Stats {
		return tile.Schedule(triangles, vp, r.desc.Fragment.Shader, r.bindings, r.framebuffer, r.depthBuffer)
	})
}

// Stats reports cumulative draw-call, primitive, and fragment counts
// since the last Reset.
type Stats struct {
	DrawCalls  uint64
	Primitives uint64
	Fragments  uint64
}

// Stats returns the renderer's running statistics.
func (r *Renderer) Stats() Stats {
	return Stats{
		DrawCalls:  r.totalDrawCalls.Load(),
		Primitives: r.totalPrimitives.Load(),
		Fragments:  r.totalFragments.Load(),
	}
}
