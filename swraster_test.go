package swraster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/mesh"
	"github.com/maja42/swraster/stage"
	"github.com/maja42/swraster/value"
)

// passthroughVertexShader forwards clip-space position directly and
// carries the color attribute through unchanged.
func passthroughVertexShader(in stage.VertexInput, _ *binding.Table) stage.VertexOutput {
	pos := in.Location[0].AsVec4()
	return stage.VertexOutput{
		Position: [4]float32{pos[0], pos[1], pos[2], 1},
		Location: []value.Value{in.Location[1]},
	}
}

func colorFragmentShader(in stage.FragmentInput, _ *binding.Table) stage.FragmentOutput {
	return stage.FragmentOutput{Location: []value.Value{in.Location[0]}}
}

func newTestRenderer(w, h int) *Renderer {
	return New(RendererDescriptor{
		Surface: RenderSurface{Width: w, Height: h},
		Vertex: VertexState{
			Shader: passthroughVertexShader,
			Layout: []mesh.AttributeFormat{mesh.FormatVec3F32, mesh.FormatVec4F32},
		},
		Fragment: FragmentState{Shader: colorFragmentShader},
	})
}

func buildTriangleMesh(t *testing.T, positions [3][3]float32, colors [3][4]float32) []byte {
	t.Helper()
	m := mesh.New()
	require.NoError(t, m.InsertAttribute(mesh.DescPosition, mesh.Vec3s(positions[:])))
	require.NoError(t, m.InsertAttribute(mesh.DescColor, mesh.Vec4s(colors[:])))
	buf, err := m.InterleavedBytes()
	require.NoError(t, err)
	return buf
}

func TestDrawRendersNDCTriangle(t *testing.T) {
	r := newTestRenderer(32, 32)
	buf := buildTriangleMesh(t,
		[3][3]float32{{-0.9, -0.9, 0.5}, {0.9, -0.9, 0.5}, {0.0, 0.9, 0.5}},
		[3][4]float32{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
	)
	r.SetVertexBuffer(buf)

	require.NoError(t, r.Draw([2]uint32{0, 3}))

	fb := r.Framebuffer()
	idx := (16*32 + 16) * 4
	assert.Equal(t, byte(255), fb[idx+3], "center pixel should be covered and opaque")
	assert.Equal(t, uint64(1), r.Stats().DrawCalls)
	assert.Equal(t, uint64(1), r.Stats().Primitives)
}

func TestDrawIndexedRejectsOutOfRangeRange(t *testing.T) {
	r := newTestRenderer(8, 8)
	buf := buildTriangleMesh(t,
		[3][3]float32{{0, 0, 0.5}, {0, 0, 0.5}, {0, 0, 0.5}},
		[3][4]float32{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
	)
	r.SetVertexBuffer(buf)
	r.SetIndexBuffer([]uint32{0, 1, 2})

	err := r.DrawIndexed([2]uint32{0, 10})
	require.Error(t, err)
}

func TestDrawWithoutVertexBufferFails(t *testing.T) {
	r := newTestRenderer(8, 8)
	err := r.Draw([2]uint32{0, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVertexBuffer)
}

func TestDrawRejectsClippedTriangle(t *testing.T) {
	r := newTestRenderer(8, 8)
	// One vertex far outside the clip volume (x > w, with w=1) must
	// reject the whole triangle, per the no-clip-splitting contract.
	clippedBuf := buildTriangleMesh(t,
		[3][3]float32{{0, 0, 0.5}, {5, 0, 0.5}, {0, 0.5, 0.5}},
		[3][4]float32{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}},
	)

	r.SetVertexBuffer(clippedBuf)
	require.NoError(t, r.Draw([2]uint32{0, 3}))
	assert.Equal(t, uint64(0), r.Stats().Primitives)
}

func TestDrawParallelMatchesDraw(t *testing.T) {
	buf := buildTriangleMesh(t,
		[3][3]float32{{-0.9, -0.9, 0.5}, {0.9, -0.9, 0.5}, {0.0, 0.9, 0.5}},
		[3][4]float32{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
	)

	sequential := newTestRenderer(128, 128)
	sequential.SetVertexBuffer(buf)
	require.NoError(t, sequential.Draw([2]uint32{0, 3}))

	parallel := newTestRenderer(128, 128)
	parallel.SetVertexBuffer(buf)
	require.NoError(t, parallel.DrawParallel([2]uint32{0, 3}))

	assert.Equal(t, sequential.Framebuffer(), parallel.Framebuffer())
}

func TestResetClearsStatsAndBuffers(t *testing.T) {
	r := newTestRenderer(8, 8)
	buf := buildTriangleMesh(t,
		[3][3]float32{{-0.9, -0.9, 0.5}, {0.9, -0.9, 0.5}, {0.0, 0.9, 0.5}},
		[3][4]float32{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
	)
	r.SetVertexBuffer(buf)
	require.NoError(t, r.Draw([2]uint32{0, 3}))
	assert.NotZero(t, r.Stats().DrawCalls)

	r.Reset()
	assert.Zero(t, r.Stats().DrawCalls)
	for _, b := range r.Framebuffer() {
		assert.Equal(t, byte(0), b)
	}
}
