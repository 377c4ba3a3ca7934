// Package stage implements the vertex-processing and
// primitive-assembly-and-clipping rendering operations that run
// before rasterization: decoding raw vertex bytes per the bound
// layout, invoking the vertex shader for each vertex, assembling
// triangle-list primitives, and rejecting any primitive with a vertex
// outside the clip volume.
//
// Grounded on the original source's crates/pipeline/src/renderer.rs
// (vertex_processing, primitive_assembly_clipping, primitive_clipping)
// and crates/pipeline/src/shader.rs (VertexInput/VertexOutput).
package stage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/mesh"
	"github.com/maja42/swraster/value"
)

// Errors surfaced while decoding the vertex buffer (spec.md §7).
var (
	ErrBufferOverflow    = errors.New("stage: vertex buffer too short for declared layout")
	ErrUnsupportedFormat = errors.New("stage: vertex layout contains an unsupported attribute format")
)

// VertexInput is what the vertex shader receives for one vertex.
type VertexInput struct {
	VertexIndex   uint32
	InstanceIndex uint32
	Location      []value.Value
}

// VertexOutput is what the vertex shader produces for one vertex: the
// clip-space position plus however many user-defined varyings the
// pipeline layout declares.
type VertexOutput struct {
	Position [4]float32 // clip-space (x, y, z, w)
	Location []value.Value
}

// VertexShader transforms one decoded vertex into clip space.
type VertexShader func(VertexInput, *binding.Table) VertexOutput

// DecodeVertex decodes the i'th vertex out of buf according to layout,
// where layout lists the attribute formats in the same order they were
// interleaved (mesh.Mesh.Layout's ascending-id order).
func DecodeVertex(buf []byte, layout []mesh.AttributeFormat, i int) ([]value.Value, error) {
	stride := 0
	for _, f := range layout {
		stride += f.Size()
	}
	offset := i * stride
	if offset+stride > len(buf) {
		return nil, fmt.Errorf("%w: vertex %d needs %d bytes at offset %d, buffer has %d", ErrBufferOverflow, i, stride, offset, len(buf))
	}

	out := make([]value.Value, len(layout))
	pos := offset
	for idx, f := range layout {
		switch f {
		case mesh.FormatF32:
			out[idx] = value.F(decodeF32(buf[pos:]))
		case mesh.FormatVec2F32:
			out[idx] = value.V2(decodeF32(buf[pos:]), decodeF32(buf[pos+4:]))
		case mesh.FormatVec3F32:
			out[idx] = value.V3(decodeF32(buf[pos:]), decodeF32(buf[pos+4:]), decodeF32(buf[pos+8:]))
		case mesh.FormatVec4F32:
			out[idx] = value.V4(decodeF32(buf[pos:]), decodeF32(buf[pos+4:]), decodeF32(buf[pos+8:]), decodeF32(buf[pos+12:]))
		case mesh.FormatU32:
			// The u32's raw bits, carried unchanged in a scalar value.
			out[idx] = value.F(decodeF32(buf[pos:]))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
		}
		pos += f.Size()
	}
	return out, nil
}

// DriveVertices decodes and shades every vertex named in indices,
// returning one VertexOutput per entry of indices (in order; indices
// may repeat a vertex, e.g. when drawing a non-indexed list that reuses
// vertex data is not a vertex-stage concern — repeats here come from
// an index buffer).
func DriveVertices(buf []byte, layout []mesh.AttributeFormat, shader VertexShader, tbl *binding.Table, indices []uint32) ([]VertexOutput, error) {
	// Shade each distinct vertex once, then fan out by index so the
	// vertex shader never re-runs for a vertex referenced twice.
	cache := make(map[uint32]VertexOutput)
	order := make([]uint32, 0, len(indices))
	for _, vi := range indices {
		if _, ok := cache[vi]; ok {
			continue
		}
		order = append(order, vi)
		cache[vi] = VertexOutput{}
	}

	for _, vi := range order {
		locs, err := DecodeVertex(buf, layout, int(vi))
		if err != nil {
			return nil, err
		}
		in := VertexInput{VertexIndex: vi, Location: locs}
		cache[vi] = shader(in, tbl)
	}

	out := make([]VertexOutput, len(indices))
	for i, vi := range indices {
		out[i] = cache[vi]
	}
	return out, nil
}

func decodeF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
