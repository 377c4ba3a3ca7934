// Package mesh implements the attribute mesh store: named vertex
// attributes backed by typed value arrays, interleaved into the byte
// buffer the vertex stage driver consumes.
//
// Based on github.com/maja42/nora's mesh.go/geometry.go (interleaved
// vertex buffers, vertex-count/attribute validation) and, for the
// attribute-id/insert-time validation contract, the original Rust
// source's crates/render/src/mesh.rs (Mesh::insert_attribute,
// count_vertices, get_vertex_buffer_data).
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/maja42/swraster/internal/iassert"
)

// AttributeID names a vertex attribute slot. The standard ids are
// reserved by spec.md §3; ids outside that small range are available
// for user-defined attributes.
type AttributeID uint32

// Standard attribute ids (spec.md §3).
const (
	Position AttributeID = iota
	Normal
	UV0
	Tangent
	Color
	JointWeight
	firstUserAttribute AttributeID = 1000
)

// AttributeDescriptor names one attribute slot and its wire format.
type AttributeDescriptor struct {
	Name   string
	ID     AttributeID
	Format AttributeFormat
}

// Standard descriptors matching spec.md §3's reserved ids.
var (
	DescPosition    = AttributeDescriptor{"POSITION", Position, FormatVec3F32}
	DescNormal      = AttributeDescriptor{"NORMAL", Normal, FormatVec3F32}
	DescUV0         = AttributeDescriptor{"UV_0", UV0, FormatVec2F32}
	DescTangent     = AttributeDescriptor{"TANGENT", Tangent, FormatVec4F32}
	DescColor       = AttributeDescriptor{"COLOR", Color, FormatVec4F32}
	DescJointWeight = AttributeDescriptor{"JOINT_WEIGHT", JointWeight, FormatVec4F32}
)

// Errors surfaced by the mesh attribute store (spec.md §7).
var (
	ErrSchemaMismatch   = errors.New("mesh: attribute values do not match descriptor format")
	ErrRaggedAttributes = errors.New("mesh: attributes disagree on vertex count")
)

// AttributeValues is a closed sum of the value array kinds spec.md §3
// allows: scalar floats, 2/3/4-component float vectors, or u32s.
type AttributeValues struct {
	format AttributeFormat
	f1     []float32
	f2     [][2]float32
	f3     [][3]float32
	f4     [][4]float32
	u32    []uint32
}

// Floats constructs a scalar-float attribute value array.
func Floats(v []float32) AttributeValues { return AttributeValues{format: FormatF32, f1: v} }

// Vec2s constructs a 2-component float attribute value array.
func Vec2s(v [][2]float32) AttributeValues { return AttributeValues{format: FormatVec2F32, f2: v} }

// Vec3s constructs a 3-component float attribute value array.
func Vec3s(v [][3]float32) AttributeValues { return AttributeValues{format: FormatVec3F32, f3: v} }

// Vec4s constructs a 4-component float attribute value array.
func Vec4s(v [][4]float32) AttributeValues { return AttributeValues{format: FormatVec4F32, f4: v} }

// U32s constructs a 32-bit unsigned integer attribute value array.
func U32s(v []uint32) AttributeValues { return AttributeValues{format: FormatU32, u32: v} }

// Format reports the wire format of the stored values.
func (a AttributeValues) Format() AttributeFormat { return a.format }

// Len reports the number of vertices the array covers.
func (a AttributeValues) Len() int {
	switch a.format {
	case FormatF32:
		return len(a.f1)
	case FormatVec2F32:
		return len(a.f2)
	case FormatVec3F32:
		return len(a.f3)
	case FormatVec4F32:
		return len(a.f4)
	case FormatU32:
		return len(a.u32)
	}
	return 0
}

// Bytes returns the array contents as raw little-endian bytes, one
// run per vertex, in vertex order.
func (a AttributeValues) Bytes() []byte {
	size := a.format.Size()
	buf := make([]byte, a.Len()*size)
	switch a.format {
	case FormatF32:
		for i, x := range a.f1 {
			putF32(buf[i*size:], x)
		}
	case FormatVec2F32:
		for i, v := range a.f2 {
			putF32(buf[i*size:], v[0])
			putF32(buf[i*size+4:], v[1])
		}
	case FormatVec3F32:
		for i, v := range a.f3 {
			putF32(buf[i*size:], v[0])
			putF32(buf[i*size+4:], v[1])
			putF32(buf[i*size+8:], v[2])
		}
	case FormatVec4F32:
		for i, v := range a.f4 {
			putF32(buf[i*size:], v[0])
			putF32(buf[i*size+4:], v[1])
			putF32(buf[i*size+8:], v[2])
			putF32(buf[i*size+12:], v[3])
		}
	case FormatU32:
		for i, x := range a.u32 {
			binary.LittleEndian.PutUint32(buf[i*size:], x)
		}
	}
	return buf
}

func putF32(buf []byte, x float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
}

// rewriteZeroJointWeights rewrites (0,0,0,0) joint weights to
// (1,0,0,0), per spec.md §3's mesh insert invariant. It mutates a copy
// so the caller's slice is left untouched.
func rewriteZeroJointWeights(v [][4]float32) [][4]float32 {
	out := make([][4]float32, len(v))
	copy(out, v)
	for i, w := range out {
		if w == ([4]float32{}) {
			out[i] = [4]float32{1, 0, 0, 0}
		}
	}
	return out
}

type attributeEntry struct {
	desc   AttributeDescriptor
	values AttributeValues
}

// Mesh maps attribute ids to (descriptor, values). Iteration for
// interleaving always proceeds in ascending id order: that ordering is
// the engine's stable serialization contract (spec.md §3, §4.1).
type Mesh struct {
	attrs   map[AttributeID]attributeEntry
	indices []uint32
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{attrs: make(map[AttributeID]attributeEntry)}
}

// InsertAttribute stores values under desc. It fails with
// ErrSchemaMismatch if values' format disagrees with desc.Format, and
// silently rewrites (0,0,0,0) joint-weight values to (1,0,0,0) before
// storing.
func (m *Mesh) InsertAttribute(desc AttributeDescriptor, values AttributeValues) error {
	if values.Format() != desc.Format {
		return fmt.Errorf("%w: attribute %q wants %s, got %s", ErrSchemaMismatch, desc.Name, desc.Format, values.Format())
	}
	if desc.ID == JointWeight {
		values = Vec4s(rewriteZeroJointWeights(values.f4))
	}
	m.attrs[desc.ID] = attributeEntry{desc: desc, values: values}
	logrus.Debugf("mesh: inserted attribute %q (id=%d, format=%s, n=%d)", desc.Name, desc.ID, desc.Format, values.Len())
	return nil
}

// SetIndices stores the index buffer (spec.md §3's Index buffer).
func (m *Mesh) SetIndices(indices []uint32) {
	m.indices = append([]uint32(nil), indices...)
}

// Indices returns the stored index buffer, or nil if none was set.
func (m *Mesh) Indices() []uint32 { return m.indices }

// sortedIDs returns the attribute ids in ascending order: the stable
// iteration order for both Layout and InterleavedBytes.
func (m *Mesh) sortedIDs() []AttributeID {
	ids := make([]AttributeID, 0, len(m.attrs))
	for id := range m.attrs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// VertexCount returns the mesh's shared vertex count. It fails with
// ErrRaggedAttributes if attributes disagree.
func (m *Mesh) VertexCount() (int, error) {
	count := -1
	for _, id := range m.sortedIDs() {
		n := m.attrs[id].values.Len()
		if count == -1 {
			count = n
			continue
		}
		if n != count {
			iassert.Fail("mesh: attribute %d has %d vertices, want %d", id, n, count)
			return 0, fmt.Errorf("%w: attribute %d has %d vertices, want %d", ErrRaggedAttributes, id, n, count)
		}
	}
	if count == -1 {
		return 0, nil
	}
	return count, nil
}

// Layout returns the attribute formats in ascending-id order, matching
// the slice order InterleavedBytes uses.
func (m *Mesh) Layout() []AttributeFormat {
	ids := m.sortedIDs()
	out := make([]AttributeFormat, len(ids))
	for i, id := range ids {
		out[i] = m.attrs[id].desc.Format
	}
	return out
}

// Descriptors returns the attribute descriptors in ascending-id order.
func (m *Mesh) Descriptors() []AttributeDescriptor {
	ids := m.sortedIDs()
	out := make([]AttributeDescriptor, len(ids))
	for i, id := range ids {
		out[i] = m.attrs[id].desc
	}
	return out
}

// InterleavedBytes writes each vertex as its per-attribute byte runs
// concatenated in ascending id order (spec.md §3/§4.1's stable
// serialization contract).
func (m *Mesh) InterleavedBytes() ([]byte, error) {
	count, err := m.VertexCount()
	if err != nil {
		return nil, err
	}
	ids := m.sortedIDs()
	stride := 0
	for _, id := range ids {
		stride += m.attrs[id].desc.Format.Size()
	}
	buf := make([]byte, count*stride)
	offset := 0
	for _, id := range ids {
		entry := m.attrs[id]
		size := entry.desc.Format.Size()
		runs := entry.values.Bytes()
		for v := 0; v < count; v++ {
			copy(buf[v*stride+offset:], runs[v*size:v*size+size])
		}
		offset += size
	}
	return buf, nil
}
