package mesh

import "github.com/maja42/swraster/value"

// AttributeFormat names the wire representation of one vertex
// attribute's values, as distinct from the value.Kind a shader sees
// after decoding (U32 has no value.Kind counterpart and is only ever
// consumed as raw bits by user code, e.g. joint indices).
type AttributeFormat uint8

// The formats the vertex stage driver can decode (spec.md §3, §4.2).
const (
	FormatF32 AttributeFormat = iota
	FormatVec2F32
	FormatVec3F32
	FormatVec4F32
	FormatU32
)

// Size returns the format's size in bytes.
func (f AttributeFormat) Size() int {
	switch f {
	case FormatF32, FormatU32:
		return 4
	case FormatVec2F32:
		return 8
	case FormatVec3F32:
		return 12
	case FormatVec4F32:
		return 16
	}
	return 0
}

func (f AttributeFormat) String() string {
	switch f {
	case FormatF32:
		return "F32"
	case FormatVec2F32:
		return "Vec2F32"
	case FormatVec3F32:
		return "Vec3F32"
	case FormatVec4F32:
		return "Vec4F32"
	case FormatU32:
		return "U32"
	}
	return "UnsupportedFormat"
}

// ValueKind reports the value.Kind a decoded float attribute becomes.
// Only meaningful for float formats; callers must not call this for
// FormatU32.
func (f AttributeFormat) ValueKind() value.Kind {
	switch f {
	case FormatF32:
		return value.Scalar
	case FormatVec2F32:
		return value.Vec2
	case FormatVec3F32:
		return value.Vec3
	case FormatVec4F32:
		return value.Vec4
	}
	return value.Scalar
}
