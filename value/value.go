// Package value implements the tagged union used to carry typed data
// across the vertex/fragment shader ABI.
package value

import "fmt"

// Kind identifies which variant of Value is populated.
type Kind uint8

// The four variants a Value can hold. There are no others: shaders
// only ever exchange scalars and 2/3/4-component float vectors.
const (
	Scalar Kind = iota
	Vec2
	Vec3
	Vec4
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "Scalar"
	case Vec2:
		return "Vec2"
	case Vec3:
		return "Vec3"
	case Vec4:
		return "Vec4"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Components reports how many float32 components the kind carries.
func (k Kind) Components() int {
	switch k {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	}
	return 0
}

// Value is a tagged union of a scalar or a 2/3/4-component vector.
// Components beyond Kind.Components() are unused padding and must be
// ignored by callers; the constructors and Narrow keep them at zero.
type Value struct {
	kind Kind
	v    [4]float32
}

// F constructs a scalar value.
func F(x float32) Value { return Value{kind: Scalar, v: [4]float32{x, 0, 0, 0}} }

// V2 constructs a 2-component vector value.
func V2(x, y float32) Value { return Value{kind: Vec2, v: [4]float32{x, y, 0, 0}} }

// V3 constructs a 3-component vector value.
func V3(x, y, z float32) Value { return Value{kind: Vec3, v: [4]float32{x, y, z, 0}} }

// V4 constructs a 4-component vector value.
func V4(x, y, z, w float32) Value { return Value{kind: Vec4, v: [4]float32{x, y, z, w}} }

// Kind returns the variant currently held.
func (val Value) Kind() Kind { return val.kind }

// Elem returns component i, or 0 if i is beyond Kind.Components().
func (val Value) Elem(i int) float32 { return val.v[i] }

// Scalar returns the first component. Valid for any kind; callers that
// care about the declared kind should check Kind() first.
func (val Value) Scalar() float32 { return val.v[0] }

// AsVec4 widens val to a 4-vector, zero-padding any components beyond
// its declared kind. This is the representation used internally while
// interpolating attributes (spec: "treat the three vertex values as
// 4-vectors, widening scalars/shorter vectors with zeros").
func (val Value) AsVec4() [4]float32 { return val.v }

// Narrow truncates a 4-component value down to kind, discarding the
// components kind does not carry.
func Narrow(v [4]float32, kind Kind) Value {
	out := Value{kind: kind}
	copy(out.v[:kind.Components()], v[:kind.Components()])
	return out
}

// Lerp linearly blends 4-vectors by weight w (w==0 -> a, w==1 -> b).
func Lerp(a, b [4]float32, w float32) [4]float32 {
	var out [4]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*w
	}
	return out
}
