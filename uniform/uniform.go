// Package uniform models the values a host passes into a shader program.
//
// A Value is a closed variant over the four float arities GLSL supports for
// plain uniforms (float, vec2, vec3, vec4). Values are immutable and compared
// by value, which is what makes cheap change detection possible for callers
// that rebuild their uniform maps on every parameter change.
package uniform

import "fmt"

// Arity counts of the supported uniform shapes.
const (
	arityFloat = 1
	arityVec2  = 2
	arityVec3  = 3
	arityVec4  = 4
)

// Value is a scalar or small vector destined for a named uniform slot.
// The zero Value is invalid; construct one with Float, Vec2, Vec3 or Vec4.
type Value struct {
	arity int
	v     [4]float32
}

// Float wraps a single float32.
func Float(x float32) Value {
	return Value{arity: arityFloat, v: [4]float32{x}}
}

// Vec2 wraps a 2-component vector.
func Vec2(x, y float32) Value {
	return Value{arity: arityVec2, v: [4]float32{x, y}}
}

// Vec3 wraps a 3-component vector.
func Vec3(x, y, z float32) Value {
	return Value{arity: arityVec3, v: [4]float32{x, y, z}}
}

// Vec4 wraps a 4-component vector.
func Vec4(x, y, z, w float32) Value {
	return Value{arity: arityVec4, v: [4]float32{x, y, z, w}}
}

// Arity returns the component count (1..4), or 0 for the invalid zero Value.
func (v Value) Arity() int { return v.arity }

// Floats returns the components; entries past Arity() are zero.
func (v Value) Floats() [4]float32 { return v.v }

// Equal reports whether two values have the same arity and components.
func (v Value) Equal(o Value) bool { return v == o }

func (v Value) String() string {
	switch v.arity {
	case arityFloat:
		return fmt.Sprintf("float(%g)", v.v[0])
	case arityVec2:
		return fmt.Sprintf("vec2(%g, %g)", v.v[0], v.v[1])
	case arityVec3:
		return fmt.Sprintf("vec3(%g, %g, %g)", v.v[0], v.v[1], v.v[2])
	case arityVec4:
		return fmt.Sprintf("vec4(%g, %g, %g, %g)", v.v[0], v.v[1], v.v[2], v.v[3])
	}
	return "uniform.Value(invalid)"
}

// Set maps uniform names to values. A Set has one-render lifetime from the
// surface's point of view: generators rebuild it whenever their own
// parameters change, and the surface only ever reads it.
type Set map[string]Value

// Clone returns an independent copy of the set. A nil set clones to nil.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	c := make(Set, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Equal reports whether both sets hold the same keys and values.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for k, v := range s {
		ov, ok := o[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
