package state

import (
	"fmt"

	"github.com/Faultbox/ocean-amr/pkg/math"
)

// UniformType is the GLSL type of a uniform.
type UniformType int

const (
	UniformInt UniformType = iota
	UniformFloat
	UniformVec2
	UniformVec3
)

func (t UniformType) String() string {
	switch t {
	case UniformInt:
		return "int"
	case UniformFloat:
		return "float"
	case UniformVec2:
		return "vec2"
	case UniformVec3:
		return "vec3"
	default:
		return fmt.Sprintf("UniformType(%d)", int(t))
	}
}

// uniformValue is comparable so applied values can be diffed with ==.
type uniformValue struct {
	typ UniformType
	i   int32
	f   [3]float32
}

// Uniform is a named, typed shader parameter.
type Uniform struct {
	name  string
	value uniformValue
}

// NewUniform returns a zero-valued uniform.
func NewUniform(name string, typ UniformType) *Uniform {
	return &Uniform{name: name, value: uniformValue{typ: typ}}
}

// Name returns the uniform name as declared in GLSL.
func (u *Uniform) Name() string { return u.name }

// Type returns the uniform type.
func (u *Uniform) Type() UniformType { return u.value.typ }

// SetInt sets an int uniform. It returns false on a type mismatch.
func (u *Uniform) SetInt(v int32) bool {
	if u.value.typ != UniformInt {
		return false
	}
	u.value.i = v
	return true
}

// SetFloat sets a float uniform. It returns false on a type mismatch.
func (u *Uniform) SetFloat(v float32) bool {
	if u.value.typ != UniformFloat {
		return false
	}
	u.value.f[0] = v
	return true
}

// SetVec2 sets a vec2 uniform. It returns false on a type mismatch.
func (u *Uniform) SetVec2(v math.Vec2) bool {
	if u.value.typ != UniformVec2 {
		return false
	}
	u.value.f = [3]float32{v.X, v.Y, 0}
	return true
}

// SetVec3 sets a vec3 uniform. It returns false on a type mismatch.
func (u *Uniform) SetVec3(v math.Vec3) bool {
	if u.value.typ != UniformVec3 {
		return false
	}
	u.value.f = [3]float32{v.X, v.Y, v.Z}
	return true
}

func (u *Uniform) Int() int32      { return u.value.i }
func (u *Uniform) Float() float32  { return u.value.f[0] }
func (u *Uniform) Vec2() math.Vec2 { return math.Vec2{X: u.value.f[0], Y: u.value.f[1]} }
func (u *Uniform) Vec3() math.Vec3 { return math.Vec3{X: u.value.f[0], Y: u.value.f[1], Z: u.value.f[2]} }

func (u *Uniform) String() string {
	switch u.value.typ {
	case UniformInt:
		return fmt.Sprintf("%s=%d", u.name, u.value.i)
	case UniformFloat:
		return fmt.Sprintf("%s=%g", u.name, u.value.f[0])
	case UniformVec2:
		return fmt.Sprintf("%s=(%g,%g)", u.name, u.value.f[0], u.value.f[1])
	default:
		return fmt.Sprintf("%s=(%g,%g,%g)", u.name, u.value.f[0], u.value.f[1], u.value.f[2])
	}
}

func (v uniformValue) upload(dev Device, loc int32) {
	switch v.typ {
	case UniformInt:
		dev.Uniform1i(loc, v.i)
	case UniformFloat:
		dev.Uniform1f(loc, v.f[0])
	case UniformVec2:
		dev.Uniform2f(loc, v.f[0], v.f[1])
	case UniformVec3:
		dev.Uniform3f(loc, v.f[0], v.f[1], v.f[2])
	}
}
