package state

import (
	"maps"
	"slices"
)

// StateSet is a block of rendering state: an optional program, uniforms in
// insertion order, and texture bindings by unit. A StateSet is applied
// through State, either pushed (restored on pop) or applied directly on top
// of the current stack.
type StateSet struct {
	name     string
	program  *Program
	uniforms []*Uniform
	index    map[string]int
	textures map[uint32]uint32
}

// NewStateSet returns an empty state set.
func NewStateSet(name string) *StateSet {
	return &StateSet{
		name:     name,
		index:    make(map[string]int),
		textures: make(map[uint32]uint32),
	}
}

// Name returns the label given at construction.
func (s *StateSet) Name() string { return s.name }

// SetProgram attaches a program; nil leaves the inherited program active.
func (s *StateSet) SetProgram(p *Program) { s.program = p }

// Program returns the attached program or nil.
func (s *StateSet) Program() *Program { return s.program }

// AddUniform adds u, replacing any uniform with the same name.
func (s *StateSet) AddUniform(u *Uniform) {
	if i, ok := s.index[u.name]; ok {
		s.uniforms[i] = u
		return
	}
	s.index[u.name] = len(s.uniforms)
	s.uniforms = append(s.uniforms, u)
}

// GetOrCreateUniform returns the named uniform, creating it when missing or
// when the existing one has a different type.
func (s *StateSet) GetOrCreateUniform(name string, typ UniformType) *Uniform {
	if u := s.Uniform(name); u != nil && u.Type() == typ {
		return u
	}
	u := NewUniform(name, typ)
	s.AddUniform(u)
	return u
}

// Uniform returns the named uniform or nil.
func (s *StateSet) Uniform(name string) *Uniform {
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	return s.uniforms[i]
}

// Uniforms returns the uniforms in insertion order. The slice must not be modified.
func (s *StateSet) Uniforms() []*Uniform { return s.uniforms }

// SetTexture binds texture to unit. A zero texture removes the binding.
func (s *StateSet) SetTexture(unit, texture uint32) {
	if texture == 0 {
		delete(s.textures, unit)
		return
	}
	s.textures[unit] = texture
}

// Texture returns the texture bound to unit.
func (s *StateSet) Texture(unit uint32) (uint32, bool) {
	t, ok := s.textures[unit]
	return t, ok
}

// TextureUnits returns the bound units in ascending order.
func (s *StateSet) TextureUnits() []uint32 {
	return slices.Sorted(maps.Keys(s.textures))
}
