package state

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/ocean-amr/internal/logger"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// Built-in matrix uniforms uploaded whenever a program becomes current or a
// matrix changes.
const (
	ModelViewUniform  = "uModelView"
	ProjectionUniform = "uProjection"
)

// attributeSet is the merged content of the state set stack.
type attributeSet struct {
	program  *Program
	uniforms []*Uniform
	index    map[string]int
	textures map[uint32]uint32
}

func (a *attributeSet) reset() {
	a.program = nil
	a.uniforms = a.uniforms[:0]
	clear(a.index)
	clear(a.textures)
}

func (a *attributeSet) merge(ss *StateSet) {
	if ss.program != nil {
		a.program = ss.program
	}
	for _, u := range ss.uniforms {
		if i, ok := a.index[u.name]; ok {
			a.uniforms[i] = u
			continue
		}
		a.index[u.name] = len(a.uniforms)
		a.uniforms = append(a.uniforms, u)
	}
	for unit, tex := range ss.textures {
		a.textures[unit] = tex
	}
}

// State tracks what has been sent to a Device and applies state sets with
// stack discipline. PushStateSet/PopStateSet layer state that must be
// restored; Apply overwrites the active values on top of the stack without
// recording anything to restore. Only values that differ from what the
// device already holds are sent.
type State struct {
	dev Device
	log *zap.Logger

	stack []*StateSet
	base  attributeSet

	program  *Program
	uniforms map[string]uniformValue
	textures map[uint32]uint32

	modelView  math.Mat4
	projection math.Mat4

	bound   map[BufferTarget]uint32
	enabled map[uint32]bool
}

// New returns a State for dev with identity matrices and nothing applied.
func New(dev Device) *State {
	s := &State{
		dev: dev,
		log: logger.Named("state"),
		base: attributeSet{
			index:    make(map[string]int),
			textures: make(map[uint32]uint32),
		},
		uniforms:   make(map[string]uniformValue),
		textures:   make(map[uint32]uint32),
		modelView:  math.Identity(),
		projection: math.Identity(),
		bound:      make(map[BufferTarget]uint32),
		enabled:    make(map[uint32]bool),
	}
	return s
}

// Device returns the backend.
func (s *State) Device() Device { return s.dev }

// ContextID returns the backend context id.
func (s *State) ContextID() uint32 { return s.dev.ContextID() }

// StackDepth returns the number of pushed state sets.
func (s *State) StackDepth() int { return len(s.stack) }

// PushStateSet layers ss on top of the stack and applies the result.
func (s *State) PushStateSet(ss *StateSet) {
	s.stack = append(s.stack, ss)
	s.base.merge(ss)
	s.apply(nil)
}

// PopStateSet removes the top state set and restores what it overrode.
func (s *State) PopStateSet() {
	if len(s.stack) == 0 {
		s.log.Warn("pop on empty state stack")
		return
	}
	s.stack[len(s.stack)-1] = nil
	s.stack = s.stack[:len(s.stack)-1]
	s.rebuildBase()
	s.apply(nil)
}

// Apply makes ss current on top of the stack without pushing it. Values in
// ss replace the active ones. The next push, pop or apply puts back program
// and texture bindings the stack defines; uniforms only ss set stay on the
// device until something sets them again.
func (s *State) Apply(ss *StateSet) {
	s.apply(ss)
}

func (s *State) rebuildBase() {
	s.base.reset()
	for _, ss := range s.stack {
		s.base.merge(ss)
	}
}

func (s *State) apply(extra *StateSet) {
	prog := s.base.program
	if extra != nil && extra.program != nil {
		prog = extra.program
	}
	s.useProgram(prog)

	s.applyTextures(extra)

	for _, u := range s.base.uniforms {
		if extra != nil {
			if _, ok := extra.index[u.name]; ok {
				continue
			}
		}
		s.applyUniform(u)
	}
	if extra != nil {
		for _, u := range extra.uniforms {
			s.applyUniform(u)
		}
	}
}

func (s *State) useProgram(p *Program) {
	if p == s.program {
		return
	}
	s.program = p
	clear(s.uniforms)
	if p == nil {
		s.dev.UseProgram(0)
		return
	}
	s.dev.UseProgram(p.id)
	s.uploadMatrices()
}

func (s *State) applyTextures(extra *StateSet) {
	want := func(unit uint32) (uint32, bool) {
		if extra != nil {
			if t, ok := extra.textures[unit]; ok {
				return t, true
			}
		}
		t, ok := s.base.textures[unit]
		return t, ok
	}

	for _, unit := range slices.Sorted(maps.Keys(s.textures)) {
		if _, ok := want(unit); !ok {
			s.dev.BindTexture(unit, 0)
			delete(s.textures, unit)
		}
	}

	units := slices.Collect(maps.Keys(s.base.textures))
	if extra != nil {
		units = append(units, slices.Collect(maps.Keys(extra.textures))...)
	}
	slices.Sort(units)
	for _, unit := range slices.Compact(units) {
		tex, _ := want(unit)
		if cur, ok := s.textures[unit]; ok && cur == tex {
			continue
		}
		s.dev.BindTexture(unit, tex)
		s.textures[unit] = tex
	}
}

func (s *State) applyUniform(u *Uniform) {
	if s.program == nil {
		return
	}
	if cur, ok := s.uniforms[u.name]; ok && cur == u.value {
		return
	}
	if loc := s.program.Location(u.name); loc >= 0 {
		u.value.upload(s.dev, loc)
	}
	s.uniforms[u.name] = u.value
}

// AppliedUniform returns the value last sent for name under the current
// program, as a detached Uniform.
func (s *State) AppliedUniform(name string) (*Uniform, bool) {
	v, ok := s.uniforms[name]
	if !ok {
		return nil, false
	}
	return &Uniform{name: name, value: v}, true
}

// CurrentProgram returns the program in use, or nil.
func (s *State) CurrentProgram() *Program { return s.program }

// ModelViewMatrix returns the current model-view matrix.
func (s *State) ModelViewMatrix() math.Mat4 { return s.modelView }

// ProjectionMatrix returns the current projection matrix.
func (s *State) ProjectionMatrix() math.Mat4 { return s.projection }

// ApplyModelViewMatrix replaces the model-view matrix and uploads it to the
// current program.
func (s *State) ApplyModelViewMatrix(m math.Mat4) {
	s.modelView = m
	s.uploadMatrix(ModelViewUniform, &s.modelView)
}

// SetProjectionMatrix replaces the projection matrix and uploads it to the
// current program.
func (s *State) SetProjectionMatrix(m math.Mat4) {
	s.projection = m
	s.uploadMatrix(ProjectionUniform, &s.projection)
}

func (s *State) uploadMatrices() {
	s.uploadMatrix(ModelViewUniform, &s.modelView)
	s.uploadMatrix(ProjectionUniform, &s.projection)
}

func (s *State) uploadMatrix(name string, m *math.Mat4) {
	if s.program == nil {
		return
	}
	if loc := s.program.Location(name); loc >= 0 {
		s.dev.UniformMatrix4fv(loc, m)
	}
}

// CompileBufferObject uploads g if it is dirty. It reports whether an
// upload happened; the buffer stays bound afterwards.
func (s *State) CompileBufferObject(g *GLBufferObject) bool {
	if g == nil || !g.dirty {
		return false
	}
	g.compile(s.dev)
	s.bound[g.parent.target] = g.id
	return true
}

func (s *State) bindBufferObject(bo *BufferObject) {
	g := bo.GetOrCreateGLBufferObject(s.dev)
	if g == nil {
		return
	}
	if s.CompileBufferObject(g) {
		return
	}
	if s.bound[bo.target] != g.id {
		s.dev.BindBuffer(bo.target, g.id)
		s.bound[bo.target] = g.id
	}
}

// BoundBuffer returns the buffer name bound to target, zero if none.
func (s *State) BoundBuffer(target BufferTarget) uint32 { return s.bound[target] }

// SetVertexPointer binds a as the vertex position attribute.
func (s *State) SetVertexPointer(a *Vec3Array) {
	s.bindBufferObject(a.buffer)
	s.dev.VertexAttribPointer(VertexAttrib, 3, a.offset)
	s.enableAttrib(VertexAttrib)
}

// SetTexCoordPointer binds a as the texture coordinate attribute of unit.
func (s *State) SetTexCoordPointer(unit uint32, a *Vec2Array) {
	s.bindBufferObject(a.buffer)
	s.dev.VertexAttribPointer(TexCoordAttrib+unit, 2, a.offset)
	s.enableAttrib(TexCoordAttrib + unit)
}

func (s *State) enableAttrib(index uint32) {
	if s.enabled[index] {
		return
	}
	s.dev.EnableVertexAttribArray(index)
	s.enabled[index] = true
}

// DrawElements issues one indexed draw of e against the bound arrays.
func (s *State) DrawElements(e *ElementArray) {
	s.bindBufferObject(e.buffer)
	s.dev.DrawElements(e.Mode, int32(len(e.Indices)), e.offset)
}

// UnbindVertexBufferObject clears the array buffer binding.
func (s *State) UnbindVertexBufferObject() {
	s.unbind(ArrayBuffer)
}

// UnbindElementBufferObject clears the element buffer binding.
func (s *State) UnbindElementBufferObject() {
	s.unbind(ElementArrayBuffer)
}

func (s *State) unbind(target BufferTarget) {
	if s.bound[target] == 0 {
		return
	}
	s.dev.BindBuffer(target, 0)
	s.bound[target] = 0
}

// Reset forgets everything applied so the next calls resend full state.
// Use it after other code has touched the device directly.
func (s *State) Reset() {
	if len(s.stack) > 0 {
		s.log.Warn("state reset with pushed state sets", zap.Int("depth", len(s.stack)))
	}
	s.stack = s.stack[:0]
	s.base.reset()
	s.program = nil
	clear(s.uniforms)
	clear(s.textures)
	clear(s.bound)
	clear(s.enabled)
}
