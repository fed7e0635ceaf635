// Package statetest provides a recording state.Device for tests that
// exercise draw code without a GPU.
package statetest

import (
	"fmt"
	"unsafe"

	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// Call is one recorded device call. Only the fields relevant to Op are set.
type Call struct {
	Op      string
	ID      uint32 // program, buffer or texture name
	Unit    uint32 // texture unit or attribute index
	Target  state.BufferTarget
	Mode    state.PrimitiveMode
	Name    string // uniform name, resolved from its location
	Int     int32
	Floats  []float32
	Size    int
	Offset  int
	Count   int32
	Program uint32 // program current when the call was made
}

func (c Call) String() string {
	switch c.Op {
	case "Uniform1i":
		return fmt.Sprintf("%s %s=%d", c.Op, c.Name, c.Int)
	case "Uniform1f", "Uniform2f", "Uniform3f", "UniformMatrix4fv":
		return fmt.Sprintf("%s %s=%v", c.Op, c.Name, c.Floats)
	case "BindBuffer":
		return fmt.Sprintf("%s %s %d", c.Op, c.Target, c.ID)
	case "BindTexture":
		return fmt.Sprintf("%s unit%d %d", c.Op, c.Unit, c.ID)
	case "UseProgram":
		return fmt.Sprintf("%s %d", c.Op, c.ID)
	case "DrawElements":
		return fmt.Sprintf("%s count=%d offset=%d", c.Op, c.Count, c.Offset)
	default:
		return c.Op
	}
}

// Recorder implements state.Device by recording calls. Program and buffer
// names are handed out from 1 upward; uniform locations are assigned per
// program on first lookup.
type Recorder struct {
	Context uint32

	// NoBufferObjects makes SupportsBufferObjects report false.
	NoBufferObjects bool
	// CompileErr is returned from every CompileProgram when set.
	CompileErr error
	// Inactive names uniforms that report location -1.
	Inactive map[string]bool

	Calls []Call

	nextID    uint32
	current   uint32
	locations map[uint32]map[string]int32
	names     map[uint32]map[int32]string
}

var _ state.Device = (*Recorder)(nil)

// NewRecorder returns a Recorder for context 0.
func NewRecorder() *Recorder {
	return &Recorder{
		locations: make(map[uint32]map[string]int32),
		names:     make(map[uint32]map[int32]string),
		Inactive:  make(map[string]bool),
	}
}

func (r *Recorder) record(c Call) {
	c.Program = r.current
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) genID() uint32 {
	r.nextID++
	return r.nextID
}

// Reset drops recorded calls but keeps names and locations.
func (r *Recorder) Reset() { r.Calls = nil }

// Ops returns the op names in call order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the calls with the given op.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls had the given op.
func (r *Recorder) Count(op string) int {
	return len(r.Filter(op))
}

// UniformCalls returns uniform uploads for name, in order.
func (r *Recorder) UniformCalls(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) ContextID() uint32           { return r.Context }
func (r *Recorder) SupportsBufferObjects() bool { return !r.NoBufferObjects }

func (r *Recorder) CompileProgram(name, vertexSrc, fragmentSrc string) (uint32, error) {
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	if r.locations == nil {
		r.locations = make(map[uint32]map[string]int32)
		r.names = make(map[uint32]map[int32]string)
	}
	id := r.genID()
	r.locations[id] = make(map[string]int32)
	r.names[id] = make(map[int32]string)
	r.record(Call{Op: "CompileProgram", ID: id, Name: name})
	return id, nil
}

func (r *Recorder) DeleteProgram(id uint32) {
	r.record(Call{Op: "DeleteProgram", ID: id})
}

func (r *Recorder) UseProgram(id uint32) {
	r.current = id
	r.record(Call{Op: "UseProgram", ID: id})
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	if r.Inactive[name] {
		return -1
	}
	locs := r.locations[program]
	if locs == nil {
		return -1
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(len(locs))
	locs[name] = loc
	r.names[program][loc] = name
	return loc
}

func (r *Recorder) nameOf(loc int32) string {
	return r.names[r.current][loc]
}

func (r *Recorder) Uniform1i(loc int32, v int32) {
	r.record(Call{Op: "Uniform1i", Name: r.nameOf(loc), Int: v})
}

func (r *Recorder) Uniform1f(loc int32, v float32) {
	r.record(Call{Op: "Uniform1f", Name: r.nameOf(loc), Floats: []float32{v}})
}

func (r *Recorder) Uniform2f(loc int32, x, y float32) {
	r.record(Call{Op: "Uniform2f", Name: r.nameOf(loc), Floats: []float32{x, y}})
}

func (r *Recorder) Uniform3f(loc int32, x, y, z float32) {
	r.record(Call{Op: "Uniform3f", Name: r.nameOf(loc), Floats: []float32{x, y, z}})
}

func (r *Recorder) UniformMatrix4fv(loc int32, m *math.Mat4) {
	r.record(Call{Op: "UniformMatrix4fv", Name: r.nameOf(loc), Floats: append([]float32(nil), m[:]...)})
}

func (r *Recorder) BindTexture(unit uint32, texture uint32) {
	r.record(Call{Op: "BindTexture", Unit: unit, ID: texture})
}

func (r *Recorder) GenBuffer() uint32 {
	id := r.genID()
	r.record(Call{Op: "GenBuffer", ID: id})
	return id
}

func (r *Recorder) DeleteBuffer(id uint32) {
	r.record(Call{Op: "DeleteBuffer", ID: id})
}

func (r *Recorder) BindBuffer(target state.BufferTarget, id uint32) {
	r.record(Call{Op: "BindBuffer", Target: target, ID: id})
}

func (r *Recorder) BufferData(target state.BufferTarget, size int) {
	r.record(Call{Op: "BufferData", Target: target, Size: size})
}

func (r *Recorder) BufferSubData(target state.BufferTarget, offset, size int, data unsafe.Pointer) {
	r.record(Call{Op: "BufferSubData", Target: target, Offset: offset, Size: size})
}

func (r *Recorder) VertexAttribPointer(index uint32, components int32, offset int) {
	r.record(Call{Op: "VertexAttribPointer", Unit: index, Count: components, Offset: offset})
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record(Call{Op: "EnableVertexAttribArray", Unit: index})
}

func (r *Recorder) DrawElements(mode state.PrimitiveMode, count int32, offset int) {
	r.record(Call{Op: "DrawElements", Mode: mode, Count: count, Offset: offset})
}
