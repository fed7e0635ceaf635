package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/internal/engine/state/statetest"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

func newProgram(t *testing.T, dev *statetest.Recorder, name string) *state.Program {
	t.Helper()
	p, err := state.CompileProgram(dev, name, "vs", "fs")
	require.NoError(t, err)
	return p
}

func floatSet(name string, v float32) *state.StateSet {
	ss := state.NewStateSet(name)
	ss.GetOrCreateUniform("seaLevel", state.UniformFloat).SetFloat(v)
	return ss
}

func TestCompileProgramError(t *testing.T) {
	dev := statetest.NewRecorder()
	dev.CompileErr = assert.AnError

	_, err := state.CompileProgram(dev, "surface", "vs", "fs")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `"surface"`)
}

func TestPushPopRestoresUniform(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)

	outer := floatSet("outer", 1)
	outer.SetProgram(newProgram(t, dev, "p"))
	inner := floatSet("inner", 2)

	s.PushStateSet(outer)
	s.PushStateSet(inner)
	u, ok := s.AppliedUniform("seaLevel")
	require.True(t, ok)
	assert.Equal(t, float32(2), u.Float())

	s.PopStateSet()
	u, _ = s.AppliedUniform("seaLevel")
	assert.Equal(t, float32(1), u.Float())
	assert.Equal(t, 1, s.StackDepth())

	calls := dev.UniformCalls("seaLevel")
	require.Len(t, calls, 3)
	assert.Equal(t, []float32{1}, calls[0].Floats)
	assert.Equal(t, []float32{2}, calls[1].Floats)
	assert.Equal(t, []float32{1}, calls[2].Floats)
}

func TestPopEmptyStackIsNoop(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)
	s.PopStateSet()
	assert.Equal(t, 0, s.StackDepth())
	assert.Empty(t, dev.Calls)
}

func TestApplyDoesNotPush(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)

	base := floatSet("base", 1)
	base.SetProgram(newProgram(t, dev, "p"))
	s.PushStateSet(base)

	s.Apply(floatSet("a", 5))
	assert.Equal(t, 1, s.StackDepth())
	u, _ := s.AppliedUniform("seaLevel")
	assert.Equal(t, float32(5), u.Float())

	// A second apply replaces the first outright.
	s.Apply(floatSet("b", 6))
	u, _ = s.AppliedUniform("seaLevel")
	assert.Equal(t, float32(6), u.Float())

	s.PopStateSet()
	assert.Equal(t, 0, s.StackDepth())
}

func TestApplyLeavesOwnUniformsOnPop(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)

	base := floatSet("base", 1)
	base.SetProgram(newProgram(t, dev, "p"))
	s.PushStateSet(base)

	tri := floatSet("triangle", 5)
	tri.GetOrCreateUniform("v0", state.UniformVec3).SetVec3(math.Vec3{X: 2})
	s.Apply(tri)

	group := state.NewStateSet("group")
	group.SetTexture(0, 3)
	s.PushStateSet(group)
	s.PopStateSet()

	// The stack puts its own seaLevel back; v0 is not on the stack and stays.
	sea, _ := s.AppliedUniform("seaLevel")
	assert.Equal(t, float32(1), sea.Float())
	v0, ok := s.AppliedUniform("v0")
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 2}, v0.Vec3())
	assert.Len(t, dev.UniformCalls("v0"), 1)
}

func TestRedundantValuesAreNotResent(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)

	base := floatSet("base", 1)
	base.SetProgram(newProgram(t, dev, "p"))
	s.PushStateSet(base)
	dev.Reset()

	same := floatSet("same", 1)
	s.Apply(same)
	s.Apply(same)
	assert.Zero(t, dev.Count("Uniform1f"))
	assert.Zero(t, dev.Count("UseProgram"))
}

func TestInactiveUniformIsSkipped(t *testing.T) {
	dev := statetest.NewRecorder()
	dev.Inactive["seaLevel"] = true
	s := state.New(dev)

	ss := floatSet("ss", 3)
	ss.SetProgram(newProgram(t, dev, "p"))
	s.PushStateSet(ss)
	assert.Zero(t, dev.Count("Uniform1f"))
}

func TestProgramSwitchUploadsMatrices(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)
	mv := math.Translate(math.Vec3{X: 1, Y: 2, Z: 3})
	s.ApplyModelViewMatrix(mv)
	assert.Zero(t, dev.Count("UniformMatrix4fv"), "no program, nothing to upload")

	ss := state.NewStateSet("ss")
	ss.SetProgram(newProgram(t, dev, "p"))
	s.PushStateSet(ss)

	calls := dev.UniformCalls(state.ModelViewUniform)
	require.Len(t, calls, 1)
	assert.Equal(t, mv[:], calls[0].Floats)
	assert.Len(t, dev.UniformCalls(state.ProjectionUniform), 1)

	s.ApplyModelViewMatrix(math.Identity())
	assert.Len(t, dev.UniformCalls(state.ModelViewUniform), 2)
	assert.Equal(t, math.Identity(), s.ModelViewMatrix())
}

func TestProgramRestoredOnPop(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)
	p1 := newProgram(t, dev, "p1")
	p2 := newProgram(t, dev, "p2")

	a := state.NewStateSet("a")
	a.SetProgram(p1)
	b := state.NewStateSet("b")
	b.SetProgram(p2)

	s.PushStateSet(a)
	s.PushStateSet(b)
	assert.Same(t, p2, s.CurrentProgram())
	s.PopStateSet()
	assert.Same(t, p1, s.CurrentProgram())
	s.PopStateSet()
	assert.Nil(t, s.CurrentProgram())

	var used []uint32
	for _, c := range dev.Filter("UseProgram") {
		used = append(used, c.ID)
	}
	assert.Equal(t, []uint32{p1.ID(), p2.ID(), p1.ID(), 0}, used)
}

func TestTexturesBoundAndUnbound(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)

	base := state.NewStateSet("base")
	base.SetTexture(0, 7)
	s.PushStateSet(base)

	extra := state.NewStateSet("extra")
	extra.SetTexture(1, 9)
	s.PushStateSet(extra)
	s.PopStateSet()
	s.PopStateSet()

	var got []string
	for _, c := range dev.Filter("BindTexture") {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"BindTexture unit0 7",
		"BindTexture unit1 9",
		"BindTexture unit1 0",
		"BindTexture unit0 0",
	}, got)
}

func TestBufferObjectCompiledOncePerContext(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)

	vbo := state.NewBufferObject(state.ArrayBuffer)
	verts := state.NewVec3Array([]math.Vec3{{}, {X: 1}, {Y: 1}}, vbo)
	coords := state.NewVec2Array([]math.Vec2{{}, {X: 1}, {Y: 1}}, vbo)
	assert.Equal(t, 0, verts.Offset())
	assert.Equal(t, 36, coords.Offset())
	assert.Equal(t, 60, vbo.Size())

	s.SetVertexPointer(verts)
	s.SetTexCoordPointer(0, coords)
	s.SetVertexPointer(verts)

	g := vbo.GLBufferObject(dev.ContextID())
	require.NotNil(t, g)
	assert.False(t, g.IsDirty())
	assert.Equal(t, 1, g.Uploads())
	assert.Equal(t, 1, dev.Count("BufferData"))
	assert.Equal(t, 2, dev.Count("BufferSubData"))
	assert.Equal(t, 1, dev.Count("BindBuffer"), "upload leaves the buffer bound")
	assert.Equal(t, 2, dev.Count("EnableVertexAttribArray"))
	assert.Equal(t, g.ID(), s.BoundBuffer(state.ArrayBuffer))

	g.Dirty()
	s.SetVertexPointer(verts)
	assert.Equal(t, 2, g.Uploads())
}

func TestBufferObjectsUnsupported(t *testing.T) {
	dev := statetest.NewRecorder()
	dev.NoBufferObjects = true
	s := state.New(dev)

	ebo := state.NewBufferObject(state.ElementArrayBuffer)
	e := state.NewElementArray(state.Triangles, []uint16{0, 1, 2}, ebo)
	s.DrawElements(e)

	assert.Nil(t, ebo.GLBufferObject(dev.ContextID()))
	assert.Zero(t, dev.Count("GenBuffer"))
	require.Equal(t, 1, dev.Count("DrawElements"))
	assert.Equal(t, int32(3), dev.Filter("DrawElements")[0].Count)
}

func TestUnbindOnlyWhenBound(t *testing.T) {
	dev := statetest.NewRecorder()
	s := state.New(dev)
	s.UnbindVertexBufferObject()
	s.UnbindElementBufferObject()
	assert.Zero(t, dev.Count("BindBuffer"))

	ebo := state.NewBufferObject(state.ElementArrayBuffer)
	s.DrawElements(state.NewElementArray(state.Triangles, []uint16{0, 1, 2}, ebo))
	s.UnbindElementBufferObject()
	binds := dev.Filter("BindBuffer")
	require.Len(t, binds, 2)
	assert.Equal(t, uint32(0), binds[1].ID)
	assert.Zero(t, s.BoundBuffer(state.ElementArrayBuffer))
}

func TestBufferRelease(t *testing.T) {
	dev := statetest.NewRecorder()
	bo := state.NewBufferObject(state.ArrayBuffer)
	g := bo.GetOrCreateGLBufferObject(dev)
	bo.Release(dev)
	dels := dev.Filter("DeleteBuffer")
	require.Len(t, dels, 1)
	assert.Equal(t, g.ID(), dels[0].ID)
	assert.Nil(t, bo.GLBufferObject(dev.ContextID()))
}
