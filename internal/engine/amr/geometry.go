package amr

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/ocean-amr/internal/engine/amr/shaders"
	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/internal/logger"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// ErrShaderCompile wraps a failure to build the surface program. It is
// not retried.
var ErrShaderCompile = errors.New("amr: shader program failed to compile")

const programName = "AMRGeometry"

// Config holds surface settings.
type Config struct {
	PatchRows int     // pattern resolution, DefaultPatchRows if zero
	SeaLevel  float32 // initial seaLevel uniform

	// LightDirection points towards the light in world space. Straight up
	// if zero.
	LightDirection math.Vec3
}

// DrawStats summarizes one Draw.
type DrawStats struct {
	Groups    int
	Templates int // triangles drawn, one pattern instance each
	Vertices  int
	Elements  int
	Triangles int
}

// drawList is an immutable snapshot of the groups to draw together with
// their lazily computed bound and the sea level it was computed at.
type drawList struct {
	groups []*Drawable

	boundMu    sync.Mutex
	boundValid bool
	boundLevel float32
	bound      math.Box3
}

// Geometry is the AMR surface. SetDrawList and ClearDrawList may be called
// from an update goroutine; every other method belongs to the render
// thread.
type Geometry struct {
	log *zap.Logger

	pattern  *Pattern
	program  *state.Program
	stateSet *state.StateSet
	seaLevel *state.Uniform
	lightDir *state.Uniform

	list atomic.Pointer[drawList]

	boundComputes atomic.Int64
	lastTemplates int
}

// New compiles the surface program on dev and attaches the shared pattern
// for cfg.PatchRows.
func New(dev state.Device, cfg Config) (*Geometry, error) {
	if cfg.PatchRows == 0 {
		cfg.PatchRows = DefaultPatchRows
	}
	pattern, err := SharedPattern(cfg.PatchRows)
	if err != nil {
		return nil, err
	}

	program, err := state.CompileProgram(dev, programName, shaders.VertexShader, shaders.FragmentShader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	g := &Geometry{
		log:      logger.Named("amr"),
		pattern:  pattern,
		program:  program,
		stateSet: state.NewStateSet(programName),
	}
	g.stateSet.SetProgram(program)
	g.seaLevel = g.stateSet.GetOrCreateUniform(uniformSeaLevel, state.UniformFloat)
	g.seaLevel.SetFloat(cfg.SeaLevel)
	g.lightDir = g.stateSet.GetOrCreateUniform(uniformLightDir, state.UniformVec3)
	g.SetLightDirection(cfg.LightDirection)
	g.list.Store(&drawList{})

	g.log.Debug("surface created",
		zap.Int("rows", pattern.Rows()),
		zap.Int("verts", pattern.NumVertices()),
		zap.Int("tris", pattern.NumTriangles()))
	return g, nil
}

// Pattern returns the shared pattern.
func (g *Geometry) Pattern() *Pattern { return g.pattern }

// StateSet returns the surface state set: the program, seaLevel and
// lightDir.
func (g *Geometry) StateSet() *state.StateSet { return g.stateSet }

// SetSeaLevel changes the seaLevel uniform for subsequent draws.
func (g *Geometry) SetSeaLevel(level float32) { g.seaLevel.SetFloat(level) }

// SeaLevel returns the current seaLevel uniform value.
func (g *Geometry) SeaLevel() float32 { return g.seaLevel.Float() }

// SetLightDirection changes the lightDir uniform. A zero vector means
// straight up.
func (g *Geometry) SetLightDirection(dir math.Vec3) {
	if dir == (math.Vec3{}) {
		dir = math.Vec3{Y: 1}
	}
	g.lightDir.SetVec3(dir.Normalize())
}

// LightDirection returns the current lightDir uniform value.
func (g *Geometry) LightDirection() math.Vec3 { return g.lightDir.Vec3() }

// SetDrawList replaces the groups to draw. The slice is copied; the groups
// themselves must not change afterwards.
func (g *Geometry) SetDrawList(groups []*Drawable) {
	g.list.Store(&drawList{groups: slices.Clone(groups)})
}

// ClearDrawList drops every group. An already empty list keeps its cached
// bound.
func (g *Geometry) ClearDrawList() {
	cur := g.list.Load()
	if len(cur.groups) > 0 {
		g.list.CompareAndSwap(cur, &drawList{})
	}
}

// DrawList returns the current groups. The slice must not be modified.
func (g *Geometry) DrawList() []*Drawable { return g.list.Load().groups }

// Bound returns the bound of the current draw list as drawn at the current
// sea level. It is computed once per list and again when the sea level
// changes.
func (g *Geometry) Bound() math.Box3 {
	l := g.list.Load()
	level := g.SeaLevel()

	l.boundMu.Lock()
	defer l.boundMu.Unlock()
	if !l.boundValid || l.boundLevel != level {
		l.bound = computeBound(l.groups, level)
		l.boundLevel = level
		l.boundValid = true
		g.boundComputes.Add(1)
	}
	return l.bound
}

// ComputeBound recomputes the bound of the current draw list at the
// current sea level. An empty list yields an invalid box.
func (g *Geometry) ComputeBound() math.Box3 {
	return computeBound(g.list.Load().groups, g.SeaLevel())
}

func computeBound(groups []*Drawable, seaLevel float32) math.Box3 {
	box := math.EmptyBox()
	for _, d := range groups {
		d.ExpandDisplaced(&box, seaLevel)
	}
	return box
}

// CompileGLObjects uploads the pattern buffers that are not current in the
// state's context and leaves no buffer bound. Calling it again is a no-op.
func (g *Geometry) CompileGLObjects(s *state.State) {
	dev := s.Device()
	if !dev.SupportsBufferObjects() {
		g.log.Warn("buffer objects unsupported, skipping compile", zap.Uint32("context", s.ContextID()))
		return
	}

	for _, bo := range g.pattern.BufferObjects() {
		gbo := bo.GetOrCreateGLBufferObject(dev)
		if s.CompileBufferObject(gbo) {
			g.log.Debug("compiled buffer",
				zap.Stringer("target", bo.Target()),
				zap.Uint32("id", gbo.ID()),
				zap.Int("bytes", bo.Size()))
		}
	}

	s.UnbindVertexBufferObject()
	s.UnbindElementBufferObject()
}

// Draw renders the current draw list. The shared arrays are bound once and
// the surface state is pushed; each group is pushed and popped around its
// triangles, while each triangle's uniforms are applied in place before its
// pattern draw.
func (g *Geometry) Draw(s *state.State) DrawStats {
	list := g.list.Load()
	p := g.pattern

	s.SetVertexPointer(p.weights)
	s.SetTexCoordPointer(0, p.texCoords)

	s.PushStateSet(g.stateSet)

	modelView := s.ModelViewMatrix()
	moved := false

	templates := 0
	for _, d := range list.groups {
		s.PushStateSet(d.StateSet)

		for _, t := range d.Triangles {
			s.Apply(t.stateSet)

			if t.localized {
				s.ApplyModelViewMatrix(modelView.Mul(t.localToWorld))
				moved = true
			} else if moved {
				s.ApplyModelViewMatrix(modelView)
				moved = false
			}

			s.DrawElements(p.elements)
			templates++
		}

		s.PopStateSet()
	}

	if moved {
		s.ApplyModelViewMatrix(modelView)
	}

	s.PopStateSet()

	s.UnbindVertexBufferObject()
	s.UnbindElementBufferObject()

	stats := DrawStats{
		Groups:    len(list.groups),
		Templates: templates,
		Vertices:  templates * p.NumVertices(),
		Elements:  templates * p.NumElements(),
		Triangles: templates * p.NumTriangles(),
	}
	if templates != g.lastTemplates {
		g.lastTemplates = templates
		g.log.Debug("draw list changed",
			zap.Int("templates", stats.Templates),
			zap.Int("verts", stats.Vertices),
			zap.Int("tris", stats.Triangles),
			zap.Int("elements", stats.Elements))
	}
	return stats
}

// Release deletes the surface program. The shared pattern is left to
// PurgePatterns.
func (g *Geometry) Release() {
	g.program.Release()
}
