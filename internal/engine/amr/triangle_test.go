package amr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

func node(x, y, z float32) MeshNode {
	return MeshNode{
		Vertex:        math.Vec3{X: x, Y: y, Z: z},
		Normal:        math.Vec3{Z: 1},
		GeodeticCoord: math.Vec3{X: x * 10, Y: y * 10},
	}
}

func unitTriangle(opts ...TriangleOption) *Triangle {
	return NewTriangle(
		node(0, 0, 0), math.Vec2{X: 0, Y: 0},
		node(1, 0, 0), math.Vec2{X: 1, Y: 0},
		node(0, 1, 0), math.Vec2{X: 0, Y: 1},
		opts...,
	)
}

func uniformVec3(t *testing.T, ss *state.StateSet, name string) math.Vec3 {
	t.Helper()
	u := ss.Uniform(name)
	require.NotNil(t, u, "uniform %s", name)
	require.Equal(t, state.UniformVec3, u.Type(), "uniform %s", name)
	return u.Vec3()
}

func uniformVec2(t *testing.T, ss *state.StateSet, name string) math.Vec2 {
	t.Helper()
	u := ss.Uniform(name)
	require.NotNil(t, u, "uniform %s", name)
	require.Equal(t, state.UniformVec2, u.Type(), "uniform %s", name)
	return u.Vec2()
}

func TestTriangleUniforms(t *testing.T) {
	tri := unitTriangle()
	ss := tri.StateSet()

	assert.Equal(t, math.Vec3{X: 0, Y: 0, Z: 0}, uniformVec3(t, ss, "v0"))
	assert.Equal(t, math.Vec3{X: 1, Y: 0, Z: 0}, uniformVec3(t, ss, "v1"))
	assert.Equal(t, math.Vec3{X: 0, Y: 1, Z: 0}, uniformVec3(t, ss, "v2"))
	assert.Equal(t, math.Vec2{X: 0, Y: 0}, uniformVec2(t, ss, "t0"))
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, uniformVec2(t, ss, "t1"))
	assert.Equal(t, math.Vec2{X: 0, Y: 1}, uniformVec2(t, ss, "t2"))
	for _, name := range []string{"n0", "n1", "n2"} {
		assert.Equal(t, math.Vec3{Z: 1}, uniformVec3(t, ss, name))
	}
	assert.Equal(t, math.Vec3{X: 10}, uniformVec3(t, ss, "c1"))
	assert.Equal(t, math.Vec3{Y: 10}, uniformVec3(t, ss, "c2"))

	tex := ss.Uniform("tex0")
	require.NotNil(t, tex)
	assert.Equal(t, state.UniformInt, tex.Type())
	assert.Equal(t, int32(0), tex.Int())

	assert.Len(t, ss.Uniforms(), 13)
	assert.Nil(t, ss.Program(), "triangles never switch programs")
	assert.False(t, tri.Localized())
	assert.Equal(t, math.Identity(), tri.LocalToWorld())
}

func TestTriangleLocalized(t *testing.T) {
	tri := NewTriangle(
		node(100, 0, 0), math.Vec2{},
		node(103, 0, 0), math.Vec2{},
		node(100, 3, 0), math.Vec2{},
		WithLocalizedVertices(),
	)
	require.True(t, tri.Localized())
	ss := tri.StateSet()

	v0 := uniformVec3(t, ss, "v0")
	v1 := uniformVec3(t, ss, "v1")
	v2 := uniformVec3(t, ss, "v2")
	assert.True(t, v0.Add(v1).Add(v2).ApproxEqual(math.Vec3{}, 1e-4), "local corners centered on the centroid")
	assert.True(t, v0.ApproxEqual(math.Vec3{X: -1, Y: -1}, 1e-4), "v0 = %v", v0)

	for i, v := range []math.Vec3{v0, v1, v2} {
		world := tri.LocalToWorld().TransformPoint(v)
		assert.True(t, world.ApproxEqual(tri.Node(i).Vertex, 1e-4), "corner %d", i)
	}
	assert.True(t, tri.LocalToWorld().Translation().ApproxEqual(math.Vec3{X: 101, Y: 1}, 1e-4))
	id, roundTrip := math.Identity(), tri.LocalToWorld().Mul(tri.WorldToLocal())
	assert.InDeltaSlice(t, id[:], roundTrip[:], 1e-4)

	// Normals stay as given under a pure translation.
	assert.Equal(t, math.Vec3{Z: 1}, uniformVec3(t, ss, "n0"))

	// Bounds use world positions.
	box := math.EmptyBox()
	tri.Expand(&box)
	assert.Equal(t, math.Vec3{X: 100, Y: 0, Z: 0}, box.Min)
	assert.Equal(t, math.Vec3{X: 103, Y: 3, Z: 0}, box.Max)
}

func TestTriangleExpandIsAdditive(t *testing.T) {
	box := math.EmptyBox()
	box.ExpandBy(math.Vec3{X: -5, Y: -5, Z: -5})
	unitTriangle().Expand(&box)
	assert.Equal(t, math.Vec3{X: -5, Y: -5, Z: -5}, box.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 0}, box.Max)
}

func TestTriangleDegenerateDoesNotPanic(t *testing.T) {
	n := node(1, 1, 1)
	tri := NewTriangle(n, math.Vec2{}, n, math.Vec2{}, n, math.Vec2{}, WithLocalizedVertices())
	box := math.EmptyBox()
	tri.Expand(&box)
	assert.True(t, box.Valid())
	assert.Equal(t, box.Min, box.Max)
}

func TestDrawableEmpty(t *testing.T) {
	d := NewDrawable("tile")
	require.NotNil(t, d.StateSet)
	assert.Equal(t, "tile", d.StateSet.Name())
	assert.Empty(t, d.Triangles)

	box := math.EmptyBox()
	d.Expand(&box)
	assert.False(t, box.Valid())

	d.Add(unitTriangle(), unitTriangle())
	assert.Len(t, d.Triangles, 2)
}

func TestTriangleDisplaced(t *testing.T) {
	tri := unitTriangle()
	assert.Equal(t, math.Vec3{X: 1, Z: 5}, tri.Displaced(1, 5))

	flat := math.EmptyBox()
	tri.Expand(&flat)
	still := math.EmptyBox()
	tri.ExpandDisplaced(&still, 0)
	assert.Equal(t, flat, still, "no offset at the corner heights")

	raised := math.EmptyBox()
	tri.ExpandDisplaced(&raised, 5)
	for i := range 3 {
		assert.True(t, raised.Contains(tri.Displaced(i, 5)), "corner %d", i)
	}
	assert.Equal(t, float32(5), raised.Max.Z)
}
