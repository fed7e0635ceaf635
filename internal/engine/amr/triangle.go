package amr

import (
	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// Uniform names shared with the surface shaders.
const (
	uniformTexture  = "tex0"
	uniformSeaLevel = "seaLevel"
	uniformLightDir = "lightDir"
)

var (
	geodeticUniforms = [3]string{"c0", "c1", "c2"}
	vertexUniforms   = [3]string{"v0", "v1", "v2"}
	texCoordUniforms = [3]string{"t0", "t1", "t2"}
	normalUniforms   = [3]string{"n0", "n1", "n2"}
)

// Triangle is one patch: three corners with texture coordinates and the
// complete uniform block the shaders need to place the pattern on it.
// A Triangle is immutable once built.
type Triangle struct {
	nodes     [3]MeshNode
	texCoords [3]math.Vec2
	stateSet  *state.StateSet

	localized    bool
	localToWorld math.Mat4
	worldToLocal math.Mat4
}

// TriangleOption configures NewTriangle.
type TriangleOption func(*Triangle)

// WithLocalizedVertices stores the corners relative to the triangle
// centroid. The surface then draws the triangle with the model-view matrix
// composed with LocalToWorld, which keeps corner uniforms small for
// geocentric coordinates. Normals are left as given since the local frame
// is a pure translation.
func WithLocalizedVertices() TriangleOption {
	return func(t *Triangle) { t.localized = true }
}

// NewTriangle builds a patch from three corners and their texture
// coordinates.
func NewTriangle(n0 MeshNode, t0 math.Vec2, n1 MeshNode, t1 math.Vec2, n2 MeshNode, t2 math.Vec2, opts ...TriangleOption) *Triangle {
	t := &Triangle{
		nodes:        [3]MeshNode{n0, n1, n2},
		texCoords:    [3]math.Vec2{t0, t1, t2},
		localToWorld: math.Identity(),
		worldToLocal: math.Identity(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.localized {
		center := math.Centroid(n0.Vertex, n1.Vertex, n2.Vertex)
		t.localToWorld = math.Translate(center)
		t.worldToLocal = math.Translate(center.Scale(-1))
	}

	ss := state.NewStateSet("amr.triangle")
	ss.GetOrCreateUniform(uniformTexture, state.UniformInt).SetInt(0)
	for i, n := range t.nodes {
		ss.GetOrCreateUniform(geodeticUniforms[i], state.UniformVec3).SetVec3(n.GeodeticCoord)
		ss.GetOrCreateUniform(vertexUniforms[i], state.UniformVec3).SetVec3(t.worldToLocal.TransformPoint(n.Vertex))
		ss.GetOrCreateUniform(texCoordUniforms[i], state.UniformVec2).SetVec2(t.texCoords[i])
		ss.GetOrCreateUniform(normalUniforms[i], state.UniformVec3).SetVec3(n.Normal)
	}
	t.stateSet = ss
	return t
}

// Node returns corner i.
func (t *Triangle) Node(i int) MeshNode { return t.nodes[i] }

// TexCoord returns the texture coordinate of corner i.
func (t *Triangle) TexCoord(i int) math.Vec2 { return t.texCoords[i] }

// StateSet returns the per-triangle uniforms. The surface applies it
// without pushing, so it must stay a complete set.
func (t *Triangle) StateSet() *state.StateSet { return t.stateSet }

func (t *Triangle) Localized() bool          { return t.localized }
func (t *Triangle) LocalToWorld() math.Mat4 { return t.localToWorld }
func (t *Triangle) WorldToLocal() math.Mat4 { return t.worldToLocal }

// Expand grows box to hold the three world-space corners.
func (t *Triangle) Expand(box *math.Box3) {
	for i := range t.nodes {
		box.ExpandBy(t.nodes[i].Vertex)
	}
}

// Displaced returns world-space corner i moved along its normal to
// seaLevel, where the vertex shader draws it.
func (t *Triangle) Displaced(i int, seaLevel float32) math.Vec3 {
	n := t.nodes[i]
	return n.Vertex.Add(n.Normal.Scale(seaLevel - n.GeodeticCoord.Z))
}

// ExpandDisplaced grows box to hold the triangle as drawn at seaLevel.
// Pattern vertices move along the blended unit normal by no more than the
// largest corner offset, so the corners are padded by that offset on
// every axis.
func (t *Triangle) ExpandDisplaced(box *math.Box3, seaLevel float32) {
	var r float32
	for i := range t.nodes {
		d := seaLevel - t.nodes[i].GeodeticCoord.Z
		r = max(r, d, -d)
	}
	pad := math.Vec3{X: r, Y: r, Z: r}
	for i := range t.nodes {
		box.ExpandBy(t.nodes[i].Vertex.Sub(pad))
		box.ExpandBy(t.nodes[i].Vertex.Add(pad))
	}
}
