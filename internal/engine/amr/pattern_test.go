package amr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ocean-amr/pkg/math"
)

func TestNewPatternCounts(t *testing.T) {
	for _, rows := range []int{MinPatchRows, 3, 4, 7, DefaultPatchRows, 64, MaxPatchRows} {
		p, err := NewPattern(rows)
		require.NoError(t, err, "rows=%d", rows)

		assert.Equal(t, rows*(rows+1)/2, p.NumVertices(), "rows=%d", rows)
		assert.Equal(t, p.NumVertices(), len(p.TexCoords().Data), "rows=%d", rows)
		assert.Equal(t, (rows-1)*(rows-1), p.NumTriangles(), "rows=%d", rows)
		assert.Equal(t, 3*p.NumTriangles(), p.NumElements(), "rows=%d", rows)

		for i, idx := range p.Elements().Indices {
			if int(idx) >= p.NumVertices() {
				t.Fatalf("rows=%d: index %d at %d out of range", rows, idx, i)
			}
		}
	}
}

func TestNewPatternRowsOutOfRange(t *testing.T) {
	for _, rows := range []int{-1, 0, 1, MaxPatchRows + 1} {
		_, err := NewPattern(rows)
		assert.ErrorIs(t, err, ErrPatternRows, "rows=%d", rows)
	}
}

func TestPatternThreeRows(t *testing.T) {
	p, err := NewPattern(3)
	require.NoError(t, err)

	assert.Equal(t, 6, p.NumVertices())
	assert.Equal(t, 4, p.NumTriangles())
	assert.Equal(t, []uint16{
		1, 0, 2,
		3, 1, 4,
		2, 4, 1,
		4, 2, 5,
	}, p.Elements().Indices)

	// Rows are emitted top down: (0,1), then (0,.5) (.5,.5), then the base.
	want := []math.Vec2{
		{X: 0, Y: 1},
		{X: 0, Y: 0.5}, {X: 0.5, Y: 0.5},
		{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0},
	}
	for i, tc := range p.TexCoords().Data {
		assert.True(t, tc.ApproxEqual(want[i], 1e-6), "texcoord %d = %v, want %v", i, tc, want[i])
	}
}

func TestPatternWeights(t *testing.T) {
	p, err := NewPattern(DefaultPatchRows)
	require.NoError(t, err)

	for i, w := range p.Weights().Data {
		assert.InDelta(t, 1.0, w.X+w.Y+w.Z, 1e-5, "vertex %d weights %v", i, w)
		assert.GreaterOrEqual(t, w.X, float32(-1e-6))
		assert.GreaterOrEqual(t, w.Y, float32(-1e-6))
		assert.GreaterOrEqual(t, w.Z, float32(-1e-6))
	}

	// The apex row is corner p2, the base row runs from p1 to p3.
	n := p.NumVertices()
	weights := p.Weights().Data
	assert.True(t, weights[0].ApproxEqual(math.Vec3{Y: 1}, 1e-6), "p2 weight %v", weights[0])
	assert.True(t, weights[n-DefaultPatchRows].ApproxEqual(math.Vec3{X: 1}, 1e-6), "p1 weight %v", weights[n-DefaultPatchRows])
	assert.True(t, weights[n-1].ApproxEqual(math.Vec3{Z: 1}, 1e-6), "p3 weight %v", weights[n-1])
}

func TestBarycentricCorners(t *testing.T) {
	p1 := math.Vec3{X: 2, Y: 1, Z: 0}
	p2 := math.Vec3{X: 5, Y: 1, Z: 1}
	p3 := math.Vec3{X: 3, Y: 4, Z: -2}

	tests := []struct {
		name string
		in   math.Vec3
		want math.Vec3
	}{
		{"p1", p1, math.Vec3{X: 1}},
		{"p2", p2, math.Vec3{Y: 1}},
		{"p3", p3, math.Vec3{Z: 1}},
		{"centroid", math.Centroid(p1, p2, p3), math.Vec3{X: 1.0 / 3, Y: 1.0 / 3, Z: 1.0 / 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Barycentric(p1, p2, p3, tt.in)
			assert.True(t, got.ApproxEqual(tt.want, 1e-5), "Barycentric(%v) = %v, want %v", tt.in, got, tt.want)
		})
	}
}

func TestBarycentricDegenerate(t *testing.T) {
	p := math.Vec3{X: 1, Y: 1, Z: 1}
	got := Barycentric(p, p, p, p)
	assert.Equal(t, math.Vec3{X: 1.0 / 3, Y: 1.0 / 3, Z: 1.0 / 3}, got)

	// Collinear corners with the input on the same line.
	got = Barycentric(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{X: 2}, math.Vec3{X: 0.5})
	assert.False(t, got.X != got.X, "weights must not be NaN")
	assert.InDelta(t, 1.0, got.X+got.Y+got.Z, 1e-6)
}

func TestSharedPattern(t *testing.T) {
	a, err := SharedPattern(5)
	require.NoError(t, err)
	b, err := SharedPattern(5)
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := SharedPattern(6)
	require.NoError(t, err)
	assert.NotSame(t, a, c)

	_, err = SharedPattern(1)
	assert.ErrorIs(t, err, ErrPatternRows)
}

func TestPatternBuffersShareStorage(t *testing.T) {
	p, err := NewPattern(4)
	require.NoError(t, err)

	assert.Same(t, p.Weights().BufferObject(), p.TexCoords().BufferObject())
	assert.Equal(t, 0, p.Weights().Offset())
	assert.Equal(t, 10*12, p.TexCoords().Offset())
	assert.Equal(t, 10*12+10*8, p.Weights().BufferObject().Size())
	assert.Equal(t, 9*3*2, p.Elements().BufferObject().Size())
}
