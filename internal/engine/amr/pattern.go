package amr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// Pattern resolution limits. Indices are unsigned shorts, so the vertex
// count rows*(rows+1)/2 must stay below 65536.
const (
	MinPatchRows     = 2
	MaxPatchRows     = 361
	DefaultPatchRows = 16
)

// ErrPatternRows is returned for a pattern resolution outside
// [MinPatchRows, MaxPatchRows].
var ErrPatternRows = errors.New("amr: pattern rows out of range")

// Canonical right-triangle corners the pattern is sampled against. p1 is
// the right angle; p1, p2 and p3 weight corners 0, 1 and 2 of a Triangle.
var (
	patternP1 = math.Vec3{X: 0, Y: 0, Z: 0}
	patternP2 = math.Vec3{X: 0, Y: 1, Z: 0}
	patternP3 = math.Vec3{X: 1, Y: 0, Z: 0}
)

// Pattern is the shared tessellation every patch is drawn with. The weight
// and texture coordinate arrays share one array buffer; the index list has
// its own element buffer. A Pattern is read-only once built.
type Pattern struct {
	rows      int
	weights   *state.Vec3Array
	texCoords *state.Vec2Array
	elements  *state.ElementArray
}

// NewPattern builds a pattern with rows sample rows along each edge.
func NewPattern(rows int) (*Pattern, error) {
	if rows < MinPatchRows || rows > MaxPatchRows {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrPatternRows, rows, MinPatchRows, MaxPatchRows)
	}

	n := rows * (rows + 1) / 2
	weights := make([]math.Vec3, 0, n)
	texCoords := make([]math.Vec2, 0, n)

	step := 1 / float32(rows-1)
	for r := rows - 1; r >= 0; r-- {
		cols := rows - r
		for c := 0; c < cols; c++ {
			point := math.Vec3{X: float32(c) * step, Y: float32(r) * step}
			w := Barycentric(patternP1, patternP2, patternP3, point)
			weights = append(weights, w)
			texCoords = append(texCoords, patternTexCoord(w))
		}
	}

	indices := make([]uint16, 0, 3*(rows-1)*(rows-1))
	var rowptr uint16
	for r := uint16(1); r < uint16(rows); r++ {
		prev := rowptr
		rowptr += r
		for c := uint16(0); c < r; c++ {
			// up
			indices = append(indices, rowptr+c, prev+c, rowptr+c+1)
			// down, except after the last column
			if c+1 < r {
				indices = append(indices, prev+c+1, rowptr+c+1, prev+c)
			}
		}
	}

	vbo := state.NewBufferObject(state.ArrayBuffer)
	ebo := state.NewBufferObject(state.ElementArrayBuffer)
	return &Pattern{
		rows:      rows,
		weights:   state.NewVec3Array(weights, vbo),
		texCoords: state.NewVec2Array(texCoords, vbo),
		elements:  state.NewElementArray(state.Triangles, indices, ebo),
	}, nil
}

// patternTexCoord blends the canonical corners' planar coordinates.
func patternTexCoord(w math.Vec3) math.Vec2 {
	t1 := math.Vec2{X: patternP1.X, Y: patternP1.Y}
	t2 := math.Vec2{X: patternP2.X, Y: patternP2.Y}
	t3 := math.Vec2{X: patternP3.X, Y: patternP3.Y}
	return t1.Scale(w.X).Add(t2.Scale(w.Y)).Add(t3.Scale(w.Z))
}

// Barycentric returns the weights of in relative to the triangle p1, p2,
// p3, each the area of the sub-triangle opposite a corner divided by the
// sum of the three. A degenerate triangle yields equal weights.
func Barycentric(p1, p2, p3, in math.Vec3) math.Vec3 {
	v1 := in.Sub(p1)
	v2 := in.Sub(p2)
	v3 := in.Sub(p3)

	area1 := 0.5 * float64(v2.Cross(v3).Length())
	area2 := 0.5 * float64(v1.Cross(v3).Length())
	area3 := 0.5 * float64(v1.Cross(v2).Length())

	full := area1 + area2 + area3
	if full == 0 {
		return math.Vec3{X: 1.0 / 3, Y: 1.0 / 3, Z: 1.0 / 3}
	}
	return math.Vec3{
		X: float32(area1 / full),
		Y: float32(area2 / full),
		Z: float32(area3 / full),
	}
}

// Rows returns the pattern resolution.
func (p *Pattern) Rows() int { return p.rows }

// Weights returns the per-vertex barycentric weights.
func (p *Pattern) Weights() *state.Vec3Array { return p.weights }

// TexCoords returns the per-vertex planar coordinates.
func (p *Pattern) TexCoords() *state.Vec2Array { return p.texCoords }

// Elements returns the triangle index list.
func (p *Pattern) Elements() *state.ElementArray { return p.elements }

func (p *Pattern) NumVertices() int  { return len(p.weights.Data) }
func (p *Pattern) NumElements() int  { return len(p.elements.Indices) }
func (p *Pattern) NumTriangles() int { return len(p.elements.Indices) / 3 }

// BufferObjects returns the array buffer followed by the element buffer.
func (p *Pattern) BufferObjects() []*state.BufferObject {
	return []*state.BufferObject{p.weights.BufferObject(), p.elements.BufferObject()}
}

// Release deletes the pattern's buffers in dev's context.
func (p *Pattern) Release(dev state.Device) {
	for _, bo := range p.BufferObjects() {
		bo.Release(dev)
	}
}

// patternCacheSize bounds how many resolutions stay in the LRU at once.
// Evicted patterns are parked, not dropped, so surfaces still holding
// them keep sharing and PurgePatterns can release their buffers.
const patternCacheSize = 8

var (
	patternMu sync.Mutex
	parked    = make(map[int]*Pattern)
	patterns  = expirable.NewLRU[int, *Pattern](patternCacheSize, func(rows int, p *Pattern) {
		parked[rows] = p
	}, 0)
)

// SharedPattern returns the shared pattern for rows, building it on first
// use. Surfaces with the same resolution share one pattern and so one set
// of buffer objects per context.
func SharedPattern(rows int) (*Pattern, error) {
	patternMu.Lock()
	defer patternMu.Unlock()

	if p, ok := patterns.Get(rows); ok {
		return p, nil
	}
	if p, ok := parked[rows]; ok {
		delete(parked, rows)
		patterns.Add(rows, p)
		return p, nil
	}
	p, err := NewPattern(rows)
	if err != nil {
		return nil, err
	}
	patterns.Add(rows, p)
	return p, nil
}

// PurgePatterns forgets every shared pattern, including evicted ones, and
// releases its buffers in dev's context. Surfaces still holding a pattern
// keep working and upload it again on their next compile.
func PurgePatterns(dev state.Device) {
	patternMu.Lock()
	defer patternMu.Unlock()

	all := make(map[*Pattern]struct{}, patterns.Len()+len(parked))
	for _, p := range patterns.Values() {
		all[p] = struct{}{}
	}
	for _, p := range parked {
		all[p] = struct{}{}
	}
	patterns.Purge()
	clear(parked)

	for p := range all {
		p.Release(dev)
	}
}
