package amr

import (
	"github.com/Faultbox/ocean-amr/internal/engine/state"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// Drawable is a group of triangles sharing one state set, typically one
// tile with its texture. Fill it before handing it to Geometry.SetDrawList
// and do not modify it afterwards.
type Drawable struct {
	StateSet  *state.StateSet
	Triangles []*Triangle
}

// NewDrawable returns an empty group with an empty state set.
func NewDrawable(name string) *Drawable {
	return &Drawable{StateSet: state.NewStateSet(name)}
}

// Add appends triangles.
func (d *Drawable) Add(tris ...*Triangle) {
	d.Triangles = append(d.Triangles, tris...)
}

// Expand grows box over every triangle in the group.
func (d *Drawable) Expand(box *math.Box3) {
	for _, t := range d.Triangles {
		t.Expand(box)
	}
}

// ExpandDisplaced grows box over every triangle as drawn at seaLevel.
func (d *Drawable) ExpandDisplaced(box *math.Box3, seaLevel float32) {
	for _, t := range d.Triangles {
		t.ExpandDisplaced(box, seaLevel)
	}
}
