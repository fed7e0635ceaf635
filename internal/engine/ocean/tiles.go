package ocean

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ocean-amr/internal/engine/amr"
	"github.com/Faultbox/ocean-amr/internal/logger"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// TileBuilder turns extents into triangle groups. Every tile is a regular
// lon/lat grid of Subdivisions by Subdivisions cells, two triangles per
// cell, with corners on the ellipsoid at Height.
type TileBuilder struct {
	Ellipsoid    Ellipsoid
	Frame        Frame   // world frame of the produced vertices
	Subdivisions int     // cells per tile edge
	Height       float64 // meters above the ellipsoid
	Localize     bool    // build triangles with amr.WithLocalizedVertices
	Texture      uint32  // bound on unit 0 of every group when non-zero
}

// NewTileBuilder returns a WGS84 builder whose frame is centered on lon, lat.
func NewTileBuilder(lon, lat float64, subdivisions int) *TileBuilder {
	return &TileBuilder{
		Ellipsoid:    WGS84,
		Frame:        WGS84.ENUFrame(lon, lat),
		Subdivisions: subdivisions,
	}
}

// Build tessellates one tile into a group. The tile texture spans the
// extent with (0,0) at its south-west corner.
func (b *TileBuilder) Build(ext Extent) *amr.Drawable {
	n := max(b.Subdivisions, 1)

	nodes := make([]amr.MeshNode, 0, (n+1)*(n+1))
	coords := make([]math.Vec2, 0, (n+1)*(n+1))
	for j := 0; j <= n; j++ {
		fy := float64(j) / float64(n)
		lat := ext.MinLat + fy*ext.Height()
		for i := 0; i <= n; i++ {
			fx := float64(i) / float64(n)
			lon := ext.MinLon + fx*ext.Width()
			nodes = append(nodes, b.node(lon, lat))
			coords = append(coords, math.Vec2{X: float32(fx), Y: float32(fy)})
		}
	}

	var opts []amr.TriangleOption
	if b.Localize {
		opts = append(opts, amr.WithLocalizedVertices())
	}

	d := amr.NewDrawable(fmt.Sprintf("tile %s", ext))
	d.Triangles = make([]*amr.Triangle, 0, 2*n*n)
	at := func(i, j int) int { return j*(n+1) + i }
	for j := range n {
		for i := range n {
			sw, se := at(i, j), at(i+1, j)
			nw, ne := at(i, j+1), at(i+1, j+1)
			// Corner 0 sits on the right angle of each half cell.
			d.Add(
				amr.NewTriangle(nodes[sw], coords[sw], nodes[nw], coords[nw], nodes[se], coords[se], opts...),
				amr.NewTriangle(nodes[ne], coords[ne], nodes[se], coords[se], nodes[nw], coords[nw], opts...),
			)
		}
	}
	if b.Texture != 0 {
		d.StateSet.SetTexture(0, b.Texture)
	}
	return d
}

// BuildGrid splits ext into nx by ny tiles and builds each of them.
func (b *TileBuilder) BuildGrid(ext Extent, nx, ny int) []*amr.Drawable {
	tiles := ext.Split(nx, ny)
	groups := make([]*amr.Drawable, 0, len(tiles))
	for _, t := range tiles {
		groups = append(groups, b.Build(t))
	}
	logger.Debug("ocean tiles built",
		zap.Stringer("extent", ext),
		zap.Int("tiles", len(groups)),
		zap.Int("triangles", len(groups)*2*max(b.Subdivisions, 1)*max(b.Subdivisions, 1)))
	return groups
}

func (b *TileBuilder) node(lon, lat float64) amr.MeshNode {
	return amr.MeshNode{
		Vertex:        b.Frame.ToLocal(b.Ellipsoid.GeodeticToECEF(lon, lat, b.Height)),
		Normal:        b.Frame.DirectionToLocal(b.Ellipsoid.Up(lon, lat)).Normalize(),
		GeodeticCoord: math.Vec3{X: float32(lon), Y: float32(lat), Z: float32(b.Height)},
	}
}
