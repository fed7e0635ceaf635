package ocean

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Faultbox/ocean-amr/internal/engine/amr"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

// ArchiveVersion is written into every tile archive.
const ArchiveVersion = 1

// ErrArchiveVersion is returned when loading an archive written by an
// incompatible version.
var ErrArchiveVersion = errors.New("ocean: unsupported tile archive version")

// archive is the msgpack layout of a tile set. Corners are stored three per
// triangle; texture bindings are not stored since they belong to a context.
type archive struct {
	Version int             `msgpack:"version"`
	Tiles   []archivedGroup `msgpack:"tiles"`
}

type archivedGroup struct {
	Name      string           `msgpack:"name"`
	Localized []bool           `msgpack:"localized"`
	Corners   []archivedCorner `msgpack:"corners"`
}

type archivedCorner struct {
	Vertex   [3]float32 `msgpack:"v"`
	Normal   [3]float32 `msgpack:"n"`
	Geodetic [3]float32 `msgpack:"c"`
	TexCoord [2]float32 `msgpack:"t"`
}

// SaveTiles writes groups to w as zstd-compressed msgpack.
func SaveTiles(w io.Writer, groups []*amr.Drawable) error {
	a := archive{Version: ArchiveVersion, Tiles: make([]archivedGroup, 0, len(groups))}
	for _, d := range groups {
		g := archivedGroup{
			Name:      d.StateSet.Name(),
			Localized: make([]bool, 0, len(d.Triangles)),
			Corners:   make([]archivedCorner, 0, 3*len(d.Triangles)),
		}
		for _, t := range d.Triangles {
			g.Localized = append(g.Localized, t.Localized())
			for i := range 3 {
				g.Corners = append(g.Corners, toArchived(t.Node(i), t.TexCoord(i)))
			}
		}
		a.Tiles = append(a.Tiles, g)
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(&a); err != nil {
		return fmt.Errorf("failed to encode tiles: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// LoadTiles reads groups written by SaveTiles.
func LoadTiles(r io.Reader) ([]*amr.Drawable, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var a archive
	if err := msgpack.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode tiles: %w", err)
	}
	if a.Version != ArchiveVersion {
		return nil, fmt.Errorf("%w: %d", ErrArchiveVersion, a.Version)
	}

	groups := make([]*amr.Drawable, 0, len(a.Tiles))
	for _, g := range a.Tiles {
		if len(g.Corners) != 3*len(g.Localized) {
			return nil, fmt.Errorf("tile %q: %d corners for %d triangles", g.Name, len(g.Corners), len(g.Localized))
		}
		d := amr.NewDrawable(g.Name)
		d.Triangles = make([]*amr.Triangle, 0, len(g.Localized))
		for i, localized := range g.Localized {
			c := g.Corners[3*i : 3*i+3]
			n0, t0 := fromArchived(c[0])
			n1, t1 := fromArchived(c[1])
			n2, t2 := fromArchived(c[2])
			var opts []amr.TriangleOption
			if localized {
				opts = append(opts, amr.WithLocalizedVertices())
			}
			d.Add(amr.NewTriangle(n0, t0, n1, t1, n2, t2, opts...))
		}
		groups = append(groups, d)
	}
	return groups, nil
}

func toArchived(n amr.MeshNode, tc math.Vec2) archivedCorner {
	return archivedCorner{
		Vertex:   [3]float32{n.Vertex.X, n.Vertex.Y, n.Vertex.Z},
		Normal:   [3]float32{n.Normal.X, n.Normal.Y, n.Normal.Z},
		Geodetic: [3]float32{n.GeodeticCoord.X, n.GeodeticCoord.Y, n.GeodeticCoord.Z},
		TexCoord: [2]float32{tc.X, tc.Y},
	}
}

func fromArchived(c archivedCorner) (amr.MeshNode, math.Vec2) {
	return amr.MeshNode{
		Vertex:        math.Vec3{X: c.Vertex[0], Y: c.Vertex[1], Z: c.Vertex[2]},
		Normal:        math.Vec3{X: c.Normal[0], Y: c.Normal[1], Z: c.Normal[2]},
		GeodeticCoord: math.Vec3{X: c.Geodetic[0], Y: c.Geodetic[1], Z: c.Geodetic[2]},
	}, math.Vec2{X: c.TexCoord[0], Y: c.TexCoord[1]}
}
