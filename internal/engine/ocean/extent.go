package ocean

import "fmt"

// Extent is a longitude/latitude rectangle in degrees.
type Extent struct {
	MinLon float64 `msgpack:"min_lon" yaml:"min_lon"`
	MinLat float64 `msgpack:"min_lat" yaml:"min_lat"`
	MaxLon float64 `msgpack:"max_lon" yaml:"max_lon"`
	MaxLat float64 `msgpack:"max_lat" yaml:"max_lat"`
}

func (e Extent) Width() float64  { return e.MaxLon - e.MinLon }
func (e Extent) Height() float64 { return e.MaxLat - e.MinLat }

// Center returns the middle longitude and latitude.
func (e Extent) Center() (lon, lat float64) {
	return (e.MinLon + e.MaxLon) / 2, (e.MinLat + e.MaxLat) / 2
}

// Valid reports whether the extent has positive area inside the latitude
// range.
func (e Extent) Valid() bool {
	return e.MinLon < e.MaxLon && e.MinLat < e.MaxLat && e.MinLat >= -90 && e.MaxLat <= 90
}

// Split divides the extent into nx by ny tiles, row by row from the
// south-west corner.
func (e Extent) Split(nx, ny int) []Extent {
	if nx < 1 || ny < 1 {
		return nil
	}
	dx := e.Width() / float64(nx)
	dy := e.Height() / float64(ny)
	tiles := make([]Extent, 0, nx*ny)
	for y := range ny {
		for x := range nx {
			t := Extent{
				MinLon: e.MinLon + float64(x)*dx,
				MinLat: e.MinLat + float64(y)*dy,
				MaxLon: e.MinLon + float64(x+1)*dx,
				MaxLat: e.MinLat + float64(y+1)*dy,
			}
			// Outer edges match the extent exactly.
			if x == nx-1 {
				t.MaxLon = e.MaxLon
			}
			if y == ny-1 {
				t.MaxLat = e.MaxLat
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}

func (e Extent) String() string {
	return fmt.Sprintf("[%.4f,%.4f .. %.4f,%.4f]", e.MinLon, e.MinLat, e.MaxLon, e.MaxLat)
}
