// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/ocean-amr/pkg/math"
)

// Sun is a directional light given by compass angles in degrees.
// Azimuth is clockwise from north, elevation is above the horizon.
type Sun struct {
	Azimuth   float64
	Elevation float64
}

// DefaultSun is a mid-morning sun to the south-east.
var DefaultSun = Sun{Azimuth: 135, Elevation: 40}

// Direction returns the unit vector pointing towards the sun in a local
// frame with X east, Y up and Z south.
func (s Sun) Direction() math.Vec3 {
	az := s.Azimuth * gomath.Pi / 180
	el := s.Elevation * gomath.Pi / 180

	east := gomath.Cos(el) * gomath.Sin(az)
	north := gomath.Cos(el) * gomath.Cos(az)
	up := gomath.Sin(el)

	return math.Vec3{X: float32(east), Y: float32(up), Z: float32(-north)}
}
