// Package ocean tessellates a longitude/latitude region of the ellipsoid
// into AMR triangle groups, one group per tile, expressed in a local
// east-up-south frame so single precision vertices stay accurate.
package ocean

import (
	gomath "math"

	"github.com/Faultbox/ocean-amr/pkg/math"
)

// ECEF is an earth-centered, earth-fixed position in meters.
type ECEF struct {
	X, Y, Z float64
}

func (a ECEF) Sub(b ECEF) ECEF { return ECEF{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a ECEF) Dot(b ECEF) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Length returns the Euclidean norm.
func (a ECEF) Length() float64 { return gomath.Sqrt(a.Dot(a)) }

// Ellipsoid is a reference ellipsoid of revolution.
type Ellipsoid struct {
	SemiMajor  float64 // meters
	Flattening float64
}

// WGS84 is the GPS reference ellipsoid.
var WGS84 = Ellipsoid{
	SemiMajor:  6378137.0,
	Flattening: 1 / 298.257223563,
}

// SemiMinor returns the polar radius.
func (e Ellipsoid) SemiMinor() float64 {
	return e.SemiMajor * (1 - e.Flattening)
}

func (e Ellipsoid) eccentricitySquared() float64 {
	return e.Flattening * (2 - e.Flattening)
}

// GeodeticToECEF converts longitude and latitude in degrees and height in
// meters above the ellipsoid.
func (e Ellipsoid) GeodeticToECEF(lon, lat, height float64) ECEF {
	lambda := lon * gomath.Pi / 180
	phi := lat * gomath.Pi / 180
	sinPhi, cosPhi := gomath.Sincos(phi)
	sinLambda, cosLambda := gomath.Sincos(lambda)

	e2 := e.eccentricitySquared()
	n := e.SemiMajor / gomath.Sqrt(1-e2*sinPhi*sinPhi)

	return ECEF{
		X: (n + height) * cosPhi * cosLambda,
		Y: (n + height) * cosPhi * sinLambda,
		Z: (n*(1-e2) + height) * sinPhi,
	}
}

// Up returns the unit geodetic normal at lon, lat in degrees.
func (e Ellipsoid) Up(lon, lat float64) ECEF {
	lambda := lon * gomath.Pi / 180
	phi := lat * gomath.Pi / 180
	sinPhi, cosPhi := gomath.Sincos(phi)
	sinLambda, cosLambda := gomath.Sincos(lambda)
	return ECEF{cosPhi * cosLambda, cosPhi * sinLambda, sinPhi}
}

// Frame is a local tangent frame. Local coordinates use X east, Y up and
// Z south, matching the renderer's right-handed Y-up convention.
type Frame struct {
	Origin ECEF
	East   ECEF
	North  ECEF
	Up     ECEF
}

// ENUFrame returns the tangent frame at lon, lat in degrees, on the
// ellipsoid surface.
func (e Ellipsoid) ENUFrame(lon, lat float64) Frame {
	lambda := lon * gomath.Pi / 180
	phi := lat * gomath.Pi / 180
	sinPhi, cosPhi := gomath.Sincos(phi)
	sinLambda, cosLambda := gomath.Sincos(lambda)

	return Frame{
		Origin: e.GeodeticToECEF(lon, lat, 0),
		East:   ECEF{-sinLambda, cosLambda, 0},
		North:  ECEF{-sinPhi * cosLambda, -sinPhi * sinLambda, cosPhi},
		Up:     ECEF{cosPhi * cosLambda, cosPhi * sinLambda, sinPhi},
	}
}

// ToLocal converts an ECEF position into frame coordinates.
func (f Frame) ToLocal(p ECEF) math.Vec3 {
	return f.DirectionToLocal(p.Sub(f.Origin))
}

// DirectionToLocal rotates an ECEF direction into frame axes.
func (f Frame) DirectionToLocal(d ECEF) math.Vec3 {
	return math.Vec3{
		X: float32(d.Dot(f.East)),
		Y: float32(d.Dot(f.Up)),
		Z: float32(-d.Dot(f.North)),
	}
}
