package amr

import "github.com/Faultbox/ocean-amr/pkg/math"

// MeshNode is one patch corner.
type MeshNode struct {
	Vertex        math.Vec3 // world position
	Normal        math.Vec3 // unit surface normal
	GeodeticCoord math.Vec3 // longitude, latitude (degrees), height (meters)
}
