// Package camera provides the orbit camera used by the surface viewer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/ocean-amr/pkg/math"
)

// OrbitCamera orbits around a center point in the local east-up-south frame.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // meters from Center
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians, 0 looks north

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera at distance meters, clamped to
// [minDistance, maxDistance].
func NewOrbitCamera(distance, minDistance, maxDistance float32) *OrbitCamera {
	c := &OrbitCamera{
		Distance:        distance,
		Pitch:           0.6,
		MinDistance:     minDistance,
		MaxDistance:     maxDistance,
		MinPitch:        0.05,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.clampDistance()
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinP, cosP := gomath.Sincos(float64(c.Pitch))
	sinY, cosY := gomath.Sincos(float64(c.Yaw))

	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cosP*sinY),
		Y: c.Distance * float32(sinP),
		Z: c.Distance * float32(cosP*cosY),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ClipPlanes returns near and far distances that keep depth precision
// usable at the current orbit distance.
func (c *OrbitCamera) ClipPlanes(radius float32) (near, far float32) {
	near = max(c.Distance*0.01, 1)
	far = c.Distance + 2*max(radius, c.Distance)
	return near, far
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = min(max(c.Pitch, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clampDistance()
}

func (c *OrbitCamera) clampDistance() {
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandleMovement pans the center on the horizontal plane. Speed scales with
// distance.
func (c *OrbitCamera) HandleMovement(forward, right float32) {
	speed := c.Distance * 0.01
	sinY, cosY := gomath.Sincos(float64(c.Yaw))
	dirX, dirZ := float32(sinY), float32(cosY)

	// W moves away from the camera, into the scene.
	c.Center.X += (-dirX*forward + dirZ*right) * speed
	c.Center.Z += (-dirZ*forward - dirX*right) * speed
}

// FitToBox centers the camera on box and backs off far enough to see it.
func (c *OrbitCamera) FitToBox(box math.Box3) {
	if !box.Valid() {
		return
	}
	c.Center = box.Center()
	c.Distance = box.Radius() * 2.5
	c.clampDistance()
	c.Pitch = 0.6
	c.Yaw = 0
}
