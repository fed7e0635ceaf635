// Package picking provides ray casting against the surface draw list.
package picking

import (
	gomath "math"

	"github.com/Faultbox/ocean-amr/internal/engine/amr"
	"github.com/Faultbox/ocean-amr/pkg/math"
)

const epsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectBox tests ray intersection with an axis-aligned box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBox(box math.Box3) (t float32, hit bool) {
	if !box.Valid() {
		return 0, false
	}

	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for i := range 3 {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle tests the ray against triangle a, b, c from either
// side. On a hit it returns the distance and the barycentric weights of
// a, b and c at the hit point.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, weights math.Vec3, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -epsilon && det < epsilon {
		return 0, math.Vec3{}, false // Ray parallel to triangle
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, math.Vec3{}, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, math.Vec3{}, false
	}

	t = e2.Dot(q) * inv
	if t < epsilon {
		return 0, math.Vec3{}, false // Behind ray origin
	}
	return t, math.Vec3{X: 1 - u - v, Y: u, Z: v}, true
}

// Hit is the nearest triangle under a ray.
type Hit struct {
	Group    *amr.Drawable
	Triangle *amr.Triangle
	Distance float32
	Point    math.Vec3 // world position on the displaced corner plane
	Weights  math.Vec3 // barycentric weights of the triangle corners
}

// Geodetic blends the corner geodetic coordinates at the hit point.
func (h Hit) Geodetic() math.Vec3 {
	n0, n1, n2 := h.Triangle.Node(0), h.Triangle.Node(1), h.Triangle.Node(2)
	return n0.GeodeticCoord.Scale(h.Weights.X).
		Add(n1.GeodeticCoord.Scale(h.Weights.Y)).
		Add(n2.GeodeticCoord.Scale(h.Weights.Z))
}

// Pick returns the nearest triangle of groups hit by the ray, with corners
// moved to seaLevel the way the surface draws them. Groups whose bound the
// ray misses are skipped.
func Pick(r Ray, groups []*amr.Drawable, seaLevel float32) (Hit, bool) {
	var best Hit
	found := false

	for _, g := range groups {
		bound := math.EmptyBox()
		g.ExpandDisplaced(&bound, seaLevel)
		if _, ok := r.IntersectBox(bound); !ok {
			continue
		}

		for _, tri := range g.Triangles {
			t, w, ok := r.IntersectTriangle(tri.Displaced(0, seaLevel), tri.Displaced(1, seaLevel), tri.Displaced(2, seaLevel))
			if !ok || (found && t >= best.Distance) {
				continue
			}
			best = Hit{Group: g, Triangle: tri, Distance: t, Point: r.At(t), Weights: w}
			found = true
		}
	}
	return best, found
}
