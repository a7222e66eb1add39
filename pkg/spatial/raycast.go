package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/stilts/pkg/mesh"
)

// rayEpsilon rejects grazing hits on a triangle's plane.
const rayEpsilon = 1e-12

// RayMeshIntersect returns the distance along dir (unit length) from
// origin to the nearest triangle of m, or +Inf when the ray escapes the
// mesh. Hits behind the origin are ignored.
func RayMeshIntersect(origin, dir v3.Vec, m *mesh.Fragment) float64 {
	nearest := math.Inf(1)
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Vertex(i)
		if t, ok := rayTriangle(origin, dir, a, b, c); ok && t < nearest {
			nearest = t
		}
	}
	return nearest
}

// rayTriangle is the Möller–Trumbore intersection test. It reports the ray
// parameter of the hit, if any, with t >= 0.
func rayTriangle(origin, dir, a, b, c v3.Vec) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -rayEpsilon && det < rayEpsilon {
		return 0, false // ray parallel to triangle plane
	}
	inv := 1.0 / det

	s := origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
