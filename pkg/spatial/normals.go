package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/stilts/pkg/mesh"
)

// Normals returns, for each input point, the outward unit normal of the
// triangle the point lies on. Points are assumed to sit on the surface of
// m; for each one the triangle with the smallest point-to-triangle
// distance is taken as the owner. A degenerate owning triangle yields a
// zero normal.
func Normals(points []v3.Vec, m *mesh.Fragment) []v3.Vec {
	out := make([]v3.Vec, len(points))
	for i, p := range points {
		out[i] = normalAt(p, m)
	}
	return out
}

func normalAt(p v3.Vec, m *mesh.Fragment) v3.Vec {
	best := math.Inf(1)
	var owner int = -1
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Vertex(i)
		d := p.Sub(closestOnTriangle(p, a, b, c)).Length()
		if d < best {
			best = d
			owner = i
		}
	}
	if owner < 0 {
		return v3.Vec{}
	}
	a, b, c := m.Vertex(owner)
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < 1e-12 {
		return v3.Vec{}
	}
	return n.Normalize()
}

// closestOnTriangle returns the point of triangle abc closest to p,
// by classifying p against the triangle's Voronoi regions.
func closestOnTriangle(p, a, b, c v3.Vec) v3.Vec {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.MulScalar(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.MulScalar(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).MulScalar(w))
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w))
}
