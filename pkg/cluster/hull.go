package cluster

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// orientTol is the tolerance under which an orientation test treats three
// points as collinear.
const orientTol = 1e-6

// orientation classifies the turn p -> q -> r: 0 collinear, 1 clockwise,
// 2 counterclockwise.
func orientation(p, q, r v2.Vec) int {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	if math.Abs(val) < orientTol {
		return 0
	}
	if val > orientTol {
		return 1
	}
	return 2
}

// ConvexHull computes the 2D convex hull of the given index set by gift
// wrapping, projecting each index to the plane with project. The result is
// the counter-clockwise vertex sequence, starting at the leftmost (then
// lowest-y) point, with the first vertex not repeated. Inputs with fewer
// than three points are returned unchanged.
func ConvexHull(in []int, project func(int) v2.Vec) []int {
	n := len(in)
	if n < 3 {
		return in
	}

	points := make([]v2.Vec, n)
	for i, idx := range in {
		points[i] = project(idx)
	}

	// find the leftmost point, breaking near-ties by lower y
	l := 0
	for i := 1; i < n; i++ {
		if math.Abs(points[i].X-points[l].X) < orientTol {
			if points[i].Y < points[l].Y {
				l = i
			}
		} else if points[i].X < points[l].X {
			l = i
		}
	}

	// wrap counterclockwise until the start point comes around again
	var hull []int
	p := l
	for {
		hull = append(hull, in[p])

		q := (p + 1) % n
		for i := 0; i < n; i++ {
			if orientation(points[p], points[i], points[q]) == 2 {
				q = i
			}
		}
		p = q

		if p == l || len(hull) > n {
			break
		}
	}

	return hull
}
