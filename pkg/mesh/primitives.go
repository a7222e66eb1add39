package mesh

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// minRadius is the smallest radius a primitive will triangulate; anything
// closer to zero yields an empty fragment.
const minRadius = 1e-6

// stepGuard compensates the ⌊2π/fa⌋ ring count against floating-point
// loss when fa divides 2π exactly.
const stepGuard = 1e-9

// ringSteps rounds a requested angular step up to the nearest step that
// divides the full circle evenly (the ring count is rounded down),
// returning the ring vertex count and the effective step.
func ringSteps(fa float64) (int, float64) {
	n := int(math.Floor(2*math.Pi/fa + stepGuard))
	return n, 2 * math.Pi / float64(n)
}

// Portion selects a polar range of a sphere, in radians. The south pole is
// at A = 0; passing {0, math.Pi} spans the full vertical extent.
type Portion struct {
	A, B float64
}

// ringPoint is Rotation2D(theta) applied to (0, r): the parametrization the
// latitude rings are walked with.
func ringPoint(theta, r float64) v2.Vec {
	return v2.Vec{X: -r * math.Sin(theta), Y: r * math.Cos(theta)}
}

// Sphere triangulates a portion of a sphere of radius rho. fa is the
// requested angular step; the effective step is 2π/⌊2π/fa⌋ so that every
// latitude ring has the same integer vertex count. The mesh is built as
// stacked latitude rings from the bottom up. The first ring is fanned to a
// south-pole vertex when the portion starts at zero, and the last ring is
// fanned to a north-pole vertex when the portion covers the top.
func Sphere(rho float64, portion Portion, fa float64) Fragment {
	var ret Fragment

	// prohibit close to zero radius
	if rho <= minRadius && rho >= -minRadius {
		return ret
	}

	// adjust via rounding to get an even multiple for any provided angle
	steps, angle := ringSteps(fa)

	ring := make([]float64, steps)
	for i := range ring {
		ring[i] = float64(i) * angle
	}

	sbegin := int(2*portion.A/angle + stepGuard)
	send := int(2*portion.B/angle + stepGuard)

	increment := 1.0 / float64(steps)

	// special case: the bottom ring connects to the south pole
	if sbegin == 0 {
		ret.Points = append(ret.Points,
			v3.Vec{X: 0, Y: 0, Z: -rho + increment*float64(sbegin)*2.0*rho})
	}

	id := int32(len(ret.Points))
	for i := 0; i < steps; i++ {
		z := -rho + increment*rho*2.0*float64(sbegin+1)
		r := math.Sqrt(math.Abs(rho*rho - z*z))
		b := ringPoint(ring[i], r)
		ret.Points = append(ret.Points, v3.Vec{X: b.X, Y: b.Y, Z: z})

		if sbegin == 0 {
			if i == 0 {
				ret.Faces = append(ret.Faces, Triangle{int32(steps), 0, 1})
			} else {
				ret.Faces = append(ret.Faces, Triangle{id - 1, 0, id})
			}
		}
		id++
	}

	// general case: each ring is stitched to the ring below it
	for s := sbegin + 2; s < send-1; s++ {
		z := -rho + increment*float64(s)*2.0*rho
		r := math.Sqrt(math.Abs(rho*rho - z*z))

		for i := 0; i < steps; i++ {
			b := ringPoint(ring[i], r)
			ret.Points = append(ret.Points, v3.Vec{X: b.X, Y: b.Y, Z: z})

			idRing := id - int32(steps)
			if i == 0 {
				// wrap around
				ret.Faces = append(ret.Faces,
					Triangle{id - 1, id, id + int32(steps) - 1},
					Triangle{id - 1, idRing, id})
			} else {
				ret.Faces = append(ret.Faces,
					Triangle{idRing - 1, idRing, id},
					Triangle{id - 1, idRing - 1, id})
			}
			id++
		}
	}

	// special case: the top ring connects to the north pole
	if send >= steps {
		ret.Points = append(ret.Points,
			v3.Vec{X: 0, Y: 0, Z: -rho + increment*float64(send)*2.0*rho})
		for i := 0; i < steps; i++ {
			idRing := id - int32(steps)
			if i == 0 {
				// third vertex is on the other side of the ring
				ret.Faces = append(ret.Faces, Triangle{id - 1, idRing, id})
			} else {
				ci := idRing + int32(i)
				ret.Faces = append(ret.Faces, Triangle{ci - 1, ci, id})
			}
		}
	}

	return ret
}

// Cylinder triangulates a cylinder of radius r, axis-aligned along +Z from
// z=0 to z=h, capped at both ends. fa is rounded the same way as in Sphere.
func Cylinder(r, h, fa float64) Fragment {
	var ret Fragment

	// two center vertices for the cap fans, everything else is relative
	ret.Points = append(ret.Points,
		v3.Vec{X: 0, Y: 0, Z: 0},
		v3.Vec{X: 0, Y: 0, Z: h})

	steps, angle := ringSteps(fa)

	// each wall line contributes two vertices and four facets (two for the
	// wall, one for each cap); the last line shares vertices with the first
	id := int32(len(ret.Points) - 1)
	ret.Points = append(ret.Points,
		v3.Vec{X: 0, Y: r, Z: 0},
		v3.Vec{X: 0, Y: r, Z: h})
	for k := 0; k < steps; k++ {
		p := ringPoint(float64(k)*angle, r)
		ret.Points = append(ret.Points,
			v3.Vec{X: p.X, Y: p.Y, Z: 0},
			v3.Vec{X: p.X, Y: p.Y, Z: h})
		id = int32(len(ret.Points) - 1)
		ret.Faces = append(ret.Faces,
			Triangle{0, id - 1, id - 3},  // bottom cap
			Triangle{id, 1, id - 2},      // top cap
			Triangle{id, id - 2, id - 3}, // upper side
			Triangle{id, id - 3, id - 1}) // lower side
	}
	// connect the last set of vertices with the first
	ret.Faces = append(ret.Faces,
		Triangle{2, 0, id - 1},
		Triangle{1, 3, id},
		Triangle{id, 3, 2},
		Triangle{id, 2, id - 1})

	return ret
}

// Box triangulates an axis-aligned box spanning min..max with outward
// winding. Useful for object meshes in examples and tests.
func Box(min, max v3.Vec) Fragment {
	var ret Fragment
	ret.Points = []v3.Vec{
		{X: min.X, Y: min.Y, Z: min.Z}, // 0
		{X: max.X, Y: min.Y, Z: min.Z}, // 1
		{X: max.X, Y: max.Y, Z: min.Z}, // 2
		{X: min.X, Y: max.Y, Z: min.Z}, // 3
		{X: min.X, Y: min.Y, Z: max.Z}, // 4
		{X: max.X, Y: min.Y, Z: max.Z}, // 5
		{X: max.X, Y: max.Y, Z: max.Z}, // 6
		{X: min.X, Y: max.Y, Z: max.Z}, // 7
	}
	ret.Faces = []Triangle{
		{0, 2, 1}, {0, 3, 2}, // bottom (z = min.Z, normal -Z)
		{4, 5, 6}, {4, 6, 7}, // top (z = max.Z, normal +Z)
		{0, 1, 5}, {0, 5, 4}, // front (y = min.Y, normal -Y)
		{2, 3, 7}, {2, 7, 6}, // back (y = max.Y, normal +Y)
		{3, 0, 4}, {3, 4, 7}, // left (x = min.X, normal -X)
		{1, 2, 6}, {1, 6, 5}, // right (x = max.X, normal +X)
	}
	return ret
}
