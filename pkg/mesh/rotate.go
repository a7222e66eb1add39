package mesh

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// parallelTol decides when two unit vectors count as (anti)parallel.
const parallelTol = 1e-12

// RotateTo returns the rotation matrix taking the direction of from onto
// the direction of to (the quaternion-from-two-vectors construction). For
// antiparallel inputs an arbitrary perpendicular axis is used.
func RotateTo(from, to v3.Vec) sdf.M44 {
	f := from.Normalize()
	t := to.Normalize()
	d := f.Dot(t)

	switch {
	case d > 1-parallelTol:
		return sdf.Identity3d()
	case d < -1+parallelTol:
		axis := f.Cross(v3.Vec{X: 1, Y: 0, Z: 0})
		if axis.Length() < 1e-9 {
			axis = f.Cross(v3.Vec{X: 0, Y: 1, Z: 0})
		}
		return sdf.Rotate3d(axis.Normalize(), math.Pi)
	}

	axis := f.Cross(t).Normalize()
	angle := math.Acos(math.Max(-1, math.Min(1, d)))
	return sdf.Rotate3d(axis, angle)
}

// RotateTranslate applies m to every vertex and then offsets by tr.
func (f *Fragment) RotateTranslate(m sdf.M44, tr v3.Vec) {
	for i := range f.Points {
		f.Points[i] = m.MulPosition(f.Points[i]).Add(tr)
	}
}
