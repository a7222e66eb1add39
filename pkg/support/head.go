package support

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/stilts/pkg/mesh"
)

// DefaultSteps is the stock ring resolution of the element builders.
const DefaultSteps = 45

// backTaper is the fraction of the back radius the tail starts from, so
// the tail tucks slightly under the back sphere.
const backTaper = 0.9

// fallbackPillarRatio scales the back radius when a requested pillar
// radius is unusable.
const fallbackPillarRatio = 0.65

// Tail is the truncated cone attached to a head's back sphere, easing the
// transition from head radius to pillar radius. It is owned by its head.
type Tail struct {
	Mesh   mesh.Fragment
	Steps  int
	Length float64
}

// Head is the pinhead element: a large back sphere and a small front
// sphere joined by a tangential cone, with the pinpoint at Translation.
type Head struct {
	Mesh mesh.Fragment

	Steps       int
	Direction   v3.Vec // unit normal the head hangs from
	Translation v3.Vec // world position of the pinpoint

	BackRadius  float64
	FrontRadius float64
	Width       float64 // straight portion between the spheres

	Tail Tail

	transformed bool
}

// NewHead builds a pinhead in canonical pose: pointing down the -Z axis
// with the pinpoint at the origin. The two sphere portions are cut where a
// cone is tangent to both, and the cut rings are stitched together with a
// triangle strip. Call Transform to move the mesh into world space.
func NewHead(backR, frontR, width float64, direction, offset v3.Vec, steps int) *Head {
	h := &Head{
		Steps:       steps,
		Direction:   direction,
		Translation: offset,
		BackRadius:  backR,
		FrontRadius: frontR,
		Width:       width,
	}

	detail := 2 * math.Pi / float64(steps)

	// The tangent cone between the two spheres meets each of them at a
	// latitude offset of phi from the equator.
	height := backR + frontR + width
	phi := math.Pi/2 - math.Acos((backR-frontR)/height)

	s1 := mesh.Sphere(backR, mesh.Portion{A: 0, B: math.Pi/2 + phi}, detail)
	s2 := mesh.Sphere(frontR, mesh.Portion{A: math.Pi/2 + phi, B: math.Pi}, detail)
	for i := range s2.Points {
		s2.Points[i].Z += height
	}

	h.Mesh.Merge(s1)
	h.Mesh.Merge(s2)

	// stitch the last ring of s1 to the first ring of s2
	for idx1, idx2 := len(s1.Points)-steps, len(s1.Points); idx1 < len(s1.Points)-1; idx1, idx2 = idx1+1, idx2+1 {
		i1s1, i1s2 := int32(idx1), int32(idx2)
		i2s1, i2s2 := i1s1+1, i1s2+1
		h.Mesh.Faces = append(h.Mesh.Faces,
			mesh.Triangle{i1s1, i2s1, i2s2},
			mesh.Triangle{i1s1, i2s2, i1s2})
	}
	i1s1 := int32(len(s1.Points) - steps)
	i2s1 := int32(len(s1.Points) - 1)
	i1s2 := int32(len(s1.Points))
	i2s2 := int32(len(s1.Points) + steps - 1)
	h.Mesh.Faces = append(h.Mesh.Faces,
		mesh.Triangle{i2s2, i2s1, i1s1},
		mesh.Triangle{i1s2, i2s2, i1s1})

	// put the pinpoint at the origin
	h.Mesh.Translate(v3.Vec{X: 0, Y: 0, Z: -(height + frontR)})

	h.Tail.Steps = steps
	h.Tail.Length = 0.8 * width

	return h
}

// Transform rotates the canonical head onto Direction and moves it to
// Translation. It must be called exactly once, before the head's mesh is
// read by any downstream consumer; a second call panics because the
// operation is not idempotent.
func (h *Head) Transform() {
	if h.transformed {
		panic("support: head transformed twice")
	}
	h.transformed = true
	m := mesh.RotateTo(v3.Vec{X: 0, Y: 0, Z: -1}, h.Direction)
	h.Mesh.RotateTranslate(m, h.Translation)
}

// FullWidth is the head's total extent along its axis.
func (h *Head) FullWidth() float64 {
	return 2*h.FrontRadius + h.Width + 2*h.BackRadius
}

// JunctionPoint is the center of the back sphere in world space: the spot
// where pillars and bridges attach.
func (h *Head) JunctionPoint() v3.Vec {
	return h.Translation.Add(h.Direction.MulScalar(2*h.FrontRadius + h.Width + h.BackRadius))
}

// RequestPillarRadius clips a requested pillar radius so that a pillar is
// never thicker than the head it hangs from. Non-positive or oversized
// requests fall back to a fixed fraction of the back radius.
func (h *Head) RequestPillarRadius(radius float64) float64 {
	if radius > 0 && radius < h.BackRadius {
		return radius
	}
	return h.BackRadius * fallbackPillarRatio
}

// AddTail attaches the transition cone below the back sphere. A
// non-positive length keeps the default of 0.8 times the head width; the
// radius request is clipped like a pillar radius. The tail is built
// directly in world space from Translation and Direction, so it is valid
// regardless of whether the head mesh has been transformed yet.
func (h *Head) AddTail(length, radius float64) {
	if length > 0 {
		h.Tail.Length = length
	}

	hh := h.BackRadius + 2*h.FrontRadius + h.Width
	c := h.Translation.Add(h.Direction.MulScalar(hh))

	r := h.BackRadius * backTaper
	rLow := h.RequestPillarRadius(radius)

	a := 2 * math.Pi / float64(h.Steps)
	z := c.Z

	cntr := &h.Tail.Mesh
	for i := 0; i < h.Steps; i++ {
		phi := float64(i) * a
		cntr.Points = append(cntr.Points, v3.Vec{
			X: c.X + r*math.Cos(phi),
			Y: c.Y + r*math.Sin(phi),
			Z: z,
		})
	}
	for i := 0; i < h.Steps; i++ {
		phi := float64(i) * a
		cntr.Points = append(cntr.Points, v3.Vec{
			X: c.X + rLow*math.Cos(phi),
			Y: c.Y + rLow*math.Sin(phi),
			Z: z - h.Tail.Length,
		})
	}

	offs := int32(h.Steps)
	for i := int32(0); i < offs-1; i++ {
		cntr.Faces = append(cntr.Faces,
			mesh.Triangle{i, i + offs, offs + i + 1},
			mesh.Triangle{i, offs + i + 1, i + 1})
	}
	last := offs - 1
	cntr.Faces = append(cntr.Faces,
		mesh.Triangle{0, last, offs},
		mesh.Triangle{last, offs + last, offs})
}

// HasTail reports whether AddTail has produced geometry.
func (h *Head) HasTail() bool {
	return !h.Tail.Mesh.IsEmpty()
}

// Clone returns a deep copy of the head.
func (h *Head) Clone() *Head {
	c := *h
	c.Mesh = h.Mesh.Clone()
	c.Tail.Mesh = h.Tail.Mesh.Clone()
	return &c
}
