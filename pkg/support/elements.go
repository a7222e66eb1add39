package support

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/stilts/pkg/mesh"
)

// DefaultBridgeRadius is the stock bridge radius. NewBridge always takes
// an explicit radius and does not fall back to this value.
const DefaultBridgeRadius = 0.8

// bridgeDetail fixes the angular resolution of bridge cylinders.
const bridgeDetail = 2 * math.Pi / 45

// Pillar is a strictly vertical truncated cylinder running from the tail
// of a head down to Endpoint. Its top ring is the lower ring of the head's
// tail, so the head must carry a tail before a pillar can be built on it.
type Pillar struct {
	Mesh mesh.Fragment
	Base mesh.Fragment

	R        float64
	Steps    int
	Endpoint v3.Vec

	// HeadIndex is a non-owning back-reference into the tree's head
	// list; the head list is never reordered during a planning run.
	HeadIndex int
}

// NewPillar extrudes a pillar from head's tail ring straight down to the
// z of endp. The x and y of the extruded ring stay fixed, which keeps
// every pillar axial.
func NewPillar(head *Head, headIndex int, endp v3.Vec, radius float64) *Pillar {
	if !head.HasTail() {
		panic("support: pillar requires a head with a tail")
	}

	p := &Pillar{
		R:         head.RequestPillarRadius(radius),
		Steps:     head.Steps,
		Endpoint:  endp,
		HeadIndex: headIndex,
	}

	lower := head.Tail.Mesh.Points[head.Steps:]
	p.Mesh.Points = append(p.Mesh.Points, lower...)
	for _, s := range lower {
		p.Mesh.Points = append(p.Mesh.Points, v3.Vec{X: s.X, Y: s.Y, Z: endp.Z})
	}

	offs := int32(p.Steps)
	for i := int32(0); i < offs-1; i++ {
		p.Mesh.Faces = append(p.Mesh.Faces,
			mesh.Triangle{i, i + offs, offs + i + 1},
			mesh.Triangle{i, offs + i + 1, i + 1})
	}
	last := offs - 1
	p.Mesh.Faces = append(p.Mesh.Faces,
		mesh.Triangle{0, last, offs},
		mesh.Triangle{last, offs + last, offs})

	return p
}

// AddBase attaches a flared pad at the pillar's endpoint: a truncated cone
// from the pillar radius at height above the endpoint out to radius at the
// endpoint, closed with two center fans. A non-positive height is a no-op
// and the flare never narrows below the pillar radius.
func (p *Pillar) AddBase(height, radius float64) {
	if height <= 0 {
		return
	}
	if radius < p.R {
		radius = p.R
	}

	a := 2 * math.Pi / float64(p.Steps)
	z := p.Endpoint.Z + height

	for i := 0; i < p.Steps; i++ {
		phi := float64(i) * a
		p.Base.Points = append(p.Base.Points, v3.Vec{
			X: p.Endpoint.X + p.R*math.Cos(phi),
			Y: p.Endpoint.Y + p.R*math.Sin(phi),
			Z: z,
		})
	}
	for i := 0; i < p.Steps; i++ {
		phi := float64(i) * a
		p.Base.Points = append(p.Base.Points, v3.Vec{
			X: p.Endpoint.X + radius*math.Cos(phi),
			Y: p.Endpoint.Y + radius*math.Sin(phi),
			Z: z - height,
		})
	}

	ep := p.Endpoint
	ep.Z += height
	p.Base.Points = append(p.Base.Points, p.Endpoint, ep)

	hcenter := int32(len(p.Base.Points) - 1)
	lcenter := int32(len(p.Base.Points) - 2)
	offs := int32(p.Steps)
	for i := int32(0); i < offs-1; i++ {
		p.Base.Faces = append(p.Base.Faces,
			mesh.Triangle{i, i + offs, offs + i + 1},
			mesh.Triangle{i, offs + i + 1, i + 1},
			mesh.Triangle{i, i + 1, hcenter},
			mesh.Triangle{lcenter, offs + i + 1, offs + i})
	}
	last := offs - 1
	p.Base.Faces = append(p.Base.Faces,
		mesh.Triangle{0, last, offs},
		mesh.Triangle{last, offs + last, offs},
		mesh.Triangle{hcenter, last, 0},
		mesh.Triangle{offs, offs + last, lcenter})
}

// HasBase reports whether the pillar carries a pad.
func (p *Pillar) HasBase() bool {
	return !p.Base.IsEmpty()
}

// Clone returns a deep copy of the pillar.
func (p *Pillar) Clone() *Pillar {
	c := *p
	c.Mesh = p.Mesh.Clone()
	c.Base = p.Base.Clone()
	return &c
}

// Junction is the rounded joint marking a bridge attachment on a pillar.
type Junction struct {
	Mesh  mesh.Fragment
	R     float64
	Steps int
	Pos   v3.Vec
}

// NewJunction builds a junction sphere of radius r centered at pos.
func NewJunction(pos v3.Vec, r float64, steps int) *Junction {
	j := &Junction{R: r, Steps: steps, Pos: pos}
	j.Mesh = mesh.Sphere(r, mesh.Portion{A: 0, B: math.Pi}, 2*math.Pi/float64(steps))
	j.Mesh.Translate(pos)
	return j
}

// Clone returns a deep copy of the junction.
func (j *Junction) Clone() *Junction {
	c := *j
	c.Mesh = j.Mesh.Clone()
	return &c
}

// Bridge is a slanted cylinder connecting two junctions. Endpoint kinds
// other than junction-junction are expressed by synthesizing junctions at
// the endpoints first.
type Bridge struct {
	Mesh mesh.Fragment
	R    float64
}

// NewBridge builds a cylinder from j1 to j2, rotated off the canonical +Z
// axis onto the endpoint delta.
func NewBridge(j1, j2 *Junction, r float64) *Bridge {
	b := &Bridge{R: r}

	delta := j2.Pos.Sub(j1.Pos)
	b.Mesh = mesh.Cylinder(r, delta.Length(), bridgeDetail)

	m := mesh.RotateTo(v3.Vec{X: 0, Y: 0, Z: 1}, delta.Normalize())
	b.Mesh.RotateTranslate(m, j1.Pos)

	return b
}

// Clone returns a deep copy of the bridge.
func (b *Bridge) Clone() *Bridge {
	c := *b
	c.Mesh = b.Mesh.Clone()
	return &c
}
