package mesh

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestSphereTinyRadiusIsEmpty(t *testing.T) {
	s := Sphere(1e-7, Portion{A: 0, B: math.Pi}, 2*math.Pi/16)
	if !s.IsEmpty() {
		t.Errorf("near-zero radius should yield an empty fragment, got %d vertices",
			s.VertexCount())
	}
}

func TestSphereFullHeightCounts(t *testing.T) {
	// 8 steps, full polar range: south pole + first ring + 5 stacked
	// rings + north pole.
	s := Sphere(1, Portion{A: 0, B: math.Pi}, 2*math.Pi/8)

	if got, want := s.VertexCount(), 1+8+5*8+1; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	if got, want := s.TriangleCount(), 8+5*8*2+8; got != want {
		t.Errorf("triangle count = %d, want %d", got, want)
	}
}

func TestSphereVerticesOnSphere(t *testing.T) {
	const rho = 2.5
	s := Sphere(rho, Portion{A: 0, B: math.Pi}, 2*math.Pi/16)
	for i, p := range s.Points {
		if r := p.Length(); math.Abs(r-rho) > 1e-9 {
			t.Fatalf("vertex %d at radius %f, want %f", i, r, rho)
		}
	}
}

func TestSpherePartialPortionHasNoPoles(t *testing.T) {
	// a band that starts above the south pole and stops short of the top
	s := Sphere(1, Portion{A: math.Pi / 4, B: 3 * math.Pi / 4}, 2*math.Pi/8)
	for i, p := range s.Points {
		if math.Abs(p.X) < 1e-12 && math.Abs(p.Y) < 1e-12 {
			t.Fatalf("vertex %d is a pole vertex at %v", i, p)
		}
	}
}

func TestSphereIndicesInRange(t *testing.T) {
	s := Sphere(1, Portion{A: 0, B: math.Pi}, 2*math.Pi/12)
	n := int32(s.VertexCount())
	for fi, f := range s.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				t.Fatalf("face %d references vertex %d, have %d vertices", fi, idx, n)
			}
		}
	}
}

func TestCylinderCounts(t *testing.T) {
	c := Cylinder(1, 5, 2*math.Pi/45)

	// 2 cap centers + 2 seed vertices + 2 per wall line
	if got, want := c.VertexCount(), 2+2+45*2; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	// 4 per wall line + 4 closing
	if got, want := c.TriangleCount(), 45*4+4; got != want {
		t.Errorf("triangle count = %d, want %d", got, want)
	}
}

func TestCylinderExtents(t *testing.T) {
	const r, h = 1.5, 7.0
	c := Cylinder(r, h, 2*math.Pi/32)
	for i, p := range c.Points {
		if p.Z < -1e-12 || p.Z > h+1e-12 {
			t.Fatalf("vertex %d outside z range: %v", i, p)
		}
		if rr := math.Hypot(p.X, p.Y); rr > r+1e-9 {
			t.Fatalf("vertex %d outside radius: %v", i, p)
		}
	}
}

func TestCylinderIndicesInRange(t *testing.T) {
	c := Cylinder(0.8, 2, 2*math.Pi/45)
	n := int32(c.VertexCount())
	for fi, f := range c.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				t.Fatalf("face %d references vertex %d, have %d vertices", fi, idx, n)
			}
		}
	}
}

func TestBoxWindingIsOutward(t *testing.T) {
	b := Box(v3.Vec{X: -1, Y: -1, Z: -1}, v3.Vec{X: 1, Y: 1, Z: 1})
	if b.TriangleCount() != 12 {
		t.Fatalf("triangle count = %d, want 12", b.TriangleCount())
	}
	for i := 0; i < b.TriangleCount(); i++ {
		p0, p1, p2 := b.Vertex(i)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		center := p0.Add(p1).Add(p2).DivScalar(3)
		if n.Dot(center) <= 0 {
			t.Errorf("triangle %d winds inward", i)
		}
	}
}
