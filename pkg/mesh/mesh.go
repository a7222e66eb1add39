// Package mesh provides the triangle-mesh fragment type shared by the
// whole module, plus the triangulated primitives (sphere portions,
// cylinders, boxes) that support elements are assembled from.
//
// All coordinates are 64-bit floats in millimetres. Triangle indices are
// 32-bit and local to their fragment.
package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangle is a triple of vertex indices into the owning fragment.
type Triangle [3]int32

// Fragment is an indexed triangle mesh: an ordered vertex list and an
// ordered triangle list referring into it.
type Fragment struct {
	Points []v3.Vec
	Faces  []Triangle
}

// VertexCount returns the number of vertices.
func (f *Fragment) VertexCount() int {
	return len(f.Points)
}

// TriangleCount returns the number of triangles.
func (f *Fragment) TriangleCount() int {
	return len(f.Faces)
}

// IsEmpty returns true if the fragment has no geometry.
func (f *Fragment) IsEmpty() bool {
	return len(f.Points) == 0
}

// Merge appends other onto f, rebasing other's triangle indices past f's
// existing vertices. other is not modified.
func (f *Fragment) Merge(other Fragment) {
	base := int32(len(f.Points))
	f.Points = append(f.Points, other.Points...)
	for _, t := range other.Faces {
		f.Faces = append(f.Faces, Triangle{t[0] + base, t[1] + base, t[2] + base})
	}
}

// Translate moves every vertex by d.
func (f *Fragment) Translate(d v3.Vec) {
	for i := range f.Points {
		f.Points[i] = f.Points[i].Add(d)
	}
}

// Clone returns a deep copy sharing no storage with f.
func (f *Fragment) Clone() Fragment {
	c := Fragment{
		Points: make([]v3.Vec, len(f.Points)),
		Faces:  make([]Triangle, len(f.Faces)),
	}
	copy(c.Points, f.Points)
	copy(c.Faces, f.Faces)
	return c
}

// Vertex returns the three corner positions of triangle i.
func (f *Fragment) Vertex(i int) (a, b, c v3.Vec) {
	t := f.Faces[i]
	return f.Points[t[0]], f.Points[t[1]], f.Points[t[2]]
}
