package support

import (
	"github.com/chazu/stilts/pkg/mesh"
)

// Fragments materializes the tree as one mesh volume per element, in a
// fixed order: every head and its tail, every pillar and its base, then
// junctions, then bridges. Empty volumes (heads without tails, pillars
// without bases) are skipped. The caller typically appends each fragment
// to its scene as a separate volume, printed together with the object.
func (t *Tree) Fragments() []mesh.Fragment {
	var out []mesh.Fragment

	add := func(f *mesh.Fragment) {
		if !f.IsEmpty() {
			out = append(out, f.Clone())
		}
	}

	for _, h := range t.heads {
		add(&h.Mesh)
		add(&h.Tail.Mesh)
	}
	for _, p := range t.pillars {
		add(&p.Mesh)
		add(&p.Base)
	}
	for _, j := range t.junctions {
		add(&j.Mesh)
	}
	for _, b := range t.bridges {
		add(&b.Mesh)
	}
	return out
}

// Merged materializes the whole tree as a single fragment.
func (t *Tree) Merged() mesh.Fragment {
	var out mesh.Fragment
	for _, f := range t.Fragments() {
		out.Merge(f)
	}
	return out
}
