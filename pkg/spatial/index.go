// Package spatial provides the geometric query services the support
// planner depends on: a point index for proximity lookups, ray vs
// triangle-mesh distance, and per-point surface normals.
package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// pointTol is the half-extent of the degenerate rectangle a point is
// stored under in the R-tree.
const pointTol = 1e-9

// Element is a stored point together with its caller-assigned id.
type Element struct {
	Pos v3.Vec
	ID  int
}

type entry struct {
	el   Element
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

// Index is a 3D point index. Queries that should ignore Z are expressed by
// inserting and querying points with Z forced to zero, as the planner does
// for junction lookups. Insertion order is preserved for predicate scans,
// which keeps query results deterministic.
type Index struct {
	rt  *rtreego.Rtree
	els []*entry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{rt: rtreego.NewTree(3, 2, 8)}
}

// Len returns the number of stored elements.
func (ix *Index) Len() int {
	return len(ix.els)
}

// Insert stores p under the given id.
func (ix *Index) Insert(p v3.Vec, id int) {
	e := &entry{
		el:   Element{Pos: p, ID: id},
		rect: rtreego.Point{p.X, p.Y, p.Z}.ToRect(pointTol),
	}
	ix.rt.Insert(e)
	ix.els = append(ix.els, e)
}

// Query returns every element satisfying pred, in insertion order.
func (ix *Index) Query(pred func(Element) bool) []Element {
	var out []Element
	for _, e := range ix.els {
		if pred(e.el) {
			out = append(out, e.el)
		}
	}
	return out
}

// Within returns the elements whose Euclidean distance to center is less
// than r. The R-tree prunes the search to the bounding cube of the query
// ball; results are ordered by id so the caller sees a stable sequence.
func (ix *Index) Within(center v3.Vec, r float64) []Element {
	if len(ix.els) == 0 {
		return nil
	}
	hits := ix.rt.SearchIntersect(rtreego.Point{center.X, center.Y, center.Z}.ToRect(r))
	var out []Element
	for _, h := range hits {
		el := h.(*entry).el
		if el.Pos.Sub(center).Length() < r {
			out = append(out, el)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Nearest returns up to k elements closest to p, nearest first.
func (ix *Index) Nearest(p v3.Vec, k int) []Element {
	if k <= 0 || len(ix.els) == 0 {
		return nil
	}
	hits := ix.rt.NearestNeighbors(k, rtreego.Point{p.X, p.Y, p.Z})
	var out []Element
	for _, h := range hits {
		if h == nil {
			continue
		}
		out = append(out, h.(*entry).el)
	}
	return out
}
