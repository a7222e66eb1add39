// Package cluster groups points by a caller-supplied proximity predicate
// and provides the centroid election and 2D convex hull used when routing
// support pillars.
package cluster

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Element is a point paired with its index in the input set, as seen by
// clustering predicates.
type Element struct {
	Pos   v3.Vec
	Index int
}

// Cluster partitions points into groups: an edge connects indices i and j
// when near reports them close, and each connected component becomes one
// cluster. When maxPoints > 0 a component keeps only its first maxPoints
// members (ascending index); the excess points become singleton clusters.
// Components are emitted in order of their smallest member index, members
// ascending; a capped component's singletons follow it directly, so they
// may precede a later component with a smaller smallest index.
func Cluster(points []v3.Vec, near func(a, b Element) bool, maxPoints int) [][]int {
	n := len(points)
	if n == 0 {
		return nil
	}

	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ei := Element{Pos: points[i], Index: i}
			ej := Element{Pos: points[j], Index: j}
			if near(ei, ej) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	visited := make([]bool, n)
	var out [][]int
	for seed := 0; seed < n; seed++ {
		if visited[seed] {
			continue
		}
		comp := component(seed, adj, visited)
		if maxPoints > 0 && len(comp) > maxPoints {
			out = append(out, comp[:maxPoints])
			for _, idx := range comp[maxPoints:] {
				out = append(out, []int{idx})
			}
		} else {
			out = append(out, comp)
		}
	}
	return out
}

// component collects the connected component of seed in ascending index
// order.
func component(seed int, adj [][]int, visited []bool) []int {
	var comp []int
	queue := []int{seed}
	visited[seed] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		comp = append(comp, cur)
		for _, nb := range adj[cur] {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	sort.Ints(comp)
	return comp
}
