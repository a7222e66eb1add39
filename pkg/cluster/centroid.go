package cluster

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Centroid elects the member of clust with the smallest mean distance to
// all other members, under the caller-supplied distance function, and
// returns its position within clust. Ties resolve to the lowest position.
// An empty cluster yields -1; clusters of one or two members have no
// meaningful center and yield 0.
func Centroid(clust []int, point func(int) v3.Vec, dist func(a, b v3.Vec) float64) int {
	switch len(clust) {
	case 0:
		return -1
	case 1, 2:
		return 0
	}

	avgs := make([]float64, len(clust))
	for i := 0; i < len(clust); i++ {
		for j := i + 1; j < len(clust); j++ {
			d := dist(point(clust[i]), point(clust[j]))
			avgs[i] += d
			avgs[j] += d
		}
	}
	for i := range avgs {
		avgs[i] /= float64(len(clust))
	}

	best := 0
	for i := 1; i < len(avgs); i++ {
		if avgs[i] < avgs[best] {
			best = i
		}
	}
	return best
}
