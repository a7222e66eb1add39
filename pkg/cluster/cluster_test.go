package cluster

import (
	"math"
	"reflect"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func nearWithin(d float64) func(a, b Element) bool {
	return func(a, b Element) bool {
		return a.Pos.Sub(b.Pos).Length() < d
	}
}

func TestClusterEmpty(t *testing.T) {
	if got := Cluster(nil, nearWithin(1), 0); got != nil {
		t.Errorf("empty input should yield nil, got %v", got)
	}
}

func TestClusterComponents(t *testing.T) {
	points := []v3.Vec{
		{X: 0},             // 0
		{X: 0.05},          // 1: near 0
		{X: 10},            // 2: alone
		{X: 0.09},          // 3: near 0 and 1
		{X: 10.05, Y: 0.0}, // 4: near 2
	}
	got := Cluster(points, nearWithin(0.1), 0)
	want := [][]int{{0, 1, 3}, {2, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestClusterCapSpawnsSingletons(t *testing.T) {
	points := []v3.Vec{
		{X: 0}, {X: 0.01}, {X: 0.02}, {X: 0.03}, {X: 0.04}, {X: 0.05},
	}
	got := Cluster(points, nearWithin(1), 4)
	want := [][]int{{0, 1, 2, 3}, {4}, {5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("capped clusters = %v, want %v", got, want)
	}
}

func TestClusterDedupProperty(t *testing.T) {
	// one representative per component means no two survivors are
	// directly within range of each other
	points := []v3.Vec{
		{X: 0}, {X: 0.04}, {X: 2}, {X: 2.09}, {X: 5}, {X: 5.01}, {X: 9},
	}
	const d = 0.1
	clusters := Cluster(points, nearWithin(d), 0)

	var kept []v3.Vec
	for _, cl := range clusters {
		kept = append(kept, points[cl[0]])
	}
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			if kept[i].Sub(kept[j]).Length() < d {
				t.Errorf("survivors %d and %d are within dedup range", i, j)
			}
		}
	}
}

func TestCentroidSpecialSizes(t *testing.T) {
	pt := func(i int) v3.Vec { return v3.Vec{X: float64(i)} }
	dist := func(a, b v3.Vec) float64 { return a.Sub(b).Length() }

	if got := Centroid(nil, pt, dist); got != -1 {
		t.Errorf("empty cluster centroid = %d, want -1", got)
	}
	if got := Centroid([]int{7}, pt, dist); got != 0 {
		t.Errorf("singleton centroid = %d, want 0", got)
	}
	if got := Centroid([]int{3, 9}, pt, dist); got != 0 {
		t.Errorf("pair centroid = %d, want 0", got)
	}
}

func TestCentroidElectsMostCentral(t *testing.T) {
	points := []v3.Vec{{X: 0}, {X: 1}, {X: 10}}
	pt := func(i int) v3.Vec { return points[i] }
	dist := func(a, b v3.Vec) float64 { return a.Sub(b).Length() }

	if got := Centroid([]int{0, 1, 2}, pt, dist); got != 1 {
		t.Errorf("centroid = %d, want 1 (smallest mean distance)", got)
	}
}

func TestCentroidTieBreaksLow(t *testing.T) {
	// equilateral triangle: every member has the same mean distance
	points := []v3.Vec{
		{X: 0, Y: 0},
		{X: 2, Y: 0},
		{X: 1, Y: math.Sqrt(3)},
	}
	pt := func(i int) v3.Vec { return points[i] }
	dist := func(a, b v3.Vec) float64 { return a.Sub(b).Length() }

	if got := Centroid([]int{0, 1, 2}, pt, dist); got != 0 {
		t.Errorf("tied centroid = %d, want 0", got)
	}
}
