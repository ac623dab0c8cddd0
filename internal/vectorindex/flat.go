package vectorindex

import (
	"math"
	"sort"
)

// flatL2 is an exhaustive squared-Euclidean backend.
type flatL2 struct {
	vectors [][]float64
}

func (f *flatL2) reset(vectors [][]float64) {
	f.vectors = vectors
}

func (f *flatL2) search(query []float64, k int) ([]int, []float64) {
	type scored struct {
		pos  int
		dist float64
	}
	all := make([]scored, len(f.vectors))
	for i, v := range f.vectors {
		all[i] = scored{pos: i, dist: squaredL2(v, query)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	positions := make([]int, k)
	distances := make([]float64, k)
	for i := 0; i < k; i++ {
		if i < len(all) {
			positions[i] = all[i].pos
			distances[i] = all[i].dist
			continue
		}
		positions[i] = -1
		distances[i] = math.MaxFloat64
	}
	return positions, distances
}

func squaredL2(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
