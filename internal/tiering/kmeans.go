package tiering

import (
	"math"
	"math/rand"
	"sort"
)

const maxIterations = 100

// cluster partitions a single standardized feature into k groups and returns
// one group index per input value, in input order.
//
// The whole procedure is deterministic for a fixed seed and snapshot:
// initial centroids come from a seeded permutation of the sorted distinct
// values, assignment ties resolve to the lower centroid index, and the
// update loop inspects values in input order only.
func cluster(values []float64, k int, seed int64) []int {
	if k < 1 || len(values) == 0 {
		return nil
	}
	if k >= len(values) {
		k = len(values)
	}

	centroids := initialCentroids(values, k, seed)
	assignments := make([]int, len(values))

	for iteration := 0; iteration < maxIterations; iteration++ {
		changed := false
		for i, value := range values {
			nearest := nearestCentroid(value, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if iteration > 0 && !changed {
			break
		}

		sums := make([]float64, len(centroids))
		counts := make([]int, len(centroids))
		for i, value := range values {
			sums[assignments[i]] += value
			counts[assignments[i]]++
		}
		for j := range centroids {
			if counts[j] > 0 {
				centroids[j] = sums[j] / float64(counts[j])
			}
		}
	}

	return assignments
}

func initialCentroids(values []float64, k int, seed int64) []float64 {
	distinct := distinctSorted(values)
	if len(distinct) <= k {
		centroids := make([]float64, k)
		for i := range centroids {
			centroids[i] = distinct[i%len(distinct)]
		}
		return centroids
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(distinct))[:k]
	sort.Ints(picked)

	centroids := make([]float64, k)
	for i, index := range picked {
		centroids[i] = distinct[index]
	}
	return centroids
}

func distinctSorted(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	distinct := sorted[:0]
	for i, value := range sorted {
		if i == 0 || value != distinct[len(distinct)-1] {
			distinct = append(distinct, value)
		}
	}
	return distinct
}

func nearestCentroid(value float64, centroids []float64) int {
	nearest := 0
	nearestDistance := math.Abs(value - centroids[0])
	for j := 1; j < len(centroids); j++ {
		distance := math.Abs(value - centroids[j])
		if distance < nearestDistance {
			nearest = j
			nearestDistance = distance
		}
	}
	return nearest
}

// standardize applies the classic z-score transform. A zero-variance feature
// degenerates to all zeros.
func standardize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	mean := 0.0
	for _, value := range values {
		mean += value
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, value := range values {
		deviation := value - mean
		variance += deviation * deviation
	}
	variance /= float64(len(values))

	scaled := make([]float64, len(values))
	if variance == 0 {
		return scaled
	}
	deviation := math.Sqrt(variance)
	for i, value := range values {
		scaled[i] = (value - mean) / deviation
	}
	return scaled
}
