package tiering

import (
	"math"
	"testing"
)

func TestClusterSeparatesLowAndHighValues(t *testing.T) {
	values := standardize([]float64{5, 5, 400})
	groups := cluster(values, 2, DefaultSeed)

	if len(groups) != 3 {
		t.Fatalf("expected one group per value, got %d", len(groups))
	}
	if groups[0] != groups[1] {
		t.Fatalf("expected the two low values to share a group, got %v", groups)
	}
	if groups[2] == groups[0] {
		t.Fatalf("expected the high value in its own group, got %v", groups)
	}
}

func TestClusterIsDeterministicForAFixedSeed(t *testing.T) {
	values := standardize([]float64{3, 7, 12, 90, 95, 120, 4, 11})

	first := cluster(values, 2, DefaultSeed)
	for run := 0; run < 5; run++ {
		again := cluster(values, 2, DefaultSeed)
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d diverged at index %d: %v vs %v", run, i, first, again)
			}
		}
	}
}

func TestClusterWithSingleGroupAssignsEverythingTogether(t *testing.T) {
	groups := cluster([]float64{1.5}, 1, DefaultSeed)
	if len(groups) != 1 || groups[0] != 0 {
		t.Fatalf("expected the sole value in group 0, got %v", groups)
	}
}

func TestClusterOfIdenticalValuesUsesOneGroup(t *testing.T) {
	// Zero-variance input standardizes to all zeros; every value lands in
	// the same group and the other group stays empty.
	values := standardize([]float64{10, 10, 10})
	groups := cluster(values, 2, DefaultSeed)
	for _, group := range groups {
		if group != groups[0] {
			t.Fatalf("expected identical values to share a group, got %v", groups)
		}
	}
}

func TestStandardizeProducesZeroMeanUnitVariance(t *testing.T) {
	scaled := standardize([]float64{2, 4, 6, 8})

	mean := 0.0
	for _, value := range scaled {
		mean += value
	}
	mean /= float64(len(scaled))
	if math.Abs(mean) > 1e-9 {
		t.Fatalf("expected zero mean, got %f", mean)
	}

	variance := 0.0
	for _, value := range scaled {
		variance += value * value
	}
	variance /= float64(len(scaled))
	if math.Abs(variance-1) > 1e-9 {
		t.Fatalf("expected unit variance, got %f", variance)
	}
}

func TestStandardizeDegeneratesToZerosWithoutVariance(t *testing.T) {
	for _, value := range standardize([]float64{7, 7, 7}) {
		if value != 0 {
			t.Fatalf("expected all zeros for zero-variance input, got %v", value)
		}
	}
}
