package rank

import (
	"math"
	"testing"
)

func TestNDCGPerfectRanking(t *testing.T) {
	labels := []float64{3, 2, 1, 0}
	scores := []float64{4, 3, 2, 1}

	if got := NDCGAtK(scores, labels, 5); math.Abs(got-1) > 1e-12 {
		t.Fatalf("perfect ranking should score 1, got %f", got)
	}
}

func TestNDCGReversedRankingBelowOne(t *testing.T) {
	labels := []float64{3, 2, 1, 0}
	scores := []float64{1, 2, 3, 4}

	got := NDCGAtK(scores, labels, 5)
	if got >= 1 {
		t.Fatalf("reversed ranking should score below 1, got %f", got)
	}
	if got < 0 {
		t.Fatalf("NDCG below 0: %f", got)
	}
}

func TestNDCGBounds(t *testing.T) {
	labels := []float64{0, 4, 2, 1, 3, 0, 2}
	scores := []float64{0.3, -1.2, 0.8, 2.1, 0.0, -0.4, 1.1}

	for k := 1; k <= 10; k++ {
		got := NDCGAtK(scores, labels, k)
		if got < 0 || got > 1 {
			t.Fatalf("NDCG@%d out of [0,1]: %f", k, got)
		}
	}
}

func TestNDCGZeroGainGroup(t *testing.T) {
	labels := []float64{0, 0, 0}
	scores := []float64{1, 2, 3}

	if got := NDCGAtK(scores, labels, 5); got != 1 {
		t.Fatalf("zero-gain group is trivially ordered, expected 1, got %f", got)
	}
}

func TestNDCGEmptyOrMismatched(t *testing.T) {
	if got := NDCGAtK(nil, nil, 5); got != 0 {
		t.Fatalf("empty group should score 0, got %f", got)
	}
	if got := NDCGAtK([]float64{1}, []float64{1, 2}, 5); got != 0 {
		t.Fatalf("mismatched lengths should score 0, got %f", got)
	}
}

func TestMeanNDCGExcludesSmallGroups(t *testing.T) {
	scores := []float64{1, 2, 3}
	labels := []float64{0, 1, 2}
	groups := [][]int{{0, 1}, {2}}

	if got := countEvaluable(groups); got != 1 {
		t.Fatalf("expected 1 evaluable group, got %d", got)
	}

	mean := meanNDCG(scores, labels, groups, 5)
	if mean < 0 || mean > 1 {
		t.Fatalf("mean NDCG out of bounds: %f", mean)
	}
}

func TestMeanNDCGNoQualifyingGroups(t *testing.T) {
	if got := meanNDCG(nil, nil, nil, 5); got != 0 {
		t.Fatalf("no groups must not divide by zero, got %f", got)
	}
}
