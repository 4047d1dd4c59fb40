// Package rank implements the gradient-boosted listwise ranker used to score
// degree candidates, along with its NDCG evaluation.
package rank

import (
	"math"
	"sort"
)

// dcgGain is the standard exponential gain for an ordinal relevance label.
func dcgGain(label float64) float64 {
	return math.Exp2(label) - 1
}

// dcgDiscount is the positional discount for rank position pos (0-based).
func dcgDiscount(pos int) float64 {
	return 1 / math.Log2(float64(pos)+2)
}

// rankByScore returns item indices ordered by descending score. Ties break on
// the original index so the ordering is deterministic.
func rankByScore(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// idealDCG computes the best attainable DCG@k for a label set.
func idealDCG(labels []float64, k int) float64 {
	sorted := append([]float64(nil), labels...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	dcg := 0.0
	for i := 0; i < len(sorted) && i < k; i++ {
		dcg += dcgGain(sorted[i]) * dcgDiscount(i)
	}
	return dcg
}

// NDCGAtK computes normalized discounted cumulative gain truncated at k for
// one group, comparing predicted scores against true relevance labels. A
// group whose labels carry no gain at all is trivially perfectly ordered and
// scores 1.
func NDCGAtK(scores, labels []float64, k int) float64 {
	if len(scores) == 0 || len(scores) != len(labels) {
		return 0
	}

	ideal := idealDCG(labels, k)
	if ideal == 0 {
		return 1
	}

	order := rankByScore(scores)
	dcg := 0.0
	for pos := 0; pos < len(order) && pos < k; pos++ {
		dcg += dcgGain(labels[order[pos]]) * dcgDiscount(pos)
	}

	return dcg / ideal
}
