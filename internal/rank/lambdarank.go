package rank

import "math"

// computeLambdas accumulates lambdarank gradients and hessians for every row.
// For each pair in a group with differing relevance, the pair weight is the
// NDCG the current ranking would gain by swapping the two items, so pairs
// that matter most for the metric pull hardest on the scores.
func computeLambdas(scores, labels []float64, groups [][]int, k int) (grad, hess []float64) {
	grad = make([]float64, len(scores))
	hess = make([]float64, len(scores))

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		groupLabels := make([]float64, len(group))
		groupScores := make([]float64, len(group))
		for i, idx := range group {
			groupLabels[i] = labels[idx]
			groupScores[i] = scores[idx]
		}

		ideal := idealDCG(groupLabels, k)
		if ideal == 0 {
			continue
		}

		// Current position of each group member in the predicted ranking
		order := rankByScore(groupScores)
		position := make([]int, len(group))
		for pos, i := range order {
			position[i] = pos
		}

		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if groupLabels[i] == groupLabels[j] {
					continue
				}

				hi, lo := i, j
				if groupLabels[j] > groupLabels[i] {
					hi, lo = j, i
				}

				deltaNDCG := math.Abs(dcgGain(groupLabels[hi])-dcgGain(groupLabels[lo])) *
					math.Abs(dcgDiscount(position[hi])-dcgDiscount(position[lo])) / ideal

				rho := 1 / (1 + math.Exp(groupScores[hi]-groupScores[lo]))
				l := rho * deltaNDCG
				h := rho * (1 - rho) * deltaNDCG

				grad[group[hi]] += l
				grad[group[lo]] -= l
				hess[group[hi]] += h
				hess[group[lo]] += h
			}
		}
	}

	return grad, hess
}
