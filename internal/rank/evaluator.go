package rank

// EvalReport summarizes ranking quality on held-out groups.
type EvalReport struct {
	MeanNDCG        float64
	GroupsEvaluated int
}

// Evaluate computes the mean NDCG@k across held-out groups with at least 2
// members. Smaller groups carry no ranking signal and are excluded from both
// the mean and the evaluated count; with no qualifying groups the mean is 0.
func Evaluate(b *Booster, features [][]float64, labels []float64, groups [][]int, k int) EvalReport {
	scores := b.predictBatch(features)
	return EvalReport{
		MeanNDCG:        meanNDCG(scores, labels, groups, k),
		GroupsEvaluated: countEvaluable(groups),
	}
}

// meanNDCG averages per-group NDCG@k over groups with >= 2 members.
func meanNDCG(scores, labels []float64, groups [][]int, k int) float64 {
	sum := 0.0
	count := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		gScores := make([]float64, len(group))
		gLabels := make([]float64, len(group))
		for i, idx := range group {
			gScores[i] = scores[idx]
			gLabels[i] = labels[idx]
		}
		sum += NDCGAtK(gScores, gLabels, k)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func countEvaluable(groups [][]int) int {
	count := 0
	for _, g := range groups {
		if len(g) >= 2 {
			count++
		}
	}
	return count
}
