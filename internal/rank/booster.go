package rank

import "fmt"

// Params are the fixed training hyperparameters.
type Params struct {
	MaxDepth           int
	NumLeaves          int
	LearningRate       float64
	MaxRounds          int
	EarlyStoppingRound int
	MinSamplesLeaf     int
	MinGainToSplit     float64
	EvalAt             int
	Seed               int64
}

// DefaultParams returns the fixed defaults: bounded depth, fixed leaf count,
// early stopping on held-out NDCG@5.
func DefaultParams() Params {
	return Params{
		MaxDepth:           6,
		NumLeaves:          31,
		LearningRate:       0.1,
		MaxRounds:          1000,
		EarlyStoppingRound: 50,
		MinSamplesLeaf:     5,
		MinGainToSplit:     0,
		EvalAt:             5,
		Seed:               42,
	}
}

// Booster is the fitted gradient-boosted ranker. Scores are relative within
// a candidate set; only their ordering is meaningful.
type Booster struct {
	Trees        []Tree
	LearningRate float64
	NumFeatures  int
}

// Predict scores a single engineered feature vector.
func (b *Booster) Predict(x []float64) (float64, error) {
	if len(x) != b.NumFeatures {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(x), b.NumFeatures)
	}
	score := 0.0
	for i := range b.Trees {
		score += b.LearningRate * b.Trees[i].Predict(x)
	}
	return score, nil
}

// predictBatch scores rows without per-row validation; the trainer controls
// the inputs.
func (b *Booster) predictBatch(features [][]float64) []float64 {
	out := make([]float64, len(features))
	for i, x := range features {
		for j := range b.Trees {
			out[i] += b.LearningRate * b.Trees[j].Predict(x)
		}
	}
	return out
}
