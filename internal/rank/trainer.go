package rank

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/degree-recommender/internal/feature"
	"github.com/yourusername/degree-recommender/internal/models"
)

// minTotalGroups is the floor below which no meaningful train/test partition
// exists.
const minTotalGroups = 3

// Trainer fits the lambdarank booster on an engineered training set.
type Trainer struct {
	params Params
	logger *logrus.Logger
}

// NewTrainer creates a trainer with the given hyperparameters.
func NewTrainer(params Params, logger *logrus.Logger) *Trainer {
	return &Trainer{params: params, logger: logger}
}

// TrainResult carries the fitted booster and its held-out evaluation.
type TrainResult struct {
	Booster           *Booster
	Report            EvalReport
	FeatureImportance map[string]float64
	TrainGroups       int
	TestGroups        int
	Rounds            int
}

// Train splits the set 80/20 by whole groups, boosts with early stopping on
// held-out NDCG, and evaluates the final model on the held-out groups.
func (t *Trainer) Train(set *feature.TrainingSet) (*TrainResult, error) {
	trainGroups, testGroups, err := t.splitGroups(set)
	if err != nil {
		return nil, err
	}

	numFeatures := len(set.Columns)
	booster := &Booster{LearningRate: t.params.LearningRate, NumFeatures: numFeatures}
	importance := make([]float64, numFeatures)

	trainScores := make([]float64, len(set.Features))
	testScores := make([]float64, len(set.Features))

	bestNDCG := -1.0
	bestRound := -1

	for round := 0; round < t.params.MaxRounds; round++ {
		grad, hess := computeLambdas(trainScores, set.Labels, trainGroups, t.params.EvalAt)
		tree := buildTree(set.Features, grad, hess, t.params, importance)
		booster.Trees = append(booster.Trees, *tree)

		for _, group := range trainGroups {
			for _, i := range group {
				trainScores[i] += t.params.LearningRate * tree.Predict(set.Features[i])
			}
		}
		for _, group := range testGroups {
			for _, i := range group {
				testScores[i] += t.params.LearningRate * tree.Predict(set.Features[i])
			}
		}

		ndcg := meanNDCG(testScores, set.Labels, testGroups, t.params.EvalAt)
		if ndcg > bestNDCG {
			bestNDCG = ndcg
			bestRound = round
		}

		if (round+1)%100 == 0 {
			t.logger.WithFields(logrus.Fields{
				"round":     round + 1,
				"ndcg_at_5": ndcg,
				"best":      bestNDCG,
			}).Debug("Boosting progress")
		}

		if round-bestRound >= t.params.EarlyStoppingRound {
			t.logger.WithFields(logrus.Fields{
				"stopped_at": round + 1,
				"best_round": bestRound + 1,
			}).Info("Early stopping triggered")
			break
		}
	}

	// Keep only the trees up to the best validation round
	booster.Trees = booster.Trees[:bestRound+1]

	report := Evaluate(booster, set.Features, set.Labels, testGroups, t.params.EvalAt)

	return &TrainResult{
		Booster:           booster,
		Report:            report,
		FeatureImportance: importanceByName(importance, set.Columns),
		TrainGroups:       len(trainGroups),
		TestGroups:        len(testGroups),
		Rounds:            len(booster.Trees),
	}, nil
}

// splitGroups holds out whole groups so no group straddles the partition.
// The shuffle is seeded for reproducible splits.
func (t *Trainer) splitGroups(set *feature.TrainingSet) (train, test [][]int, err error) {
	byID := make(map[string][]int)
	for i, gid := range set.GroupIDs {
		byID[gid] = append(byID[gid], i)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) < minTotalGroups {
		return nil, nil, fmt.Errorf("%w: %d groups after filtering, need at least %d",
			models.ErrTrainingDataInsufficient, len(ids), minTotalGroups)
	}

	rng := rand.New(rand.NewSource(t.params.Seed))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	numTest := len(ids) / 5
	if numTest == 0 {
		numTest = 1
	}

	for i, id := range ids {
		if i < numTest {
			test = append(test, byID[id])
		} else {
			train = append(train, byID[id])
		}
	}

	return train, test, nil
}

func importanceByName(gains []float64, columns []string) map[string]float64 {
	out := make(map[string]float64, len(columns))
	for i, col := range columns {
		out[col] = gains[i]
	}
	return out
}
