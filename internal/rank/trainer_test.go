package rank

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/degree-recommender/internal/feature"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// syntheticSet builds a separable training set: the label follows the first
// feature, so any booster worth keeping learns the ordering quickly.
func syntheticSet(numGroups, groupSize int) *feature.TrainingSet {
	set := &feature.TrainingSet{
		Columns: []string{"signal", "noise"},
	}
	for g := 0; g < numGroups; g++ {
		gid := fmt.Sprintf("group_%02d", g)
		for i := 0; i < groupSize; i++ {
			signal := float64(i)
			noise := float64((g*7+i*3)%5) * 0.1
			set.Features = append(set.Features, []float64{signal, noise})
			set.Labels = append(set.Labels, float64(i%5))
			set.GroupIDs = append(set.GroupIDs, gid)
		}
	}
	return set
}

func testParams() Params {
	p := DefaultParams()
	p.MaxRounds = 30
	p.EarlyStoppingRound = 10
	p.MinSamplesLeaf = 1
	return p
}

func TestTrainGroupSplitIntegrity(t *testing.T) {
	set := syntheticSet(10, 6)
	trainer := NewTrainer(testParams(), quietLogger())

	train, test, err := trainer.splitGroups(set)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	seen := make(map[string]string)
	mark := func(groups [][]int, side string) {
		for _, g := range groups {
			for _, idx := range g {
				gid := set.GroupIDs[idx]
				if prev, ok := seen[gid]; ok && prev != side {
					t.Fatalf("group %s straddles train and test", gid)
				}
				seen[gid] = side
			}
		}
	}
	mark(train, "train")
	mark(test, "test")

	if len(train)+len(test) != 10 {
		t.Fatalf("expected 10 groups total, got %d", len(train)+len(test))
	}
	if len(test) != 2 {
		t.Fatalf("expected 2 held-out groups for a 10-group corpus, got %d", len(test))
	}
}

func TestTrainSplitReproducible(t *testing.T) {
	set := syntheticSet(10, 4)
	trainer := NewTrainer(testParams(), quietLogger())

	_, test1, err := trainer.splitGroups(set)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	_, test2, err := trainer.splitGroups(set)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	if len(test1) != len(test2) {
		t.Fatalf("split not reproducible: %d vs %d test groups", len(test1), len(test2))
	}
	for i := range test1 {
		if set.GroupIDs[test1[i][0]] != set.GroupIDs[test2[i][0]] {
			t.Fatalf("seeded split produced different held-out groups")
		}
	}
}

func TestTrainInsufficientGroups(t *testing.T) {
	set := syntheticSet(2, 4)
	trainer := NewTrainer(testParams(), quietLogger())

	if _, err := trainer.Train(set); err == nil {
		t.Fatalf("expected insufficient-data error for 2 groups")
	}
}

func TestTrainLearnsSeparableOrdering(t *testing.T) {
	set := syntheticSet(12, 8)
	trainer := NewTrainer(testParams(), quietLogger())

	result, err := trainer.Train(set)
	if err != nil {
		t.Fatalf("training failed: %v", err)
	}

	if result.Report.MeanNDCG < 0.9 {
		t.Fatalf("expected near-perfect NDCG on separable data, got %f", result.Report.MeanNDCG)
	}
	if result.Report.GroupsEvaluated == 0 {
		t.Fatalf("expected evaluated groups")
	}
	if result.Report.MeanNDCG > 1 {
		t.Fatalf("NDCG above 1: %f", result.Report.MeanNDCG)
	}
	if len(result.Booster.Trees) == 0 {
		t.Fatalf("booster has no trees")
	}
	if result.FeatureImportance["signal"] <= result.FeatureImportance["noise"] {
		t.Fatalf("signal feature should dominate importance: %v", result.FeatureImportance)
	}
}

func TestBoosterPredictDimensionCheck(t *testing.T) {
	b := &Booster{LearningRate: 0.1, NumFeatures: 3}
	if _, err := b.Predict([]float64{1, 2}); err == nil {
		t.Fatalf("expected error for wrong feature count")
	}
}

func TestBuildTreeFitsConstantTarget(t *testing.T) {
	features := [][]float64{{0}, {1}, {2}, {3}}
	grad := []float64{2, 2, 2, 2}
	hess := []float64{1, 1, 1, 1}

	p := DefaultParams()
	p.MinSamplesLeaf = 1

	tree := buildTree(features, grad, hess, p, nil)
	for _, x := range features {
		got := tree.Predict(x)
		if got < 1.9 || got > 2.1 {
			t.Fatalf("constant-gradient tree should predict ~2, got %f", got)
		}
	}
}
