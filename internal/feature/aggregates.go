package feature

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/degree-recommender/internal/dataset"
	"github.com/yourusername/degree-recommender/internal/models"
)

// demandEpsilon keeps the demand min-max denominator non-zero when every
// candidate has the same median z-score.
const demandEpsilon = 1e-9

// CandidatePair is one distinct (course, university) offering.
type CandidatePair struct {
	Course     string
	University string
}

// Key returns the canonical candidate identifier.
func (c CandidatePair) Key() string {
	return models.CandidateKey(c.Course, c.University)
}

// Aggregates are the statistics computed once at fit time and reused verbatim
// at transform time. Everything here is part of the persisted artifact.
type Aggregates struct {
	// SortedZscores is the fitted z-score distribution (all rows, sentinel
	// included) backing the percentile feature.
	SortedZscores []float64

	// CandidateAvgZscore is the mean z-score per candidate, not-qualified
	// rows excluded. Unseen candidates default to 0.
	CandidateAvgZscore map[string]float64

	// CandidateDemand is the per-candidate median z-score (not-qualified
	// rows excluded) min-max normalized to [0,1] across candidates.
	CandidateDemand map[string]float64

	// DistrictCandidateCount counts records per (district, candidate).
	DistrictCandidateCount map[string]int

	// StreamCandidateCount counts records per (stream, candidate).
	StreamCandidateCount map[string]int

	// CandidatePopularity is the total record count per candidate.
	CandidatePopularity map[string]int

	// CandidateIntake is the first observed intake per candidate.
	CandidateIntake map[string]float64

	// MaxIntake is the global intake maximum used for normalization.
	MaxIntake float64

	// QuantileCuts are the p25/p50/p75/p90 cut points over the fitted
	// z-score distribution, fixed once and never recomputed at inference.
	QuantileCuts [4]float64

	// MaxExamYear is the latest numeric exam year observed; synthetic
	// inference rows are pinned to it.
	MaxExamYear string

	// StreamCandidates enumerates the distinct candidate universe per stream.
	StreamCandidates map[string][]CandidatePair

	// Districts and ObservedStreams are the distinct values seen at fit,
	// frozen for the model-stats query.
	Districts       []string
	ObservedStreams []string
}

// pairKey joins a grouping value with a candidate key.
func pairKey(a, b string) string {
	return a + "|" + b
}

// fitAggregates computes every aggregate table from the training corpus.
func fitAggregates(records []models.AdmissionRecord) *Aggregates {
	agg := &Aggregates{
		CandidateAvgZscore:     make(map[string]float64),
		CandidateDemand:        make(map[string]float64),
		DistrictCandidateCount: make(map[string]int),
		StreamCandidateCount:   make(map[string]int),
		CandidatePopularity:    make(map[string]int),
		CandidateIntake:        make(map[string]float64),
		StreamCandidates:       make(map[string][]CandidatePair),
	}

	qualified := make(map[string][]float64)
	seenPair := make(map[string]struct{})
	seenDistrict := make(map[string]struct{})
	seenStream := make(map[string]struct{})

	for _, r := range records {
		key := r.CandidateKey()

		agg.SortedZscores = append(agg.SortedZscores, r.Zscore)
		agg.DistrictCandidateCount[pairKey(r.District, key)]++
		agg.StreamCandidateCount[pairKey(r.Stream, key)]++
		agg.CandidatePopularity[key]++

		if !r.IsNotQualified() {
			qualified[key] = append(qualified[key], r.Zscore)
		}

		if _, ok := agg.CandidateIntake[key]; !ok {
			agg.CandidateIntake[key] = r.Intake
		}
		if r.Intake > agg.MaxIntake {
			agg.MaxIntake = r.Intake
		}

		if _, ok := seenPair[pairKey(r.Stream, key)]; !ok {
			seenPair[pairKey(r.Stream, key)] = struct{}{}
			agg.StreamCandidates[r.Stream] = append(agg.StreamCandidates[r.Stream], CandidatePair{
				Course:     r.Course,
				University: r.University,
			})
		}

		seenDistrict[r.District] = struct{}{}
		seenStream[r.Stream] = struct{}{}

		if r.ExamYear != models.MissingToken {
			agg.MaxExamYear = maxYear(agg.MaxExamYear, r.ExamYear)
		}
	}

	sort.Float64s(agg.SortedZscores)

	// Per-candidate mean and median over qualified rows only
	medians := make(map[string]float64, len(qualified))
	minMedian, maxMedian := 0.0, 0.0
	first := true
	for key, scores := range qualified {
		agg.CandidateAvgZscore[key] = stat.Mean(scores, nil)

		sorted := append([]float64(nil), scores...)
		sort.Float64s(sorted)
		m := stat.Quantile(0.5, stat.Empirical, sorted, nil)
		medians[key] = m
		if first || m < minMedian {
			minMedian = m
		}
		if first || m > maxMedian {
			maxMedian = m
		}
		first = false
	}
	for key, m := range medians {
		agg.CandidateDemand[key] = (m - minMedian) / (maxMedian - minMedian + demandEpsilon)
	}

	if len(agg.SortedZscores) > 0 {
		agg.QuantileCuts = [4]float64{
			stat.Quantile(0.25, stat.Empirical, agg.SortedZscores, nil),
			stat.Quantile(0.50, stat.Empirical, agg.SortedZscores, nil),
			stat.Quantile(0.75, stat.Empirical, agg.SortedZscores, nil),
			stat.Quantile(0.90, stat.Empirical, agg.SortedZscores, nil),
		}
	}

	agg.Districts = sortedKeys(seenDistrict)
	agg.ObservedStreams = sortedKeys(seenStream)

	for _, pairs := range agg.StreamCandidates {
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key() < pairs[j].Key() })
	}

	return agg
}

// Percentile returns the fraction of the fitted distribution ranked at or
// below v, using the average-rank convention for ties.
func (a *Aggregates) Percentile(v float64) float64 {
	n := len(a.SortedZscores)
	if n == 0 {
		return 0
	}
	lo := sort.SearchFloat64s(a.SortedZscores, v)
	hi := sort.Search(n, func(i int) bool { return a.SortedZscores[i] > v })
	if hi == lo {
		// v is not in the fitted sample; the plain fraction keeps the
		// result in [0,1] on both sides of the observed range
		return float64(lo) / float64(n)
	}
	less := float64(lo)
	equal := float64(hi - lo)
	// average rank of the tied block, as a fraction of the sample
	return (less + (equal+1)/2) / float64(n)
}

// RelevanceTier buckets a z-score into one of 5 ordinal tiers using the
// fitted quantile cuts. The not-qualified sentinel lands in the lowest tier.
func (a *Aggregates) RelevanceTier(zscore float64) int {
	for i, cut := range a.QuantileCuts {
		if zscore <= cut {
			return i
		}
	}
	return len(a.QuantileCuts)
}

// StreamCompatibility returns the stream×candidate count. A Cross Stream
// student can match any stream's historical demand, so the counts are summed
// across every stream rather than read from the Cross Stream bucket alone.
func (a *Aggregates) StreamCompatibility(stream, candidateKey string) float64 {
	if stream == dataset.CrossStream {
		total := 0
		for _, s := range dataset.Streams {
			total += a.StreamCandidateCount[pairKey(s, candidateKey)]
		}
		return float64(total)
	}
	return float64(a.StreamCandidateCount[pairKey(stream, candidateKey)])
}

// NormalizedIntake scales an intake by the fitted maximum.
func (a *Aggregates) NormalizedIntake(intake float64) float64 {
	if a.MaxIntake <= 0 {
		return 0
	}
	return intake / a.MaxIntake
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// maxYear compares exam years numerically when possible, falling back to
// string comparison for malformed values.
func maxYear(a, b string) string {
	if a == "" {
		return b
	}
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		if ai >= bi {
			return a
		}
		return b
	}
	if a >= b {
		return a
	}
	return b
}
