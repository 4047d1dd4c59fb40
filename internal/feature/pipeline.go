package feature

import (
	"fmt"

	"github.com/yourusername/degree-recommender/internal/models"
)

// FeatureColumns is the fixed feature order consumed by the booster. The
// slice is frozen into the artifact so a stale pipeline can never feed a
// newer model.
var FeatureColumns = []string{
	"exam_year_encoded",
	"district_encoded",
	"stream_encoded",
	"course_encoded",
	"university_encoded",
	"zscore",
	"zscore_percentile",
	"zscore_vs_course_avg",
	"district_competition",
	"stream_course_compatibility",
	"course_popularity",
	"course_demand",
	"intake_normalized",
	"is_nqc_encoded",
}

// Feature vector indices needed outside the package.
const (
	IdxZscoreVsCourseAvg = 7
	IdxIsNQC             = 13
)

// TrainingSet is the engineered supervised dataset handed to the trainer.
type TrainingSet struct {
	Features [][]float64
	Labels   []float64
	GroupIDs []string
	Columns  []string
}

// Pipeline applies identical feature math at fit and transform time. Fit
// computes and stores aggregates and encoders; Transform only reads them.
type Pipeline struct {
	Encoders   *EncoderRegistry
	Aggregates *Aggregates
	Columns    []string
}

// Fit builds the pipeline from the historical corpus and returns the
// engineered training set. Groups with fewer than 2 members are discarded,
// since a single-item group carries no ranking signal.
func Fit(records []models.AdmissionRecord) (*Pipeline, *TrainingSet, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: dataset is empty", models.ErrTrainingDataInsufficient)
	}

	agg := fitAggregates(records)

	encoders := NewEncoderRegistry()
	examYears := make([]string, len(records))
	districts := make([]string, len(records))
	streams := make([]string, len(records))
	courses := make([]string, len(records))
	universities := make([]string, len(records))
	nqcFlags := make([]string, len(records))
	for i, r := range records {
		examYears[i] = r.ExamYear
		districts[i] = r.District
		streams[i] = r.Stream
		courses[i] = r.Course
		universities[i] = r.University
		nqcFlags[i] = boolToken(r.IsNotQualified())
	}
	encoders.Fit(FieldExamYear, examYears)
	encoders.Fit(FieldDistrict, districts)
	encoders.Fit(FieldStream, streams)
	encoders.Fit(FieldCourse, courses)
	encoders.Fit(FieldUniversity, universities)
	encoders.Fit(FieldIsNQC, nqcFlags)

	p := &Pipeline{
		Encoders:   encoders,
		Aggregates: agg,
		Columns:    append([]string(nil), FeatureColumns...),
	}

	// Count group sizes before materializing vectors
	groupSizes := make(map[string]int, len(records))
	for _, r := range records {
		groupSizes[r.GroupID()]++
	}

	set := &TrainingSet{Columns: p.Columns}
	for _, r := range records {
		gid := r.GroupID()
		if groupSizes[gid] < 2 {
			continue
		}
		set.Features = append(set.Features, p.Transform(r))
		set.Labels = append(set.Labels, float64(agg.RelevanceTier(r.Zscore)))
		set.GroupIDs = append(set.GroupIDs, gid)
	}

	if len(set.Features) == 0 {
		return nil, nil, fmt.Errorf("%w: no groups with 2 or more members", models.ErrTrainingDataInsufficient)
	}

	return p, set, nil
}

// Transform engineers the feature vector for one record using only fitted
// state. Unseen candidates contribute 0 for count-based features and the
// Missing code for categoricals, never an error.
func (p *Pipeline) Transform(r models.AdmissionRecord) []float64 {
	key := r.CandidateKey()
	agg := p.Aggregates

	return []float64{
		p.Encoders.Transform(FieldExamYear, r.ExamYear),
		p.Encoders.Transform(FieldDistrict, r.District),
		p.Encoders.Transform(FieldStream, r.Stream),
		p.Encoders.Transform(FieldCourse, r.Course),
		p.Encoders.Transform(FieldUniversity, r.University),
		r.Zscore,
		agg.Percentile(r.Zscore),
		r.Zscore - agg.CandidateAvgZscore[key],
		float64(agg.DistrictCandidateCount[pairKey(r.District, key)]),
		agg.StreamCompatibility(r.Stream, key),
		float64(agg.CandidatePopularity[key]),
		agg.CandidateDemand[key],
		agg.NormalizedIntake(agg.CandidateIntake[key]),
		p.Encoders.Transform(FieldIsNQC, boolToken(r.IsNotQualified())),
	}
}
