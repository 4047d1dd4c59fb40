package models

import "time"

// StudentProfile is a validated inference request.
type StudentProfile struct {
	Zscore   float64 `json:"zscore" validate:"required,gte=-3,lte=3"`
	District string  `json:"district" validate:"required"`
	Stream   string  `json:"stream" validate:"required"`
	ExamYear int     `json:"exam_year" validate:"required,min=2010,max=2035"`
}

// Recommendation is one ranked (course, university) suggestion.
type Recommendation struct {
	Course     string  `json:"course"`
	University string  `json:"university"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
	Category   string  `json:"category"`
}

// RecommendationResult carries the ranked list plus generation metadata.
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	CountAnalyzed   int              `json:"count_analyzed"`
	Elapsed         time.Duration    `json:"-"`
	ElapsedMillis   int64            `json:"elapsed_ms"`
}

// ModelStats are the summary statistics frozen at training time and served
// verbatim afterwards.
type ModelStats struct {
	ModelName         string             `json:"model_name"`
	MeanNDCG          float64            `json:"mean_ndcg_at_5"`
	GroupsEvaluated   int                `json:"groups_evaluated"`
	TotalCandidates   int                `json:"total_candidates"`
	Districts         []string           `json:"districts"`
	Streams           []string           `json:"streams"`
	TrainedAt         time.Time          `json:"trained_at"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
}
