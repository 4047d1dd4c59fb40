// Package recommend turns a validated student profile into a ranked list of
// viable degree programs using the loaded model artifact.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/degree-recommender/internal/artifact"
	"github.com/yourusername/degree-recommender/internal/config"
	"github.com/yourusername/degree-recommender/internal/dataset"
	"github.com/yourusername/degree-recommender/internal/feature"
	"github.com/yourusername/degree-recommender/internal/metrics"
	"github.com/yourusername/degree-recommender/internal/models"
)

const (
	// viabilityMargin excludes candidates whose z-score sits too far below
	// the candidate's historical average to be a genuine recommendation.
	viabilityMargin = -0.5

	// Accepted top-k bounds.
	MinTopK = 1
	MaxTopK = 50

	// Accepted z-score range for a profile.
	minZscore = -3.0
	maxZscore = 3.0

	// Supported exam-year range.
	minExamYear = 2010
	maxExamYear = 2035
)

// Engine scores and ranks degree candidates against the loaded artifact.
// The artifact is immutable after load; concurrent requests only read it.
type Engine struct {
	mu       sync.RWMutex
	bundle   *artifact.Bundle
	pipeline *feature.Pipeline

	cache  *responseCache
	logger *logrus.Logger
}

// NewEngine creates an engine with no artifact loaded. Every inference call
// fails with ErrModelNotReady until SetBundle is called.
func NewEngine(cacheCfg config.CacheConfig, logger *logrus.Logger) *Engine {
	e := &Engine{logger: logger}
	if cacheCfg.Enabled {
		e.cache = newResponseCache(time.Duration(cacheCfg.TTLSeconds)*time.Second, cacheCfg.MaxSize)
	}
	return e
}

// SetBundle installs the trained artifact and marks the engine ready.
func (e *Engine) SetBundle(b *artifact.Bundle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bundle = b
	e.pipeline = b.Pipeline()

	metrics.ModelNDCG.Set(b.Stats.MeanNDCG)
	metrics.ModelCandidates.Set(float64(b.Stats.TotalCandidates))
}

// Ready reports whether an artifact is loaded.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bundle != nil
}

// Stats returns the summary statistics frozen at training time.
func (e *Engine) Stats() (models.ModelStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.bundle == nil {
		return models.ModelStats{}, models.ErrModelNotReady
	}
	return e.bundle.Stats, nil
}

// scoredCandidate is one candidate after feature transform and scoring.
type scoredCandidate struct {
	pair    feature.CandidatePair
	score   float64
	vsAvg   float64
	notQual bool
}

// Recommend validates the profile, scores every candidate in the student's
// stream, filters implausible matches, and returns the top-k ranked list.
func (e *Engine) Recommend(ctx context.Context, profile models.StudentProfile, topK int) (*models.RecommendationResult, error) {
	if err := validateProfile(profile, topK); err != nil {
		metrics.RecommendationErrorsTotal.WithLabelValues("invalid_profile").Inc()
		return nil, err
	}

	e.mu.RLock()
	bundle, pipeline := e.bundle, e.pipeline
	e.mu.RUnlock()

	if bundle == nil {
		metrics.RecommendationErrorsTotal.WithLabelValues("model_not_ready").Inc()
		return nil, models.ErrModelNotReady
	}

	metrics.RecommendationRequestsTotal.Inc()

	key := cacheKey(profile, topK)
	if cached := e.cache.get(key); cached != nil {
		return cached, nil
	}

	start := time.Now()
	agg := pipeline.Aggregates
	candidates := agg.StreamCandidates[profile.Stream]

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, pair := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := models.AdmissionRecord{
			ExamYear:   agg.MaxExamYear,
			District:   profile.District,
			Stream:     profile.Stream,
			Course:     pair.Course,
			University: pair.University,
			Zscore:     profile.Zscore,
			Intake:     agg.CandidateIntake[pair.Key()],
		}

		vec := pipeline.Transform(rec)
		score, err := bundle.Booster.Predict(vec)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			metrics.CandidateScoringFailuresTotal.Inc()
			e.logger.WithFields(logrus.Fields{
				"candidate": pair.Key(),
			}).WithError(err).Warn("Skipping candidate after scoring failure")
			continue
		}

		scored = append(scored, scoredCandidate{
			pair:    pair,
			score:   score,
			vsAvg:   vec[feature.IdxZscoreVsCourseAvg],
			notQual: rec.IsNotQualified(),
		})
	}

	// Order by descending score; ties break on the candidate key so
	// repeated requests return identical rankings.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].pair.Key() < scored[j].pair.Key()
	})

	result := &models.RecommendationResult{
		Recommendations: []models.Recommendation{},
		CountAnalyzed:   len(candidates),
	}

	rank := 0
	for _, c := range scored {
		if c.vsAvg < viabilityMargin || c.notQual {
			continue
		}
		rank++
		if rank > topK {
			break
		}
		result.Recommendations = append(result.Recommendations, models.Recommendation{
			Course:     c.pair.Course,
			University: c.pair.University,
			Score:      c.score,
			Rank:       rank,
			Category:   categoryFor(c.pair.Course),
		})
	}

	if len(result.Recommendations) == 0 {
		e.logger.WithFields(logrus.Fields{
			"district": profile.District,
			"stream":   profile.Stream,
			"zscore":   profile.Zscore,
			"analyzed": len(candidates),
		}).Warn("No viable candidates after filtering")
	}

	result.Elapsed = time.Since(start)
	result.ElapsedMillis = result.Elapsed.Milliseconds()
	metrics.RecommendationDuration.Observe(result.Elapsed.Seconds())

	e.cache.set(key, result)

	return result, nil
}

// validateProfile enforces the plausible input ranges. Violations surface
// enough detail for the caller to correct the request.
func validateProfile(p models.StudentProfile, topK int) error {
	if p.Zscore < minZscore || p.Zscore > maxZscore {
		return fmt.Errorf("%w: zscore %.2f outside [%.1f, %.1f]",
			models.ErrInvalidProfile, p.Zscore, minZscore, maxZscore)
	}
	if !dataset.IsValidDistrict(p.District) {
		return fmt.Errorf("%w: unrecognized district %q", models.ErrInvalidProfile, p.District)
	}
	if !dataset.IsValidStream(p.Stream) {
		return fmt.Errorf("%w: unrecognized stream %q", models.ErrInvalidProfile, p.Stream)
	}
	if p.ExamYear < minExamYear || p.ExamYear > maxExamYear {
		return fmt.Errorf("%w: exam year %d outside [%d, %d]",
			models.ErrInvalidProfile, p.ExamYear, minExamYear, maxExamYear)
	}
	if topK < MinTopK || topK > MaxTopK {
		return fmt.Errorf("%w: top_k %d outside [%d, %d]",
			models.ErrInvalidProfile, topK, MinTopK, MaxTopK)
	}
	return nil
}
