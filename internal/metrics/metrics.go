// Package metrics provides the centralized Prometheus metrics registry for
// the degree recommender service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecommendationRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "degree_recommender",
		Name:      "recommendation_requests_total",
		Help:      "Total number of recommendation requests received",
	})
	RecommendationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "degree_recommender",
		Name:      "recommendation_errors_total",
		Help:      "Total number of failed recommendation requests by reason",
	}, []string{"reason"})
	CandidateScoringFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "degree_recommender",
		Name:      "candidate_scoring_failures_total",
		Help:      "Total number of candidates skipped due to scoring failures",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "degree_recommender",
		Name:      "cache_hits_total",
		Help:      "Total number of recommendation cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "degree_recommender",
		Name:      "cache_misses_total",
		Help:      "Total number of recommendation cache misses",
	})
)

// Gauge metrics
var (
	ModelNDCG = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "degree_recommender",
		Name:      "model_ndcg_at_5",
		Help:      "Held-out NDCG@5 of the loaded model artifact",
	})
	ModelCandidates = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "degree_recommender",
		Name:      "model_total_candidates",
		Help:      "Distinct candidates known to the loaded model artifact",
	})
)

// Histogram metrics
var (
	RecommendationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "degree_recommender",
		Name:      "recommendation_duration_seconds",
		Help:      "Time taken to generate a ranked recommendation list",
		Buckets:   prometheus.DefBuckets,
	})
)

// Registry returns the global metrics registry, registering all metrics on
// first use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			RecommendationRequestsTotal,
			RecommendationErrorsTotal,
			CandidateScoringFailuresTotal,
			CacheHitsTotal,
			CacheMissesTotal,
			ModelNDCG,
			ModelCandidates,
			RecommendationDuration,
		)
	})
	return registry
}

// Handler returns the HTTP handler exposing the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
