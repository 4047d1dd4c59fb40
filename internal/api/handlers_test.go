package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/degree-recommender/internal/config"
	"github.com/yourusername/degree-recommender/internal/models"
)

// stubService records the last request and returns canned responses.
type stubService struct {
	lastProfile models.StudentProfile
	lastTopK    int

	result *models.RecommendationResult
	err    error
	stats  models.ModelStats
	ready  bool
}

func (s *stubService) Recommend(_ context.Context, profile models.StudentProfile, topK int) (*models.RecommendationResult, error) {
	s.lastProfile = profile
	s.lastTopK = topK
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) Stats() (models.ModelStats, error) {
	if s.err != nil {
		return models.ModelStats{}, s.err
	}
	return s.stats, nil
}

func (s *stubService) Ready() bool { return s.ready }

func testServer(svc RecommendationService) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := config.ServerConfig{Port: 8000, ReadTimeoutSeconds: 5, WriteTimeoutSeconds: 5, DefaultTopK: 10}
	return NewServer(cfg, svc, logger)
}

func postRecommendations(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handleRecommendations(w, req)
	return w
}

func TestRecommendationsSuccess(t *testing.T) {
	svc := &stubService{
		ready: true,
		result: &models.RecommendationResult{
			Recommendations: []models.Recommendation{
				{Course: "Computer Science", University: "University Of Colombo", Score: 1.2, Rank: 1, Category: "Engineering"},
			},
			CountAnalyzed: 6,
		},
	}
	s := testServer(svc)

	w := postRecommendations(s, `{"zscore":1.75,"district":"Colombo","stream":"Physical Science","exam_year":2023,"top_k":5}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastTopK != 5 {
		t.Fatalf("expected top_k 5 passed through, got %d", svc.lastTopK)
	}
	if svc.lastProfile.District != "Colombo" || svc.lastProfile.ExamYear != 2023 {
		t.Fatalf("profile not passed through: %+v", svc.lastProfile)
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Rank != 1 {
		t.Fatalf("unexpected response body: %s", w.Body.String())
	}
}

func TestRecommendationsDefaultTopK(t *testing.T) {
	svc := &stubService{ready: true, result: &models.RecommendationResult{}}
	s := testServer(svc)

	w := postRecommendations(s, `{"zscore":1.5,"district":"Kandy","stream":"Arts","exam_year":2022}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastTopK != 10 {
		t.Fatalf("omitted top_k should take the configured default, got %d", svc.lastTopK)
	}
}

func TestRecommendationsExplicitZeroTopK(t *testing.T) {
	svc := &stubService{ready: true, err: models.ErrInvalidProfile}
	s := testServer(svc)

	w := postRecommendations(s, `{"zscore":1.5,"district":"Kandy","stream":"Arts","exam_year":2022,"top_k":0}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("explicit top_k 0 should surface as 400, got %d", w.Code)
	}
	if svc.lastTopK != 0 {
		t.Fatalf("explicit 0 must not be replaced by the default, got %d", svc.lastTopK)
	}
}

func TestRecommendationsInvalidBody(t *testing.T) {
	s := testServer(&stubService{})

	w := postRecommendations(s, `{"zscore": not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestRecommendationsMethodNotAllowed(t *testing.T) {
	s := testServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	w := httptest.NewRecorder()
	s.handleRecommendations(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestRecommendationsModelNotReady(t *testing.T) {
	s := testServer(&stubService{err: models.ErrModelNotReady})

	w := postRecommendations(s, `{"zscore":1.5,"district":"Kandy","stream":"Arts","exam_year":2022}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while model is loading, got %d", w.Code)
	}
}

func TestModelStats(t *testing.T) {
	svc := &stubService{stats: models.ModelStats{ModelName: "prod", MeanNDCG: 0.87}}
	s := testServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/model/stats", nil)
	w := httptest.NewRecorder()
	s.handleModelStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats models.ModelStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("stats not valid JSON: %v", err)
	}
	if stats.ModelName != "prod" || stats.MeanNDCG != 0.87 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStreamsAndDistricts(t *testing.T) {
	s := testServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streams", nil)
	w := httptest.NewRecorder()
	s.handleStreams(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("streams: expected 200, got %d", w.Code)
	}
	var streams []string
	if err := json.Unmarshal(w.Body.Bytes(), &streams); err != nil {
		t.Fatalf("streams not valid JSON: %v", err)
	}
	if len(streams) != 7 {
		t.Fatalf("expected 7 streams, got %d", len(streams))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/districts", nil)
	w = httptest.NewRecorder()
	s.handleDistricts(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("districts: expected 200, got %d", w.Code)
	}
	var districts []string
	if err := json.Unmarshal(w.Body.Bytes(), &districts); err != nil {
		t.Fatalf("districts not valid JSON: %v", err)
	}
	if len(districts) != 25 {
		t.Fatalf("expected 25 districts, got %d", len(districts))
	}
}

func TestHealthAndReady(t *testing.T) {
	svc := &stubService{}
	s := testServer(svc)

	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready without artifact: expected 503, got %d", w.Code)
	}

	svc.ready = true
	w = httptest.NewRecorder()
	s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ready with artifact: expected 200, got %d", w.Code)
	}
}
