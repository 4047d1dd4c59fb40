// Package api exposes the recommendation service over HTTP. The routing here
// is deliberately thin: validation, JSON codec, and error-to-status mapping;
// all substance lives in the recommend package.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/degree-recommender/internal/config"
	"github.com/yourusername/degree-recommender/internal/models"
)

// RecommendationService is the engine surface the HTTP layer depends on.
type RecommendationService interface {
	Recommend(ctx context.Context, profile models.StudentProfile, topK int) (*models.RecommendationResult, error)
	Stats() (models.ModelStats, error)
	Ready() bool
}

// Server is the HTTP API server for the recommendation service.
type Server struct {
	cfg    config.ServerConfig
	svc    RecommendationService
	logger *logrus.Logger
	server *http.Server
}

// NewServer creates the API server with an explicitly injected service; no
// ambient global model state.
func NewServer(cfg config.ServerConfig, svc RecommendationService, logger *logrus.Logger) *Server {
	return &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logger,
	}
}

// Start runs the server in the background and shuts it down when the context
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/recommendations", s.handleRecommendations)
	mux.HandleFunc("/api/v1/model/stats", s.handleModelStats)
	mux.HandleFunc("/api/v1/streams", s.handleStreams)
	mux.HandleFunc("/api/v1/districts", s.handleDistricts)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Bind synchronously so a busy port surfaces to the caller instead of
	// dying inside the serve goroutine after startup reports success.
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind API listener: %w", err)
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr": ln.Addr().String(),
		}).Info("API server starting")

		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
