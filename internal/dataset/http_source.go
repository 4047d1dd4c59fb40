package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/degree-recommender/internal/config"
)

// httpSource fetches dataset content over HTTP with retries and a bounded
// request rate, for deployments that serve the CSV from object storage.
type httpSource struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

func newHTTPSource(cfg config.DatasetConfig, logger *logrus.Logger) *httpSource {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	retryClient.RetryMax = cfg.HTTPMaxRetries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	limit := cfg.HTTPRateLimit
	if limit <= 0 {
		limit = 5.0
	}

	return &httpSource{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		logger:  logger,
	}
}

func (s *httpSource) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching dataset", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"url":   url,
		"bytes": len(body),
	}).Debug("Fetched dataset over HTTP")

	return body, nil
}
