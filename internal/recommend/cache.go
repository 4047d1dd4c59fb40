package recommend

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/degree-recommender/internal/metrics"
	"github.com/yourusername/degree-recommender/internal/models"
)

// responseCache keeps recently generated recommendation lists. Entries are
// read-only once stored; the engine hands out the same result pointer to
// every hit.
type responseCache struct {
	cache   *cache.Cache
	maxSize int
}

func newResponseCache(ttl time.Duration, maxSize int) *responseCache {
	return &responseCache{
		cache:   cache.New(ttl, ttl*2),
		maxSize: maxSize,
	}
}

// cacheKey identifies a request by its full profile and bound.
func cacheKey(p models.StudentProfile, topK int) string {
	return fmt.Sprintf("%s|%s|%.4f|%d|%d", p.District, p.Stream, p.Zscore, p.ExamYear, topK)
}

func (c *responseCache) get(key string) *models.RecommendationResult {
	if c == nil {
		return nil
	}
	if v, found := c.cache.Get(key); found {
		metrics.CacheHitsTotal.Inc()
		if result, ok := v.(*models.RecommendationResult); ok {
			return result
		}
	}
	metrics.CacheMissesTotal.Inc()
	return nil
}

func (c *responseCache) set(key string, result *models.RecommendationResult) {
	if c == nil {
		return
	}
	if c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
	}
	c.cache.SetDefault(key, result)
}
