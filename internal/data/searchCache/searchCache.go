package searchCache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/FaqSearch/internal/data/redisStore"
	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/metrics"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

// Cache stores search results keyed on (topK, normalized query) with a
// TTL. Exact-match only: a reworded question is a miss by design, the
// vector index handles semantic similarity.
type Cache struct {
	store  *redisStore.Store
	ttl    time.Duration
	logger *logger_i.Logger
}

func New(store *redisStore.Store, ttl time.Duration) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger_i.NewLogger("SearchCache"),
	}
}

func cacheKey(query string, topK int) string {
	return fmt.Sprintf("faqsearch:%d:%s", topK, strings.ToLower(strings.TrimSpace(query)))
}

func (c *Cache) Get(ctx context.Context, query string, topK int) ([]policyModel.SearchResult, bool) {
	log := c.logger.WithTrace(ctx)

	val, err := c.store.Get(ctx, cacheKey(query, topK))
	if c.store.IsNil(err) {
		metrics.CountCacheMiss()
		return nil, false
	}
	if err != nil {
		log.Error("Cache lookup failed", "error", err)
		metrics.CountCacheMiss()
		return nil, false
	}

	var results []policyModel.SearchResult
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		log.Error("Cache entry corrupt, ignoring", "error", err)
		metrics.CountCacheMiss()
		return nil, false
	}

	metrics.CountCacheHit()
	log.Debug("Cache hit", "results", len(results))
	return results, true
}

func (c *Cache) Save(ctx context.Context, query string, topK int, results []policyModel.SearchResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cacheKey(query, topK), data, c.ttl)
}
