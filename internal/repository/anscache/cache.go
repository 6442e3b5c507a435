// Package anscache caches finished answers in a key-value store so repeat
// questions skip retrieval and the completion API entirely.
package anscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jbritton/cvchat/internal/db"
	"github.com/jbritton/cvchat/internal/domain"
)

const cacheKeyPrefix = "cvchat:ans_cache:"

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores answers keyed by the SHA-256 of the sanitized query. All
// store failures degrade to cache misses; the pipeline never fails because
// the cache is down.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an answer cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns a cached answer for the query, if present and decodable.
func (c *Cache) Get(ctx context.Context, query string) (domain.Answer, bool) {
	key := cacheKey(query)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached answer", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return domain.Answer{}, false
	}

	var ans domain.Answer
	if err := json.Unmarshal(data, &ans); err != nil {
		c.logger.Warn("Failed to parse cached answer", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return domain.Answer{}, false
	}

	c.incCache("hit")
	return ans, true
}

// Put stores an answer. Best-effort: failures are logged, not returned.
func (c *Cache) Put(ctx context.Context, query string, ans domain.Answer) {
	key := cacheKey(query)

	data, err := json.Marshal(ans)
	if err != nil {
		c.logger.Warn("Failed to encode answer for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache answer", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(query string) string {
	h := sha256.Sum256([]byte(query))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
