package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/db"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
)

const cacheKeyPrefix = "practicelink:search:"

// DefaultTTL is used when New receives a non-positive ttl.
const DefaultTTL = 6 * time.Hour

// searcher is the live search provider being decorated.
type searcher interface {
	Search(ctx context.Context, query string, domains []string, limit int) ([]link.Candidate, error)
}

// store is the consumer interface for the search cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher caches search result lists in a key-value store.
type CachedSearcher struct {
	inner      searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns cached candidates or calls the inner searcher.
// Store failures degrade to a live search; empty results are not cached.
func (c *CachedSearcher) Search(
	ctx context.Context, query string, domains []string, limit int,
) ([]link.Candidate, error) {
	key := cacheKey(query, domains, limit)

	if cands, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return cands, nil
	}

	c.incCache("miss")

	cands, err := c.inner.Search(ctx, query, domains, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if len(cands) > 0 {
		c.putToCache(ctx, key, cands)
	}
	return cands, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(query string, domains []string, limit int) string {
	raw := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(query)),
		strings.Join(domains, ","),
		strconv.Itoa(limit),
	}, "|")
	h := sha256.Sum256([]byte(raw))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) ([]link.Candidate, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search results", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var cands []link.Candidate
	if err := json.Unmarshal(data, &cands); err != nil {
		c.logger.Warn("Failed to parse cached search results", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return cands, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, cands []link.Candidate) {
	data, err := json.Marshal(cands)
	if err != nil {
		c.logger.Warn("Failed to encode search results", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search results", zap.String("key", key), zap.Error(err))
	}
}
