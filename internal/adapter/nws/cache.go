package nws

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/lru"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
)

// CachedFetcher wraps a Fetcher with an in-memory LRU cache whose entries
// expire after ttl. Points are keyed at four decimal places (about 11 m), well
// inside one forecast grid cell.
type CachedFetcher struct {
	inner   domain.Fetcher
	cache   *lru.Cache[domain.RawObservationResponse]
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher. A nil clock uses
// the real clock.
func NewCachedFetcher(inner domain.Fetcher, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   lru.New[domain.RawObservationResponse](maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, at domain.Coordinates) (domain.RawObservationResponse, error) {
	key := fmt.Sprintf("%.4f,%.4f", at.Lat, at.Lon)
	if raw, ok := c.cache.Get(key); ok {
		c.metrics.FetchCache.WithLabelValues("hit").Inc()
		return raw, nil
	}
	c.metrics.FetchCache.WithLabelValues("miss").Inc()

	raw, err := c.inner.Fetch(ctx, at)
	if err != nil {
		return raw, err
	}
	c.cache.Put(key, raw)
	return raw, nil
}

// CheckReadiness reports the readiness of the wrapped fetcher.
func (c *CachedFetcher) CheckReadiness(ctx context.Context) error {
	return domain.FetcherReadiness(ctx, c.inner)
}

var _ domain.Fetcher = (*CachedFetcher)(nil)
