package mapbox

import (
	"context"
	"strings"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/lru"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache. Place
// coordinates do not change, so entries never expire.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru.Cache[domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   lru.New[domain.GeocodingResult](maxEntries, 0, nil),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if result, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, query)
	if err != nil {
		return result, err
	}
	// Only cache found results so transient "not found" responses can be retried.
	if result.Found() {
		c.cache.Put(key, result)
	}
	return result, nil
}

var _ domain.Geocoder = (*CachedGeocoder)(nil)
