package mapbox

import (
	"context"
	"fmt"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
)

// PlaceLocator is a domain.LocationProvider that geocodes a place query.
type PlaceLocator struct {
	geocoder domain.Geocoder
	query    string
}

// NewPlaceLocator returns a provider that resolves query with geocoder.
func NewPlaceLocator(geocoder domain.Geocoder, query string) *PlaceLocator {
	return &PlaceLocator{geocoder: geocoder, query: query}
}

func (p *PlaceLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if p.query == "" {
		return domain.Coordinates{}, fmt.Errorf("%w: empty place query", domain.ErrLocationUnavailable)
	}

	result, err := p.geocoder.ForwardGeocode(ctx, p.query)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: geocode %q: %w", domain.ErrLocationUnavailable, p.query, err)
	}
	if !result.Found() {
		return domain.Coordinates{}, fmt.Errorf("%w: no match for %q", domain.ErrLocationUnavailable, p.query)
	}
	if err := result.Validate(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, err)
	}
	return result.Coordinates, nil
}

var _ domain.LocationProvider = (*PlaceLocator)(nil)
