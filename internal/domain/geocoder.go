package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Coordinates
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Found reports whether the provider returned a usable point.
func (r GeocodingResult) Found() bool {
	return r.FormattedAddress != "" && (r.Lat != 0 || r.Lon != 0)
}

// Geocoder resolves a free-form place query ("Austin, TX") to coordinates.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
