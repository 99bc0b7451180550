package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// LocationProvider supplies the point to fetch conditions for. Failures wrap
// ErrLocationUnavailable.
type LocationProvider interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticLocation is a LocationProvider that always returns the same point.
type StaticLocation Coordinates

func (s StaticLocation) Locate(_ context.Context) (Coordinates, error) {
	c := Coordinates(s)
	if err := c.Validate(); err != nil {
		return Coordinates{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}
	return c, nil
}

// ParseCoordinates parses a "lat,lon" pair such as "39.7456,-97.0892".
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(strings.TrimPrefix(s, "#")), ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: want \"lat,lon\", got %q", ErrInvalidCoordinates, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, parts[1])
	}

	c := Coordinates{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}
