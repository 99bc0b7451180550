package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// compassPoints lists the eight cardinal labels clockwise from north.
var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// compassBucket is the width of one compass sector in degrees.
const compassBucket = 360.0 / float64(len(compassPoints))

var errEmptyAngle = errors.New("empty angle")

// CardinalDirection buckets an angle in degrees into one of eight compass labels.
// Buckets are centered on the compass points, so "N" covers [337.5, 22.5).
// Angles outside [0, 360) wrap.
func CardinalDirection(angle int) string {
	a := ((angle % 360) + 360) % 360
	idx := int(math.Floor((float64(a)+compassBucket/2)/compassBucket)) % len(compassPoints)
	return compassPoints[idx]
}

// ParseAngle parses a feed direction such as "180" or "202.5". Decimals are
// truncated toward zero.
func ParseAngle(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errEmptyAngle
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return 0, strconv.ErrRange
	}
	return int(math.Trunc(f)), nil
}

// CardinalFromString parses raw and returns its compass label. Unparseable
// input is treated as 0 degrees and yields "N".
func CardinalFromString(raw string) string {
	angle, err := ParseAngle(raw)
	if err != nil {
		angle = 0
	}
	return CardinalDirection(angle)
}
