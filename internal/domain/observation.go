package domain

import "strings"

// placeholder is the MapClick sentinel for "not available".
const placeholder = "NA"

const unknownValue = "Unknown"

type field string

const (
	fieldCurrentTemp  field = "currentTemp"
	fieldRelHumidity  field = "relHumidity"
	fieldWindSpeed    field = "windSpeed"
	fieldDewPoint     field = "dewPoint"
	fieldLocationName field = "locationName"
	fieldWindGust     field = "windGust"
	fieldPressure     field = "pressure"
	fieldConditions   field = "conditions"
	fieldWindChill    field = "windChill"
	fieldVisibility   field = "visibility"
)

// fieldPolicy says what an observation field shows when the feed value is
// unavailable, and which unit suffix follows an available value.
type fieldPolicy struct {
	fallback string
	suffix   string
}

// fieldPolicies covers every observation field except windDir and windSpeedDir,
// which are derived. windChill has no static fallback: an unavailable wind chill
// shows the raw current temperature instead.
var fieldPolicies = map[field]fieldPolicy{
	fieldCurrentTemp:  {fallback: unknownValue, suffix: "°F"},
	fieldRelHumidity:  {fallback: unknownValue, suffix: "%"},
	fieldWindSpeed:    {fallback: unknownValue},
	fieldDewPoint:     {fallback: unknownValue, suffix: "°F"},
	fieldLocationName: {fallback: unknownValue},
	fieldWindGust:     {fallback: "None", suffix: " mph"},
	fieldPressure:     {fallback: unknownValue, suffix: " mb"},
	fieldConditions:   {fallback: unknownValue},
	fieldWindChill:    {fallback: unknownValue, suffix: "°F"},
	fieldVisibility:   {fallback: unknownValue, suffix: " miles"},
}

// NormalizeObservation converts the feed's current conditions into display
// strings. Unavailable values are replaced per fieldPolicies; it never fails.
func NormalizeObservation(raw RawObservationResponse) CurrentObservation {
	cur := raw.CurrentObservation

	return CurrentObservation{
		CurrentTemp:  applyPolicy(fieldCurrentTemp, cur.Temp),
		RelHumidity:  applyPolicy(fieldRelHumidity, cur.Relh),
		WindSpeed:    applyPolicy(fieldWindSpeed, cur.Winds),
		WindDir:      windDirection(cur.Windd),
		WindSpeedDir: windSpeedDirection(cur.Windd, cur.Winds),
		DewPoint:     applyPolicy(fieldDewPoint, cur.Dewp),
		LocationName: applyPolicy(fieldLocationName, raw.Location.AreaDescription),
		WindGust:     applyPolicy(fieldWindGust, cur.Gust),
		Pressure:     applyPolicy(fieldPressure, cur.Altimeter),
		Conditions:   applyPolicy(fieldConditions, cur.Weather),
		WindChill:    windChill(cur.WindChill, cur.Temp),
		Visibility:   applyPolicy(fieldVisibility, cur.Visibility),
	}
}

// available reports whether a feed value carries data.
func available(v FeedString) bool {
	s := strings.TrimSpace(string(v))
	return s != "" && !strings.EqualFold(s, placeholder)
}

func applyPolicy(f field, v FeedString) string {
	p := fieldPolicies[f]
	if !available(v) {
		return p.fallback
	}
	return withSuffix(strings.TrimSpace(string(v)), p.suffix)
}

// withSuffix appends suffix unless the value already ends with it.
func withSuffix(v, suffix string) string {
	if suffix == "" || strings.HasSuffix(v, suffix) {
		return v
	}
	return v + suffix
}

func windDirection(windd FeedString) string {
	if !available(windd) {
		return ""
	}
	return CardinalFromString(string(windd))
}

func windSpeedDirection(windd, winds FeedString) string {
	if !available(windd) || !available(winds) {
		return unknownValue
	}
	return CardinalFromString(string(windd)) + " @ " + strings.TrimSpace(string(winds)) + "mph"
}

func windChill(chill, temp FeedString) string {
	if available(chill) {
		return applyPolicy(fieldWindChill, chill)
	}
	if available(temp) {
		return strings.TrimSpace(string(temp))
	}
	return fieldPolicies[fieldWindChill].fallback
}

// DegradedFields lists the observation fields that will show a fallback
// instead of feed data, in a stable order.
func DegradedFields(raw RawObservationResponse) []string {
	cur := raw.CurrentObservation
	values := []struct {
		name field
		v    FeedString
	}{
		{fieldCurrentTemp, cur.Temp},
		{fieldRelHumidity, cur.Relh},
		{fieldWindSpeed, cur.Winds},
		{"windDir", cur.Windd},
		{fieldDewPoint, cur.Dewp},
		{fieldLocationName, raw.Location.AreaDescription},
		{fieldWindGust, cur.Gust},
		{fieldPressure, cur.Altimeter},
		{fieldConditions, cur.Weather},
		{fieldWindChill, cur.WindChill},
		{fieldVisibility, cur.Visibility},
	}

	var degraded []string
	for _, fv := range values {
		if !available(fv.v) {
			degraded = append(degraded, string(fv.name))
		}
	}
	return degraded
}
