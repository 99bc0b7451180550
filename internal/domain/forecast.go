package domain

import "strings"

// forecastColumns returns the index-aligned forecast arrays that bound the
// number of periods, keyed by their feed name.
func forecastColumns(raw RawObservationResponse) map[string]FeedStrings {
	return map[string]FeedStrings{
		"time.startPeriodName": raw.Time.StartPeriodName,
		"time.tempLabel":       raw.Time.TempLabel,
		"data.weather":         raw.Data.Weather,
		"data.temperature":     raw.Data.Temperature,
		"data.text":            raw.Data.Text,
	}
}

// forecastLength is the number of periods that every required array can supply.
func forecastLength(raw RawObservationResponse) int {
	n := len(raw.Time.StartPeriodName)
	for _, col := range forecastColumns(raw) {
		n = min(n, len(col))
	}
	return n
}

// ExtractForecasts zips the feed's parallel forecast arrays into one ForecastDay
// per period. Arrays of unequal length are truncated to the shortest; use
// CheckForecastAlignment to detect that case.
func ExtractForecasts(raw RawObservationResponse) []ForecastDay {
	n := forecastLength(raw)
	days := make([]ForecastDay, 0, n)
	for i := range n {
		days = append(days, ForecastDay{
			Period:       trimmed(raw.Time.StartPeriodName[i]),
			Weather:      trimmed(raw.Data.Weather[i]),
			TempLabel:    trimmed(raw.Time.TempLabel[i]),
			Temp:         trimmed(raw.Data.Temperature[i]),
			Text:         trimmed(raw.Data.Text[i]),
			Icon:         optionalAt(raw.Data.IconLink, i),
			PrecipChance: optionalAt(raw.Data.Pop, i),
		})
	}
	return days
}

// CheckForecastAlignment returns a *MisalignedForecastError when the required
// forecast arrays differ in length, nil otherwise.
func CheckForecastAlignment(raw RawObservationResponse) error {
	cols := forecastColumns(raw)
	lengths := make(map[string]int, len(cols))
	aligned := true
	want := len(raw.Time.StartPeriodName)
	for name, col := range cols {
		lengths[name] = len(col)
		if len(col) != want {
			aligned = false
		}
	}
	if aligned {
		return nil
	}
	return &MisalignedForecastError{Lengths: lengths, Shortest: forecastLength(raw)}
}

func trimmed(v FeedString) string {
	return strings.TrimSpace(string(v))
}

// optionalAt reads a supplementary array that may be shorter than the required ones.
func optionalAt(col FeedStrings, i int) string {
	if i >= len(col) || !available(col[i]) {
		return ""
	}
	return trimmed(col[i])
}
