package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alignedRaw() RawObservationResponse {
	return RawObservationResponse{
		Time: RawTime{
			StartPeriodName: FeedStrings{"Tonight", "Monday", "Monday Night", "Tuesday", "Tuesday Night"},
			TempLabel:       FeedStrings{"Low", "High", "Low", "High", "Low"},
		},
		Data: RawData{
			Temperature: FeedStrings{"55", "78", "57", "80", "60"},
			Weather:     FeedStrings{"Clear", "Sunny", "Mostly Clear", "Hot", "Chance T-storms"},
			Text:        FeedStrings{"t0", "t1", "t2", "t3", "t4"},
		},
	}
}

func TestExtractForecasts_Aligned(t *testing.T) {
	raw := alignedRaw()

	days := ExtractForecasts(raw)

	require.Len(t, days, 5)
	for i, d := range days {
		assert.Equal(t, string(raw.Time.StartPeriodName[i]), d.Period)
		assert.Equal(t, string(raw.Time.TempLabel[i]), d.TempLabel)
		assert.Equal(t, string(raw.Data.Temperature[i]), d.Temp)
		assert.Equal(t, string(raw.Data.Weather[i]), d.Weather)
		assert.Equal(t, string(raw.Data.Text[i]), d.Text)
	}
	assert.NoError(t, CheckForecastAlignment(raw))
}

func TestExtractForecasts_TruncatesToShortest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawObservationResponse)
		want   int
	}{
		{"short temperatures", func(r *RawObservationResponse) { r.Data.Temperature = r.Data.Temperature[:4] }, 4},
		{"short text", func(r *RawObservationResponse) { r.Data.Text = r.Data.Text[:2] }, 2},
		{"short labels", func(r *RawObservationResponse) { r.Time.TempLabel = r.Time.TempLabel[:3] }, 3},
		{"missing weather", func(r *RawObservationResponse) { r.Data.Weather = nil }, 0},
		{"extra text", func(r *RawObservationResponse) { r.Data.Text = append(r.Data.Text, "t5") }, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := alignedRaw()
			tt.mutate(&raw)

			days := ExtractForecasts(raw)
			assert.Len(t, days, tt.want)

			err := CheckForecastAlignment(raw)
			var misaligned *MisalignedForecastError
			require.True(t, errors.As(err, &misaligned))
			assert.Equal(t, tt.want, misaligned.Shortest)
			assert.Len(t, misaligned.Lengths, 5)
		})
	}
}

func TestExtractForecasts_Empty(t *testing.T) {
	days := ExtractForecasts(RawObservationResponse{})

	assert.NotNil(t, days)
	assert.Empty(t, days)
	assert.NoError(t, CheckForecastAlignment(RawObservationResponse{}))
}

func TestExtractForecasts_OptionalColumns(t *testing.T) {
	raw := alignedRaw()
	raw.Data.Pop = FeedStrings{"20", "", "40"}
	raw.Data.IconLink = FeedStrings{"a.png"}

	days := ExtractForecasts(raw)

	require.Len(t, days, 5, "short optional arrays never shorten the sequence")
	assert.Equal(t, "a.png", days[0].Icon)
	assert.Equal(t, "20", days[0].PrecipChance)
	assert.Empty(t, days[1].PrecipChance)
	assert.Equal(t, "40", days[2].PrecipChance)
	assert.Empty(t, days[4].Icon)
	assert.NoError(t, CheckForecastAlignment(raw))
}

func TestExtractForecasts_Idempotent(t *testing.T) {
	raw := alignedRaw()

	assert.Equal(t, ExtractForecasts(raw), ExtractForecasts(raw))
}
