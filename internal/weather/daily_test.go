package weather_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast/skycast/internal/weather"
)

// series builds n samples at a 3-hour cadence starting at start.
func series(start time.Time, n int) []weather.Sample {
	samples := make([]weather.Sample, n)
	for i := range samples {
		samples[i] = weather.Sample{
			Time:          start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature:   float64(i),
			Humidity:      50 + i,
			ConditionCode: 800,
		}
	}
	return samples
}

func TestDailyBuckets_FirstSampleOfDayWins(t *testing.T) {
	start := time.Date(2024, 10, 17, 9, 0, 0, 0, time.UTC)
	samples := series(start, 8) // 09:00 .. 06:00 next day

	days := slices.Collect(weather.DailyBuckets(samples, time.UTC, weather.MaxForecastDays))
	require.Len(t, days, 2)

	assert.Equal(t, samples[0], days[0])
	assert.Equal(t, samples[5], days[1], "first slot of Oct 18 is 00:00")
}

func TestDailyBuckets_TruncatesToLimit(t *testing.T) {
	start := time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC)
	samples := series(start, 48) // 6 calendar days

	days := slices.Collect(weather.DailyBuckets(samples, time.UTC, weather.MaxForecastDays))
	require.Len(t, days, 5)

	for i, d := range days {
		want := start.AddDate(0, 0, i)
		assert.True(t, d.Time.Equal(want), "bucket %d is %s", i, d.Time)
	}
}

func TestDailyBuckets_KeepsFirstAppearanceOrder(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 10, d, 12, 0, 0, 0, time.UTC) }
	samples := []weather.Sample{
		{Time: day(18), Temperature: 1},
		{Time: day(17), Temperature: 2},
		{Time: day(18).Add(time.Hour), Temperature: 3},
		{Time: day(19), Temperature: 4},
	}

	days := slices.Collect(weather.DailyBuckets(samples, time.UTC, 5))
	require.Len(t, days, 3)
	assert.Equal(t, []float64{1, 2, 4}, []float64{days[0].Temperature, days[1].Temperature, days[2].Temperature})
}

func TestDailyBuckets_UsesLocation(t *testing.T) {
	// 22:00 UTC on Oct 17 is already Oct 18 at UTC+3.
	samples := []weather.Sample{
		{Time: time.Date(2024, 10, 17, 21, 0, 0, 0, time.UTC), Temperature: 1},
		{Time: time.Date(2024, 10, 17, 22, 0, 0, 0, time.UTC), Temperature: 2},
	}

	utc := slices.Collect(weather.DailyBuckets(samples, time.UTC, 5))
	assert.Len(t, utc, 1)

	istanbul := time.FixedZone("Istanbul", 3*3600)
	local := slices.Collect(weather.DailyBuckets(samples, istanbul, 5))
	assert.Len(t, local, 2)
}

func TestDailyBuckets_StopsEarly(t *testing.T) {
	samples := series(time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC), 40)

	var n int
	for range weather.DailyBuckets(samples, nil, 5) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestDailyBuckets_EmptyAndZeroLimit(t *testing.T) {
	assert.Empty(t, slices.Collect(weather.DailyBuckets(nil, time.UTC, 5)))
	assert.Empty(t, slices.Collect(weather.DailyBuckets(series(time.Now(), 10), time.UTC, 0)))
}

func TestDailyAndChartWindow(t *testing.T) {
	forecast := &weather.Forecast{
		City:     "London",
		Location: time.UTC,
		Samples:  series(time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC), 40),
	}

	daily := weather.Daily(forecast)
	assert.Len(t, daily, 5)

	chart := weather.ChartWindow(forecast)
	require.Len(t, chart, weather.ChartSamples)
	assert.Equal(t, forecast.Samples[:8], chart)

	chart[0].Temperature = 99
	assert.Equal(t, 0.0, forecast.Samples[0].Temperature, "chart window is a copy")
}

func TestDailyAndChartWindow_Short(t *testing.T) {
	forecast := &weather.Forecast{Samples: series(time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC), 3)}

	assert.Len(t, weather.ChartWindow(forecast), 3)
	assert.Len(t, weather.Daily(forecast), 1)

	assert.Nil(t, weather.Daily(nil))
	assert.Nil(t, weather.ChartWindow(nil))
}

func TestCoordinates_Validate(t *testing.T) {
	assert.NoError(t, weather.Coordinates{Lat: 51.5, Lon: -0.12}.Validate())
	assert.NoError(t, weather.Coordinates{Lat: -90, Lon: 180}.Validate())
	assert.ErrorIs(t, weather.Coordinates{Lat: 91}.Validate(), weather.ErrInvalidCoordinates)
	assert.ErrorIs(t, weather.Coordinates{Lon: -181}.Validate(), weather.ErrInvalidCoordinates)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, weather.KindNotFound, weather.KindOf(weather.ErrCityNotFound))
	assert.Equal(t, weather.KindGeneric, weather.KindOf(weather.ErrProviderUnavailable))
	assert.Equal(t, weather.KindGeneric, weather.KindOf(weather.ErrMalformedResponse))
	assert.Equal(t, weather.KindGeneric, weather.KindOf(assert.AnError))
}
