package weather

import (
	"iter"
	"slices"
	"time"
)

const (
	// MaxForecastDays is how many calendar days the forecast strip shows.
	MaxForecastDays = 5

	// ChartSamples is how many raw 3-hour samples the chart plots.
	ChartSamples = 8

	dateKeyLayout = "2006-01-02"
)

// DailyBuckets yields one sample per calendar date, in the order each date
// first appears. The first sample seen for a date represents the whole day;
// later samples for that date are skipped. At most limit samples are yielded
// and scanning stops as soon as the limit is reached.
func DailyBuckets(samples []Sample, loc *time.Location, limit int) iter.Seq[Sample] {
	loc = LocationOrUTC(loc)
	return func(yield func(Sample) bool) {
		if limit <= 0 {
			return
		}
		seen := make(map[string]struct{}, limit)
		for _, s := range samples {
			key := s.Time.In(loc).Format(dateKeyLayout)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if !yield(s) {
				return
			}
			if len(seen) == limit {
				return
			}
		}
	}
}

// Daily returns the forecast strip view of f: one sample for each of the
// first MaxForecastDays calendar dates.
func Daily(f *Forecast) []Sample {
	if f == nil {
		return nil
	}
	return slices.Collect(DailyBuckets(f.Samples, f.Location, MaxForecastDays))
}

// ChartWindow returns the first ChartSamples raw samples of f.
func ChartWindow(f *Forecast) []Sample {
	if f == nil {
		return nil
	}
	n := min(len(f.Samples), ChartSamples)
	return slices.Clone(f.Samples[:n])
}
