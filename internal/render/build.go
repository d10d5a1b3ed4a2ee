package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/weather"
)

// Build renders one search. Current and Forecast must both be set; the
// pipeline trusts its input.
func Build(in Input) *Dashboard {
	lang := in.Language
	if !lang.Valid() {
		lang = i18n.Default
	}

	return &Dashboard{
		Language:  lang,
		Theme:     in.Theme,
		Labels:    i18n.For(lang),
		Summary:   buildSummary(in.Current, lang),
		Forecast:  buildForecast(in.Forecast, lang),
		Chart:     BuildChart(weather.ChartWindow(in.Forecast), in.Forecast.Location, lang, in.Theme),
		ThemeIcon: ThemeIcon(in.Theme),
	}
}

func buildSummary(cur *weather.Current, lang i18n.Language) Summary {
	loc := weather.LocationOrUTC(cur.Location)

	place := cur.Place
	if cur.Country != "" {
		place = cur.Place + ", " + cur.Country
	}

	return Summary{
		Place:       place,
		Temperature: Temperature(cur.Temperature),
		Description: cur.Description,
		Icon:        weather.IconFor(cur.ConditionCode),
		Humidity:    fmt.Sprintf("%d%%", cur.Humidity),
		Wind:        strconv.FormatFloat(cur.WindSpeed, 'f', -1, 64) + " m/s",
		Sunrise:     lang.Clock(cur.Sunrise.In(loc)),
		Sunset:      lang.Clock(cur.Sunset.In(loc)),
	}
}

func buildForecast(f *weather.Forecast, lang i18n.Language) []ForecastDay {
	loc := weather.LocationOrUTC(f.Location)

	days := make([]ForecastDay, 0, weather.MaxForecastDays)
	for s := range weather.DailyBuckets(f.Samples, loc, weather.MaxForecastDays) {
		t := s.Time.In(loc)
		days = append(days, ForecastDay{
			Weekday:     lang.Weekday(t),
			Date:        lang.ShortDate(t),
			Icon:        weather.IconFor(s.ConditionCode),
			Temperature: Temperature(s.Temperature),
			Description: s.Description,
		})
	}
	return days
}

// Temperature formats a Celsius reading rounded to the nearest integer,
// halves rounding up: 15.2 -> "15°C", -0.5 -> "0°C".
func Temperature(celsius float64) string {
	rounded := int(math.Floor(celsius + 0.5))
	return fmt.Sprintf("%d°C", rounded)
}

// ThemeIcon returns the theme toggle icon: a sun while dark, a moon while light.
func ThemeIcon(theme settings.Theme) string {
	if theme == settings.ThemeDark {
		return "fas fa-sun"
	}
	return "fas fa-moon"
}
