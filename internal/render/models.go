// Package render shapes weather reads into the dashboard view: the summary
// panel, the five-day forecast strip and the Chart.js configuration. The
// same view model is served as JSON and executed by the HTML templates.
package render

import (
	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/weather"
)

// Input is everything one render needs.
type Input struct {
	Current  *weather.Current
	Forecast *weather.Forecast
	Language i18n.Language
	Theme    settings.Theme
}

// Dashboard is the rendered view of one search.
type Dashboard struct {
	Language  i18n.Language  `json:"language"`
	Theme     settings.Theme `json:"theme"`
	Labels    i18n.Strings   `json:"labels"`
	Summary   Summary        `json:"summary"`
	Forecast  []ForecastDay  `json:"forecast"`
	Chart     *Chart         `json:"chart"`
	ThemeIcon string         `json:"themeIcon"`
}

// Summary is the current-conditions panel.
type Summary struct {
	Place       string `json:"place"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
}

// ForecastDay is one entry of the forecast strip.
type ForecastDay struct {
	Weekday     string `json:"weekday"`
	Date        string `json:"date"`
	Icon        string `json:"icon"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
}
