package models

import (
	"github.com/skycast/skycast/internal/render"
	"github.com/skycast/skycast/internal/settings"
)

// WeatherResponse is returned by a successful search or geolocation lookup.
type WeatherResponse struct {
	City      string             `json:"city"`
	Settings  *settings.Settings `json:"settings"`
	Dashboard *render.Dashboard  `json:"dashboard"`

	// HTML is the server-rendered dashboard fragment.
	HTML string `json:"html"`
}

// LanguageRequest changes the client's language and optionally re-runs the
// search for City.
type LanguageRequest struct {
	Language string `json:"language"`
	City     string `json:"city"`
}

// LanguageResponse is returned by a language change. Dashboard and HTML are
// omitted when no search ran.
type LanguageResponse struct {
	Settings  *settings.Settings `json:"settings"`
	City      string             `json:"city,omitempty"`
	Dashboard *render.Dashboard  `json:"dashboard,omitempty"`
	HTML      string             `json:"html,omitempty"`
}

// ThemeResponse is returned by a theme toggle. Chart is null when nothing
// is displayed yet.
type ThemeResponse struct {
	Settings  *settings.Settings `json:"settings"`
	ThemeIcon string             `json:"themeIcon"`
	Chart     *render.Chart      `json:"chart"`
}

// SettingsResponse wraps the client's settings with the supported languages.
type SettingsResponse struct {
	Settings  *settings.Settings `json:"settings"`
	Languages []string           `json:"languages"`
	ThemeIcon string             `json:"themeIcon"`
}
