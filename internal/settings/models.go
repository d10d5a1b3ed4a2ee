package settings

import (
	"time"

	"github.com/skycast/skycast/internal/i18n"
)

// Theme is the dashboard color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
)

// Toggle returns the other theme. Anything that is not dark toggles to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Settings are the display preferences stored per browser client.
type Settings struct {
	// ClientID is the anonymous id from the client cookie.
	ClientID string `json:"-" validate:"required,max=64"`

	Theme    Theme         `json:"theme" validate:"required,oneof=light dark"`
	Language i18n.Language `json:"language" validate:"required,oneof=en tr"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Defaults returns the settings for a client that has stored nothing yet.
// lang is usually the Accept-Language match; an unsupported value falls back
// to i18n.Default.
func Defaults(clientID string, lang i18n.Language) *Settings {
	if !lang.Valid() {
		lang = i18n.Default
	}
	return &Settings{
		ClientID: clientID,
		Theme:    DefaultTheme,
		Language: lang,
	}
}
