// Package i18n holds the dashboard's display strings and the date and time
// conventions of each supported language.
package i18n

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnsupportedLanguage is returned when a language code has no table.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language is a supported display language code.
type Language string

const (
	English Language = "en"
	Turkish Language = "tr"

	// Default is used when no preference is stored or matched.
	Default = English
)

// supported lists the languages in matcher preference order. The first entry
// is the matcher's fallback.
var supported = []Language{English, Turkish}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Turkish})

// Strings is the label set shown by the dashboard.
type Strings struct {
	Temperature  string `json:"temperature"`
	Humidity     string `json:"humidity"`
	Wind         string `json:"wind"`
	Sunrise      string `json:"sunrise"`
	Sunset       string `json:"sunset"`
	ErrorCity    string `json:"errorCity"`
	ErrorGeneric string `json:"errorGeneric"`
}

var tables = map[Language]Strings{
	English: {
		Temperature:  "Temperature",
		Humidity:     "Humidity",
		Wind:         "Wind Speed",
		Sunrise:      "Sunrise",
		Sunset:       "Sunset",
		ErrorCity:    "City not found",
		ErrorGeneric: "Error fetching weather data",
	},
	Turkish: {
		Temperature:  "Sıcaklık",
		Humidity:     "Nem",
		Wind:         "Rüzgar Hızı",
		Sunrise:      "Gün Doğumu",
		Sunset:       "Gün Batımı",
		ErrorCity:    "Şehir bulunamadı",
		ErrorGeneric: "Hava durumu verileri alınırken hata oluştu",
	},
}

// For returns the label set for lang, falling back to Default.
func For(lang Language) Strings {
	if s, ok := tables[lang]; ok {
		return s
	}
	return tables[Default]
}

// Supported returns the supported languages in display order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Parse validates a language code such as "tr" or "TR".
func Parse(code string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := tables[lang]; !ok {
		return "", ErrUnsupportedLanguage
	}
	return lang, nil
}

// Valid reports whether lang has a table.
func (l Language) Valid() bool {
	_, ok := tables[l]
	return ok
}

func (l Language) String() string {
	return string(l)
}

// Match picks the best supported language for an Accept-Language header.
// An empty or unmatched header yields Default.
func Match(acceptLanguage string) Language {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	if idx < 0 || idx >= len(supported) {
		return Default
	}
	return supported[idx]
}
