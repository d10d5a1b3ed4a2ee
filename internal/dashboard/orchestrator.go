// Package dashboard wires user actions (search, geolocation, language and
// theme changes) to the weather service and the render pipeline.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/render"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/telemetry"
	"github.com/skycast/skycast/internal/weather"
)

const tracerName = "github.com/skycast/skycast/internal/dashboard"

var (
	// ErrSuperseded is returned when a newer search from the same client
	// started before this one finished. The stale result is discarded.
	ErrSuperseded = errors.New("search superseded by a newer request")

	// ErrEmptyQuery is returned for a blank city.
	ErrEmptyQuery = errors.New("empty city query")

	// ErrLocationUnavailable is returned when coordinates cannot be resolved
	// to a place.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// WeatherSource performs the provider reads behind a search.
type WeatherSource interface {
	Search(ctx context.Context, city, lang string) (*weather.Report, error)
	Locate(ctx context.Context, coords weather.Coordinates, lang string) (string, error)
}

// SettingsStore reads and updates client settings.
type SettingsStore interface {
	Get(ctx context.Context, clientID string, fallback i18n.Language) *settings.Settings
	SetLanguage(ctx context.Context, clientID string, lang i18n.Language) (*settings.Settings, error)
	ToggleTheme(ctx context.Context, clientID string, fallback i18n.Language) (*settings.Settings, error)
}

// Client identifies the browser an action comes from.
type Client struct {
	// ID is the anonymous client cookie value.
	ID string

	// Fallback is the language used while the client has stored none,
	// usually the Accept-Language match.
	Fallback i18n.Language
}

// Result is the outcome of a search.
type Result struct {
	City      string
	Settings  *settings.Settings
	Dashboard *render.Dashboard
}

// ThemeResult is the outcome of a theme toggle. Chart is nil when the
// client has nothing displayed.
type ThemeResult struct {
	Settings *settings.Settings
	Chart    *render.Chart
}

// Config holds configuration for the orchestrator.
type Config struct {
	Weather  WeatherSource
	Settings SettingsStore
	Logger   zerolog.Logger

	// MaxClients caps how many client states are retained (default: 10000).
	// The least recently active client is evicted first.
	MaxClients int
}

// Orchestrator runs dashboard actions for many clients. State is kept per
// client; nothing is shared between clients.
type Orchestrator struct {
	weather  WeatherSource
	settings SettingsStore
	logger   zerolog.Logger
	tracer   trace.Tracer
	states   *stateTable
}

// New creates a new orchestrator.
func New(cfg Config) *Orchestrator {
	maxClients := cfg.MaxClients
	if maxClients <= 0 {
		maxClients = 10000
	}

	return &Orchestrator{
		weather:  cfg.Weather,
		settings: cfg.Settings,
		logger:   cfg.Logger,
		tracer:   telemetry.Tracer(tracerName),
		states:   newStateTable(maxClients),
	}
}

// Search fetches and renders city for client. Overlapping searches from the
// same client are fenced: only the most recently started one is applied,
// older ones return ErrSuperseded.
func (o *Orchestrator) Search(ctx context.Context, client Client, city string) (*Result, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyQuery
	}

	ctx, span := o.tracer.Start(ctx, "dashboard.Search", trace.WithAttributes(
		attribute.String("weather.city", city),
	))
	defer span.End()

	st := o.settings.Get(ctx, client.ID, client.Fallback)
	state := o.states.get(client.ID)
	gen := state.begin()
	start := time.Now()

	log := o.logger.With().
		Str("client_id", client.ID).
		Str("city", city).
		Uint64("generation", gen).
		Logger()

	report, err := o.weather.Search(ctx, city, string(st.Language))
	if err != nil {
		if !state.isLatest(gen) {
			log.Debug().Err(err).Msg("discarding failed superseded search")
			return nil, ErrSuperseded
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	d := render.Build(render.Input{
		Current:  report.Current,
		Forecast: report.Forecast,
		Language: st.Language,
		Theme:    st.Theme,
	})

	if !state.apply(gen, city, weather.ChartWindow(report.Forecast), report.Forecast.Location) {
		log.Debug().Msg("discarding superseded search")
		return nil, ErrSuperseded
	}

	log.Info().
		Str("language", string(st.Language)).
		Dur("duration", time.Since(start)).
		Msg("search rendered")

	return &Result{City: city, Settings: st, Dashboard: d}, nil
}

// Locate resolves coordinates to a place name and searches it. It is the
// single-shot geolocation seed of a page load; failures are logged and
// returned as ErrLocationUnavailable.
func (o *Orchestrator) Locate(ctx context.Context, client Client, coords weather.Coordinates) (*Result, error) {
	st := o.settings.Get(ctx, client.ID, client.Fallback)

	place, err := o.weather.Locate(ctx, coords, string(st.Language))
	if err != nil {
		o.logger.Warn().
			Err(err).
			Str("client_id", client.ID).
			Float64("lat", coords.Lat).
			Float64("lon", coords.Lon).
			Msg("failed to resolve location")
		return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	return o.Search(ctx, client, place)
}

// ChangeLanguage stores lang and, when city is not blank, searches it again
// so the view is re-rendered in the new language. The returned Result has a
// nil Dashboard when no search ran.
func (o *Orchestrator) ChangeLanguage(ctx context.Context, client Client, lang i18n.Language, city string) (*Result, error) {
	st, err := o.settings.SetLanguage(ctx, client.ID, lang)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(city) == "" {
		return &Result{Settings: st}, nil
	}

	return o.Search(ctx, client, city)
}

// ToggleTheme flips the stored theme and rebuilds the chart of the last
// applied search from retained samples. No provider call is made.
func (o *Orchestrator) ToggleTheme(ctx context.Context, client Client) (*ThemeResult, error) {
	st, err := o.settings.ToggleTheme(ctx, client.ID, client.Fallback)
	if err != nil {
		return nil, err
	}

	result := &ThemeResult{Settings: st}

	if samples, loc, ok := o.states.get(client.ID).chart(); ok {
		result.Chart = render.BuildChart(samples, loc, st.Language, st.Theme)
	}

	return result, nil
}

// Settings returns the client's current settings.
func (o *Orchestrator) Settings(ctx context.Context, client Client) *settings.Settings {
	return o.settings.Get(ctx, client.ID, client.Fallback)
}

// Notice returns the localized message shown for a failed search.
func Notice(err error, lang i18n.Language) string {
	labels := i18n.For(lang)
	if weather.KindOf(err) == weather.KindNotFound {
		return labels.ErrorCity
	}
	return labels.ErrorGeneric
}
