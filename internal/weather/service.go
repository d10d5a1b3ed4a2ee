package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/skycast/skycast/internal/telemetry"
)

// Provider defines the interface for the weather data provider.
type Provider interface {
	// CurrentByCity fetches current conditions for a city name.
	CurrentByCity(ctx context.Context, city, lang string) (*Current, error)

	// CurrentByCoordinates fetches current conditions for a coordinate pair.
	CurrentByCoordinates(ctx context.Context, coords Coordinates, lang string) (*Current, error)

	// ForecastByCity fetches the 5-day / 3-hour forecast for a city name.
	ForecastByCity(ctx context.Context, city, lang string) (*Forecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Metrics records provider call latency and outcome (optional).
	Metrics *telemetry.ProviderMetrics
}

// Service issues provider reads for the dashboard. It keeps no cache:
// every search goes to the provider exactly once per read.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	metrics  *telemetry.ProviderMetrics
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Search fetches current conditions and the forecast for city concurrently.
// If either read fails the other is cancelled and no partial report is returned.
func (s *Service) Search(ctx context.Context, city, lang string) (*Report, error) {
	city = strings.TrimSpace(city)

	var (
		current  *Current
		forecast *Forecast
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		cur, err := s.provider.CurrentByCity(gCtx, city, lang)
		s.record("current", start, err)
		if err != nil {
			return err
		}
		current = cur
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		fc, err := s.provider.ForecastByCity(gCtx, city, lang)
		s.record("forecast", start, err)
		if err != nil {
			return err
		}
		forecast = fc
		return nil
	})

	if err := g.Wait(); err != nil {
		err = normalize(err)
		s.logger.Warn().
			Err(err).
			Str("city", city).
			Str("lang", lang).
			Str("provider", s.provider.Name()).
			Msg("weather search failed")
		return nil, err
	}

	return &Report{Current: current, Forecast: forecast}, nil
}

// Locate resolves coordinates to the provider's place name.
func (s *Service) Locate(ctx context.Context, coords Coordinates, lang string) (string, error) {
	if err := coords.Validate(); err != nil {
		return "", err
	}

	start := time.Now()
	cur, err := s.provider.CurrentByCoordinates(ctx, coords, lang)
	s.record("locate", start, err)
	if err != nil {
		return "", normalize(err)
	}
	if cur.Place == "" {
		return "", fmt.Errorf("%w: no place name for coordinates", ErrMalformedResponse)
	}

	return cur.Place, nil
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

func (s *Service) record(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRequest(s.provider.Name(), operation, time.Since(start), err)
}

// normalize keeps the sentinel a caller can act on and folds everything
// else into ErrProviderUnavailable.
func normalize(err error) error {
	switch {
	case errors.Is(err, ErrCityNotFound),
		errors.Is(err, ErrMalformedResponse),
		errors.Is(err, ErrProviderUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
}
