// Package resilience wraps outbound provider HTTP calls with a circuit
// breaker, an outbound rate limiter and an optional retry loop.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const (
	// defaultCountWindow is how long failure counts accumulate while the
	// breaker is closed.
	defaultCountWindow = 60 * time.Second

	// defaultOpenPeriod is how long the breaker stays open before probing.
	defaultOpenPeriod = 60 * time.Second

	// minTripRequests is the sample size DefaultReadyToTrip waits for.
	minTripRequests = 5

	// tripFailureRatio is the share of failed calls that opens the breaker.
	tripFailureRatio = 0.5
)

// CircuitBreakerConfig tunes the breaker in front of one provider.
type CircuitBreakerConfig struct {
	// Name labels the breaker in logs and the registry.
	Name string

	// MaxRequests is how many probe calls a half-open breaker lets through.
	MaxRequests uint32

	// Interval is the window after which a closed breaker clears its counts.
	// Zero keeps counting for the life of the process.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// ReadyToTrip decides from the current counts whether to open.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// IsSuccessful decides whether a call error counts against the provider.
	// Nil uses DefaultIsSuccessful.
	IsSuccessful func(err error) bool

	// OnStateChange observes transitions (optional).
	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)
}

// DefaultCircuitBreakerConfig opens after half of at least five calls in a
// minute failed and probes again a minute later.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     defaultCountWindow,
		Timeout:      defaultOpenPeriod,
		ReadyToTrip:  DefaultReadyToTrip,
		IsSuccessful: DefaultIsSuccessful,
	}
}

// DefaultReadyToTrip trips once at least minTripRequests calls were counted
// and half or more of them failed.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < minTripRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= tripFailureRatio
}

// DefaultIsSuccessful counts every error as a provider failure except a
// cancelled or expired caller context.
func DefaultIsSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// LogStateChanges returns an OnStateChange hook that logs transitions,
// warning when the breaker opens.
func LogStateChanges(log zerolog.Logger) func(name string, from, to gobreaker.State) {
	return func(name string, from, to gobreaker.State) {
		event := log.Info()
		if to == gobreaker.StateOpen {
			event = log.Warn()
		}
		event.
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("circuit breaker state changed")
	}
}

// NewCircuitBreaker builds a gobreaker breaker from cfg, filling unset
// fields from DefaultCircuitBreakerConfig.
func NewCircuitBreaker[T any](cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[T] {
	defaults := DefaultCircuitBreakerConfig(cfg.Name)

	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = defaults.ReadyToTrip
	}
	if cfg.IsSuccessful == nil {
		cfg.IsSuccessful = defaults.IsSuccessful
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cfg.ReadyToTrip,
		IsSuccessful:  cfg.IsSuccessful,
		OnStateChange: cfg.OnStateChange,
	})
}
