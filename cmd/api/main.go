// Package main provides the entrypoint for the skycast web server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/api"
	"github.com/skycast/skycast/internal/api/handler"
	"github.com/skycast/skycast/internal/api/middleware"
	"github.com/skycast/skycast/internal/config"
	"github.com/skycast/skycast/internal/dashboard"
	"github.com/skycast/skycast/internal/database"
	"github.com/skycast/skycast/internal/provider/resilience"
	"github.com/skycast/skycast/internal/render"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/telemetry"
	"github.com/skycast/skycast/internal/weather"
	"github.com/skycast/skycast/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "skycast"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log = log.Level(level)

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Msg("starting skycast")

	ctx := context.Background()

	// Initialize OpenTelemetry
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if tp.Enabled() {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	// Weather provider behind the resilient client
	registry := resilience.NewRegistry()

	clientConfig := resilience.DefaultClientConfig(openweathermap.ProviderName)
	clientConfig.Timeout = cfg.Provider.Timeout
	clientConfig.RequestsPerSecond = cfg.Provider.RequestsPerSecond
	clientConfig.Burst = cfg.Provider.Burst
	clientConfig.Registry = registry
	clientConfig.CircuitBreaker.OnStateChange = resilience.LogStateChanges(log)

	provider := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		HTTPClient: resilience.NewClient(clientConfig),
		Logger:     log,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   log,
		Metrics:  providerMetrics,
	})
	log.Info().Str("provider", weatherService.ProviderName()).Msg("weather service initialized")

	// Settings store
	store, err := openSettingsStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open settings store")
	}
	defer store.close()

	settingsService := settings.NewService(settings.ServiceConfig{
		Repository: store.repo,
		Logger:     log,
	})

	orchestrator := dashboard.New(dashboard.Config{
		Weather:  weatherService,
		Settings: settingsService,
		Logger:   log,
	})

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}

	// Create router with configuration
	router, err := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		Dashboard:       orchestrator,
		Renderer:        renderer,
		Registry:        registry,
		Checks:          store.checks,
		RequireTLS:      cfg.HTTP.RequireTLS,
		SearchRateLimit: cfg.HTTP.SearchRateLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create router")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

// settingsStore is the selected settings backend with its readiness checks.
type settingsStore struct {
	repo   settings.Repository
	checks []handler.Check
	close  func()
}

func openSettingsStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*settingsStore, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool, settings.PostgresSchema); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Msg("database connected")

		return &settingsStore{
			repo:   settings.NewPostgresRepository(pool),
			checks: []handler.Check{{Name: "postgres", Check: pool.Ping}},
			close:  pool.Close,
		}, nil

	case config.StoreSQLite:
		repo, err := settings.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("sqlite settings store opened")

		return &settingsStore{
			repo:   repo,
			checks: []handler.Check{{Name: "sqlite", Check: repo.Ping}},
			close: func() {
				if err := repo.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close sqlite settings store")
				}
			},
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("using in-memory settings store - settings are lost on restart")
		return &settingsStore{
			repo:  settings.NewInMemoryRepository(),
			close: func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown settings store %q", cfg.Store.Backend)
	}
}
