// Package config loads the service configuration from the environment.
//
// Values are resolved in priority order: OS environment, then a .env file in
// the working directory, then struct defaults. Missing required values or
// invalid formats fail startup.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/skycast/skycast/internal/database"
)

// Settings store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is the top-level service configuration.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development" validate:"oneof=development staging production"`
	Port        string `envconfig:"APP_PORT" default:"8080" validate:"required,numeric"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`

	Provider  ProviderConfig
	Store     StoreConfig
	Database  database.Config
	Telemetry TelemetryConfig
	HTTP      HTTPConfig
}

// ProviderConfig configures the OpenWeatherMap client.
type ProviderConfig struct {
	APIKey  string `envconfig:"OPENWEATHERMAP_API_KEY" validate:"required"`
	BaseURL string `envconfig:"OPENWEATHERMAP_BASE_URL" default:"https://api.openweathermap.org/data/2.5" validate:"required,url"`

	// RequestsPerSecond caps outbound calls; the free tier allows 60 per minute.
	RequestsPerSecond float64 `envconfig:"OPENWEATHERMAP_RPS" default:"1" validate:"gte=0"`

	// Burst is how many calls may leave at once; a search issues two.
	Burst int `envconfig:"OPENWEATHERMAP_BURST" default:"2" validate:"gte=2"`

	// Timeout bounds a single provider call. Zero leaves it to the request.
	Timeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"0s" validate:"gte=0"`
}

// StoreConfig selects where client settings are kept.
type StoreConfig struct {
	Backend    string `envconfig:"SETTINGS_STORE" default:"memory" validate:"oneof=memory postgres sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"skycast.db" validate:"required_if=Backend sqlite"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
}

// HTTPConfig holds HTTP server behavior.
type HTTPConfig struct {
	RequireTLS bool `envconfig:"REQUIRE_TLS" default:"false"`

	// SearchRateLimit is the number of weather requests allowed per client per minute.
	SearchRateLimit int `envconfig:"SEARCH_RATE_LIMIT" default:"30" validate:"gte=1"`

	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s"`
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrParsing indicates an environment value could not be parsed into its field.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
)

// ConfigError is returned by Load.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads a .env file if present, processes the environment and validates
// the result.
func Load() (*Config, error) {
	// A missing .env file is fine; it never overrides the real environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}
