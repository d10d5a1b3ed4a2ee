// Package api provides the HTTP server for skycast: the HTML page, its
// static assets and the JSON endpoints the page script calls.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/api/handler"
	"github.com/skycast/skycast/internal/api/middleware"
	"github.com/skycast/skycast/internal/api/response"
	"github.com/skycast/skycast/internal/provider/resilience"
	"github.com/skycast/skycast/internal/render"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Dashboard handler.Dashboard
	Renderer  *render.Renderer

	// Registry reports provider health on /v1/ops/status (optional).
	Registry *resilience.Registry

	// Checks run on /v1/ops/ready and /v1/ops/status.
	Checks []handler.Check

	// RequireTLS rejects plain-HTTP requests behind a load balancer.
	// It also marks the client cookie Secure.
	RequireTLS bool

	// SearchRateLimit is the number of weather requests allowed per client
	// per minute (default: 30).
	SearchRateLimit int
}

// NewRouter creates a new chi router with all routes configured.
func NewRouter(cfg RouterConfig) (*chi.Mux, error) {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "skycast"
	}

	compress, err := middleware.Compress()
	if err != nil {
		return nil, fmt.Errorf("creating compression middleware: %w", err)
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)                // Generate/propagate request ID first
	r.Use(middleware.ClientID(cfg.RequireTLS)) // Anonymous client cookie + Accept-Language
	r.Use(middleware.Tracing(serviceName))     // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(compress)                              // gzip

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no route for "+r.URL.Path)
	})

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.Checks...)
	pageHandler := handler.NewPageHandler(cfg.Dashboard, cfg.Renderer, cfg.Logger)
	weatherHandler := handler.NewWeatherHandler(cfg.Dashboard, cfg.Renderer, cfg.Logger)
	settingsHandler := handler.NewSettingsHandler(cfg.Dashboard, cfg.Renderer, cfg.Logger)

	searchLimit := middleware.SearchRateLimit
	if cfg.SearchRateLimit > 0 {
		searchLimit = middleware.RateLimitConfig{
			RequestLimit: cfg.SearchRateLimit,
			WindowLength: time.Minute,
		}
	}

	searchRateLimit := middleware.RateLimitByClient(searchLimit)                    // provider-bound
	standardRateLimit := middleware.RateLimitByClient(middleware.StandardRateLimit) // 100 req/min per client

	// Page and assets
	r.With(searchRateLimit).Get("/", pageHandler.Index)
	r.Handle("/static/*", http.StripPrefix("/static/", cacheStatic(cfg.Renderer.Static())))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Weather endpoints reach the provider - strict rate limiting
		r.Route("/weather", func(r chi.Router) {
			r.Use(searchRateLimit)
			r.Get("/", weatherHandler.Search)
			r.Get("/location", weatherHandler.Locate)
		})

		// Settings endpoints
		r.Route("/settings", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Use(middleware.RequireJSON)
			r.Get("/", settingsHandler.Get)
			r.Put("/language", settingsHandler.SetLanguage)
			r.Post("/theme/toggle", settingsHandler.ToggleTheme)
		})
	})

	return r, nil
}

// cacheStatic lets browsers keep embedded assets for an hour.
func cacheStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
