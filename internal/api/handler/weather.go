package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/api/middleware"
	"github.com/skycast/skycast/internal/api/models"
	"github.com/skycast/skycast/internal/api/response"
	"github.com/skycast/skycast/internal/dashboard"
	"github.com/skycast/skycast/internal/render"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/weather"
)

// WeatherHandler handles search and geolocation endpoints.
type WeatherHandler struct {
	dashboard Dashboard
	renderer  *render.Renderer
	logger    zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(d Dashboard, renderer *render.Renderer, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{
		dashboard: d,
		renderer:  renderer,
		logger:    logger,
	}
}

// Search handles GET /v1/weather?city= - fetch and render a city.
func (h *WeatherHandler) Search(w http.ResponseWriter, r *http.Request) {
	client := clientFrom(r)

	result, err := h.dashboard.Search(r.Context(), client, r.URL.Query().Get("city"))
	if err != nil {
		writeActionError(w, r, h.dashboard, h.logger, client, err)
		return
	}

	h.writeResult(w, r, result)
}

// Locate handles GET /v1/weather/location?lat=&lon= - resolve the browser
// position to a place and render it.
func (h *WeatherHandler) Locate(w http.ResponseWriter, r *http.Request) {
	coords, fieldErrors := parseCoordinates(r)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	client := clientFrom(r)

	result, err := h.dashboard.Locate(r.Context(), client, coords)
	if err != nil {
		writeActionError(w, r, h.dashboard, h.logger, client, err)
		return
	}

	h.writeResult(w, r, result)
}

func (h *WeatherHandler) writeResult(w http.ResponseWriter, r *http.Request, result *dashboard.Result) {
	html, err := h.renderer.Fragment(result.Dashboard)
	if err != nil {
		h.logger.Error().Err(err).Str("city", result.City).Msg("failed to render dashboard fragment")
		response.InternalError(w, r, "failed to render dashboard")
		return
	}

	response.JSON(w, r, http.StatusOK, models.WeatherResponse{
		City:      result.City,
		Settings:  result.Settings,
		Dashboard: result.Dashboard,
		HTML:      html,
	})
}

// parseCoordinates reads lat and lon query parameters.
func parseCoordinates(r *http.Request) (weather.Coordinates, []models.FieldError) {
	var (
		coords      weather.Coordinates
		fieldErrors []models.FieldError
		err         error
	)

	query := r.URL.Query()

	if coords.Lat, err = strconv.ParseFloat(query.Get("lat"), 64); err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "must be a number", Code: "INVALID"})
	}
	if coords.Lon, err = strconv.ParseFloat(query.Get("lon"), 64); err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "must be a number", Code: "INVALID"})
	}
	if len(fieldErrors) > 0 {
		return coords, fieldErrors
	}

	if err := coords.Validate(); err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "lat,lon",
			Message: "lat must be within [-90, 90] and lon within [-180, 180]",
			Code:    "OUT_OF_RANGE",
		})
	}

	return coords, fieldErrors
}

// writeActionError maps a failed dashboard action to a Problem response.
// Weather failures carry the localized notice as detail so the page can
// show it as is.
func writeActionError(w http.ResponseWriter, r *http.Request, d Dashboard, log zerolog.Logger, client dashboard.Client, err error) {
	switch {
	case errors.Is(err, dashboard.ErrEmptyQuery):
		response.BadRequest(w, r, "city is required", []models.FieldError{
			{Field: "city", Message: "must not be blank", Code: "REQUIRED"},
		})
		return
	case errors.Is(err, dashboard.ErrSuperseded):
		response.Conflict(w, r, "superseded by a newer search")
		return
	case errors.Is(err, settings.ErrInvalidSettings):
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	log = log.With().
		Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("client_id", client.ID).
		Logger()

	if !isWeatherError(err) {
		log.Error().Msg("dashboard action failed")
		response.InternalError(w, r, "an unexpected error occurred")
		return
	}

	notice := dashboard.Notice(err, d.Settings(r.Context(), client).Language)

	if weather.KindOf(err) == weather.KindNotFound {
		response.NotFound(w, r, notice)
		return
	}

	log.Error().Msg("weather request failed")
	response.BadGateway(w, r, notice)
}

func isWeatherError(err error) bool {
	return errors.Is(err, weather.ErrCityNotFound) ||
		errors.Is(err, weather.ErrProviderUnavailable) ||
		errors.Is(err, weather.ErrMalformedResponse) ||
		errors.Is(err, weather.ErrInvalidCoordinates) ||
		errors.Is(err, dashboard.ErrLocationUnavailable)
}
