package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/api/response"
	"github.com/skycast/skycast/internal/dashboard"
	"github.com/skycast/skycast/internal/render"
)

// PageHandler serves the HTML page.
type PageHandler struct {
	dashboard Dashboard
	renderer  *render.Renderer
	logger    zerolog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(d Dashboard, renderer *render.Renderer, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		dashboard: d,
		renderer:  renderer,
		logger:    logger,
	}
}

// Index handles GET / - the page in the client's language and theme. With
// ?city= the city is searched and rendered server-side; a failed search is
// shown as a notice instead of a dashboard.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	client := clientFrom(r)
	city := r.URL.Query().Get("city")

	page := &render.Page{
		Settings: h.dashboard.Settings(r.Context(), client),
		City:     city,
	}

	if city != "" {
		result, err := h.dashboard.Search(r.Context(), client, city)
		switch {
		case err == nil:
			page.Dashboard = result.Dashboard
			page.City = result.City
		case errors.Is(err, dashboard.ErrEmptyQuery), errors.Is(err, dashboard.ErrSuperseded):
			// Render the empty page.
		default:
			h.logger.Warn().Err(err).Str("client_id", client.ID).Str("city", city).Msg("page search failed")
			page.Notice = dashboard.Notice(err, page.Settings.Language)
		}
	}

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, page); err != nil {
		h.logger.Error().Err(err).Msg("failed to render page")
		response.InternalError(w, r, "failed to render page")
		return
	}

	response.HTML(w, r, http.StatusOK, buf.Bytes())
}
