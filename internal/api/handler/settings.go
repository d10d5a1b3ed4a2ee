package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/api/models"
	"github.com/skycast/skycast/internal/api/response"
	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/render"
)

// maxSettingsBody bounds settings request bodies.
const maxSettingsBody = 4 << 10

// SettingsHandler handles language and theme endpoints.
type SettingsHandler struct {
	dashboard Dashboard
	renderer  *render.Renderer
	logger    zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(d Dashboard, renderer *render.Renderer, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		dashboard: d,
		renderer:  renderer,
		logger:    logger,
	}
}

// Get handles GET /v1/settings - current client settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st := h.dashboard.Settings(r.Context(), clientFrom(r))

	response.JSON(w, r, http.StatusOK, models.SettingsResponse{
		Settings:  st,
		Languages: languageCodes(),
		ThemeIcon: render.ThemeIcon(st.Theme),
	})
}

// SetLanguage handles PUT /v1/settings/language - store the language and
// re-render the displayed city in it.
func (h *SettingsHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var input models.LanguageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody)).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	lang, err := i18n.Parse(input.Language)
	if err != nil {
		response.BadRequest(w, r, "unsupported language", []models.FieldError{
			{Field: "language", Message: "must be one of " + joinCodes(), Code: "UNSUPPORTED"},
		})
		return
	}

	client := clientFrom(r)

	result, err := h.dashboard.ChangeLanguage(r.Context(), client, lang, input.City)
	if err != nil {
		writeActionError(w, r, h.dashboard, h.logger, client, err)
		return
	}

	resp := models.LanguageResponse{
		Settings: result.Settings,
		City:     result.City,
	}

	if result.Dashboard != nil {
		html, err := h.renderer.Fragment(result.Dashboard)
		if err != nil {
			h.logger.Error().Err(err).Str("city", result.City).Msg("failed to render dashboard fragment")
			response.InternalError(w, r, "failed to render dashboard")
			return
		}
		resp.Dashboard = result.Dashboard
		resp.HTML = html
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// ToggleTheme handles POST /v1/settings/theme/toggle - flip the theme and
// rebuild the displayed chart without a provider call.
func (h *SettingsHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboard.ToggleTheme(r.Context(), clientFrom(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to toggle theme")
		response.InternalError(w, r, "failed to store theme")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ThemeResponse{
		Settings:  result.Settings,
		ThemeIcon: render.ThemeIcon(result.Settings.Theme),
		Chart:     result.Chart,
	})
}

func languageCodes() []string {
	langs := i18n.Supported()
	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = l.String()
	}
	return codes
}

func joinCodes() string {
	return strings.Join(languageCodes(), ", ")
}
