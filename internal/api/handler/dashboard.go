package handler

import (
	"context"

	"github.com/skycast/skycast/internal/dashboard"
	"github.com/skycast/skycast/internal/i18n"
	"github.com/skycast/skycast/internal/settings"
	"github.com/skycast/skycast/internal/weather"
)

// Dashboard is the set of user actions the handlers dispatch to.
type Dashboard interface {
	Search(ctx context.Context, client dashboard.Client, city string) (*dashboard.Result, error)
	Locate(ctx context.Context, client dashboard.Client, coords weather.Coordinates) (*dashboard.Result, error)
	ChangeLanguage(ctx context.Context, client dashboard.Client, lang i18n.Language, city string) (*dashboard.Result, error)
	ToggleTheme(ctx context.Context, client dashboard.Client) (*dashboard.ThemeResult, error)
	Settings(ctx context.Context, client dashboard.Client) *settings.Settings
}

// Ensure Orchestrator implements Dashboard.
var _ Dashboard = (*dashboard.Orchestrator)(nil)
