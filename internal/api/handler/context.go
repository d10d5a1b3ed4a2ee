package handler

import (
	"net/http"

	"github.com/skycast/skycast/internal/api/middleware"
	"github.com/skycast/skycast/internal/dashboard"
)

// clientFrom identifies the browser behind r from the client middleware.
func clientFrom(r *http.Request) dashboard.Client {
	return dashboard.Client{
		ID:       middleware.GetClientID(r.Context()),
		Fallback: middleware.GetLanguage(r.Context()),
	}
}
