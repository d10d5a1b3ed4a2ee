package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/skycast/skycast/internal/i18n"
)

// ClientCookieName is the cookie carrying the anonymous client ID.
const ClientCookieName = "skycast_client"

// clientCookieMaxAge keeps the client ID for a year.
const clientCookieMaxAge = 365 * 24 * time.Hour

type clientIDKey struct{}

type languageKey struct{}

type newClientKey struct{}

// ClientID identifies the browser by an anonymous cookie, issuing a new
// random ID when the cookie is missing or malformed. It also stores the
// Accept-Language match, used as the language until the client picks one.
func ClientID(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ""
			issued := false
			if cookie, err := r.Cookie(ClientCookieName); err == nil {
				if id, err := uuid.Parse(cookie.Value); err == nil {
					clientID = id.String()
				}
			}

			if clientID == "" {
				clientID = uuid.NewString()
				issued = true
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookieName,
					Value:    clientID,
					Path:     "/",
					MaxAge:   int(clientCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), clientIDKey{}, clientID)
			ctx = context.WithValue(ctx, newClientKey{}, issued)
			ctx = context.WithValue(ctx, languageKey{}, i18n.Match(r.Header.Get("Accept-Language")))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientID retrieves the client ID from the context.
func GetClientID(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey{}).(string); ok {
		return id
	}
	return ""
}

// IsNewClient reports whether the client ID was issued by this request
// rather than presented as a cookie.
func IsNewClient(ctx context.Context) bool {
	issued, _ := ctx.Value(newClientKey{}).(bool)
	return issued
}

// GetLanguage retrieves the Accept-Language match from the context.
func GetLanguage(ctx context.Context) i18n.Language {
	if lang, ok := ctx.Value(languageKey{}).(i18n.Language); ok {
		return lang
	}
	return i18n.Default
}
