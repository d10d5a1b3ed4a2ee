package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skycast/skycast/internal/api/middleware"
)

func serveFrom(handler http.Handler, remoteAddr string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/weather", http.NoBody)
	req.RemoteAddr = remoteAddr
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP_AllowsWithinLimit(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 5, WindowLength: time.Minute}
	handler := middleware.RateLimitByIP(cfg)(okHandler())

	for i := 0; i < 5; i++ {
		rec := serveFrom(handler, "192.168.1.1:12345")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
	}
}

func TestRateLimitByIP_BlocksOverLimit(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 3, WindowLength: 30 * time.Second}
	handler := middleware.RateLimitByIP(cfg)(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(handler, "10.0.0.1:12345").Code)
	}

	rec := serveFrom(handler, "10.0.0.1:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestRateLimitByIP_DifferentIPsHaveSeparateLimits(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 2, WindowLength: time.Minute}
	handler := middleware.RateLimitByIP(cfg)(okHandler())

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(handler, "172.16.0.1:12345").Code)
	}

	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "172.16.0.1:12345").Code)
	assert.Equal(t, http.StatusOK, serveFrom(handler, "172.16.0.2:12345").Code)
}

func TestRateLimitByClient_KeysOnClientCookie(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 2, WindowLength: time.Minute}
	handler := middleware.ClientID(false)(middleware.RateLimitByClient(cfg)(okHandler()))

	first := &http.Cookie{Name: middleware.ClientCookieName, Value: "6f1c2b8e-4d5a-4b7c-9e3f-1a2b3c4d5e6f"}
	second := &http.Cookie{Name: middleware.ClientCookieName, Value: "0b9d8c7e-6f5a-4e3d-8c2b-1a0f9e8d7c6b"}

	// Same client from two addresses shares one budget.
	assert.Equal(t, http.StatusOK, serveFrom(handler, "192.0.2.1:1000", first).Code)
	assert.Equal(t, http.StatusOK, serveFrom(handler, "192.0.2.2:1000", first).Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "192.0.2.3:1000", first).Code)

	// Another client behind the same address is unaffected.
	assert.Equal(t, http.StatusOK, serveFrom(handler, "192.0.2.1:1000", second).Code)
}

func TestRateLimitByClient_FallsBackToIP(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 1, WindowLength: time.Minute}
	handler := middleware.RateLimitByClient(cfg)(okHandler())

	assert.Equal(t, http.StatusOK, serveFrom(handler, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusOK, serveFrom(handler, "198.51.100.2:1000").Code)
}

func TestRateLimitByClient_IgnoresIssuedIDs(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 1, WindowLength: time.Minute}
	handler := middleware.ClientID(false)(middleware.RateLimitByClient(cfg)(okHandler()))

	// Without a cookie every request gets a new ID; the IP budget still applies.
	assert.Equal(t, http.StatusOK, serveFrom(handler, "198.51.100.7:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "198.51.100.7:1000").Code)
}

func TestRateLimitExceededResponse_Format(t *testing.T) {
	cfg := middleware.RateLimitConfig{RequestLimit: 1, WindowLength: time.Minute}
	handler := middleware.RequestID(middleware.RateLimitByIP(cfg)(okHandler()))

	assert.Equal(t, http.StatusOK, serveFrom(handler, "203.0.113.1:12345").Code)

	rec := serveFrom(handler, "203.0.113.1:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "too-many-requests")
	assert.Contains(t, body, "Rate limit exceeded")
	assert.Contains(t, body, "/v1/weather")
	assert.Contains(t, body, "req_")
}

func TestDefaultRateLimitConfigs(t *testing.T) {
	assert.Equal(t, 30, middleware.SearchRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.SearchRateLimit.WindowLength)

	assert.Equal(t, 100, middleware.StandardRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.StandardRateLimit.WindowLength)
}
