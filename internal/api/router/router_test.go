package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/sitefront/internal/calendly"
	"github.com/wolfman30/sitefront/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/sitefront/internal/http/middleware"
	"github.com/wolfman30/sitefront/internal/notify"
	"github.com/wolfman30/sitefront/internal/validation"
	"github.com/wolfman30/sitefront/pkg/logging"
)

type okMailer struct{}

func (okMailer) SendContactEmail(context.Context, validation.ContactFormData) notify.EmailResult {
	return notify.EmailResult{Success: true, ID: "id-1"}
}

func (okMailer) SendNewsletterConfirmation(context.Context, string, string) notify.EmailResult {
	return notify.EmailResult{Success: true}
}

func newTestRouter(t *testing.T, limiter httpmiddleware.Limiter) http.Handler {
	t.Helper()
	return newTestRouterWith(t, limiter, false)
}

func newTestRouterWith(t *testing.T, limiter httpmiddleware.Limiter, trustProxy bool) http.Handler {
	t.Helper()
	logger := logging.Default()
	svc := calendly.NewService(calendly.Options{URL: "https://calendly.com/acme", Logger: logger})
	return New(&Config{
		Logger:            logger,
		Forms:             handlers.NewFormsHandler(okMailer{}, nil, nil, logger),
		Calendly:          handlers.NewCalendlyHandler(svc, calendly.NewWebhookProcessor(nil, nil, logger), nil, logger),
		Book:              handlers.NewBookHandler(svc, handlers.BookPageConfig{Title: "Book"}, logger),
		AllowedOrigin:     "https://example.com",
		SubmitLimiter:     limiter,
		TrustProxyHeaders: trustProxy,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestRouterHomeRedirect(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/home", nil))

	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestRouterContactRoute(t *testing.T) {
	body := `{"name":"Jane Doe","email":"jane@example.com","subject":"Pricing question","message":"Please send me your price list."}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"success":true,"message":"Email sent successfully","id":"id-1"}`, rr.Body.String())
}

func TestRouterPreflightIsPermissive(t *testing.T) {
	for _, path := range []string{"/api/contact", "/api/newsletter", "/api/webhooks/calendly"} {
		rr := httptest.NewRecorder()
		newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, path, nil))

		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"), path)
	}
}

func TestRouterRateLimitsSubmissions(t *testing.T) {
	limiter := httpmiddleware.NewMemoryLimiter(0.001, 1)
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(`{"email":"a@example.com"}`))
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRouterClientKeyFromProxyHeaders(t *testing.T) {
	send := func(router http.Handler, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(`{"email":"a@example.com"}`))
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Real-Ip", forwarded)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	direct := httpmiddleware.NewMemoryLimiter(0.001, 1)
	defer direct.Stop()
	router := newTestRouter(t, direct)
	assert.Equal(t, http.StatusOK, send(router, "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send(router, "203.0.113.2"))

	proxied := httpmiddleware.NewMemoryLimiter(0.001, 1)
	defer proxied.Stop()
	router = newTestRouterWith(t, proxied, true)
	assert.Equal(t, http.StatusOK, send(router, "203.0.113.1"))
	assert.Equal(t, http.StatusOK, send(router, "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send(router, "203.0.113.2"))
}

func TestRouterWebhookAndBook(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/webhooks/calendly", strings.NewReader(`{"event":"invitee.no_show"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/book", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "calendly-inline-widget")
}
