package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/sitefront/internal/config"
	"github.com/wolfman30/sitefront/pkg/logging"
)

func TestSetupMetricsExposesSiteMetrics(t *testing.T) {
	handler, m := setupMetrics()
	require.NotNil(t, handler)
	require.NotNil(t, m)

	m.ObserveSubmission("contact", "success")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sitefront_forms_submissions_total")
}

func TestBuildServerWithStubEmail(t *testing.T) {
	cfg := &appconfig.Config{
		Env:             "development",
		EmailProvider:   "stub",
		EmailFrom:       "onboarding@resend.dev",
		EmailTo:         "owner@example.com",
		CompanyName:     "Acme",
		PrimaryColor:    "#3b82f6",
		CalendlyURL:     "https://calendly.com/acme",
		WhatsAppNumber:  "18095550100",
		BookPageTitle:   "Book",
		RateLimitRPS:    1,
		RateLimitBurst:  5,
		RateLimitWindow: time.Minute,
	}
	handler, cleanup, err := buildServer(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	defer cleanup()

	body := `{"name":"Jane Doe","email":"jane@example.com","subject":"Pricing question","message":"Please send me your price list."}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"stub-`)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `sitefront_email_dispatch_total{kind="contact",status="sent"} 1`)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/book", nil))
	assert.Contains(t, rr.Body.String(), "primary_color=3b82f6")
	assert.Contains(t, rr.Body.String(), "https://wa.me/18095550100")
}

func TestBuildServerRejectsUnknownProvider(t *testing.T) {
	cfg := &appconfig.Config{EmailProvider: "carrier-pigeon", RateLimitRPS: 1, RateLimitBurst: 1}
	_, _, err := buildServer(context.Background(), cfg, logging.New("error"))
	require.Error(t, err)
}
