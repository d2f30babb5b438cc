package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/sitefront/internal/calendly"
	"github.com/wolfman30/sitefront/internal/whatsapp"
)

func TestBookPageRendersWidgetAndButton(t *testing.T) {
	svc := calendly.NewService(calendly.Options{URL: "https://calendly.com/acme/30min"})
	h := NewBookHandler(svc, BookPageConfig{
		Title:       "Book a consultation",
		CompanyName: "Acme",
		Widgets:     []InlineWidget{{Config: calendly.Config{HideEventTypeDetails: true}}},
		WhatsApp:    whatsapp.ButtonConfig{PhoneNumber: "+1 809-555-0100", ShowOnScroll: true, ScrollThreshold: 300},
	}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/book", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>Book a consultation | Acme</title>")
	assert.Equal(t, 1, strings.Count(body, `<script async src="https://assets.calendly.com/assets/external/widget.js"></script>`))
	assert.Contains(t, body, `<link rel="stylesheet" href="https://assets.calendly.com/assets/external/widget.css">`)
	assert.Contains(t, body, `data-url="https://calendly.com/acme/30min?hide_event_type_details=1"`)
	assert.Contains(t, body, `href="https://wa.me/18095550100?text=Hello!%20I%20am%20interested%20in%20learning%20more."`)
	assert.Contains(t, body, `aria-label="Contact us on WhatsApp"`)
}

func TestBookPageWithoutCalendly(t *testing.T) {
	h := NewBookHandler(calendly.NewService(calendly.Options{}), BookPageConfig{Title: "Book"}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/book", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Calendly is not configured")
	assert.NotContains(t, body, "widget.js")
	assert.NotContains(t, body, "wa.me")
}
