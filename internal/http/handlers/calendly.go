package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/sitefront/internal/calendly"
	"github.com/wolfman30/sitefront/pkg/logging"
)

// WebhookProcessor handles decoded Calendly webhooks.
type WebhookProcessor interface {
	Process(ctx context.Context, payload calendly.WebhookPayload) error
}

// CalendlyHandler serves the Calendly webhook and scheduling-link endpoints.
type CalendlyHandler struct {
	service   *calendly.Service
	processor WebhookProcessor
	verifier  *calendly.Verifier
	logger    *logging.Logger
}

// NewCalendlyHandler wires the handler. A nil verifier accepts unsigned
// webhooks.
func NewCalendlyHandler(service *calendly.Service, processor WebhookProcessor, verifier *calendly.Verifier, logger *logging.Logger) *CalendlyHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if !verifier.Enabled() {
		logger.Warn("calendly webhook signature verification disabled; set CALENDLY_WEBHOOK_SIGNING_KEY to enable")
	}
	return &CalendlyHandler{service: service, processor: processor, verifier: verifier, logger: logger}
}

// Webhook handles POST /api/webhooks/calendly.
func (h *CalendlyHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.verifier.Verify(r.Header.Get(calendly.SignatureHeader), body); err != nil {
		h.logger.Warn("invalid calendly webhook signature", "error", err)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	var payload calendly.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.processor.Process(r.Context(), payload); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *CalendlyHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("calendly webhook error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

type schedulingResponse struct {
	URL       string `json:"url"`
	ScriptURL string `json:"scriptUrl"`
	StyleURL  string `json:"styleUrl"`
}

// SchedulingURL handles GET /api/calendly/scheduling-url. Query parameters
// map onto calendly.Config: name, email, first_name, last_name, a1..aN,
// utm_*, hide_event_type_details, hide_landing_page_details and the colours.
func (h *CalendlyHandler) SchedulingURL(w http.ResponseWriter, r *http.Request) {
	cfg := configFromQuery(r)
	url, err := h.service.SchedulingURL(cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, calendly.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		writeFailure(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, schedulingResponse{
		URL:       url,
		ScriptURL: h.service.EmbedScriptURL(),
		StyleURL:  h.service.EmbedStyleURL(),
	})
}

func configFromQuery(r *http.Request) *calendly.Config {
	q := r.URL.Query()
	cfg := &calendly.Config{
		HideEventTypeDetails:   truthy(q.Get("hide_event_type_details")),
		HideLandingPageDetails: truthy(q.Get("hide_landing_page_details")),
		BackgroundColor:        q.Get("background_color"),
		TextColor:              q.Get("text_color"),
		PrimaryColor:           q.Get("primary_color"),
	}
	pre := calendly.Prefill{
		Name:      q.Get("name"),
		Email:     q.Get("email"),
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
	}
	for k := range q {
		if len(k) > 1 && k[0] == 'a' && isDigits(k[1:]) {
			if pre.CustomAnswers == nil {
				pre.CustomAnswers = map[string]string{}
			}
			pre.CustomAnswers[k[1:]] = q.Get(k)
		}
	}
	if pre.Name != "" || pre.Email != "" || pre.FirstName != "" || pre.LastName != "" || pre.CustomAnswers != nil {
		cfg.Prefill = &pre
	}
	utm := calendly.UTM{
		Campaign: q.Get("utm_campaign"),
		Source:   q.Get("utm_source"),
		Medium:   q.Get("utm_medium"),
		Content:  q.Get("utm_content"),
		Term:     q.Get("utm_term"),
	}
	if utm != (calendly.UTM{}) {
		cfg.UTM = &utm
	}
	return cfg
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
