package handlers

import (
	"context"
	"net/http"

	"github.com/wolfman30/sitefront/internal/notify"
	"github.com/wolfman30/sitefront/internal/observability/metrics"
	"github.com/wolfman30/sitefront/internal/validation"
	"github.com/wolfman30/sitefront/pkg/logging"
)

// Mailer sends the emails behind the form endpoints.
type Mailer interface {
	SendContactEmail(ctx context.Context, data validation.ContactFormData) notify.EmailResult
	SendNewsletterConfirmation(ctx context.Context, email, name string) notify.EmailResult
}

// FormsHandler serves the contact and newsletter endpoints.
type FormsHandler struct {
	mailer    Mailer
	validator *validation.Validator
	metrics   *metrics.SiteMetrics
	logger    *logging.Logger
}

func NewFormsHandler(mailer Mailer, v *validation.Validator, m *metrics.SiteMetrics, logger *logging.Logger) *FormsHandler {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FormsHandler{mailer: mailer, validator: v, metrics: m, logger: logger}
}

// Contact handles POST /api/contact.
func (h *FormsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var data validation.ContactFormData
	present, ok := h.decode(w, r, "contact", &data)
	if !ok {
		return
	}
	if !h.validate(w, "contact", h.validator.ContactRequest(&data, present)) {
		return
	}

	result := h.mailer.SendContactEmail(r.Context(), data)
	if !result.Success {
		h.metrics.ObserveSubmission("contact", "failed")
		writeFailure(w, http.StatusInternalServerError, resultMessage(result, "Failed to send email"))
		return
	}
	h.metrics.ObserveSubmission("contact", "success")
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Email sent successfully", ID: result.ID})
}

// Newsletter handles POST /api/newsletter.
func (h *FormsHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	var data validation.NewsletterData
	present, ok := h.decode(w, r, "newsletter", &data)
	if !ok {
		return
	}
	if !h.validate(w, "newsletter", h.validator.NewsletterRequest(&data, present)) {
		return
	}

	result := h.mailer.SendNewsletterConfirmation(r.Context(), data.Email, data.Name)
	if !result.Success {
		h.metrics.ObserveSubmission("newsletter", "failed")
		writeFailure(w, http.StatusInternalServerError, resultMessage(result, "Failed to subscribe"))
		return
	}
	h.metrics.ObserveSubmission("newsletter", "success")
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Successfully subscribed to newsletter"})
}

func (h *FormsHandler) decode(w http.ResponseWriter, r *http.Request, form string, dst any) (validation.Presence, bool) {
	present, details, err := decodeBody(r, dst)
	if err != nil {
		h.logger.Error(form+" form error", "error", err)
		h.metrics.ObserveSubmission(form, "failed")
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if details != nil {
		h.metrics.ObserveSubmission(form, "invalid")
		writeValidationFailure(w, details)
		return nil, false
	}
	return present, true
}

func (h *FormsHandler) validate(w http.ResponseWriter, form string, err error) bool {
	if err == nil {
		return true
	}
	h.metrics.ObserveSubmission(form, "invalid")
	if errs, ok := validation.AsErrors(err); ok {
		writeValidationFailure(w, errs)
		return false
	}
	h.logger.Error(form+" form error", "error", err)
	writeFailure(w, http.StatusInternalServerError, err.Error())
	return false
}

func resultMessage(result notify.EmailResult, fallback string) string {
	if result.Error != nil && result.Error.Message != "" {
		return result.Error.Message
	}
	return fallback
}
