package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/sitefront/internal/notify/templates"
	"github.com/wolfman30/sitefront/internal/observability/metrics"
	"github.com/wolfman30/sitefront/internal/phone"
	"github.com/wolfman30/sitefront/internal/validation"
	"github.com/wolfman30/sitefront/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var mailTracer = otel.Tracer("sitefront.internal.notify")

// ErrorTypeCritical marks failures that did not come from the provider.
const ErrorTypeCritical = "CRITICAL_ERROR"

const (
	contactSubject    = "New Contact: {{.Name}} - {{.Subject}}"
	autoReplySubject  = "Thank you for contacting {{.CompanyName}}!"
	newsletterSubject = "Welcome to {{.CompanyName}} Newsletter!"
	sentAtLayout      = "Monday, January 2, 2006 at 3:04 PM"
)

// EmailError describes a failed dispatch.
type EmailError struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`
}

// EmailResult is the outcome of a dispatch.
type EmailResult struct {
	Success bool        `json:"success"`
	ID      string      `json:"id,omitempty"`
	Error   *EmailError `json:"error,omitempty"`
}

// ServiceConfig holds the addresses and branding used by Service.
type ServiceConfig struct {
	From     string
	To       string
	Branding templates.Branding
	// Location is used for the "Sent:" footer; defaults to UTC.
	Location *time.Location
}

// Service renders and dispatches the site's transactional emails.
type Service struct {
	sender   EmailSender
	renderer *templates.Renderer
	from     string
	to       string
	loc      *time.Location
	now      func() time.Time
	metrics  *metrics.SiteMetrics
	logger   *logging.Logger
}

// NewService creates the email service.
func NewService(sender EmailSender, cfg ServiceConfig, m *metrics.SiteMetrics, logger *logging.Logger) (*Service, error) {
	if sender == nil {
		return nil, errors.New("notify: email sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	renderer, err := templates.NewRenderer(cfg.Branding)
	if err != nil {
		return nil, err
	}
	if cfg.From == "" {
		cfg.From = "onboarding@resend.dev"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		sender:   sender,
		renderer: renderer,
		from:     cfg.From,
		to:       cfg.To,
		loc:      cfg.Location,
		now:      time.Now,
		metrics:  m,
		logger:   logger,
	}, nil
}

// Renderer exposes the template renderer for previews.
func (s *Service) Renderer() *templates.Renderer {
	return s.renderer
}

// SendContactEmail notifies the site owner of a contact submission and, on
// success, sends the submitter an auto-reply. Auto-reply failures never
// change the result.
func (s *Service) SendContactEmail(ctx context.Context, data validation.ContactFormData) (result EmailResult) {
	ctx, span := mailTracer.Start(ctx, "notify.contact")
	defer span.End()
	span.SetAttributes(attribute.String("sitefront.reply_to", data.Email))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notify: critical error sending contact email", "panic", fmt.Sprint(r))
			span.SetStatus(codes.Error, "panic")
			result = criticalResult(fmt.Errorf("%v", r))
		}
	}()

	if strings.TrimSpace(s.to) == "" {
		s.logger.Error("notify: EMAIL_TO is not configured")
		return EmailResult{Error: &EmailError{Message: "EMAIL_TO is not configured", Name: "configuration_error"}}
	}

	subject, err := s.renderer.Render("contact_subject", contactSubject, data)
	if err != nil {
		return criticalResult(err)
	}
	html, err := s.renderer.ContactNotification(templates.Contact{
		Name:      data.Name,
		Email:     data.Email,
		Phone:     data.Phone,
		PhoneHref: phoneHref(data.Phone),
		Subject:   data.Subject,
		Message:   data.Message,
		Date:      data.Date,
		Time:      data.Time,
		SentAt:    s.now().In(s.loc).Format(sentAtLayout),
	})
	if err != nil {
		return criticalResult(err)
	}

	id, err := s.dispatch(ctx, "contact", EmailMessage{
		From:    s.from,
		To:      s.to,
		ReplyTo: data.Email,
		Subject: subject,
		Body:    PlainText(html),
		HTML:    html,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		s.logger.Error("notify: contact email failed", "error", err)
		return failedResult(err)
	}

	s.sendAutoReplyQuietly(ctx, data.Email, data.Name)
	return EmailResult{Success: true, ID: id}
}

// SendAutoReply acknowledges a contact submission.
func (s *Service) SendAutoReply(ctx context.Context, to, name string) error {
	subject, err := s.renderer.Render("auto_reply_subject", autoReplySubject, s.renderer.Brand())
	if err != nil {
		return err
	}
	html, err := s.renderer.AutoReply(name)
	if err != nil {
		return err
	}
	_, err = s.dispatch(ctx, "auto_reply", EmailMessage{
		From:    s.from,
		To:      to,
		ToName:  name,
		Subject: subject,
		Body:    PlainText(html),
		HTML:    html,
	})
	return err
}

func (s *Service) sendAutoReplyQuietly(ctx context.Context, to, name string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notify: auto-reply panicked", "panic", fmt.Sprint(r), "to", to)
		}
	}()
	if err := s.SendAutoReply(ctx, to, name); err != nil {
		s.logger.Warn("notify: auto-reply failed", "error", err, "to", to)
	}
}

// SendNewsletterConfirmation welcomes a new subscriber. An empty name is
// addressed as "Subscriber".
func (s *Service) SendNewsletterConfirmation(ctx context.Context, email, name string) (result EmailResult) {
	ctx, span := mailTracer.Start(ctx, "notify.newsletter")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notify: critical error sending newsletter email", "panic", fmt.Sprint(r))
			result = criticalResult(fmt.Errorf("%v", r))
		}
	}()

	if strings.TrimSpace(name) == "" {
		name = "Subscriber"
	}
	subject, err := s.renderer.Render("newsletter_subject", newsletterSubject, s.renderer.Brand())
	if err != nil {
		return criticalResult(err)
	}
	html, err := s.renderer.NewsletterWelcome(name)
	if err != nil {
		return criticalResult(err)
	}
	id, err := s.dispatch(ctx, "newsletter", EmailMessage{
		From:    s.from,
		To:      email,
		ToName:  name,
		Subject: subject,
		Body:    PlainText(html),
		HTML:    html,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		s.logger.Error("notify: newsletter email failed", "error", err)
		return failedResult(err)
	}
	return EmailResult{Success: true, ID: id}
}

func (s *Service) dispatch(ctx context.Context, kind string, msg EmailMessage) (string, error) {
	start := time.Now()
	id, err := s.sender.Send(ctx, msg)
	s.metrics.ObserveEmail(kind, err == nil, time.Since(start).Seconds())
	return id, err
}

func failedResult(err error) EmailResult {
	if pe, ok := AsProviderError(err); ok {
		return EmailResult{Error: &EmailError{Message: pe.Message, Name: pe.Name}}
	}
	return EmailResult{Error: &EmailError{Message: err.Error(), Name: "Error"}}
}

func criticalResult(err error) EmailResult {
	msg := "Unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return EmailResult{Error: &EmailError{Message: msg, Type: ErrorTypeCritical}}
}

func phoneHref(raw string) string {
	if e164, ok := phone.E164(raw, phone.DefaultCountry); ok {
		return e164
	}
	return raw
}
