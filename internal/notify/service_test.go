package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/sitefront/internal/notify/templates"
	"github.com/wolfman30/sitefront/internal/observability/metrics"
	"github.com/wolfman30/sitefront/internal/validation"
)

func newTestService(t *testing.T, sender EmailSender) *Service {
	t.Helper()
	svc, err := NewService(sender, ServiceConfig{
		From:     "site@example.com",
		To:       "owner@example.com",
		Branding: templates.Branding{CompanyName: "Acme"},
	}, metrics.NewSiteMetrics(prometheus.NewRegistry()), nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }
	return svc
}

func contactData() validation.ContactFormData {
	return validation.ContactFormData{
		Name:    "Ann Lee",
		Email:   "ann@example.com",
		Phone:   "(202) 555-0143",
		Subject: "Website",
		Message: "<script>alert(1)</script> please call",
	}
}

func TestSendContactEmailSendsNotificationAndAutoReply(t *testing.T) {
	capture := &CaptureSender{}
	svc := newTestService(t, capture)

	res := svc.SendContactEmail(context.Background(), contactData())
	require.True(t, res.Success)
	assert.Equal(t, "captured-1", res.ID)
	assert.Nil(t, res.Error)

	msgs := capture.Messages()
	require.Len(t, msgs, 2)

	notification := msgs[0]
	assert.Equal(t, "owner@example.com", notification.To)
	assert.Equal(t, "ann@example.com", notification.ReplyTo)
	assert.Equal(t, "site@example.com", notification.From)
	assert.Equal(t, "New Contact: Ann Lee - Website", notification.Subject)
	assert.Contains(t, notification.HTML, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, notification.HTML, "<script>")
	assert.Contains(t, notification.HTML, `href="tel:+12025550143"`)
	assert.Contains(t, notification.HTML, "Sent: Friday, October 16, 2026 at 9:30 AM")
	assert.NotEmpty(t, notification.Body)

	reply := msgs[1]
	assert.Equal(t, "ann@example.com", reply.To)
	assert.Equal(t, "Thank you for contacting Acme!", reply.Subject)
}

func TestSendContactEmailProviderFailure(t *testing.T) {
	capture := &CaptureSender{Fail: func(EmailMessage) error {
		return &ProviderError{Provider: "resend", Name: "validation_error", Message: "Invalid to"}
	}}
	svc := newTestService(t, capture)

	res := svc.SendContactEmail(context.Background(), contactData())
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, "Invalid to", res.Error.Message)
	assert.Equal(t, "validation_error", res.Error.Name)
	assert.Empty(t, capture.Messages())
}

func TestAutoReplyFailureDoesNotChangeResult(t *testing.T) {
	capture := &CaptureSender{Fail: func(msg EmailMessage) error {
		if strings.HasPrefix(msg.Subject, "Thank you") {
			return errors.New("mailbox full")
		}
		return nil
	}}
	svc := newTestService(t, capture)

	res := svc.SendContactEmail(context.Background(), contactData())
	assert.True(t, res.Success)
	assert.Equal(t, "captured-1", res.ID)
}

func TestAutoReplyPanicDoesNotChangeResult(t *testing.T) {
	capture := &CaptureSender{Fail: func(msg EmailMessage) error {
		if strings.HasPrefix(msg.Subject, "Thank you") {
			panic("provider client exploded")
		}
		return nil
	}}
	svc := newTestService(t, capture)

	res := svc.SendContactEmail(context.Background(), contactData())
	assert.True(t, res.Success)
}

func TestSendContactEmailCriticalError(t *testing.T) {
	capture := &CaptureSender{Fail: func(EmailMessage) error { panic("nil client") }}
	svc := newTestService(t, capture)

	res := svc.SendContactEmail(context.Background(), contactData())
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, ErrorTypeCritical, res.Error.Type)
	assert.Equal(t, "nil client", res.Error.Message)
}

func TestSendContactEmailRequiresRecipient(t *testing.T) {
	svc, err := NewService(&CaptureSender{}, ServiceConfig{}, nil, nil)
	require.NoError(t, err)

	res := svc.SendContactEmail(context.Background(), contactData())
	assert.False(t, res.Success)
	assert.Equal(t, "EMAIL_TO is not configured", res.Error.Message)
}

func TestSendNewsletterConfirmation(t *testing.T) {
	capture := &CaptureSender{}
	svc := newTestService(t, capture)

	res := svc.SendNewsletterConfirmation(context.Background(), "sub@example.com", "")
	require.True(t, res.Success)

	msgs := capture.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Welcome to Acme Newsletter!", msgs[0].Subject)
	assert.Contains(t, msgs[0].HTML, "Hi <strong>Subscriber</strong>")
	assert.Equal(t, "onboarding@resend.dev", defaultFromFor(t))
}

func TestSendNewsletterConfirmationFailure(t *testing.T) {
	svc := newTestService(t, &CaptureSender{Fail: func(EmailMessage) error { return errors.New("down") }})
	res := svc.SendNewsletterConfirmation(context.Background(), "sub@example.com", "Sam")
	assert.False(t, res.Success)
	assert.Equal(t, "down", res.Error.Message)
}

func TestNewServiceRequiresSender(t *testing.T) {
	_, err := NewService(nil, ServiceConfig{}, nil, nil)
	assert.Error(t, err)
}

func defaultFromFor(t *testing.T) string {
	t.Helper()
	svc, err := NewService(&CaptureSender{}, ServiceConfig{}, nil, nil)
	require.NoError(t, err)
	return svc.from
}
