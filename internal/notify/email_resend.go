package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/resend/resend-go/v3"
	"github.com/wolfman30/sitefront/pkg/logging"
)

// ResendSender sends emails through the Resend API.
type ResendSender struct {
	client    *resend.Client
	fromEmail string
	logger    *logging.Logger
}

// ResendConfig holds configuration for Resend.
type ResendConfig struct {
	APIKey    string
	FromEmail string
	// HTTPClient is optional; BaseURL overrides the API host (used by tests).
	HTTPClient *http.Client
	BaseURL    string
}

// NewResendSender creates a Resend sender. It returns an error when no API key
// is configured.
func NewResendSender(cfg ResendConfig, logger *logging.Logger) (*ResendSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("notify: RESEND_API_KEY is not configured")
	}
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := resend.NewCustomClient(httpClient, cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := client.BaseURL.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("notify: resend base url: %w", err)
		}
		client.BaseURL = u
	}
	return &ResendSender{client: client, fromEmail: cfg.FromEmail, logger: logger}, nil
}

// Send sends an email via Resend.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("notify: resend client not configured")
	}
	if err := validateMessage(msg); err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    fromOrDefault(msg, s.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		ReplyTo: msg.ReplyTo,
		Html:    msg.HTML,
		Text:    msg.Body,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error("resend send failed", "error", err, "to", msg.To)
		return "", resendError(err)
	}

	s.logger.Info("email sent via resend", "to", msg.To, "subject", msg.Subject, "message_id", sent.Id)
	return sent.Id, nil
}

func resendError(err error) *ProviderError {
	pe := &ProviderError{
		Provider: "resend",
		Name:     "application_error",
		Message:  strings.TrimSpace(strings.TrimPrefix(err.Error(), "[ERROR]:")),
		Err:      err,
	}
	var rateErr *resend.RateLimitError
	if errors.As(err, &rateErr) {
		pe.Name = "rate_limit_exceeded"
		pe.Message = rateErr.Message
	}
	return pe
}

var _ EmailSender = (*ResendSender)(nil)
