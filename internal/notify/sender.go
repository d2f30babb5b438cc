package notify

import (
	"fmt"
	"strings"

	"github.com/wolfman30/sitefront/pkg/logging"
)

// SenderConfig selects and configures an email provider.
type SenderConfig struct {
	Provider  string // resend, sendgrid, ses, smtp or stub
	FromEmail string
	FromName  string
	Resend    ResendConfig
	SendGrid  SendGridConfig
	SMTP      SMTPConfig
}

// NewSender builds the configured EmailSender. ses is only required for the
// ses provider.
func NewSender(cfg SenderConfig, ses SESAPI, logger *logging.Logger) (EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "resend":
		rc := cfg.Resend
		if rc.FromEmail == "" {
			rc.FromEmail = cfg.FromEmail
		}
		return NewResendSender(rc, logger)
	case "sendgrid":
		sc := cfg.SendGrid
		if sc.FromEmail == "" {
			sc.FromEmail = cfg.FromEmail
		}
		if sc.FromName == "" {
			sc.FromName = cfg.FromName
		}
		sender := NewSendGridSender(sc, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: SENDGRID_API_KEY is not configured")
		}
		return sender, nil
	case "ses":
		sender := NewSESSender(ses, SESConfig{FromEmail: cfg.FromEmail, FromName: cfg.FromName}, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: SES client not configured")
		}
		return sender, nil
	case "smtp":
		mc := cfg.SMTP
		if mc.FromEmail == "" {
			mc.FromEmail = cfg.FromEmail
		}
		sender := NewSMTPSender(mc, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: SMTP_HOST is not configured")
		}
		return sender, nil
	case "", "stub":
		return NewStubEmailSender(logger), nil
	default:
		return nil, fmt.Errorf("notify: unknown email provider %q", cfg.Provider)
	}
}
