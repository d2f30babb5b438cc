package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/sitefront/pkg/logging"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds configuration for a plain SMTP relay.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	Timeout   time.Duration
}

// SMTPSender sends emails through an SMTP relay.
type SMTPSender struct {
	cfg    SMTPConfig
	dial   func(msg *gomail.Message) error
	logger *logging.Logger
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) *SMTPSender {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPSender{
		cfg:    cfg,
		dial:   func(msg *gomail.Message) error { return dialer.DialAndSend(msg) },
		logger: logger,
	}
}

// Send delivers the message, giving up when ctx ends or the configured timeout passes.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if s == nil || s.dial == nil {
		return "", fmt.Errorf("notify: smtp sender not configured")
	}
	if err := validateMessage(msg); err != nil {
		return "", err
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.cfg.Host)
	m := buildSMTPMessage(fromOrDefault(msg, s.cfg.FromEmail), id, msg)

	done := make(chan error, 1)
	go func() {
		done <- s.dial(m)
	}()

	wait := s.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("smtp send failed", "error", err, "to", msg.To)
			return "", &ProviderError{Provider: "smtp", Name: "smtp_error", Message: err.Error(), Err: err}
		}
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", context.DeadlineExceeded
	}

	s.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject, "message_id", id)
	return id, nil
}

func buildSMTPMessage(from, id string, msg EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)

	switch {
	case msg.Body != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Body)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Body)
	}
	return m
}

var _ EmailSender = (*SMTPSender)(nil)
