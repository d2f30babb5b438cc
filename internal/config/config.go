package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	Env           string `env:"ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	SiteURL       string `env:"SITE_URL"`
	BookPageTitle string `env:"BOOK_PAGE_TITLE" envDefault:"Book a consultation"`

	// Email delivery
	EmailProvider    string `env:"EMAIL_PROVIDER"`
	EmailFrom        string `env:"EMAIL_FROM" envDefault:"onboarding@resend.dev"`
	EmailTo          string `env:"EMAIL_TO"`
	ResendAPIKey     string `env:"RESEND_API_KEY"`
	SendGridAPIKey   string `env:"SENDGRID_API_KEY"`
	SendGridFromName string `env:"SENDGRID_FROM_NAME"`
	SMTPHost         string `env:"SMTP_HOST"`
	SMTPPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername     string `env:"SMTP_USERNAME"`
	SMTPPassword     string `env:"SMTP_PASSWORD"`

	// Branding used by the email templates
	CompanyName    string `env:"COMPANY_NAME" envDefault:"Your Company"`
	CompanyLogo    string `env:"COMPANY_LOGO"`
	CompanyAddress string `env:"COMPANY_ADDRESS"`
	SupportEmail   string `env:"SUPPORT_EMAIL"`
	PrimaryColor   string `env:"PRIMARY_COLOR" envDefault:"#3b82f6"`

	// Calendly
	CalendlyURL               string `env:"CALENDLY_URL"`
	CalendlyAPIKey            string `env:"CALENDLY_API_KEY"`
	CalendlyWebhookSigningKey string `env:"CALENDLY_WEBHOOK_SIGNING_KEY"`
	CalendlyEventsQueueURL    string `env:"CALENDLY_EVENTS_QUEUE_URL"`

	// WhatsApp floating button
	WhatsAppNumber  string `env:"WHATSAPP_NUMBER"`
	WhatsAppMessage string `env:"WHATSAPP_MESSAGE"`

	// AWS (SES sender, booking event queue)
	AWSRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID      string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpointOverride string `env:"AWS_ENDPOINT_OVERRIDE"`

	// Submission rate limiting
	TrustProxyHeaders bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisTLS          bool          `env:"REDIS_TLS" envDefault:"false"`
	RateLimitRPS      float64       `env:"RATE_LIMIT_RPS" envDefault:"0.2"`
	RateLimitBurst    int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	locations := []string{".env"}
	if name := strings.TrimSpace(os.Getenv("ENV")); name != "" {
		locations = append([]string{".env." + name}, locations...)
	}
	for _, loc := range locations {
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	cfg.EmailProvider = strings.ToLower(strings.TrimSpace(cfg.EmailProvider))
	if cfg.EmailProvider == "" {
		cfg.EmailProvider = "stub"
		if cfg.ResendAPIKey != "" {
			cfg.EmailProvider = "resend"
		}
	}
	// Older deployments set the branding name under the public site prefix.
	if v := os.Getenv("NEXT_PUBLIC_COMPANY_NAME"); v != "" && os.Getenv("COMPANY_NAME") == "" {
		cfg.CompanyName = v
	}
	return cfg, nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AllowedOrigin is the CORS origin for /api routes.
func (c *Config) AllowedOrigin() string {
	if c.IsProduction() && strings.TrimSpace(c.SiteURL) != "" {
		return strings.TrimRight(c.SiteURL, "/")
	}
	return "*"
}
