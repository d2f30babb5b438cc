// Package calendly builds Calendly scheduling links, talks to the Calendly
// API, and processes Calendly webhooks.
package calendly

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wolfman30/sitefront/internal/embed"
	"github.com/wolfman30/sitefront/pkg/logging"
)

const (
	embedScriptURL    = "https://assets.calendly.com/assets/external/widget.js"
	embedStyleURL     = "https://assets.calendly.com/assets/external/widget.css"
	defaultAPIBaseURL = "https://api.calendly.com"
)

var (
	// ErrNotConfigured is returned when no scheduling URL is set.
	ErrNotConfigured = errors.New("Calendly URL is not configured")
	// ErrAPIKeyMissing is returned by API calls without an API key.
	ErrAPIKeyMissing = errors.New("Calendly API key is not configured")
)

// EmbedType selects how the widget is embedded.
type EmbedType string

const (
	EmbedInline      EmbedType = "Inline"
	EmbedPopupWidget EmbedType = "PopupWidget"
	EmbedPopupButton EmbedType = "PopupButton"
)

// Prefill fills invitee fields on the booking page.
type Prefill struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	// CustomAnswers maps question index ("1", "2", ...) to the answer.
	CustomAnswers map[string]string `json:"customAnswers,omitempty"`
}

// UTM carries campaign tracking parameters.
type UTM struct {
	Campaign string `json:"utmCampaign,omitempty"`
	Source   string `json:"utmSource,omitempty"`
	Medium   string `json:"utmMedium,omitempty"`
	Content  string `json:"utmContent,omitempty"`
	Term     string `json:"utmTerm,omitempty"`
}

// Config customises one scheduling link.
type Config struct {
	Prefill                *Prefill  `json:"prefill,omitempty"`
	UTM                    *UTM      `json:"utm,omitempty"`
	EmbedType              EmbedType `json:"embedType,omitempty"`
	HideEventTypeDetails   bool      `json:"hideEventTypeDetails,omitempty"`
	HideLandingPageDetails bool      `json:"hideLandingPageDetails,omitempty"`
	BackgroundColor        string    `json:"backgroundColor,omitempty"`
	TextColor              string    `json:"textColor,omitempty"`
	PrimaryColor           string    `json:"primaryColor,omitempty"`
}

// Options configures a Service.
type Options struct {
	// URL is the public scheduling page, e.g. https://calendly.com/acme/30min.
	URL        string
	APIKey     string
	APIBaseURL string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Service is the Calendly integration for one scheduling page.
type Service struct {
	baseURL    string
	apiKey     string
	apiBaseURL string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewService creates the service. A missing URL is logged and reported by
// IsConfigured; it is not an error.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = defaultAPIBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	s := &Service{
		baseURL:    strings.TrimSpace(opts.URL),
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiBaseURL: strings.TrimRight(opts.APIBaseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if s.baseURL == "" {
		s.logger.Warn("calendly: CALENDLY_URL not configured")
	}
	return s
}

// IsConfigured reports whether a scheduling URL is set.
func (s *Service) IsConfigured() bool {
	return s != nil && s.baseURL != ""
}

// EmbedScriptURL is the widget script.
func (s *Service) EmbedScriptURL() string { return embedScriptURL }

// EmbedStyleURL is the widget stylesheet.
func (s *Service) EmbedStyleURL() string { return embedStyleURL }

// Widget returns the head assets the embedded widget needs.
func Widget() []embed.Asset {
	return []embed.Asset{
		{Kind: embed.Script, URL: embedScriptURL},
		{Kind: embed.Stylesheet, URL: embedStyleURL},
	}
}

// SchedulingURL returns the scheduling page URL with cfg applied. Parameters
// are appended in a fixed order: prefill, custom answers (by key), UTM,
// display flags, then colours with the leading "#" removed.
func (s *Service) SchedulingURL(cfg *Config) (string, error) {
	if !s.IsConfigured() {
		return "", ErrNotConfigured
	}
	u, err := url.Parse(s.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &url.Error{Op: "parse", URL: s.baseURL, Err: errors.New("invalid Calendly URL")}
	}
	if u.Path == "" {
		u.Path = "/"
	}
	base := u.String()

	var p params
	if cfg != nil {
		if pre := cfg.Prefill; pre != nil {
			p.add("name", pre.Name)
			p.add("email", pre.Email)
			p.add("first_name", pre.FirstName)
			p.add("last_name", pre.LastName)
			keys := make([]string, 0, len(pre.CustomAnswers))
			for k := range pre.CustomAnswers {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				p.add("a"+k, pre.CustomAnswers[k])
			}
		}
		if utm := cfg.UTM; utm != nil {
			p.add("utm_campaign", utm.Campaign)
			p.add("utm_source", utm.Source)
			p.add("utm_medium", utm.Medium)
			p.add("utm_content", utm.Content)
			p.add("utm_term", utm.Term)
		}
		if cfg.HideEventTypeDetails {
			p.add("hide_event_type_details", "1")
		}
		if cfg.HideLandingPageDetails {
			p.add("hide_landing_page_details", "1")
		}
		p.add("background_color", stripHash(cfg.BackgroundColor))
		p.add("text_color", stripHash(cfg.TextColor))
		p.add("primary_color", stripHash(cfg.PrimaryColor))
	}

	if q := p.encode(); q != "" {
		return base + "?" + q, nil
	}
	return base, nil
}

func stripHash(color string) string {
	return strings.Replace(color, "#", "", 1)
}

type params []string

// add appends key=value, skipping empty values.
func (p *params) add(key, value string) {
	if value == "" {
		return
	}
	*p = append(*p, formEncode(key)+"="+formEncode(value))
}

func (p params) encode() string {
	return strings.Join(p, "&")
}

// formEncode applies the application/x-www-form-urlencoded byte serializer:
// spaces become "+", and everything but A-Z a-z 0-9 * - . _ is escaped.
func formEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '*', c == '-', c == '.', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
