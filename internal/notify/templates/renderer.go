package templates

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"
)

//go:embed *.html.tmpl
var files embed.FS

// Branding is the company identity stamped into every email.
type Branding struct {
	CompanyName    string
	CompanyLogo    string
	CompanyAddress string
	SupportEmail   string
	PrimaryColor   string
}

// WithDefaults fills unset branding values.
func (b Branding) WithDefaults() Branding {
	if strings.TrimSpace(b.CompanyName) == "" {
		b.CompanyName = "Your Company"
	}
	if strings.TrimSpace(b.PrimaryColor) == "" {
		b.PrimaryColor = "#3b82f6"
	}
	return b
}

// Contact carries the submitted fields for the internal notification.
// PhoneHref is the dialable form used in the tel: link; Phone is used when it
// is empty.
type Contact struct {
	Name      string
	Email     string
	Phone     string
	PhoneHref string
	Subject   string
	Message   string
	Date      string
	Time      string
	SentAt    string
}

type view struct {
	Contact
	Brand    Branding
	Title    string
	Heading  string
	Tagline  string
	HasPhone bool
}

// Renderer renders the site's email documents. User-controlled values are
// escaped with Sanitize inside the templates.
type Renderer struct {
	brand Branding
	set   *template.Template
}

// NewRenderer parses the embedded email templates.
func NewRenderer(brand Branding) (*Renderer, error) {
	set, err := template.New("email").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"sanitize": Sanitize,
			"darken":   func(color string) string { return AdjustColor(color, -20) },
		}).
		ParseFS(files, "*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("templates: parse: %w", err)
	}
	return &Renderer{brand: brand.WithDefaults(), set: set}, nil
}

// Brand returns the branding the renderer was built with.
func (r *Renderer) Brand() Branding {
	return r.brand
}

// ContactNotification renders the email sent to the site owner.
func (r *Renderer) ContactNotification(c Contact) (string, error) {
	if c.PhoneHref == "" {
		c.PhoneHref = c.Phone
	}
	return r.execute("contact.html.tmpl", view{
		Contact:  c,
		Brand:    r.brand,
		Title:    "New Contact",
		Heading:  "New Contact Received",
		Tagline:  "From your website contact form",
		HasPhone: strings.TrimSpace(c.Phone) != "",
	})
}

// AutoReply renders the acknowledgement sent to the submitter.
func (r *Renderer) AutoReply(name string) (string, error) {
	return r.execute("autoreply.html.tmpl", view{
		Contact: Contact{Name: name},
		Brand:   r.brand,
		Title:   "Thank You",
		Heading: "Thank You for Reaching Out!",
	})
}

// NewsletterWelcome renders the subscription confirmation.
func (r *Renderer) NewsletterWelcome(name string) (string, error) {
	return r.execute("newsletter.html.tmpl", view{
		Contact: Contact{Name: name},
		Brand:   r.brand,
		Title:   "Welcome",
		Heading: "Welcome to Our Newsletter! 🎉",
	})
}

func (r *Renderer) execute(name string, data view) (string, error) {
	var buf bytes.Buffer
	if err := r.set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("templates: execute %s: %w", name, err)
	}
	return buf.String(), nil
}

// Render compiles the provided template text with strict missing-key semantics.
// Used for subject lines.
func (Renderer) Render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("templates: template text required")
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("templates: parse: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: execute: %w", err)
	}
	return buf.String(), nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Sanitize escapes the five HTML metacharacters.
func Sanitize(s string) string {
	return htmlEscaper.Replace(s)
}

// AdjustColor shifts every channel of a #rrggbb colour by 2.55*percent,
// clamping to [0,255]. Negative percentages darken. Unparseable input is
// returned unchanged.
func AdjustColor(color string, percent float64) string {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")
	num, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return color
	}
	amt := int(math.Floor(2.55*percent + 0.5))
	r := clampChannel(int(num>>16) + amt)
	g := clampChannel(int(num>>8&0xff) + amt)
	b := clampChannel(int(num&0xff) + amt)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clampChannel(v int) int {
	switch {
	case v < 1:
		return 0
	case v > 255:
		return 255
	default:
		return v
	}
}
