package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(Branding{
		CompanyName:    "Acme & Co",
		CompanyAddress: "1 Main St",
		SupportEmail:   "help@acme.test",
		PrimaryColor:   "#3b82f6",
	})
	require.NoError(t, err)
	return r
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;", Sanitize(`<script>alert("x")</script>`))
	assert.Equal(t, "Tom &amp; Jerry&#039;s", Sanitize("Tom & Jerry's"))
	assert.Equal(t, "&amp;lt;", Sanitize("&lt;"))
}

func TestSanitizeLeavesNoMetacharacters(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		out := Sanitize(rapid.String().Draw(t, "input"))
		if strings.ContainsAny(out, `<>"'`) {
			t.Fatalf("unescaped metacharacter in %q", out)
		}
	})
}

func TestAdjustColor(t *testing.T) {
	tests := []struct {
		color   string
		percent float64
		want    string
	}{
		{"#3b82f6", -20, "#084fc3"},
		{"#000000", -20, "#000000"},
		{"#ffffff", 20, "#ffffff"},
		{"#808080", 10, "#9a9a9a"},
		{"3b82f6", -20, "#084fc3"},
		{"not-a-color", -20, "not-a-color"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AdjustColor(tt.color, tt.percent), tt.color)
	}
}

func TestContactNotificationEscapesUserInput(t *testing.T) {
	r := newTestRenderer(t)
	html, err := r.ContactNotification(Contact{
		Name:    "Eve",
		Email:   "eve@example.com",
		Subject: "Hello",
		Message: "<script>alert(1)</script>",
		SentAt:  "Friday, October 16, 2026 at 9:00 AM",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Acme &amp; Co")
	assert.Contains(t, html, "#084fc3")
	assert.Contains(t, html, "Sent: Friday, October 16, 2026 at 9:00 AM")
	assert.NotContains(t, html, "tel:")
}

func TestContactNotificationPhoneRow(t *testing.T) {
	r := newTestRenderer(t)
	html, err := r.ContactNotification(Contact{
		Name:      "Eve",
		Email:     "eve@example.com",
		Phone:     "(555) 123-4567",
		PhoneHref: "+15551234567",
		Subject:   "Hello",
		Message:   "A long enough message",
		Date:      "2026-11-02",
		Time:      "10:00",
	})
	require.NoError(t, err)
	assert.Contains(t, html, `href="tel:+15551234567"`)
	assert.Contains(t, html, "(555) 123-4567")
	assert.Contains(t, html, "2026-11-02 10:00")
}

func TestAutoReplyAndNewsletter(t *testing.T) {
	r := newTestRenderer(t)

	reply, err := r.AutoReply("O'Brien")
	require.NoError(t, err)
	assert.Contains(t, reply, "Hi <strong>O&#039;Brien</strong>")
	assert.Contains(t, reply, "mailto:help@acme.test")

	welcome, err := r.NewsletterWelcome("Subscriber")
	require.NoError(t, err)
	assert.Contains(t, welcome, "Welcome to Our Newsletter!")
	assert.Contains(t, welcome, "Hi <strong>Subscriber</strong>")
}

func TestBrandingDefaults(t *testing.T) {
	r, err := NewRenderer(Branding{})
	require.NoError(t, err)
	assert.Equal(t, "Your Company", r.Brand().CompanyName)
	assert.Equal(t, "#3b82f6", r.Brand().PrimaryColor)
}

func TestRenderSubject(t *testing.T) {
	var r Renderer
	out, err := r.Render("subject", "New Contact: {{.Name}} - {{.Subject}}", map[string]string{"Name": "Ann", "Subject": "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "New Contact: Ann - Hi", out)

	_, err = r.Render("subject", "{{.Missing}}", map[string]string{})
	require.Error(t, err)

	_, err = r.Render("subject", "", nil)
	require.Error(t, err)
}
