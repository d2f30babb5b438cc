package calendly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/sitefront/internal/embed"
)

func TestSchedulingURLRequiresConfiguration(t *testing.T) {
	svc := NewService(Options{})
	assert.False(t, svc.IsConfigured())
	_, err := svc.SchedulingURL(nil)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "Calendly URL is not configured", err.Error())
}

func TestSchedulingURLWithoutParams(t *testing.T) {
	svc := NewService(Options{URL: "https://calendly.com/acme/30min"})
	got, err := svc.SchedulingURL(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://calendly.com/acme/30min", got)

	got, err = svc.SchedulingURL(&Config{})
	require.NoError(t, err)
	assert.Equal(t, "https://calendly.com/acme/30min", got)
}

func TestSchedulingURLAddsTrailingSlashToBareHost(t *testing.T) {
	svc := NewService(Options{URL: "https://calendly.com"})
	got, err := svc.SchedulingURL(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://calendly.com/", got)
}

func TestSchedulingURLParameterOrder(t *testing.T) {
	svc := NewService(Options{URL: "https://calendly.com/acme/30min"})
	got, err := svc.SchedulingURL(&Config{
		Prefill: &Prefill{
			Name:          "Jane Doe",
			Email:         "jane@example.com",
			FirstName:     "Jane",
			LastName:      "Doe",
			CustomAnswers: map[string]string{"2": "Spanish", "1": "Botox & fillers"},
		},
		UTM:                    &UTM{Campaign: "spring", Source: "google", Medium: "cpc"},
		HideEventTypeDetails:   true,
		HideLandingPageDetails: true,
		BackgroundColor:        "#ffffff",
		TextColor:              "#111827",
		PrimaryColor:           "#3b82f6",
	})
	require.NoError(t, err)
	want := "https://calendly.com/acme/30min?name=Jane+Doe&email=jane%40example.com&first_name=Jane&last_name=Doe" +
		"&a1=Botox+%26+fillers&a2=Spanish&utm_campaign=spring&utm_source=google&utm_medium=cpc" +
		"&hide_event_type_details=1&hide_landing_page_details=1" +
		"&background_color=ffffff&text_color=111827&primary_color=3b82f6"
	assert.Equal(t, want, got)
}

func TestSchedulingURLOnlyStripsFirstHash(t *testing.T) {
	svc := NewService(Options{URL: "https://calendly.com/acme"})
	got, err := svc.SchedulingURL(&Config{PrimaryColor: "##abc"})
	require.NoError(t, err)
	assert.Equal(t, "https://calendly.com/acme?primary_color=%23abc", got)
}

func TestFormEncodeMatchesBrowserSerializer(t *testing.T) {
	assert.Equal(t, "a*b-c.d_e", formEncode("a*b-c.d_e"))
	assert.Equal(t, "%7E%21%27%28%29", formEncode("~!'()"))
	assert.Equal(t, "caf%C3%A9+ol%C3%A9", formEncode("café olé"))
}

func TestEmbedAssets(t *testing.T) {
	svc := NewService(Options{URL: "https://calendly.com/acme"})
	assert.Equal(t, "https://assets.calendly.com/assets/external/widget.js", svc.EmbedScriptURL())
	assert.Equal(t, "https://assets.calendly.com/assets/external/widget.css", svc.EmbedStyleURL())

	doc := embed.NewDocument()
	h := doc.Load(Widget()...)
	assert.Len(t, doc.Assets(), 2)
	h.Release()
	assert.Empty(t, doc.Assets())
}
