package whatsapp

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLinkStripsNonDigitsAndEncodesSpaces(t *testing.T) {
	got := Link("+1 (809) 555-0100", "Hola! Quiero info")
	assert.Equal(t, "https://wa.me/18095550100?text=Hola!%20Quiero%20info", got)
}

func TestLinkEncodesReservedCharacters(t *testing.T) {
	got := Link("1", "a&b=c?d/é")
	assert.Equal(t, "https://wa.me/1?text=a%26b%3Dc%3Fd%2F%C3%A9", got)
}

func TestEncodeURIComponentRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		enc := EncodeURIComponent(s)
		assert.NotContains(t, enc, " ")
		assert.NotContains(t, enc, "+")
		dec, err := url.PathUnescape(enc)
		require.NoError(t, err)
		assert.Equal(t, s, dec)
	})
}

func TestDefaultButton(t *testing.T) {
	b := DefaultButton("18095550100")
	assert.Equal(t, DefaultMessage, b.Message)
	assert.Equal(t, BottomRight, b.Position)
	assert.True(t, b.ShowOnScroll)
	assert.Equal(t, 300, b.ScrollThreshold)
	assert.Equal(t, 3*time.Second, b.ShowAfterDelay)
	assert.Equal(t, Medium, b.Size)
	assert.Equal(t, "#25D366", b.Color)
	assert.Equal(t, "#22c55e", b.HoverColor)
	assert.True(t, b.PulseAnimation)
	assert.Equal(t, "Contact us on WhatsApp", b.AriaLabel)
	assert.Equal(t, 56, b.Diameter())
	assert.Equal(t, 32, b.IconSize())
	assert.Equal(t, "bottom:24px;right:24px", b.Offsets())
}

func TestHrefUsesDefaultMessage(t *testing.T) {
	b := ButtonConfig{PhoneNumber: "1-555-0100"}
	assert.Equal(t, "https://wa.me/15550100?text=Hello!%20I%20am%20interested%20in%20learning%20more.", b.Href())
}

func TestVisibility(t *testing.T) {
	scroll := DefaultButton("1")
	assert.False(t, scroll.Visible(0, time.Hour))
	assert.False(t, scroll.Visible(300, 0))
	assert.True(t, scroll.Visible(301, 0))

	delayed := scroll
	delayed.ShowOnScroll = false
	assert.False(t, delayed.Visible(1000, 2*time.Second))
	assert.True(t, delayed.Visible(0, 3*time.Second))

	always := ButtonConfig{}
	assert.True(t, always.Visible(0, 0))
}
