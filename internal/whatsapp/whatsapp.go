// Package whatsapp builds wa.me deep links and the floating chat button.
package whatsapp

import (
	"strings"
	"time"
)

// DefaultMessage is the prefilled chat text when none is configured.
const DefaultMessage = "Hello! I am interested in learning more."

// Link returns the wa.me URL for phone with message prefilled. Every
// non-digit is stripped from phone.
func Link(phone, message string) string {
	return "https://wa.me/" + digits(phone) + "?text=" + EncodeURIComponent(message)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EncodeURIComponent percent-encodes s the way browsers encode query
// components: spaces become %20 and only A-Z a-z 0-9 - _ . ! ~ * ' ( ) pass
// through unchanged.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// Position is the screen corner the button is pinned to.
type Position string

const (
	BottomRight Position = "bottom-right"
	BottomLeft  Position = "bottom-left"
	TopRight    Position = "top-right"
	TopLeft     Position = "top-left"
)

// Size is the button diameter class.
type Size string

const (
	Small  Size = "sm"
	Medium Size = "md"
	Large  Size = "lg"
)

// ButtonConfig describes the floating WhatsApp button.
type ButtonConfig struct {
	PhoneNumber     string
	Message         string
	Position        Position
	ShowOnScroll    bool
	ScrollThreshold int
	ShowAfterDelay  time.Duration
	Size            Size
	Color           string
	HoverColor      string
	PulseAnimation  bool
	AriaLabel       string
}

// DefaultButton returns the stock button for phone.
func DefaultButton(phone string) ButtonConfig {
	return ButtonConfig{
		PhoneNumber:     phone,
		Message:         DefaultMessage,
		Position:        BottomRight,
		ShowOnScroll:    true,
		ScrollThreshold: 300,
		ShowAfterDelay:  3 * time.Second,
		Size:            Medium,
		Color:           "#25D366",
		HoverColor:      "#22c55e",
		PulseAnimation:  true,
		AriaLabel:       "Contact us on WhatsApp",
	}
}

// WithDefaults fills empty string fields from DefaultButton. Booleans and
// numbers are taken as given.
func (c ButtonConfig) WithDefaults() ButtonConfig {
	def := DefaultButton(c.PhoneNumber)
	if c.Message == "" {
		c.Message = def.Message
	}
	if c.Position == "" {
		c.Position = def.Position
	}
	if c.Size == "" {
		c.Size = def.Size
	}
	if c.Color == "" {
		c.Color = def.Color
	}
	if c.HoverColor == "" {
		c.HoverColor = def.HoverColor
	}
	if c.AriaLabel == "" {
		c.AriaLabel = def.AriaLabel
	}
	return c
}

// Href is the button's link target.
func (c ButtonConfig) Href() string {
	return Link(c.PhoneNumber, c.WithDefaults().Message)
}

// Visible reports whether the button shows after the page has been scrolled
// to scrollY and sinceMount has elapsed. With ShowOnScroll the scroll
// position alone decides; otherwise the delay does.
func (c ButtonConfig) Visible(scrollY float64, sinceMount time.Duration) bool {
	if c.ShowOnScroll {
		return scrollY > float64(c.ScrollThreshold)
	}
	if c.ShowAfterDelay > 0 {
		return sinceMount >= c.ShowAfterDelay
	}
	return true
}

// Diameter is the button size in pixels.
func (c ButtonConfig) Diameter() int {
	switch c.Size {
	case Small:
		return 48
	case Large:
		return 64
	default:
		return 56
	}
}

// IconSize is the icon size in pixels.
func (c ButtonConfig) IconSize() int {
	switch c.Size {
	case Small:
		return 24
	case Large:
		return 40
	default:
		return 32
	}
}

// Offsets returns the CSS inset declarations for the configured corner.
func (c ButtonConfig) Offsets() string {
	switch c.Position {
	case BottomLeft:
		return "bottom:24px;left:24px"
	case TopRight:
		return "top:24px;right:24px"
	case TopLeft:
		return "top:24px;left:24px"
	default:
		return "bottom:24px;right:24px"
	}
}
