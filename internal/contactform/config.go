package contactform

import (
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/sitefront/internal/validation"
)

// Placeholders are the input hints shown in empty fields.
type Placeholders struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// Config customises a contact form. Zero values fall back to DefaultConfig.
type Config struct {
	ShowPhone   bool
	ShowDate    bool
	ShowTime    bool
	ShowSubject bool

	SubmitButtonText string
	SuccessMessage   string
	ErrorMessage     string
	Placeholders     Placeholders
	TimeSlots        []string
	APIEndpoint      string

	SuccessResetDelay time.Duration
	ErrorResetDelay   time.Duration

	OnSuccess func(validation.ContactFormData)
	OnError   func(error)
}

// DefaultConfig is the stock form configuration.
func DefaultConfig() Config {
	return Config{
		ShowSubject:      true,
		SubmitButtonText: "Send Message",
		SuccessMessage:   "Message sent successfully! We'll get back to you soon.",
		ErrorMessage:     "Failed to send message. Please try again.",
		Placeholders: Placeholders{
			Name:    "Your Name",
			Email:   "your@email.com",
			Phone:   "+1 (555) 123-4567",
			Subject: "Subject",
			Message: "Your message...",
			Date:    "Select a date",
		},
		TimeSlots:         []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"},
		APIEndpoint:       "/api/contact",
		SuccessResetDelay: 5 * time.Second,
		ErrorResetDelay:   8 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SubmitButtonText == "" {
		c.SubmitButtonText = def.SubmitButtonText
	}
	if c.SuccessMessage == "" {
		c.SuccessMessage = def.SuccessMessage
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = def.ErrorMessage
	}
	if c.Placeholders == (Placeholders{}) {
		c.Placeholders = def.Placeholders
	}
	if len(c.TimeSlots) == 0 {
		c.TimeSlots = def.TimeSlots
	}
	if c.APIEndpoint == "" {
		c.APIEndpoint = def.APIEndpoint
	}
	if c.SuccessResetDelay <= 0 {
		c.SuccessResetDelay = def.SuccessResetDelay
	}
	if c.ErrorResetDelay <= 0 {
		c.ErrorResetDelay = def.ErrorResetDelay
	}
	return c
}

// TimeOption is one entry of the preferred-time select.
type TimeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TimeOptions pairs each configured slot with its display label.
func (c Config) TimeOptions() []TimeOption {
	slots := c.withDefaults().TimeSlots
	out := make([]TimeOption, 0, len(slots))
	for _, s := range slots {
		out = append(out, TimeOption{Value: s, Label: FormatTimeSlot(s)})
	}
	return out
}

// FormatTimeSlot renders a 24h "HH:MM" slot for display: afternoon hours
// become "1:00 PM", noon "12:00 PM", everything else keeps the slot with AM.
func FormatTimeSlot(slot string) string {
	hour, err := strconv.Atoi(strings.SplitN(slot, ":", 2)[0])
	switch {
	case err == nil && hour >= 13:
		return strconv.Itoa(hour-12) + ":00 PM"
	case err == nil && hour == 12:
		return slot + " PM"
	default:
		return slot + " AM"
	}
}
