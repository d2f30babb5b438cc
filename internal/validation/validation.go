// Package validation enforces the shape of contact, newsletter and booking
// submissions and reports failures per field with user-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactFormData is the payload of the contact form.
type ContactFormData struct {
	Name    string `json:"name" validate:"min=2,max=50,personname"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,phonechars,phonedigits"`
	Subject string `json:"subject" validate:"min=5,max=100"`
	Message string `json:"message" validate:"min=10,max=1000"`
	Date    string `json:"date,omitempty" validate:"omitempty,isodate"`
	Time    string `json:"time,omitempty" validate:"omitempty,hhmm"`
}

// NewsletterData is the payload of the newsletter signup.
type NewsletterData struct {
	Email string `json:"email" validate:"required,email,max=100"`
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
}

// BookingData is an appointment request.
type BookingData struct {
	Name    string `json:"name" validate:"min=2,max=50"`
	Email   string `json:"email" validate:"email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,phonechars"`
	Date    string `json:"date" validate:"isodate"`
	Time    string `json:"time" validate:"hhmm"`
	Message string `json:"message,omitempty" validate:"omitempty,max=500"`
}

// FieldError describes one failing field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned when a payload fails validation.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for field, if any.
func (e Errors) Field(name string) (string, bool) {
	for _, fe := range e {
		if fe.Field == name {
			return fe.Message, true
		}
	}
	return "", false
}

// AsErrors unwraps err into field errors.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿñÑ\s'-]+$`)
	phonePattern      = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	isoDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern      = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Validator checks submissions. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the site's custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "personname", matches(personNamePattern))
	mustRegister(v, "phonechars", matches(phonePattern))
	mustRegister(v, "phonedigits", func(fl validator.FieldLevel) bool {
		return countDigits(fl.Field().String()) >= 10
	})
	mustRegister(v, "isodate", matches(isoDatePattern))
	mustRegister(v, "hhmm", matches(clockPattern))
	return &Validator{v: v}
}

// Contact normalises and validates a contact submission.
func (val *Validator) Contact(data *ContactFormData) error {
	data.Email = normalizeEmail(data.Email)
	return val.check(data)
}

// Newsletter normalises and validates a newsletter signup.
func (val *Validator) Newsletter(data *NewsletterData) error {
	data.Email = normalizeEmail(data.Email)
	return val.check(data)
}

// Booking normalises and validates an appointment request.
func (val *Validator) Booking(data *BookingData) error {
	data.Email = normalizeEmail(data.Email)
	return val.check(data)
}

func (val *Validator) check(payload any) error {
	err := val.v.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "personname":
		return "Name can only contain letters, spaces, hyphens and apostrophes"
	case "phonechars":
		return "Please enter a valid phone number"
	case "phonedigits":
		return "Phone number must be at least 10 digits"
	case "isodate":
		return "Date must be in YYYY-MM-DD format"
	case "hhmm":
		return "Time must be in HH:MM format"
	default:
		return label + " is invalid"
	}
}

var labels = map[string]string{
	"name":    "Name",
	"email":   "Email",
	"phone":   "Phone number",
	"subject": "Subject",
	"message": "Message",
	"date":    "Date",
	"time":    "Time",
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
