package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceOf(t *testing.T) {
	p := PresenceOf([]byte(`{"email":"a@example.com","name":null}`))
	assert.Equal(t, Presence{"email": true, "name": false}, p)

	assert.Nil(t, PresenceOf([]byte(`[1,2]`)))
	assert.Nil(t, PresenceOf([]byte(`null`)))
}

func TestContactRequestReportsMissingKeys(t *testing.T) {
	v := New()
	data := ContactFormData{Email: "jane@example.com"}
	errs, ok := AsErrors(v.ContactRequest(&data, Presence{"email": true}))
	require.True(t, ok)
	assert.Equal(t, Errors{
		{Field: "name", Message: "Required"},
		{Field: "subject", Message: "Required"},
		{Field: "message", Message: "Required"},
	}, errs)
}

func TestContactRequestEmptyStringsKeepRuleMessages(t *testing.T) {
	v := New()
	data := ContactFormData{Email: "jane@example.com"}
	p := Presence{"name": true, "email": true, "subject": true, "message": true, "phone": true}
	errs, ok := AsErrors(v.ContactRequest(&data, p))
	require.True(t, ok)
	msg, _ := errs.Field("name")
	assert.Equal(t, "Name must be at least 2 characters", msg)
	_, hasPhone := errs.Field("phone")
	assert.False(t, hasPhone)
}

func TestNewsletterRequestRejectsEmptyName(t *testing.T) {
	v := New()

	data := NewsletterData{Email: "sub@example.com"}
	errs, ok := AsErrors(v.NewsletterRequest(&data, Presence{"email": true, "name": true}))
	require.True(t, ok)
	assert.Equal(t, Errors{{Field: "name", Message: "Name must be at least 2 characters"}}, errs)

	data = NewsletterData{Email: "sub@example.com"}
	require.NoError(t, v.NewsletterRequest(&data, Presence{"email": true}))

	data = NewsletterData{Email: "sub@example.com"}
	errs, ok = AsErrors(v.NewsletterRequest(&data, Presence{"email": true, "name": false}))
	require.True(t, ok)
	assert.Equal(t, Errors{{Field: "name", Message: nullMessage}}, errs)
}

func TestBookingRequestEmptyPhone(t *testing.T) {
	v := New()
	data := BookingData{Name: "Sam", Email: "sam@example.com", Date: "2026-12-01", Time: "09:30"}
	p := Presence{"name": true, "email": true, "date": true, "time": true, "phone": true}
	errs, ok := AsErrors(v.BookingRequest(&data, p))
	require.True(t, ok)
	assert.Equal(t, Errors{{Field: "phone", Message: "Please enter a valid phone number"}}, errs)
}

func TestRequestWithoutPresenceMatchesPlainValidation(t *testing.T) {
	v := New()
	data := NewsletterData{Email: "sub@example.com"}
	require.NoError(t, v.NewsletterRequest(&data, nil))
}
