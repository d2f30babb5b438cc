package validation

import "encoding/json"

const nullMessage = "Expected string, received null"

// Presence records the top-level keys of a JSON request body. A key mapped to
// false was sent as null.
type Presence map[string]bool

// PresenceOf lists the keys of a JSON object. It returns nil when raw is not
// an object.
func PresenceOf(raw []byte) Presence {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	p := make(Presence, len(fields))
	for k, v := range fields {
		p[k] = string(v) != "null"
	}
	return p
}

type schema struct {
	required []string
	optional []string
}

var (
	contactSchema = schema{
		required: []string{"name", "email", "subject", "message"},
		optional: []string{"phone", "date", "time"},
	}
	newsletterSchema = schema{required: []string{"email"}, optional: []string{"name"}}
	bookingSchema    = schema{
		required: []string{"name", "email", "date", "time"},
		optional: []string{"phone", "message"},
	}
)

// emptyRule rejects an optional field that was sent as "".
type emptyRule struct {
	field   string
	value   string
	message string
}

// ContactRequest validates a decoded request body. Missing required keys
// report "Required" and null values report a type error.
func (val *Validator) ContactRequest(data *ContactFormData, p Presence) error {
	return p.apply(val.Contact(data), contactSchema)
}

// NewsletterRequest is ContactRequest for the newsletter signup. A name sent
// as "" still has to meet the minimum length.
func (val *Validator) NewsletterRequest(data *NewsletterData, p Presence) error {
	return p.apply(val.Newsletter(data), newsletterSchema,
		emptyRule{field: "name", value: data.Name, message: "Name must be at least 2 characters"})
}

// BookingRequest is ContactRequest for appointment requests.
func (val *Validator) BookingRequest(data *BookingData, p Presence) error {
	return p.apply(val.Booking(data), bookingSchema,
		emptyRule{field: "phone", value: data.Phone, message: "Please enter a valid phone number"})
}

func (p Presence) apply(err error, s schema, empties ...emptyRule) error {
	var errs Errors
	if err != nil {
		var ok bool
		if errs, ok = AsErrors(err); !ok {
			return err
		}
		errs = append(Errors(nil), errs...)
	}
	if p == nil {
		return err
	}
	for _, f := range s.required {
		switch sent, ok := p[f]; {
		case !ok:
			errs = errs.with(f, "Required")
		case !sent:
			errs = errs.with(f, nullMessage)
		}
	}
	for _, f := range s.optional {
		if sent, ok := p[f]; ok && !sent {
			errs = errs.with(f, nullMessage)
		}
	}
	for _, e := range empties {
		if p[e.field] && e.value == "" {
			errs = errs.with(e.field, e.message)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// with sets the message for field, replacing an earlier one.
func (e Errors) with(field, message string) Errors {
	for i := range e {
		if e[i].Field == field {
			e[i].Message = message
			return e
		}
	}
	return append(e, FieldError{Field: field, Message: message})
}
