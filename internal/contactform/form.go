// Package contactform drives the contact form's submission lifecycle:
// idle, loading, then success or error, and back to idle after a delay.
package contactform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/sitefront/internal/datepicker"
	"github.com/wolfman30/sitefront/internal/validation"
	"github.com/wolfman30/sitefront/pkg/logging"
)

// Status is the lifecycle state of a form.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrSubmitting is returned while a submission is in flight; the submit
// control is disabled in that state.
var ErrSubmitting = errors.New("contactform: submission in progress")

// RejectedError is passed to OnError when the endpoint answers without success.
type RejectedError struct {
	StatusCode int
	Message    string
	Details    []validation.FieldError
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contactform: rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("contactform: rejected with status %d: %s", e.StatusCode, e.Message)
}

type stopper interface {
	Stop() bool
}

// Form holds one contact form's state.
type Form struct {
	mu        sync.Mutex
	cfg       Config
	validator *validation.Validator
	submitter Submitter
	calendar  *datepicker.Calendar
	logger    *logging.Logger
	afterFunc func(time.Duration, func()) stopper

	status      Status
	values      validation.ContactFormData
	fieldErrors validation.Errors
	lastErr     error
	reset       stopper
	generation  int
}

// Option customises a Form.
type Option func(*Form)

// WithCalendar attaches the preferred-date picker.
func WithCalendar(c *datepicker.Calendar) Option {
	return func(f *Form) { f.calendar = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Form) { f.logger = l }
}

// WithAfterFunc replaces time.AfterFunc for scheduling the return to idle.
func WithAfterFunc(fn func(time.Duration, func()) stopper) Option {
	return func(f *Form) { f.afterFunc = fn }
}

// New creates an idle form.
func New(cfg Config, v *validation.Validator, s Submitter, opts ...Option) *Form {
	if v == nil {
		v = validation.New()
	}
	f := &Form{
		cfg:       cfg.withDefaults(),
		validator: v,
		submitter: s,
		status:    StatusIdle,
		afterFunc: func(d time.Duration, fn func()) stopper { return time.AfterFunc(d, fn) },
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.Default()
	}
	if f.calendar == nil && f.cfg.ShowDate {
		f.calendar = datepicker.New(datepicker.Options{DisablePast: true, DisableSundays: true}, nil, nil)
	}
	return f
}

// Status returns the current lifecycle state.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	return f.Status() != StatusLoading
}

// Banner is the status message shown above the submit control.
func (f *Form) Banner() string {
	switch f.Status() {
	case StatusSuccess:
		return f.cfg.SuccessMessage
	case StatusError:
		return f.cfg.ErrorMessage
	default:
		return ""
	}
}

// ButtonText is the submit control label.
func (f *Form) ButtonText() string {
	if f.Status() == StatusLoading {
		return "Sending..."
	}
	return f.cfg.SubmitButtonText
}

// Values returns the current field values.
func (f *Form) Values() validation.ContactFormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// FieldErrors returns the inline errors of the last validation.
func (f *Form) FieldErrors() validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append(validation.Errors(nil), f.fieldErrors...)
}

// LastError returns the failure of the last submission, if any.
func (f *Form) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Calendar returns the attached date picker, if any.
func (f *Form) Calendar() *datepicker.Calendar {
	return f.calendar
}

// SelectDate picks a day in the attached picker and stores the ISO value in
// the date field.
func (f *Form) SelectDate(day int) (string, error) {
	if f.calendar == nil {
		return "", errors.New("contactform: no date picker attached")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	iso, err := f.calendar.Select(day)
	if err != nil {
		return "", err
	}
	f.values.Date = iso
	return iso, nil
}

// SetDate stores t as the preferred date without going through the picker.
func (f *Form) SetDate(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Date = t.Format(datepicker.ISOLayout)
}

// SetValues replaces the field values.
func (f *Form) SetValues(v validation.ContactFormData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
}

// Submit validates data and sends it. A validation failure returns
// validation.Errors without contacting the endpoint and leaves the status
// unchanged. Otherwise the form moves to loading, then to success or error,
// and schedules its return to idle. The returned error is the validation
// failure, ErrSubmitting, or the reason the submission failed.
func (f *Form) Submit(ctx context.Context, data validation.ContactFormData) (*Response, error) {
	f.mu.Lock()
	if f.status == StatusLoading {
		f.mu.Unlock()
		return nil, ErrSubmitting
	}
	if data.Date == "" {
		data.Date = f.values.Date
	}
	f.values = data
	if err := f.validator.Contact(&data); err != nil {
		errs, _ := validation.AsErrors(err)
		f.fieldErrors = errs
		f.mu.Unlock()
		return nil, err
	}
	f.fieldErrors = nil
	f.lastErr = nil
	f.cancelResetLocked()
	f.status = StatusLoading
	f.generation++
	gen := f.generation
	endpoint := f.cfg.APIEndpoint
	f.mu.Unlock()

	resp, err := f.submitter.Submit(ctx, endpoint, data)

	if err == nil && resp.OK() {
		f.mu.Lock()
		f.status = StatusSuccess
		f.values = validation.ContactFormData{}
		if f.calendar != nil {
			f.calendar.Clear()
		}
		f.scheduleResetLocked(gen, f.cfg.SuccessResetDelay)
		f.mu.Unlock()
		if f.cfg.OnSuccess != nil {
			f.cfg.OnSuccess(data)
		}
		return resp, nil
	}

	if err == nil && resp == nil {
		resp = &Response{}
	}
	if err == nil {
		rejected := &RejectedError{StatusCode: resp.StatusCode, Message: resp.Error, Details: resp.Details}
		err = rejected
	} else {
		f.logger.Error("contact form error", "error", err)
	}
	f.mu.Lock()
	f.status = StatusError
	f.lastErr = err
	f.scheduleResetLocked(gen, f.cfg.ErrorResetDelay)
	f.mu.Unlock()
	if f.cfg.OnError != nil {
		f.cfg.OnError(err)
	}
	return resp, err
}

func (f *Form) scheduleResetLocked(gen int, d time.Duration) {
	f.reset = f.afterFunc(d, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.generation == gen && f.status != StatusLoading {
			f.status = StatusIdle
			f.reset = nil
		}
	})
}

func (f *Form) cancelResetLocked() {
	if f.reset != nil {
		f.reset.Stop()
		f.reset = nil
	}
}

// Close cancels any pending return to idle.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelResetLocked()
}
