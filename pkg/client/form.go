package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"HostelAPI/internal/validation"
)

// FormState is where a form is in its submit cycle
type FormState int

const (
	FormIdle FormState = iota
	FormValidating
	FormSubmitting
	FormSuccess
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormValidating:
		return "validating"
	case FormSubmitting:
		return "submitting"
	case FormSuccess:
		return "success"
	case FormError:
		return "error"
	}
	return "unknown"
}

// ErrFormBusy is returned when Submit is called while a submission is in flight
var ErrFormBusy = errors.New("form is already submitting")

// ErrFormInvalid is returned when client-side validation fails
var ErrFormInvalid = errors.New("form has invalid fields")

// Form drives one request payload through validation and submission.
// Values are checked with the same rules the server applies before anything is sent.
type Form[T any] struct {
	mu         sync.Mutex
	state      FormState
	initial    T
	values     T
	fields     map[string]string
	message    string
	submit     func(ctx context.Context, values T) error
	resetAfter time.Duration
	timer      *time.Timer
	onChange   func(FormState)
}

// FormOption configures a Form
type FormOption func(*formOptions)

type formOptions struct {
	resetAfter time.Duration
	onChange   func(FormState)
}

// WithAutoReset returns the form to idle d after a success or error
func WithAutoReset(d time.Duration) FormOption {
	return func(o *formOptions) { o.resetAfter = d }
}

// OnStateChange registers fn to be called after every transition
func OnStateChange(fn func(FormState)) FormOption {
	return func(o *formOptions) { o.onChange = fn }
}

// NewForm creates a form starting from initial. submit performs the request.
func NewForm[T any](initial T, submit func(ctx context.Context, values T) error, opts ...FormOption) *Form[T] {
	var o formOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Form[T]{
		state:      FormIdle,
		initial:    initial,
		values:     initial,
		submit:     submit,
		resetAfter: o.resetAfter,
		onChange:   o.onChange,
	}
}

// Edit changes the values. A finished form goes back to idle.
func (f *Form[T]) Edit(fn func(values *T)) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return
	}
	fn(&f.values)
	changed := f.state != FormIdle
	if changed {
		f.toIdleLocked()
	}
	f.mu.Unlock()

	if changed {
		f.notify(FormIdle)
	}
}

// Submit validates the values and, when they pass, sends them.
// Field errors keep the first message per field and the values are retained on any failure.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return ErrFormBusy
	}
	f.stopTimerLocked()
	f.state = FormValidating
	f.fields = nil
	f.message = ""
	values := f.values
	f.mu.Unlock()
	f.notify(FormValidating)

	if fields := validation.FieldErrors(&values); len(fields) > 0 {
		f.finish(FormError, fields, ErrFormInvalid.Error())
		return ErrFormInvalid
	}

	f.mu.Lock()
	f.state = FormSubmitting
	f.mu.Unlock()
	f.notify(FormSubmitting)

	if err := f.submit(ctx, values); err != nil {
		f.finish(FormError, nil, AsError(err).Message)
		return err
	}
	f.finish(FormSuccess, nil, "")
	return nil
}

func (f *Form[T]) finish(state FormState, fields map[string]string, message string) {
	f.mu.Lock()
	f.state = state
	f.fields = fields
	f.message = message
	if state == FormSuccess {
		f.values = f.initial
	}
	if f.resetAfter > 0 {
		f.timer = time.AfterFunc(f.resetAfter, f.autoReset)
	}
	f.mu.Unlock()
	f.notify(state)
}

func (f *Form[T]) autoReset() {
	f.mu.Lock()
	if f.state != FormSuccess && f.state != FormError {
		f.mu.Unlock()
		return
	}
	f.toIdleLocked()
	f.mu.Unlock()
	f.notify(FormIdle)
}

// Reset restores the initial values and returns to idle
func (f *Form[T]) Reset() {
	f.mu.Lock()
	f.values = f.initial
	f.toIdleLocked()
	f.mu.Unlock()
	f.notify(FormIdle)
}

// toIdleLocked keeps the values but drops the outcome of the last submit
func (f *Form[T]) toIdleLocked() {
	f.stopTimerLocked()
	f.state = FormIdle
	f.fields = nil
	f.message = ""
}

func (f *Form[T]) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *Form[T]) notify(state FormState) {
	if f.onChange != nil {
		f.onChange(state)
	}
}

func (f *Form[T]) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form[T]) Values() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// FieldError returns the message for one field, empty when it passed
func (f *Form[T]) FieldError(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[field]
}

func (f *Form[T]) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

// Message is the banner text of the last failure
func (f *Form[T]) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}
