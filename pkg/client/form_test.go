package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"HostelAPI/internal/v0/complaints"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormRejectsInvalidValuesWithoutSubmitting(t *testing.T) {
	called := false
	form := NewForm(complaints.CreateComplaintRequest{}, func(context.Context, complaints.CreateComplaintRequest) error {
		called = true
		return nil
	})

	form.Edit(func(v *complaints.CreateComplaintRequest) {
		v.Title = "Tap"
		v.Category = "noise"
	})
	err := form.Submit(context.Background())

	assert.ErrorIs(t, err, ErrFormInvalid)
	assert.False(t, called)
	assert.Equal(t, FormError, form.State())
	assert.Equal(t, "title must be at least 5 characters", form.FieldError("title"))
	assert.Equal(t, "description is required", form.FieldError("description"))
	assert.Contains(t, form.FieldError("category"), "must be one of")
	assert.Empty(t, form.FieldError("priority"))
	assert.Equal(t, "Tap", form.Values().Title, "values are retained")

	form.Edit(func(v *complaints.CreateComplaintRequest) { v.Title = "Tap leaking" })
	assert.Equal(t, FormIdle, form.State())
	assert.Empty(t, form.FieldErrors())
}

func TestFormSubmitSuccess(t *testing.T) {
	var (
		mu     sync.Mutex
		states []FormState
		sent   complaints.CreateComplaintRequest
	)
	form := NewForm(complaints.CreateComplaintRequest{}, func(_ context.Context, v complaints.CreateComplaintRequest) error {
		sent = v
		return nil
	}, WithAutoReset(20*time.Millisecond), OnStateChange(func(s FormState) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}))

	form.Edit(func(v *complaints.CreateComplaintRequest) { *v = validComplaint() })
	require.NoError(t, form.Submit(context.Background()))

	assert.Equal(t, FormSuccess, form.State())
	assert.Equal(t, "Broken window", sent.Title)
	assert.Empty(t, form.Values().Title, "a successful submit clears the fields")

	require.Eventually(t, func() bool { return form.State() == FormIdle }, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []FormState{FormValidating, FormSubmitting, FormSuccess, FormIdle}, states)
}

func TestFormSubmitFailureKeepsValues(t *testing.T) {
	form := NewForm(validComplaint(), func(context.Context, complaints.CreateComplaintRequest) error {
		return &Error{Message: "internal server error", Status: http.StatusInternalServerError}
	})

	err := form.Submit(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, FormError, form.State())
	assert.Equal(t, "internal server error", form.Message())
	assert.Equal(t, "Broken window", form.Values().Title)

	form.Reset()
	assert.Equal(t, FormIdle, form.State())
	assert.Empty(t, form.Message())
}

func TestFormRejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	form := NewForm(validComplaint(), func(context.Context, complaints.CreateComplaintRequest) error {
		close(started)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	<-started

	assert.Equal(t, FormSubmitting, form.State())
	assert.ErrorIs(t, form.Submit(context.Background()), ErrFormBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestFormStateString(t *testing.T) {
	assert.Equal(t, "submitting", FormSubmitting.String())
	assert.Equal(t, "unknown", FormState(42).String())
}
