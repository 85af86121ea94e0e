package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is every failed call normalised to one shape
type Error struct {
	Message string
	Status  int
	Errors  []string
}

func (e *Error) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Errors, "; "))
	}
	return e.Message
}

// NotFound reports whether the server answered 404
func (e *Error) NotFound() bool { return e.Status == http.StatusNotFound }

// Unauthenticated means the caller should sign in again
func (e *Error) Unauthenticated() bool { return e.Status == http.StatusUnauthorized }

// Forbidden means the caller is signed in but lacks the role
func (e *Error) Forbidden() bool { return e.Status == http.StatusForbidden }

// AsError unwraps err into an *Error. Transport failures are wrapped with status 0.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Message: err.Error()}
}
