// Package crud implements the resource pattern shared by every v0 resource:
// a typed store, a gin handler over it and the status workflows that guard updates.
package crud

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would break a uniqueness rule
	ErrConflict = errors.New("conflict")
)

type conflictError struct {
	msg string
}

func (e *conflictError) Error() string        { return e.msg }
func (e *conflictError) Is(target error) bool { return target == ErrConflict }

// Conflict returns an error matching ErrConflict that carries a client-facing message
func Conflict(msg string) error {
	return &conflictError{msg: msg}
}

// ListOptions narrows List. Zero values mean no filter.
type ListOptions struct {
	OwnerID string
	Status  string
}

// Store is the persistence contract of a resource with record type T,
// create payload C and partial update payload P.
type Store[T any, C any, P any] interface {
	// List returns matching records, newest first
	List(ctx context.Context, opts ListOptions) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	// Create stamps actorID as the owner or author and validates before writing
	Create(ctx context.Context, actorID string, in C) (*T, error)
	// Update merges in into the stored record, validates the result, then writes it
	Update(ctx context.Context, id, actorID string, in P) (*T, error)
	Delete(ctx context.Context, id string) error
}
