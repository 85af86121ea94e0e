package crud

import (
	"fmt"

	"HostelAPI/internal/validation"
)

// Workflow lists the status transitions a resource allows
type Workflow[S ~string] struct {
	field       string
	transitions map[S][]S
}

// NewWorkflow builds a workflow for the JSON field name (usually "status")
func NewWorkflow[S ~string](field string, transitions map[S][]S) Workflow[S] {
	return Workflow[S]{field: field, transitions: transitions}
}

// Allowed reports whether from may move to to. Staying put is always allowed.
func (w Workflow[S]) Allowed(from, to S) bool {
	if from == to {
		return true
	}
	for _, next := range w.transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the states reachable from from
func (w Workflow[S]) Next(from S) []S {
	return w.transitions[from]
}

// Terminal reports whether nothing can follow s
func (w Workflow[S]) Terminal(s S) bool {
	return len(w.transitions[s]) == 0
}

// Check returns a validation error for an illegal transition
func (w Workflow[S]) Check(from, to S) error {
	if w.Allowed(from, to) {
		return nil
	}
	return validation.NewError(fmt.Sprintf("%s cannot change from %s to %s", w.field, from, to))
}
