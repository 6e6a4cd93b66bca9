package task

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound is returned when no task with the given id exists.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAccessDenied is returned when the task exists but belongs to a
	// different owner than the requesting principal.
	ErrAccessDenied = errors.New("task access denied")
)

// ValidationError reports a field constraint violation. It names the
// offending field so the transport layer can surface it.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %q: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
