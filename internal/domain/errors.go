package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id does not resolve to a todo.
var ErrNotFound = errors.New("todo not found")

// ValidationError is a user-correctable input problem. Message is safe to
// return to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a *ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// StorageError wraps a failure of the backing medium. Its detail is for
// logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
