// Package apperr holds the error kinds every workflow maps to an HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the row changed underneath the caller; reloading and retrying may succeed.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition means the requested action is not available in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrAlreadyExists     = errors.New("already exists")
)

// ValidationError is an input problem caught before any write.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Invalid(code, message string) error {
	return ValidationError{Code: code, Message: message}
}
