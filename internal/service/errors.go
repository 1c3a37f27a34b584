package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrRequestNotFound = fmt.Errorf("request %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrAlertNotFound   = fmt.Errorf("alert %w", ErrNotFound)

	ErrForbidden         = errors.New("forbidden")
	ErrNotTutor          = errors.New("user is not a tutor")
	ErrSelfRequest       = errors.New("cannot request a session with yourself")
	ErrSelfMessage       = errors.New("cannot message yourself")
	ErrInPast            = errors.New("start time is in the past")
	ErrSessionConflict   = errors.New("session overlaps another scheduled session")
	ErrSessionNotStarted = errors.New("session has not started yet")
	ErrSessionStarted    = errors.New("session has already started")
	ErrSessionCancelled  = errors.New("session is cancelled")
	ErrNotCompleted      = errors.New("session is not completed")
	ErrAlreadyReviewed   = errors.New("session already has a review")
	ErrAlreadyRegistered = errors.New("user already registered")

	ErrInvalidTransition = model.ErrInvalidTransition
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(flds ...FieldError) error {
	return &ValidationError{Fields: flds}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err carries field errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
