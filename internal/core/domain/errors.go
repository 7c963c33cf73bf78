package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrUnknownStatus      = errors.New("unknown challenge status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeClosed    = errors.New("challenge is not accepting participants")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotAuthenticated   = errors.New("authentication required")
	ErrNotAdmin           = errors.New("not authorized as an admin")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrAlreadyJoined      = errors.New("join already in progress")
	ErrSolutionExists     = errors.New("solution already submitted for this challenge")
)

// ValidationError carries field-level messages back to the initiating form.
// It never implies a state change.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
