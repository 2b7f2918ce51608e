// Package apperrors defines the error taxonomy shared by services and handlers.
// Every error here is recoverable at the request boundary.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateEmail is returned when a create or update would collide on email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrWeakPassword is returned when a password fails the strength policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character (!_?^&+-=|)")
	// ErrPasswordMismatch is returned when a new password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords don't match")
	// ErrInvalidCredentials is returned on failed login or wrong current password.
	// Deliberately identical for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned when a deactivated account tries to log in.
	ErrAccountInactive = errors.New("user account is disabled")
	// ErrForbidden is returned when the permission evaluator denies an action.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNotFound is returned for unknown targets and for targets hidden by
	// the actor's visibility scope.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidRole is returned when a role value is outside the enumeration.
	ErrInvalidRole = errors.New("invalid role")
)

// ValidationError carries per-field validation messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
