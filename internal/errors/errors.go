package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common error types for the dailymood client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRefreshFailed      = errors.New("token refresh failed")
	ErrNoToken            = errors.New("no stored token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUsernameTaken      = errors.New("username already exists")

	// API errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrServer   = errors.New("server error")

	// Form errors
	ErrTerminalStep   = errors.New("already at the last step")
	ErrNotTerminal    = errors.New("submit is only available at the last step")
	ErrUnknownAdvisor = errors.New("unknown advisor")
)

// ValidationError is a field-level failure raised by the daily form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthError marks a failure that must drop the session back to anonymous.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Wrapf annotates err with a formatted message. A nil err stays nil.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
