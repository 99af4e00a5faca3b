package service

import (
	"errors"
	"fmt"
)

// Typed errors so the delivery layer can map them onto status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUser      = errors.New("username is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrForbidden          = errors.New("admin access required")
	ErrBackupDisabled     = errors.New("backups are not configured")
)

// ValidationError reports one bad input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
