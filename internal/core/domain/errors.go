package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
	ErrReviewNotFound     = errors.New("review not found")
	// ErrAccountNotFound never reaches a client; Authenticate folds it into
	// ErrInvalidCredentials.
	ErrAccountNotFound = errors.New("account not found")
)

// ValidationError reports input the client has to fix.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// Conflict fields.
const (
	FieldSite  = "site"
	FieldEmail = "email"
)

// ConflictError reports a uniqueness violation on an account field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case FieldSite:
		return "Site name must be unique"
	case FieldEmail:
		return "Email must be unique"
	default:
		return fmt.Sprintf("%s must be unique", e.Field)
	}
}

// StoreError wraps a persistence failure. Message is safe to show to clients,
// Err is only logged.
type StoreError struct {
	Message string
	Err     error
}

func NewStoreError(msg string, err error) *StoreError {
	return &StoreError{Message: msg, Err: err}
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsClientError reports whether err belongs to the taxonomy that is rendered
// to clients as-is, as opposed to an internal failure.
func IsClientError(err error) bool {
	var (
		ve *ValidationError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		return true
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrReviewNotFound):
		return true
	}
	return false
}
