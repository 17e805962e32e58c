package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrDuplicateRequest = errors.New("duplicate request")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UpstreamFetchError wraps a failure to load one of the inputs of a report.
type UpstreamFetchError struct {
	Resource string
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Resource, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
