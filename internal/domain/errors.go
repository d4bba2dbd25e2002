package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing post.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a request that failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited signals a rate limit hit on an external provider.
	ErrRateLimited = errors.New("rate limited")

	// ErrSearchNotConfigured signals a missing search provider credential.
	ErrSearchNotConfigured = errors.New("search provider not configured")
	// ErrSearchProviderError signals a search provider failure.
	ErrSearchProviderError = errors.New("search provider error")

	// ErrModelNotConfigured signals a missing generative backend credential.
	ErrModelNotConfigured = errors.New("model provider not configured")
	// ErrModelProviderError signals a generative backend failure.
	ErrModelProviderError = errors.New("model provider error")
	// ErrModelOutputInvalid signals model output that does not match the expected schema.
	ErrModelOutputInvalid = errors.New("model output invalid")
)

// ValidationError wraps ErrInvalidInput with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError creates a field validation error.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
