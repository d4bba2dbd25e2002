package practicelink

import "github.com/kailas-cloud/practicelink/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrRateLimited         = domain.ErrRateLimited
	ErrSearchNotConfigured = domain.ErrSearchNotConfigured
	ErrSearchProviderError = domain.ErrSearchProviderError
	ErrModelNotConfigured  = domain.ErrModelNotConfigured
	ErrModelProviderError  = domain.ErrModelProviderError
)
