package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain"
)

// ErrorCode is the machine-readable error code in API responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeNotFound           ErrorCode = "not_found"
	CodeRateLimited        ErrorCode = "rate_limited"
	CodeProviderError      ErrorCode = "provider_error"
	CodeModelOutputInvalid ErrorCode = "model_output_invalid"
	CodeProcessingFailed   ErrorCode = "processing_failed"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	validationHandler,
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
	sentinelHandler(domain.ErrSearchProviderError, http.StatusBadGateway, CodeProviderError),
	sentinelHandler(domain.ErrModelProviderError, http.StatusBadGateway, CodeProviderError),
	sentinelHandler(domain.ErrModelOutputInvalid, http.StatusBadGateway, CodeModelOutputInvalid),
	sentinelHandler(domain.ErrSearchNotConfigured, http.StatusServiceUnavailable, CodeProviderError),
	sentinelHandler(domain.ErrModelNotConfigured, http.StatusServiceUnavailable, CodeProviderError),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrRateLimited,
		domain.ErrSearchProviderError,
		domain.ErrSearchNotConfigured,
		domain.ErrModelProviderError,
		domain.ErrModelNotConfigured,
		domain.ErrModelOutputInvalid,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports the offending field of a ValidationError.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, verr.Field+" "+verr.Reason)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
