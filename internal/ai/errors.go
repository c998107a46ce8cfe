package ai

import (
	"errors"
	"strings"
)

// ErrRateLimited is returned by Generate when the caller exceeded their quota.
var ErrRateLimited = errors.New("ai: rate limited")

// ErrorType categorizes backend failures for retry and logging decisions.
type ErrorType string

const (
	ErrAuth      ErrorType = "auth_error"   // 401/403, bad or missing key
	ErrRateLimit ErrorType = "rate_limit"   // 429 from the provider
	ErrServer    ErrorType = "server_error" // 5xx, provider down
	ErrTimeout   ErrorType = "timeout"      // context deadline exceeded
	ErrInvalid   ErrorType = "invalid_output"
	ErrUnknown   ErrorType = "unknown"
)

// BackendError wraps a backend failure with its classification.
type BackendError struct {
	Type      ErrorType
	Retryable bool
	Err       error
}

func (e *BackendError) Error() string { return string(e.Type) + ": " + e.Err.Error() }
func (e *BackendError) Unwrap() error { return e.Err }

// ClassifyError inspects a backend error and returns a typed BackendError.
func ClassifyError(err error) *BackendError {
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}
	raw := err.Error()

	switch {
	case containsAny(raw, "context deadline exceeded", "timeout"):
		return &BackendError{Type: ErrTimeout, Retryable: true, Err: err}
	case containsAny(raw, "401", "403", "unauthorized", "permission denied", "api key"):
		return &BackendError{Type: ErrAuth, Err: err}
	case containsAny(raw, "429", "rate limit", "too many requests", "resource_exhausted"):
		return &BackendError{Type: ErrRateLimit, Retryable: true, Err: err}
	case containsAny(raw, "500", "502", "503", "504", "server error", "internal error", "unavailable"):
		return &BackendError{Type: ErrServer, Retryable: true, Err: err}
	default:
		return &BackendError{Type: ErrUnknown, Err: err}
	}
}

func containsAny(s string, patterns ...string) bool {
	lower := strings.ToLower(s)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
