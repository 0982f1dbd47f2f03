package domain

import "fmt"

// ValidationError marks bad caller input (domain, query, period). The
// dispatcher converts it into the invalid_domain / invalid_query envelope.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// UpstreamErrorKind classifies upstream transport failures
type UpstreamErrorKind string

const (
	UpstreamKindHTTP    UpstreamErrorKind = "http"
	UpstreamKindTimeout UpstreamErrorKind = "timeout"
	UpstreamKindNetwork UpstreamErrorKind = "network"
)

// UpstreamError is any failure talking to or interpreting the
// transparency API. Status is only set for kind "http".
type UpstreamError struct {
	Kind    UpstreamErrorKind
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream %s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %s error: %s", e.Kind, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the retry policy may re-issue the request:
// timeouts, network errors, HTTP 429 and HTTP 5xx.
func (e *UpstreamError) Retryable() bool {
	switch e.Kind {
	case UpstreamKindTimeout, UpstreamKindNetwork:
		return true
	case UpstreamKindHTTP:
		return e.Status == 429 || e.Status >= 500
	}
	return false
}
