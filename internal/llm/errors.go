package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoAPIKey is returned when a provider that needs a credential has none.
	ErrNoAPIKey = errors.New("API key is not configured")
	// ErrRetriesExhausted wraps the last failure once the retry budget is spent.
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrEmptyResponse means the upstream answered 200 without usable content.
	ErrEmptyResponse = errors.New("upstream returned no content")
	// ErrImagesUnsupported is returned by providers without an image endpoint.
	ErrImagesUnsupported = errors.New("provider does not support image generation")
)

// StatusError is a non-success HTTP answer from an upstream API.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsTransient reports whether err is an upstream rate limit (429) or
// overload (503).
func IsTransient(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusTooManyRequests || se.StatusCode == http.StatusServiceUnavailable
}

// StatusCode extracts the upstream HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
