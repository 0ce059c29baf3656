package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common API errors that can be checked with errors.Is.
var (
	// ErrUnauthorized indicates the API token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API token")
	// ErrAddressNotFound indicates the requested address does not exist.
	ErrAddressNotFound = errors.New("address not found")
	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrResponseTooLarge indicates a response body exceeded the size cap.
	ErrResponseTooLarge = errors.New("response too large")
	// ErrMalformedResponse indicates a response body failed JSON validation.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError represents a non-2xx HTTP response from the Hookmail API.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	// Fields holds per-field validation messages from 422 responses.
	Fields map[string][]string
	// RetryAfter is the server-specified wait from a 429 response, zero
	// when the header was absent.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 404:
		return target == ErrAddressNotFound
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// ValidationError represents caller input rejected before any network call.
type ValidationError struct {
	Field  string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, strings.Join(e.Errors, "; "))
}

// NetworkError represents a transport-level failure (DNS, reset, TLS).
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an attempt that exceeded the request timeout.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Attempt int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %v", e.URL, e.Timeout)
}

// ResponseTooLargeError indicates the declared or measured response size
// exceeded the configured maximum.
type ResponseTooLargeError struct {
	Limit    int64
	Declared int64 // from Content-Length, zero when undeclared
	Measured int64 // bytes read before aborting, zero when pre-checked
}

func (e *ResponseTooLargeError) Error() string {
	if e.Declared > 0 {
		return fmt.Sprintf("declared response size %d exceeds limit %d", e.Declared, e.Limit)
	}
	return fmt.Sprintf("response exceeded limit of %d bytes mid-read", e.Limit)
}

// Is implements errors.Is for sentinel error matching.
func (e *ResponseTooLargeError) Is(target error) bool {
	return target == ErrResponseTooLarge
}

// MalformedResponseError indicates the response body failed JSON parsing or
// payload validation.
type MalformedResponseError struct {
	Reason string
	Errors []string
}

func (e *MalformedResponseError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("malformed response: %s", strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
