package hookmail

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hookmail/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingAPIToken is returned when no API token is provided.
	ErrMissingAPIToken = errors.New("API token is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrUnauthorized is returned when the API token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API token")

	// ErrAddressNotFound is returned when an address is not found.
	ErrAddressNotFound = errors.New("address not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidInput is returned when caller input fails validation before
	// any network call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResponseTooLarge is returned when a response exceeds the size cap.
	ErrResponseTooLarge = errors.New("response too large")

	// ErrMalformedResponse is returned when a response body fails JSON
	// parsing or payload validation.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrSignatureInvalid is returned when webhook signature verification fails.
	ErrSignatureInvalid = errors.New("signature verification failed")
)

// HookmailError is implemented by all SDK errors.
type HookmailError interface {
	error
	HookmailError() // marker method
}

// APIError represents an HTTP error from the Hookmail API.
type APIError struct {
	StatusCode int
	Message    string
	// Code is the machine-readable error code from the response body.
	Code string
	// Fields holds per-field messages from 422 validation responses.
	Fields map[string][]string
	// RetryAfter is the server-specified wait from a 429 response.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// HookmailError implements the HookmailError interface.
func (e *APIError) HookmailError() {}

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

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// HookmailError implements the HookmailError interface.
func (e *ValidationError) HookmailError() {}

// NetworkError represents a network-level failure.
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

// HookmailError implements the HookmailError interface.
func (e *NetworkError) HookmailError() {}

// TimeoutError represents a request that exceeded its deadline.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %v", e.URL, e.Timeout)
}

// HookmailError implements the HookmailError interface.
func (e *TimeoutError) HookmailError() {}

// ResponseTooLargeError indicates a response exceeded the configured size cap.
type ResponseTooLargeError struct {
	Limit    int64
	Declared int64
	Measured int64
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

// HookmailError implements the HookmailError interface.
func (e *ResponseTooLargeError) HookmailError() {}

// MalformedResponseError indicates a response body that failed JSON parsing
// or payload validation.
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

// HookmailError implements the HookmailError interface.
func (e *MalformedResponseError) HookmailError() {}

// wrapError converts internal transport errors to public errors so that
// errors.Is and errors.As work against the types in this package.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Code:       apiErr.Code,
			Fields:     apiErr.Fields,
			RetryAfter: apiErr.RetryAfter,
		}
	}

	var valErr *api.ValidationError
	if errors.As(err, &valErr) {
		return &ValidationError{Field: valErr.Field, Errors: valErr.Errors}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{Err: netErr.Err, URL: netErr.URL, Attempt: netErr.Attempt}
	}

	var timeoutErr *api.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &TimeoutError{URL: timeoutErr.URL, Timeout: timeoutErr.Timeout}
	}

	var sizeErr *api.ResponseTooLargeError
	if errors.As(err, &sizeErr) {
		return &ResponseTooLargeError{
			Limit:    sizeErr.Limit,
			Declared: sizeErr.Declared,
			Measured: sizeErr.Measured,
		}
	}

	var shapeErr *api.MalformedResponseError
	if errors.As(err, &shapeErr) {
		return &MalformedResponseError{Reason: shapeErr.Reason, Errors: shapeErr.Errors}
	}

	// Bare internal sentinels, e.g. a token check that came back negative
	// without an error status.
	if errors.Is(err, api.ErrUnauthorized) {
		return ErrUnauthorized
	}

	return err
}
