package hookmail

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hookmail/client-go/internal/api"
	"github.com/hookmail/client-go/internal/validate"
)

const (
	defaultBaseURL = api.DefaultBaseURL
	defaultTimeout = api.DefaultTimeout
)

// RetryConfig configures retry behavior for API calls.
type RetryConfig struct {
	// MaxRetries is the maximum number of retries; total tries are
	// MaxRetries+1. Default: 3.
	MaxRetries int `validate:"gte=0"`
	// BaseDelay is the delay before the first retry. Default: 100ms.
	BaseDelay time.Duration `validate:"gte=0"`
	// MaxDelay caps the backoff delay. Values above 30s are clamped.
	// Default: 5s.
	MaxDelay time.Duration `validate:"gte=0"`
	// Multiplier is the backoff growth factor. Default: 2.0.
	Multiplier float64 `validate:"omitempty,gte=1"`
}

// clientConfig holds configuration for the client. A config is validated as
// a whole before any client is constructed; there is no partially valid
// client.
type clientConfig struct {
	BaseURL         string `validate:"required"`
	AllowInsecure   bool
	Timeout         time.Duration `validate:"required"`
	MaxResponseSize int64         `validate:"gt=0"`
	UserAgent       string
	Retry           RetryConfig
	DebugLogging    bool
	LogOutput       io.Writer    `validate:"-"`
	HTTPClient      *http.Client `validate:"-"`
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// check validates the assembled configuration: struct-tag constraints
// first, then the URL and timeout validators that the transport also uses.
func (cfg *clientConfig) check() error {
	if err := configValidator.Struct(cfg); err != nil {
		return fmt.Errorf("invalid client configuration: %w", err)
	}
	if r := validate.BaseURL(cfg.BaseURL, cfg.AllowInsecure); !r.Valid {
		return &ValidationError{Field: "base URL", Errors: r.Errors}
	}
	if r := validate.Timeout(cfg.Timeout); !r.Valid {
		return &ValidationError{Field: "timeout", Errors: r.Errors}
	}
	return nil
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL. The URL must use https unless
// WithInsecureBaseURL is also given.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.BaseURL = url
	}
}

// WithInsecureBaseURL permits an http base URL. Intended for local
// development against a non-TLS server only.
func WithInsecureBaseURL() Option {
	return func(c *clientConfig) {
		c.AllowInsecure = true
	}
}

// WithTimeout sets the per-attempt request timeout. Must be between 1s and
// 60s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.Timeout = timeout
	}
}

// WithRetries sets the number of retries for API calls, keeping the default
// backoff parameters.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.Retry.MaxRetries = count
	}
}

// WithRetryConfig sets the full retry configuration.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *clientConfig) {
		c.Retry = cfg
	}
}

// WithMaxResponseSize sets the response body size cap in bytes.
// Default: 10 MiB.
func WithMaxResponseSize(n int64) Option {
	return func(c *clientConfig) {
		c.MaxResponseSize = n
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.HTTPClient = client
	}
}

// WithDebugLogging enables per-attempt transport logging. Secrets are
// redacted before emission.
func WithDebugLogging() Option {
	return func(c *clientConfig) {
		c.DebugLogging = true
	}
}

// WithLogOutput sets the destination for transport logs. Default: stderr.
func WithLogOutput(w io.Writer) Option {
	return func(c *clientConfig) {
		c.LogOutput = w
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.UserAgent = ua
	}
}
