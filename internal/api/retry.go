package api

import (
	"math"
	"math/rand"
	"time"
)

// Hard ceilings that apply regardless of configuration.
const (
	// maxDelayCeiling caps the configured MaxDelay.
	maxDelayCeiling = 30 * time.Second
	// maxRetryAfter caps a server-specified Retry-After wait.
	maxRetryAfter = 300 * time.Second
)

// RetryConfig configures retry behavior for failed HTTP requests.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts; total tries
	// are MaxRetries+1.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff delay. Clamped to 30s.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay grows per attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) added to delays
	// to prevent thundering herd.
	Jitter float64
	// RetryableOn determines whether a status code may be retried.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		Jitter:     0,
		RetryableOn: func(statusCode int) bool {
			// 401 means the token is wrong and 422 means the input is
			// wrong; neither changes between attempts.
			return statusCode != 401 && statusCode != 422
		},
	}
}

// normalize clamps the configuration to its hard limits and fills holes so
// that a partially specified config is still safe to run.
func (r *RetryConfig) normalize() {
	def := DefaultRetryConfig()
	if r.MaxRetries < 0 {
		r.MaxRetries = 0
	}
	if r.BaseDelay <= 0 {
		r.BaseDelay = def.BaseDelay
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = def.MaxDelay
	}
	if r.MaxDelay > maxDelayCeiling {
		r.MaxDelay = maxDelayCeiling
	}
	if r.Multiplier < 1 {
		r.Multiplier = def.Multiplier
	}
	if r.Jitter < 0 || r.Jitter > 1 {
		r.Jitter = 0
	}
	if r.RetryableOn == nil {
		r.RetryableOn = def.RetryableOn
	}
}

// Delay calculates the backoff delay before retry number attempt (1-based).
// The calculation is pure so it can be tested without timers.
func (r *RetryConfig) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt-1))
	if delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}

	if r.Jitter > 0 {
		jitterAmount := delay * r.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	return time.Duration(delay)
}

// ClampRetryAfter bounds a server-specified wait to the hard maximum.
func ClampRetryAfter(d time.Duration) time.Duration {
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	if d < 0 {
		return 0
	}
	return d
}
