// Package securelog provides structured logging for the Hookmail client
// with secret redaction applied before emission. The transport reports
// attempts, results, and waits here as a side effect; nothing in this
// package ever influences control flow, and a nil *Logger is safe to call.
package securelog

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"time"
)

// Standard field keys used across the client's log records.
const (
	MethodKey  = "method"
	URLKey     = "url"
	StatusKey  = "status"
	AttemptKey = "attempt"
	DelayKey   = "delay_ms"
	ElapsedKey = "elapsed_ms"
	FieldKey   = "field"
	ErrorsKey  = "errors"
	HeaderKey  = "header"
	CauseKey   = "cause"
)

// redactionPatterns match secret material that must never reach a sink.
var redactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9_\-.]+`),
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|token|secret)(["\s:=]+)[a-zA-Z0-9_\-.]+`),
}

// Logger emits structured events about transport activity.
type Logger struct {
	sl *slog.Logger
}

// New creates a Logger writing to w (os.Stderr when nil). With debug set,
// per-attempt events are emitted; otherwise only warnings surface.
func New(debug bool, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{sl: slog.New(handler)}
}

// Attempt records the start of one transport attempt.
func (l *Logger) Attempt(method, rawURL string, attempt int) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Debug("request attempt",
		MethodKey, method,
		URLKey, Redact(rawURL),
		AttemptKey, attempt,
	)
}

// Result records the outcome of one transport attempt.
func (l *Logger) Result(method, rawURL string, status, attempt int, elapsed time.Duration) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Debug("request result",
		MethodKey, method,
		URLKey, Redact(rawURL),
		StatusKey, status,
		AttemptKey, attempt,
		ElapsedKey, elapsed.Milliseconds(),
	)
}

// RetryWait records a backoff sleep before the next attempt.
func (l *Logger) RetryWait(attempt int, delay time.Duration, cause string) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Debug("retrying after backoff",
		AttemptKey, attempt,
		DelayKey, delay.Milliseconds(),
		CauseKey, Redact(cause),
	)
}

// RateLimitWait records a server-directed rate limit sleep.
func (l *Logger) RateLimitWait(delay time.Duration) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Warn("rate limited, honoring Retry-After",
		DelayKey, delay.Milliseconds(),
	)
}

// ValidationFailure records rejected caller input.
func (l *Logger) ValidationFailure(field string, errs []string) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Warn("input validation failed",
		FieldKey, field,
		ErrorsKey, errs,
	)
}

// DroppedHeader records a caller-supplied header that the transport refused
// to forward because it owns that header.
func (l *Logger) DroppedHeader(name string) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Warn("dropped protected header override",
		HeaderKey, name,
	)
}

// Redact strips credentials and token-shaped material from s.
func Redact(s string) string {
	if u, err := url.Parse(s); err == nil && u.User != nil {
		u.User = url.User("REDACTED")
		s = u.String()
	}
	for _, p := range redactionPatterns {
		s = p.ReplaceAllString(s, "${1}${2}[REDACTED]")
	}
	return s
}
