package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Limits applied by the validators.
const (
	// MaxIdentifierLength is the maximum accepted length for identifiers.
	MaxIdentifierLength = 64
	// MaxURLLength is the maximum accepted length for URLs.
	MaxURLLength = 2048
	// MaxHeaderValueLength is the maximum accepted length for header values.
	MaxHeaderValueLength = 8192
	// MinTimeout is the minimum accepted request timeout.
	MinTimeout = time.Second
	// MaxTimeout is the maximum accepted request timeout.
	MaxTimeout = 60 * time.Second
)

// Result is the outcome of a validation check.
type Result struct {
	Valid  bool
	Errors []string
}

func valid() Result {
	return Result{Valid: true}
}

func invalid(errs ...string) Result {
	return Result{Errors: errs}
}

// Identifier checks that value is a canonical RFC 4122 UUID in 8-4-4-4-12
// form. Case is ignored; braced, URN, and undashed forms are rejected.
func Identifier(value, field string) Result {
	if value == "" {
		return invalid(fmt.Sprintf("%s is required", field))
	}
	if len(value) > MaxIdentifierLength {
		return invalid(fmt.Sprintf("%s exceeds maximum length of %d characters", field, MaxIdentifierLength))
	}

	u, err := uuid.Parse(value)
	if err != nil {
		return invalid(fmt.Sprintf("%s is not a valid UUID", field))
	}
	// uuid.Parse also accepts braced, urn-prefixed, and undashed inputs;
	// require the canonical dashed rendering.
	if strings.ToLower(value) != u.String() {
		return invalid(fmt.Sprintf("%s is not in canonical UUID form", field))
	}
	if u.Variant() != uuid.RFC4122 {
		return invalid(fmt.Sprintf("%s has an invalid UUID variant", field))
	}
	if v := u.Version(); v < 1 || v > 5 {
		return invalid(fmt.Sprintf("%s has an unsupported UUID version", field))
	}
	return valid()
}

// HeaderValue checks a header value for length and injection characters.
// CR, LF, NUL and other control characters are rejected outright.
func HeaderValue(value, field string) Result {
	if len(value) > MaxHeaderValueLength {
		return invalid(fmt.Sprintf("%s exceeds maximum length of %d characters", field, MaxHeaderValueLength))
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return invalid(fmt.Sprintf("%s contains a control character", field))
		}
	}
	return valid()
}

// Timeout checks that a request timeout is within the accepted range.
func Timeout(d time.Duration) Result {
	if d < MinTimeout || d > MaxTimeout {
		return invalid(fmt.Sprintf("timeout must be between %v and %v, got %v", MinTimeout, MaxTimeout, d))
	}
	return valid()
}

// SanitizeString strips control characters, trims surrounding whitespace,
// and truncates to maxLength runes. It never fails.
func SanitizeString(s string, maxLength int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)
	if maxLength > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLength {
			cleaned = strings.TrimSpace(string(runes[:maxLength]))
		}
	}
	return cleaned
}
