package validate

import (
	"fmt"
	"net/url"
	"strings"
)

// URLOpts configures URL validation.
type URLOpts struct {
	// AllowInsecure permits the http scheme for non-production targets.
	AllowInsecure bool
	// Required fails validation when the value is empty.
	Required bool
	// SkipBlocklist bypasses the SSRF blocklist. Only the base URL
	// validator sets this, and only in dev mode: a developer pointing the
	// client at a local server is not an SSRF vector, but a webhook URL
	// handed to the remote service always is.
	SkipBlocklist bool
}

// suspiciousFragments are substrings that indicate an attempted scheme
// smuggle or double-encoding. Best-effort heuristics, not guarantees.
var suspiciousFragments = []string{
	"%25", // double percent-encoding
	"javascript:",
	"data:",
	"file:",
}

// WebhookURL checks a webhook endpoint URL: parseability, scheme, length,
// and the SSRF blocklist.
func WebhookURL(value string, opts URLOpts) Result {
	return checkURL(value, "webhook URL", opts)
}

// BaseURL checks the client's configured API endpoint. A base URL is always
// required. In dev mode (allowInsecure) the SSRF blocklist is lifted so the
// client can target a local server.
func BaseURL(value string, allowInsecure bool) Result {
	return checkURL(value, "base URL", URLOpts{
		AllowInsecure: allowInsecure,
		Required:      true,
		SkipBlocklist: allowInsecure,
	})
}

func checkURL(value, field string, opts URLOpts) Result {
	if value == "" {
		if opts.Required {
			return invalid(fmt.Sprintf("%s is required", field))
		}
		return valid()
	}
	if len(value) > MaxURLLength {
		return invalid(fmt.Sprintf("%s exceeds maximum length of %d characters", field, MaxURLLength))
	}

	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return invalid(fmt.Sprintf("%s is not a valid URL", field))
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
	case "http":
		if !opts.AllowInsecure {
			return invalid(fmt.Sprintf("%s must use https", field))
		}
	default:
		return invalid(fmt.Sprintf("%s has unsupported scheme %q", field, u.Scheme))
	}

	if !opts.SkipBlocklist {
		if reason, blocked := DefaultBlocklist.Check(u.Hostname()); blocked {
			return invalid(fmt.Sprintf("%s: %s", field, reason))
		}
	}

	lower := strings.ToLower(value)
	for _, frag := range suspiciousFragments {
		// The scheme of the URL itself was checked above; look for schemes
		// and double-encoding smuggled into the path or query.
		if idx := strings.Index(lower, frag); idx > 0 {
			return invalid(fmt.Sprintf("%s contains suspicious pattern %q", field, frag))
		}
	}

	return valid()
}
