package api

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Request describes one logical API request. The transport never mutates a
// Request; the same value can be reused across calls.
type Request struct {
	// Method is one of GET, POST, PATCH, DELETE.
	Method string
	// Path is the URL path relative to the base URL.
	Path string
	// Query holds optional query parameters.
	Query url.Values
	// Body is a JSON-serializable value, or nil.
	Body any
	// Header holds optional extra headers. Protocol-identity headers
	// (Authorization, User-Agent, Host) cannot be overridden here.
	Header map[string]string
}

// Response describes one HTTP response. Header keys are stored lower-cased
// so lookups like "retry-after" are case-insensitive.
type Response struct {
	StatusCode int
	Status     string
	Header     map[string]string
	// RawBody is the full response body, bounded by the size cap.
	RawBody []byte
	// Body is the decoded JSON value when the response declared a JSON
	// content type, nil otherwise.
	Body any
}

// protectedHeaders are owned by the transport; caller overrides are dropped.
var protectedHeaders = []string{"Authorization", "User-Agent", "Host"}

func isProtectedHeader(name string) bool {
	for _, h := range protectedHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

// buildURL resolves the absolute request URL from the configured base URL,
// the request path, and its query parameters.
func (c *Client) buildURL(req *Request) string {
	u := strings.TrimSuffix(c.baseURL, "/") + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// setHeaders applies the fixed header set and merges caller headers,
// dropping any attempt to override a protected header.
func (c *Client) setHeaders(hreq *http.Request, extra map[string]string) {
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+c.apiToken)
	hreq.Header.Set("User-Agent", c.userAgent)

	for name, value := range extra {
		if isProtectedHeader(name) {
			c.logger.DroppedHeader(name)
			continue
		}
		hreq.Header.Set(name, value)
	}
}

// lowerHeaders flattens an http.Header into a lower-cased key map. Repeated
// headers keep their first value.
func lowerHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		key := strings.ToLower(name)
		if _, exists := out[key]; !exists {
			out[key] = values[0]
		}
	}
	return out
}

// readBounded reads the body, aborting the moment the running total exceeds
// limit. This guards against chunked responses with no declared length.
func readBounded(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &ResponseTooLargeError{Limit: limit, Measured: int64(len(data))}
	}
	return data, nil
}

// parseRetryAfter reads a Retry-After value in seconds. Unparseable or
// absent values yield zero.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func isJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}
