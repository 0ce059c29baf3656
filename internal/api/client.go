package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hookmail/client-go/internal/securelog"
	"github.com/hookmail/client-go/internal/validate"
)

// Defaults applied when the corresponding option is not given.
const (
	DefaultBaseURL         = "https://api.hookmail.io"
	DefaultTimeout         = 30 * time.Second
	DefaultMaxResponseSize = 10 << 20 // 10 MiB
	defaultUserAgent       = "hookmail-client-go/1.0"
)

// SleepFunc suspends until the delay elapses or ctx is cancelled. Tests
// substitute a deterministic implementation to avoid real-time waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

func realSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client is the HTTP transport for the Hookmail API. It owns URL and header
// construction, the per-attempt timeout, response-size bounding, JSON
// validation, status classification, and the retry loop. Configuration is
// read-only after New, so a Client is safe for concurrent use.
type Client struct {
	baseURL         string
	apiToken        string
	userAgent       string
	httpClient      *http.Client
	retry           *RetryConfig
	timeout         time.Duration
	maxResponseSize int64
	logger          *securelog.Logger
	sleep           SleepFunc
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithMaxResponseSize sets the response body size cap in bytes.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		c.maxResponseSize = n
	}
}

// WithLogger sets the secure logger.
func WithLogger(l *securelog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSleep substitutes the sleep used for backoff and rate-limit waits.
func WithSleep(fn SleepFunc) Option {
	return func(c *Client) {
		c.sleep = fn
	}
}

// New creates a new API client.
func New(apiToken string, opts ...Option) (*Client, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("API token is required")
	}

	c := &Client{
		baseURL:         DefaultBaseURL,
		apiToken:        apiToken,
		userAgent:       defaultUserAgent,
		httpClient:      &http.Client{},
		timeout:         DefaultTimeout,
		maxResponseSize: DefaultMaxResponseSize,
		sleep:           realSleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.retry == nil {
		c.retry = DefaultRetryConfig()
	}
	c.retry.normalize()

	return c, nil
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Execute performs one logical request: validation, URL and header
// construction, and the retry loop around the network attempt. On success
// it returns the final response envelope; on failure, the terminal error.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	for name, value := range req.Header {
		if r := validate.HeaderValue(name, "header name"); !r.Valid {
			c.logger.ValidationFailure("header name", r.Errors)
			return nil, &ValidationError{Field: "header name", Errors: r.Errors}
		}
		if r := validate.HeaderValue(value, name); !r.Valid {
			c.logger.ValidationFailure(name, r.Errors)
			return nil, &ValidationError{Field: name, Errors: r.Errors}
		}
	}

	u := c.buildURL(req)

	var body []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay(lastErr, attempt)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		resp, err := c.do(ctx, req, u, body, attempt+1)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !c.retryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// retryDelay picks the wait before retry number attempt: the server's
// Retry-After for rate limits, computed exponential backoff otherwise.
func (c *Client) retryDelay(lastErr error, attempt int) time.Duration {
	var apiErr *APIError
	if errors.As(lastErr, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests && apiErr.RetryAfter > 0 {
		delay := ClampRetryAfter(apiErr.RetryAfter)
		c.logger.RateLimitWait(delay)
		return delay
	}
	delay := c.retry.Delay(attempt)
	c.logger.RetryWait(attempt, delay, lastErr.Error())
	return delay
}

// retryable reports whether a failed attempt may be repeated.
// Authentication (401) and remote validation (422) failures are terminal,
// as are input-side and response-shape failures; everything else is
// transient.
func (c *Client) retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return c.retry.RetryableOn(apiErr.StatusCode)
	}

	var inputErr *ValidationError
	var sizeErr *ResponseTooLargeError
	var shapeErr *MalformedResponseError
	if errors.As(err, &inputErr) || errors.As(err, &sizeErr) || errors.As(err, &shapeErr) {
		return false
	}

	var netErr *NetworkError
	var timeoutErr *TimeoutError
	return errors.As(err, &netErr) || errors.As(err, &timeoutErr)
}

// do performs a single network attempt.
func (c *Client) do(ctx context.Context, req *Request, u string, body []byte, attempt int) (*Response, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	hreq, err := http.NewRequestWithContext(actx, req.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(hreq, req.Header)

	c.logger.Attempt(req.Method, u, attempt)
	start := time.Now()

	hres, err := c.httpClient.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			// Caller cancellation is not a transport failure.
			return nil, ctx.Err()
		}
		if actx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{URL: u, Timeout: c.timeout, Attempt: attempt}
		}
		return nil, &NetworkError{Err: err, URL: u, Attempt: attempt}
	}
	defer hres.Body.Close()

	if hres.ContentLength > c.maxResponseSize {
		return nil, &ResponseTooLargeError{Limit: c.maxResponseSize, Declared: hres.ContentLength}
	}

	raw, err := readBounded(hres.Body, c.maxResponseSize)
	if err != nil {
		var sizeErr *ResponseTooLargeError
		if errors.As(err, &sizeErr) {
			return nil, err
		}
		if actx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, &TimeoutError{URL: u, Timeout: c.timeout, Attempt: attempt}
		}
		return nil, &NetworkError{Err: err, URL: u, Attempt: attempt}
	}

	resp := &Response{
		StatusCode: hres.StatusCode,
		Status:     hres.Status,
		Header:     lowerHeaders(hres.Header),
		RawBody:    raw,
	}

	if isJSONContentType(resp.Header["content-type"]) && len(raw) > 0 {
		if r := validate.JSONPayload(raw, c.maxResponseSize); !r.Valid {
			return nil, &MalformedResponseError{Reason: "response failed payload validation", Errors: r.Errors}
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, &MalformedResponseError{Reason: err.Error()}
		}
		resp.Body = decoded
	}

	c.logger.Result(req.Method, u, hres.StatusCode, attempt, time.Since(start))

	if hres.StatusCode >= 200 && hres.StatusCode < 300 {
		return resp, nil
	}
	return nil, c.classifyStatus(resp)
}

// classifyStatus converts a non-2xx response into a typed APIError using
// the wire error body {message, errors?, code?}.
func (c *Client) classifyStatus(resp *Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}

	var wire errorBody
	if len(resp.RawBody) > 0 && json.Unmarshal(resp.RawBody, &wire) == nil {
		if wire.Message != "" {
			apiErr.Message = wire.Message
		}
		apiErr.Code = wire.Code
		apiErr.Fields = wire.Errors
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RetryAfter = parseRetryAfter(resp.Header["retry-after"])
	}

	return apiErr
}

// Do executes a request and unwraps the {"data": ...} success envelope into
// result. Most typed endpoints go through here.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.Execute(ctx, &Request{Method: method, Path: path, Body: body})
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.RawBody, &envelope); err == nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return &MalformedResponseError{Reason: fmt.Sprintf("decode data envelope: %v", err)}
		}
		return nil
	}
	if err := json.Unmarshal(resp.RawBody, result); err != nil {
		return &MalformedResponseError{Reason: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
