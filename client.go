package hookmail

import (
	"context"
	"sync"
	"time"

	"github.com/hookmail/client-go/internal/api"
	"github.com/hookmail/client-go/internal/securelog"
)

// Client is the main Hookmail client for managing forwarding addresses and
// reading account data. A Client is safe for concurrent use; its
// configuration is immutable after New.
type Client struct {
	apiClient *api.Client

	mu     sync.RWMutex
	closed bool
}

// buildAPIClient creates and configures the transport from a validated config.
func buildAPIClient(apiToken string, cfg *clientConfig) (*api.Client, error) {
	logger := securelog.New(cfg.DebugLogging, cfg.LogOutput)

	apiOpts := []api.Option{
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.Timeout),
		api.WithMaxResponseSize(cfg.MaxResponseSize),
		api.WithLogger(logger),
		api.WithRetryConfig(&api.RetryConfig{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  cfg.Retry.BaseDelay,
			MaxDelay:   cfg.Retry.MaxDelay,
			Multiplier: cfg.Retry.Multiplier,
		}),
	}
	if cfg.UserAgent != "" {
		apiOpts = append(apiOpts, api.WithUserAgent(cfg.UserAgent))
	}

	apiClient, err := api.New(apiToken, apiOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.HTTPClient != nil {
		apiClient.SetHTTPClient(cfg.HTTPClient)
	}

	return apiClient, nil
}

// New creates a new Hookmail client with the given API token. Construction
// fails if any configuration value is invalid; a Client never exists in a
// partially valid state.
func New(apiToken string, opts ...Option) (*Client, error) {
	if apiToken == "" {
		return nil, ErrMissingAPIToken
	}

	cfg := &clientConfig{
		BaseURL:         defaultBaseURL,
		Timeout:         defaultTimeout,
		MaxResponseSize: api.DefaultMaxResponseSize,
		Retry: RetryConfig{
			MaxRetries: 3,
			BaseDelay:  100 * time.Millisecond,
			MaxDelay:   5 * time.Second,
			Multiplier: 2.0,
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}

	apiClient, err := buildAPIClient(apiToken, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{apiClient: apiClient}, nil
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// CheckToken validates the API token against the server.
// Returns nil if the token is valid, otherwise returns an error.
func (c *Client) CheckToken(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	return wrapError(c.apiClient.CheckToken(ctx))
}

// Close closes the client. Further calls return ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
