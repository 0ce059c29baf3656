// Package api implements the HTTP transport for the Hookmail API: request
// construction, retry with exponential backoff, per-attempt timeouts,
// response-size bounding, and classification of HTTP statuses into typed
// errors. The public hookmail package wraps this transport with domain
// types; nothing here is part of the SDK surface.
package api
