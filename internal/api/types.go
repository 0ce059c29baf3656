package api

import "time"

// errorBody is the wire shape of API error responses.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Code    string              `json:"code,omitempty"`
}

// AddressDTO represents an address resource on the wire.
type AddressDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	WebhookURL  string    `json:"webhook_url"`
	Description string    `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	Secret      string    `json:"secret,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateAddressRequest represents the POST /v1/addresses request body.
type CreateAddressRequest struct {
	Email       string `json:"email,omitempty"`
	WebhookURL  string `json:"webhook_url"`
	Description string `json:"description,omitempty"`
}

// UpdateAddressRequest represents the PATCH /v1/addresses/{id} request
// body. Nil fields are left unchanged on the server.
type UpdateAddressRequest struct {
	WebhookURL  *string `json:"webhook_url,omitempty"`
	Description *string `json:"description,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// TestAddressDTO represents the result of a webhook delivery test.
type TestAddressDTO struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// RotateSecretDTO represents the response to a secret rotation.
type RotateSecretDTO struct {
	Secret string `json:"secret"`
}

// AccountDTO represents the account resource on the wire.
type AccountDTO struct {
	Email     string    `json:"email"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// UsageDTO represents the usage resource on the wire.
type UsageDTO struct {
	PeriodStart       time.Time `json:"period_start"`
	PeriodEnd         time.Time `json:"period_end"`
	EmailsForwarded   int64     `json:"emails_forwarded"`
	EmailsQuota       int64     `json:"emails_quota"`
	WebhookDeliveries int64     `json:"webhook_deliveries"`
	WebhookFailures   int64     `json:"webhook_failures"`
}

// BillingDTO represents the billing resource on the wire.
type BillingDTO struct {
	Plan        string    `json:"plan"`
	Status      string    `json:"status"`
	RenewsAt    time.Time `json:"renews_at"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
}
