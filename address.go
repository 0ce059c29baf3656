package hookmail

import (
	"context"
	"time"

	"github.com/hookmail/client-go/internal/api"
	"github.com/hookmail/client-go/internal/validate"
)

// Address is a managed email address that forwards received mail to a
// webhook endpoint.
type Address struct {
	// ID is the unique identifier for the address.
	ID string
	// Email is the full forwarding address.
	Email string
	// WebhookURL is the endpoint that receives forwarded messages.
	WebhookURL string
	// Description is the optional human-readable description.
	Description string
	// Enabled indicates whether forwarding is active.
	Enabled bool
	// Secret is the signing secret for verifying webhook deliveries.
	// Only populated on creation and secret rotation.
	Secret string
	// CreatedAt is when the address was created.
	CreatedAt time.Time
	// UpdatedAt is when the address was last updated.
	UpdatedAt time.Time
}

// CreateAddressParams configures address creation.
type CreateAddressParams struct {
	// Email requests a specific address; the server assigns one when empty.
	Email string
	// WebhookURL is the endpoint that receives forwarded messages. Required.
	WebhookURL string
	// Description is an optional human-readable description.
	Description string
}

// UpdateAddressParams configures an address update. Nil fields are left
// unchanged.
type UpdateAddressParams struct {
	WebhookURL  *string
	Description *string
	Enabled     *bool
}

// TestResult is the outcome of a webhook delivery test.
type TestResult struct {
	Success    bool
	StatusCode int
	Duration   time.Duration
	Error      string
}

func addressFromDTO(dto *api.AddressDTO) *Address {
	return &Address{
		ID:          dto.ID,
		Email:       dto.Email,
		WebhookURL:  dto.WebhookURL,
		Description: dto.Description,
		Enabled:     dto.Enabled,
		Secret:      dto.Secret,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
}

// checkAddressID validates an address ID before it is placed in a URL path.
func checkAddressID(id string) error {
	if r := validate.Identifier(id, "address ID"); !r.Valid {
		return &ValidationError{Field: "address ID", Errors: r.Errors}
	}
	return nil
}

// CreateAddress creates a new forwarding address. The returned Address
// carries the webhook signing secret; it is not retrievable later except by
// rotation.
func (c *Client) CreateAddress(ctx context.Context, params CreateAddressParams) (*Address, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if r := validate.WebhookURL(params.WebhookURL, validate.URLOpts{Required: true}); !r.Valid {
		return nil, &ValidationError{Field: "webhook URL", Errors: r.Errors}
	}

	dto, err := c.apiClient.CreateAddress(ctx, &api.CreateAddressRequest{
		Email:       params.Email,
		WebhookURL:  params.WebhookURL,
		Description: params.Description,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return addressFromDTO(dto), nil
}

// ListAddresses returns all addresses owned by the account.
func (c *Client) ListAddresses(ctx context.Context) ([]*Address, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	dtos, err := c.apiClient.ListAddresses(ctx)
	if err != nil {
		return nil, wrapError(err)
	}

	addrs := make([]*Address, 0, len(dtos))
	for _, dto := range dtos {
		addrs = append(addrs, addressFromDTO(dto))
	}
	return addrs, nil
}

// GetAddress returns an address by ID.
func (c *Client) GetAddress(ctx context.Context, addressID string) (*Address, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if err := checkAddressID(addressID); err != nil {
		return nil, err
	}

	dto, err := c.apiClient.GetAddress(ctx, addressID)
	if err != nil {
		return nil, wrapError(err)
	}
	return addressFromDTO(dto), nil
}

// UpdateAddress updates an address.
func (c *Client) UpdateAddress(ctx context.Context, addressID string, params UpdateAddressParams) (*Address, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if err := checkAddressID(addressID); err != nil {
		return nil, err
	}
	if params.WebhookURL != nil {
		if r := validate.WebhookURL(*params.WebhookURL, validate.URLOpts{Required: true}); !r.Valid {
			return nil, &ValidationError{Field: "webhook URL", Errors: r.Errors}
		}
	}

	dto, err := c.apiClient.UpdateAddress(ctx, addressID, &api.UpdateAddressRequest{
		WebhookURL:  params.WebhookURL,
		Description: params.Description,
		Enabled:     params.Enabled,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return addressFromDTO(dto), nil
}

// DeleteAddress deletes an address. Forwarding stops immediately.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	if err := checkAddressID(addressID); err != nil {
		return err
	}
	return wrapError(c.apiClient.DeleteAddress(ctx, addressID))
}

// TestAddress asks the server to deliver a signed test payload to the
// address's webhook and reports the outcome.
func (c *Client) TestAddress(ctx context.Context, addressID string) (*TestResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if err := checkAddressID(addressID); err != nil {
		return nil, err
	}

	dto, err := c.apiClient.TestAddress(ctx, addressID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &TestResult{
		Success:    dto.Success,
		StatusCode: dto.StatusCode,
		Duration:   time.Duration(dto.DurationMs) * time.Millisecond,
		Error:      dto.Error,
	}, nil
}

// RotateAddressSecret replaces the webhook signing secret for an address
// and returns the new secret. Deliveries signed with the old secret stop
// immediately.
func (c *Client) RotateAddressSecret(ctx context.Context, addressID string) (string, error) {
	if err := c.checkClosed(); err != nil {
		return "", err
	}
	if err := checkAddressID(addressID); err != nil {
		return "", err
	}

	dto, err := c.apiClient.RotateAddressSecret(ctx, addressID)
	if err != nil {
		return "", wrapError(err)
	}
	return dto.Secret, nil
}
