package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CheckToken validates the API token.
func (c *Client) CheckToken(ctx context.Context) error {
	var result struct {
		OK bool `json:"ok"`
	}
	if err := c.Do(ctx, http.MethodGet, "/v1/check-token", nil, &result); err != nil {
		return err
	}
	if !result.OK {
		return ErrUnauthorized
	}
	return nil
}

// CreateAddress creates a new forwarding address.
func (c *Client) CreateAddress(ctx context.Context, req *CreateAddressRequest) (*AddressDTO, error) {
	var result AddressDTO
	if err := c.Do(ctx, http.MethodPost, "/v1/addresses", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAddresses returns all addresses owned by the account.
func (c *Client) ListAddresses(ctx context.Context) ([]*AddressDTO, error) {
	var result []*AddressDTO
	if err := c.Do(ctx, http.MethodGet, "/v1/addresses", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAddress returns a specific address by ID.
func (c *Client) GetAddress(ctx context.Context, addressID string) (*AddressDTO, error) {
	var result AddressDTO
	path := fmt.Sprintf("/v1/addresses/%s", url.PathEscape(addressID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateAddress updates an address.
func (c *Client) UpdateAddress(ctx context.Context, addressID string, req *UpdateAddressRequest) (*AddressDTO, error) {
	var result AddressDTO
	path := fmt.Sprintf("/v1/addresses/%s", url.PathEscape(addressID))
	if err := c.Do(ctx, http.MethodPatch, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAddress deletes an address.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	path := fmt.Sprintf("/v1/addresses/%s", url.PathEscape(addressID))
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// TestAddress asks the server to deliver a test payload to the address's
// webhook.
func (c *Client) TestAddress(ctx context.Context, addressID string) (*TestAddressDTO, error) {
	var result TestAddressDTO
	path := fmt.Sprintf("/v1/addresses/%s/test", url.PathEscape(addressID))
	if err := c.Do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RotateAddressSecret rotates the signing secret for an address.
func (c *Client) RotateAddressSecret(ctx context.Context, addressID string) (*RotateSecretDTO, error) {
	var result RotateSecretDTO
	path := fmt.Sprintf("/v1/addresses/%s/rotate-secret", url.PathEscape(addressID))
	if err := c.Do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccount returns the account profile.
func (c *Client) GetAccount(ctx context.Context) (*AccountDTO, error) {
	var result AccountDTO
	if err := c.Do(ctx, http.MethodGet, "/v1/account", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUsage returns usage statistics for the current billing period.
func (c *Client) GetUsage(ctx context.Context) (*UsageDTO, error) {
	var result UsageDTO
	if err := c.Do(ctx, http.MethodGet, "/v1/account/usage", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBilling returns billing details for the account.
func (c *Client) GetBilling(ctx context.Context) (*BillingDTO, error) {
	var result BillingDTO
	if err := c.Do(ctx, http.MethodGet, "/v1/account/billing", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
