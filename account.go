package hookmail

import (
	"context"
	"time"
)

// Account is the account profile.
type Account struct {
	Email     string
	Plan      string
	CreatedAt time.Time
}

// Usage holds forwarding statistics for the current billing period.
type Usage struct {
	PeriodStart       time.Time
	PeriodEnd         time.Time
	EmailsForwarded   int64
	EmailsQuota       int64
	WebhookDeliveries int64
	WebhookFailures   int64
}

// Billing holds subscription and payment details.
type Billing struct {
	Plan        string
	Status      string
	RenewsAt    time.Time
	AmountCents int64
	Currency    string
}

// GetAccount returns the account profile.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	dto, err := c.apiClient.GetAccount(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return &Account{
		Email:     dto.Email,
		Plan:      dto.Plan,
		CreatedAt: dto.CreatedAt,
	}, nil
}

// GetUsage returns usage statistics for the current billing period.
func (c *Client) GetUsage(ctx context.Context) (*Usage, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	dto, err := c.apiClient.GetUsage(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return &Usage{
		PeriodStart:       dto.PeriodStart,
		PeriodEnd:         dto.PeriodEnd,
		EmailsForwarded:   dto.EmailsForwarded,
		EmailsQuota:       dto.EmailsQuota,
		WebhookDeliveries: dto.WebhookDeliveries,
		WebhookFailures:   dto.WebhookFailures,
	}, nil
}

// GetBilling returns billing details for the account.
func (c *Client) GetBilling(ctx context.Context) (*Billing, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	dto, err := c.apiClient.GetBilling(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return &Billing{
		Plan:        dto.Plan,
		Status:      dto.Status,
		RenewsAt:    dto.RenewsAt,
		AmountCents: dto.AmountCents,
		Currency:    dto.Currency,
	}, nil
}
