package finance

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the finance resource family of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// Receivables fetches the AR view.
func (c *Client) Receivables(ctx context.Context) ([]Receivable, error) {
	var out []Receivable
	if err := c.api.Get(ctx, "/finance/accounts-receivable", &out); err != nil {
		return nil, fmt.Errorf("finance: receivables: %w", err)
	}
	return out, nil
}

// Payables fetches the AP view.
func (c *Client) Payables(ctx context.Context) ([]Payable, error) {
	var out []Payable
	if err := c.api.Get(ctx, "/finance/accounts-payable", &out); err != nil {
		return nil, fmt.Errorf("finance: payables: %w", err)
	}
	return out, nil
}

// Payments fetches the payments recorded against a booking.
func (c *Client) Payments(ctx context.Context, bookingID int64) ([]Payment, error) {
	var out []Payment
	if err := c.api.Get(ctx, fmt.Sprintf("/payments?booking_id=%d", bookingID), &out); err != nil {
		return nil, fmt.Errorf("finance: payments of %d: %w", bookingID, err)
	}
	return out, nil
}

// RecordPayment posts a new payment.
func (c *Client) RecordPayment(ctx context.Context, input PaymentInput) (Payment, error) {
	var out Payment
	if err := c.api.Post(ctx, "/payments", input, &out); err != nil {
		return Payment{}, fmt.Errorf("finance: record payment: %w", err)
	}
	return out, nil
}
