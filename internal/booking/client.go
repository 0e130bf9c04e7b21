package booking

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the bookings resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// List fetches the full booking collection.
func (c *Client) List(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if err := c.api.Get(ctx, "/bookings", &out); err != nil {
		return nil, fmt.Errorf("booking: list: %w", err)
	}
	return out, nil
}

// Get fetches one booking by ID.
func (c *Client) Get(ctx context.Context, id int64) (Booking, error) {
	var out Booking
	if err := c.api.Get(ctx, fmt.Sprintf("/bookings/%d", id), &out); err != nil {
		return Booking{}, fmt.Errorf("booking: get %d: %w", id, err)
	}
	return out, nil
}

// Create submits a new booking. The response carries the server-authoritative
// hwb and booking numbers, which may differ from the suggested ones.
func (c *Client) Create(ctx context.Context, payload CreateRequest) (Booking, error) {
	var out Booking
	if err := c.api.Post(ctx, "/bookings", payload, &out); err != nil {
		return Booking{}, fmt.Errorf("booking: create: %w", err)
	}
	return out, nil
}

// Update replaces a booking.
func (c *Client) Update(ctx context.Context, id int64, payload CreateRequest) (Booking, error) {
	var out Booking
	if err := c.api.Put(ctx, fmt.Sprintf("/bookings/%d", id), payload, &out); err != nil {
		return Booking{}, fmt.Errorf("booking: update %d: %w", id, err)
	}
	return out, nil
}

// Delete removes a booking. The monitoring flows never call this, but the
// endpoint exists and the bulk action bar exposes it.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/bookings/%d", id)); err != nil {
		return fmt.Errorf("booking: delete %d: %w", id, err)
	}
	return nil
}

// UpdateStatus patches the coarse lifecycle status.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status Status) (Booking, error) {
	var out Booking
	if err := c.api.Patch(ctx, fmt.Sprintf("/bookings/%d/status", id), StatusUpdateRequest{Status: status}, &out); err != nil {
		return Booking{}, fmt.Errorf("booking: update status %d: %w", id, err)
	}
	return out, nil
}

// AddMilestone appends an operational status history entry.
func (c *Client) AddMilestone(ctx context.Context, id int64, req MilestoneRequest) (Booking, error) {
	var out Booking
	if err := c.api.Post(ctx, fmt.Sprintf("/bookings/%d/milestones", id), req, &out); err != nil {
		return Booking{}, fmt.Errorf("booking: add milestone %d: %w", id, err)
	}
	return out, nil
}
