package trucks

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the trucks resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// List fetches the full truck collection across all trucking companies.
func (c *Client) List(ctx context.Context) ([]Truck, error) {
	var out []Truck
	if err := c.api.Get(ctx, "/trucks", &out); err != nil {
		return nil, fmt.Errorf("trucks: list: %w", err)
	}
	return out, nil
}

// Get fetches one truck.
func (c *Client) Get(ctx context.Context, id int64) (Truck, error) {
	var out Truck
	if err := c.api.Get(ctx, fmt.Sprintf("/trucks/%d", id), &out); err != nil {
		return Truck{}, fmt.Errorf("trucks: get %d: %w", id, err)
	}
	return out, nil
}

// Create registers a truck.
func (c *Client) Create(ctx context.Context, payload Payload) (Truck, error) {
	var out Truck
	if err := c.api.Post(ctx, "/trucks", payload, &out); err != nil {
		return Truck{}, fmt.Errorf("trucks: create: %w", err)
	}
	return out, nil
}

// Update replaces a truck.
func (c *Client) Update(ctx context.Context, id int64, payload Payload) (Truck, error) {
	var out Truck
	if err := c.api.Put(ctx, fmt.Sprintf("/trucks/%d", id), payload, &out); err != nil {
		return Truck{}, fmt.Errorf("trucks: update %d: %w", id, err)
	}
	return out, nil
}

// Delete removes a truck.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/trucks/%d", id)); err != nil {
		return fmt.Errorf("trucks: delete %d: %w", id, err)
	}
	return nil
}
