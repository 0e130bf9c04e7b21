package ships

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the ships resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// List fetches the full ship collection across all shipping lines.
func (c *Client) List(ctx context.Context) ([]Ship, error) {
	var out []Ship
	if err := c.api.Get(ctx, "/ships", &out); err != nil {
		return nil, fmt.Errorf("ships: list: %w", err)
	}
	return out, nil
}

// Get fetches one ship.
func (c *Client) Get(ctx context.Context, id int64) (Ship, error) {
	var out Ship
	if err := c.api.Get(ctx, fmt.Sprintf("/ships/%d", id), &out); err != nil {
		return Ship{}, fmt.Errorf("ships: get %d: %w", id, err)
	}
	return out, nil
}

// Create registers a ship.
func (c *Client) Create(ctx context.Context, payload Payload) (Ship, error) {
	var out Ship
	if err := c.api.Post(ctx, "/ships", payload, &out); err != nil {
		return Ship{}, fmt.Errorf("ships: create: %w", err)
	}
	return out, nil
}

// Update replaces a ship.
func (c *Client) Update(ctx context.Context, id int64, payload Payload) (Ship, error) {
	var out Ship
	if err := c.api.Put(ctx, fmt.Sprintf("/ships/%d", id), payload, &out); err != nil {
		return Ship{}, fmt.Errorf("ships: update %d: %w", id, err)
	}
	return out, nil
}

// Delete removes a ship.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/ships/%d", id)); err != nil {
		return fmt.Errorf("ships: delete %d: %w", id, err)
	}
	return nil
}
