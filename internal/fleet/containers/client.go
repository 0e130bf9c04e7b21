package containers

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the containers resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// List fetches the full container collection.
func (c *Client) List(ctx context.Context) ([]Container, error) {
	var out []Container
	if err := c.api.Get(ctx, "/containers", &out); err != nil {
		return nil, fmt.Errorf("containers: list: %w", err)
	}
	return out, nil
}

// Get fetches one container.
func (c *Client) Get(ctx context.Context, id int64) (Container, error) {
	var out Container
	if err := c.api.Get(ctx, fmt.Sprintf("/containers/%d", id), &out); err != nil {
		return Container{}, fmt.Errorf("containers: get %d: %w", id, err)
	}
	return out, nil
}

// Create registers a container.
func (c *Client) Create(ctx context.Context, payload Payload) (Container, error) {
	var out Container
	if err := c.api.Post(ctx, "/containers", payload, &out); err != nil {
		return Container{}, fmt.Errorf("containers: create: %w", err)
	}
	return out, nil
}

// Update replaces a container record.
func (c *Client) Update(ctx context.Context, id int64, payload Payload) (Container, error) {
	var out Container
	if err := c.api.Put(ctx, fmt.Sprintf("/containers/%d", id), payload, &out); err != nil {
		return Container{}, fmt.Errorf("containers: update %d: %w", id, err)
	}
	return out, nil
}

// Delete removes a container record.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/containers/%d", id)); err != nil {
		return fmt.Errorf("containers: delete %d: %w", id, err)
	}
	return nil
}

// MarkReturned flips a container back to the yard.
func (c *Client) MarkReturned(ctx context.Context, id int64) (Container, error) {
	var out Container
	if err := c.api.Patch(ctx, fmt.Sprintf("/containers/%d/return", id), nil, &out); err != nil {
		return Container{}, fmt.Errorf("containers: mark returned %d: %w", id, err)
	}
	return out, nil
}
