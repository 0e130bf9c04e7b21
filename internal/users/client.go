package users

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the users resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// List fetches all staff users.
func (c *Client) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.api.Get(ctx, "/users", &out); err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return out, nil
}

// Update edits a staff user.
func (c *Client) Update(ctx context.Context, id int64, payload Payload) (User, error) {
	var out User
	if err := c.api.Put(ctx, fmt.Sprintf("/users/%d", id), payload, &out); err != nil {
		return User{}, fmt.Errorf("users: update %d: %w", id, err)
	}
	return out, nil
}
