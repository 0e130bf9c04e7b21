package notification

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the notifications resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// List fetches the caller's notifications, newest first.
func (c *Client) List(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := c.api.Get(ctx, "/notifications", &out); err != nil {
		return nil, fmt.Errorf("notification: list: %w", err)
	}
	return out, nil
}

// MarkRead flags one notification as read.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	if err := c.api.Patch(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil); err != nil {
		return fmt.Errorf("notification: mark read %d: %w", id, err)
	}
	return nil
}

// MarkAllRead flags every notification as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	if err := c.api.Patch(ctx, "/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("notification: mark all read: %w", err)
	}
	return nil
}

// Dismiss removes one notification.
func (c *Client) Dismiss(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/notifications/%d", id)); err != nil {
		return fmt.Errorf("notification: dismiss %d: %w", id, err)
	}
	return nil
}
