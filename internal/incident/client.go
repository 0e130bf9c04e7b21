package incident

import (
	"context"
	"fmt"
	"strings"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// maxImageBytes caps incident photo uploads at 5MB.
const maxImageBytes = 5 << 20

// Client is the incidents resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// List fetches all incidents.
func (c *Client) List(ctx context.Context) ([]Incident, error) {
	var out []Incident
	if err := c.api.Get(ctx, "/incidents", &out); err != nil {
		return nil, fmt.Errorf("incident: list: %w", err)
	}
	return out, nil
}

// Get fetches one incident.
func (c *Client) Get(ctx context.Context, id int64) (Incident, error) {
	var out Incident
	if err := c.api.Get(ctx, fmt.Sprintf("/incidents/%d", id), &out); err != nil {
		return Incident{}, fmt.Errorf("incident: get %d: %w", id, err)
	}
	return out, nil
}

// Create files a new incident.
func (c *Client) Create(ctx context.Context, payload Payload) (Incident, error) {
	var out Incident
	if err := c.api.Post(ctx, "/incidents", payload, &out); err != nil {
		return Incident{}, fmt.Errorf("incident: create: %w", err)
	}
	return out, nil
}

// Update replaces an incident.
func (c *Client) Update(ctx context.Context, id int64, payload Payload) (Incident, error) {
	var out Incident
	if err := c.api.Put(ctx, fmt.Sprintf("/incidents/%d", id), payload, &out); err != nil {
		return Incident{}, fmt.Errorf("incident: update %d: %w", id, err)
	}
	return out, nil
}

// Delete removes an incident.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/incidents/%d", id)); err != nil {
		return fmt.Errorf("incident: delete %d: %w", id, err)
	}
	return nil
}

// UploadImage attaches a photo to an incident. Only image payloads within
// the size cap are accepted.
func (c *Client) UploadImage(ctx context.Context, id int64, filename, contentType string, data []byte) (Incident, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return Incident{}, fmt.Errorf("%w: attachment must be an image", httpx.ErrValidation)
	}
	if len(data) > maxImageBytes {
		return Incident{}, fmt.Errorf("%w: image exceeds 5MB", httpx.ErrValidation)
	}
	var out Incident
	upload := &remote.Upload{Field: "image", Filename: filename, ContentType: contentType, Data: data}
	if err := c.api.PostMultipart(ctx, fmt.Sprintf("/incidents/%d/image", id), nil, upload, &out); err != nil {
		return Incident{}, fmt.Errorf("incident: upload image %d: %w", id, err)
	}
	return out, nil
}
