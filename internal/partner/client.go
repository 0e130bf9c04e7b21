package partner

import (
	"context"
	"fmt"
	"strings"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// maxLogoBytes caps logo uploads at 2MB.
const maxLogoBytes = 2 << 20

// Client drives one partner resource (shipping lines or trucking companies).
type Client struct {
	api   *remote.Client
	ptype Type
}

// NewClient constructs a client for the given partner type.
func NewClient(api *remote.Client, ptype Type) *Client {
	return &Client{api: api, ptype: ptype}
}

// List fetches all partners of the client's type.
func (c *Client) List(ctx context.Context) ([]Partner, error) {
	var out []Partner
	if err := c.api.Get(ctx, c.ptype.resourcePath(), &out); err != nil {
		return nil, fmt.Errorf("partner: list %s: %w", c.ptype, err)
	}
	for i := range out {
		out[i].Type = c.ptype
	}
	return out, nil
}

// Get fetches one partner.
func (c *Client) Get(ctx context.Context, id int64) (Partner, error) {
	var out Partner
	if err := c.api.Get(ctx, fmt.Sprintf("%s/%d", c.ptype.resourcePath(), id), &out); err != nil {
		return Partner{}, fmt.Errorf("partner: get %d: %w", id, err)
	}
	out.Type = c.ptype
	return out, nil
}

// Create registers a partner.
func (c *Client) Create(ctx context.Context, payload Payload) (Partner, error) {
	var out Partner
	if err := c.api.Post(ctx, c.ptype.resourcePath(), payload, &out); err != nil {
		return Partner{}, fmt.Errorf("partner: create: %w", err)
	}
	out.Type = c.ptype
	return out, nil
}

// Update replaces a partner's details.
func (c *Client) Update(ctx context.Context, id int64, payload Payload) (Partner, error) {
	var out Partner
	if err := c.api.Put(ctx, fmt.Sprintf("%s/%d", c.ptype.resourcePath(), id), payload, &out); err != nil {
		return Partner{}, fmt.Errorf("partner: update %d: %w", id, err)
	}
	out.Type = c.ptype
	return out, nil
}

// Delete removes a partner. Management screens prefer SetActive; this backs
// the bulk delete action only.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("%s/%d", c.ptype.resourcePath(), id)); err != nil {
		return fmt.Errorf("partner: delete %d: %w", id, err)
	}
	return nil
}

// SetActive toggles the soft-delete flag.
func (c *Client) SetActive(ctx context.Context, id int64, active bool) (Partner, error) {
	var out Partner
	body := map[string]bool{"is_active": active}
	if err := c.api.Patch(ctx, fmt.Sprintf("%s/%d/active", c.ptype.resourcePath(), id), body, &out); err != nil {
		return Partner{}, fmt.Errorf("partner: set active %d: %w", id, err)
	}
	out.Type = c.ptype
	return out, nil
}

// UploadLogo sends the partner logo as multipart form data. Only image
// payloads within the size cap are accepted.
func (c *Client) UploadLogo(ctx context.Context, id int64, filename, contentType string, data []byte) (Partner, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return Partner{}, fmt.Errorf("%w: logo must be an image", httpx.ErrValidation)
	}
	if len(data) > maxLogoBytes {
		return Partner{}, fmt.Errorf("%w: logo exceeds 2MB", httpx.ErrValidation)
	}
	var out Partner
	upload := &remote.Upload{Field: "logo", Filename: filename, ContentType: contentType, Data: data}
	if err := c.api.PostMultipart(ctx, fmt.Sprintf("%s/%d/logo", c.ptype.resourcePath(), id), nil, upload, &out); err != nil {
		return Partner{}, fmt.Errorf("partner: upload logo %d: %w", id, err)
	}
	out.Type = c.ptype
	return out, nil
}
