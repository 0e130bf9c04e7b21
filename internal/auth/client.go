package auth

import (
	"context"
	"fmt"

	"github.com/freightdesk/freightdesk/internal/platform/remote"
)

// Client is the auth resource of the freight API.
type Client struct {
	api *remote.Client
}

// NewClient constructs a Client.
func NewClient(api *remote.Client) *Client {
	return &Client{api: api}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (TokenResponse, error) {
	var out TokenResponse
	if err := c.api.Post(ctx, "/auth/login", creds, &out); err != nil {
		return TokenResponse{}, fmt.Errorf("auth: login: %w", err)
	}
	return out, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (TokenResponse, error) {
	var out TokenResponse
	if err := c.api.Post(ctx, "/auth/register", reg, &out); err != nil {
		return TokenResponse{}, fmt.Errorf("auth: register: %w", err)
	}
	return out, nil
}

// Profile fetches the signed-in user. The bearer token rides in on ctx.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var out User
	if err := c.api.Get(ctx, "/auth/profile", &out); err != nil {
		return User{}, fmt.Errorf("auth: profile: %w", err)
	}
	return out, nil
}

// UpdateProfile edits the signed-in user's details.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	var out User
	if err := c.api.Put(ctx, "/auth/profile", update, &out); err != nil {
		return User{}, fmt.Errorf("auth: update profile: %w", err)
	}
	return out, nil
}

// RequestPasswordReset asks the API to mail a reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := c.api.Post(ctx, "/auth/password-reset", body, nil); err != nil {
		return fmt.Errorf("auth: request password reset: %w", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password using a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, reset PasswordReset) error {
	if err := c.api.Post(ctx, "/auth/password-reset/confirm", reset, nil); err != nil {
		return fmt.Errorf("auth: confirm password reset: %w", err)
	}
	return nil
}
