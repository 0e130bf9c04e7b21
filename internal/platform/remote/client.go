// Package remote wraps the freight backend REST API. Every entity shown by
// this application is owned by that API; this client is the only path to it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

type bearerContextKey struct{}

// WithBearer binds the session's API token to the context so every call made
// on behalf of the request is authenticated.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerContextKey{}, token)
}

// BearerFromContext returns the token bound by WithBearer, if any.
func BearerFromContext(ctx context.Context) string {
	token, _ := ctx.Value(bearerContextKey{}).(string)
	return token
}

// Client talks to the freight backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// errorEnvelope is the backend's error shape; messages are human readable
// and surfaced to users as-is.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorEnvelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Upload describes a file part for multipart requests.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// PostMultipart sends form fields plus an optional file as multipart/form-data.
// Used for incident images and partner logos.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, file *Upload, out any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("remote: write field %s: %w", key, err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("remote: create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return fmt.Errorf("remote: write file part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if token := BearerFromContext(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrRemote, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var envelope errorEnvelope
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &envelope)
	msg := envelope.text()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", httpx.ErrNotFound, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", httpx.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", httpx.ErrForbidden, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", httpx.ErrDuplicate, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", httpx.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %s", httpx.ErrRemote, msg)
	}
}
