package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

// Area is one node of the province → city → barangay hierarchy.
type Area struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// BoundaryClient reads the PSGC-compatible administrative boundary service
// used for structured Philippine addresses.
type BoundaryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBoundaryClient constructs a BoundaryClient.
func NewBoundaryClient(baseURL string) *BoundaryClient {
	return &BoundaryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Provinces lists all provinces.
func (c *BoundaryClient) Provinces(ctx context.Context) ([]Area, error) {
	return c.list(ctx, "/provinces.json")
}

// Cities lists the cities and municipalities of a province.
func (c *BoundaryClient) Cities(ctx context.Context, provinceCode string) ([]Area, error) {
	return c.list(ctx, fmt.Sprintf("/provinces/%s/cities-municipalities.json", provinceCode))
}

// Barangays lists the barangays of a city or municipality.
func (c *BoundaryClient) Barangays(ctx context.Context, cityCode string) ([]Area, error) {
	return c.list(ctx, fmt.Sprintf("/cities-municipalities/%s/barangays.json", cityCode))
}

func (c *BoundaryClient) list(ctx context.Context, path string) ([]Area, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: boundary service: %v", httpx.ErrRemote, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: boundary service returned status %d", httpx.ErrRemote, resp.StatusCode)
	}

	var areas []Area
	if err := json.NewDecoder(resp.Body).Decode(&areas); err != nil {
		return nil, fmt.Errorf("geo: decode areas: %w", err)
	}
	return areas, nil
}
