// Package geo integrates the public geocoding and administrative-boundary
// services used by the wizard's location step. Both are keyless public
// endpoints, so lookups are deduplicated and throttled here rather than
// trusted to caller discipline.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

// Candidate is one geocoding match.
type Candidate struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// ErrThrottled is returned when a key queries again inside the debounce
// window; the superseding query will follow once the input settles.
var ErrThrottled = fmt.Errorf("geo: query throttled")

// Geocoder calls a Nominatim-compatible endpoint. Identical in-flight
// queries collapse via singleflight; per-key query bursts are throttled to
// the configured debounce interval.
type Geocoder struct {
	baseURL     string
	httpClient  *http.Client
	minInterval time.Duration

	group singleflight.Group

	mu       sync.Mutex
	lastCall map[string]time.Time
	gens     map[string]uint64
}

// NewGeocoder constructs a Geocoder.
func NewGeocoder(baseURL string, timeout, debounce time.Duration) *Geocoder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Geocoder{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		minInterval: debounce,
		lastCall:    make(map[string]time.Time),
		gens:        make(map[string]uint64),
	}
}

// nominatimResult mirrors the wire shape; coordinates travel as strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search resolves free text into candidates for the given key (one key per
// session and field). A query arriving inside the debounce window returns
// ErrThrottled. The returned generation must be passed to Fresh before the
// result is applied; a later query for the same key invalidates it.
func (g *Geocoder) Search(ctx context.Context, key, query string) ([]Candidate, uint64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, fmt.Errorf("%w: empty query", httpx.ErrValidation)
	}

	gen, ok := g.admit(key)
	if !ok {
		return nil, 0, ErrThrottled
	}

	value, err, _ := g.group.Do("search:"+query, func() (any, error) {
		return g.fetchSearch(ctx, query)
	})
	if err != nil {
		return nil, gen, err
	}
	return value.([]Candidate), gen, nil
}

// Reverse resolves coordinates into a display address.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (Candidate, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%s&lon=%s",
		g.baseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))

	var result nominatimResult
	if err := g.getJSON(ctx, endpoint, &result); err != nil {
		return Candidate{}, err
	}
	return Candidate{DisplayName: result.DisplayName, Lat: lat, Lng: lng}, nil
}

// Fresh reports whether the generation is still the latest for its key.
// Stale results must be discarded, never applied over newer state.
func (g *Geocoder) Fresh(key string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[key] == gen
}

// admit enforces the debounce window and issues the next generation.
func (g *Geocoder) admit(key string) (uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if g.minInterval > 0 {
		if last, ok := g.lastCall[key]; ok && now.Sub(last) < g.minInterval {
			return 0, false
		}
	}
	g.lastCall[key] = now
	g.gens[key]++
	return g.gens[key], true
}

func (g *Geocoder) fetchSearch(ctx context.Context, query string) ([]Candidate, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=5&q=%s", g.baseURL, url.QueryEscape(query))

	var results []nominatimResult
	if err := g.getJSON(ctx, endpoint, &results); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lng, errLng := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		out = append(out, Candidate{DisplayName: r.DisplayName, Lat: lat, Lng: lng})
	}
	return out, nil
}

func (g *Geocoder) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	// Nominatim usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "freightdesk/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: geocoder: %v", httpx.ErrRemote, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: geocoder returned status %d", httpx.ErrRemote, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
