package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dinamap/pkg/types"
)

const userAgent = "dinamap"

// NominatimClient queries a Nominatim-compatible search endpoint.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimClient returns a client for the given search endpoint URL,
// e.g. https://nominatim.openstreetmap.org/search.
func NewNominatimClient(baseURL string) *NominatimClient {
	return &NominatimClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// nominatimPlace is the subset of a Nominatim search result we consume.
// Nominatim encodes coordinates as strings.
type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup runs one search with format=json&limit=1. An empty result set is
// a miss, not an error.
func (c *NominatimClient) Lookup(ctx context.Context, query string) (types.Coordinate, bool, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return types.Coordinate{}, false, fmt.Errorf("parsing geocoder URL: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.Coordinate{}, false, fmt.Errorf("building geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Coordinate{}, false, fmt.Errorf("querying geocoder: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return types.Coordinate{}, false, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return types.Coordinate{}, false, fmt.Errorf("decoding geocoder response: %w", err)
	}
	if len(places) == 0 {
		return types.Coordinate{}, false, nil
	}
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return types.Coordinate{}, false, fmt.Errorf("parsing geocoder latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return types.Coordinate{}, false, fmt.Errorf("parsing geocoder longitude %q: %w", places[0].Lon, err)
	}
	return types.Coordinate{Lat: lat, Lng: lng}, true, nil
}
