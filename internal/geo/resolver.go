package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultPostcodeAPI = "https://api.postcodes.io"

// Resolver geocodes UK postcodes through the postcodes.io API, memoized
// through the LRU cache.
type Resolver struct {
	http  *http.Client
	base  string
	cache *Cache
}

// NewResolver creates a resolver. An empty baseURL means the public API;
// a nil cache gets a default-sized one.
func NewResolver(baseURL string, cache *Cache) *Resolver {
	if baseURL == "" {
		baseURL = defaultPostcodeAPI
	}
	if cache == nil {
		cache = NewCache(0)
	}
	return &Resolver{
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		base:  baseURL,
		cache: cache,
	}
}

type postcodeResponse struct {
	Status int `json:"status"`
	Result *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"result"`
}

// Locate returns the coordinate for a postcode. found is false for
// well-formed lookups that the API does not know, with no error.
func (r *Resolver) Locate(ctx context.Context, postcode string) (Coordinate, bool, error) {
	normalized := NormalizePostcode(postcode)
	if normalized == "" {
		return Coordinate{}, false, nil
	}
	if coord, ok := r.cache.Get(normalized); ok {
		return coord, true, nil
	}

	reqURL := fmt.Sprintf("%s/postcodes/%s", r.base, url.PathEscape(normalized))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Coordinate{}, false, eris.Wrapf(err, "geo: create request %s", normalized)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return Coordinate{}, false, eris.Wrapf(err, "geo: locate %s", normalized)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return Coordinate{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Coordinate{}, false, eris.Errorf("geo: locate %s: status %d", normalized, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinate{}, false, eris.Wrapf(err, "geo: read response %s", normalized)
	}
	var parsed postcodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Coordinate{}, false, eris.Wrapf(err, "geo: parse response %s", normalized)
	}
	if parsed.Result == nil {
		return Coordinate{}, false, nil
	}

	coord := Coordinate{Latitude: parsed.Result.Latitude, Longitude: parsed.Result.Longitude}
	r.cache.Put(normalized, coord)
	return coord, true, nil
}

// Distance returns the great-circle distance in km between two postcodes,
// or false when either cannot be located.
func (r *Resolver) Distance(ctx context.Context, from, to string) (float64, bool, error) {
	a, ok, err := r.Locate(ctx, from)
	if err != nil || !ok {
		return 0, false, err
	}
	b, ok, err := r.Locate(ctx, to)
	if err != nil || !ok {
		return 0, false, err
	}
	return DistanceKm(a, b), true, nil
}
