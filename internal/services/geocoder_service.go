package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	mem "donations/pkg/memcache"
)

var ErrGeocoding = errors.New("geocoding failed")

type Geocoder interface {
	// Geocode returns nil coordinates when the address is unknown.
	Geocode(ctx context.Context, address string) (*mem.Coordinates, error)
}

// -------------- Mapbox geocoding client ---------------

type MapboxGeocoder struct {
	HTTP        *http.Client
	AccessToken string
	BaseURL     string
	Cache       mem.GeocodeCache
	DefaultTTL  time.Duration
}

func NewMapboxGeocoder(accessToken string, cache mem.GeocodeCache) *MapboxGeocoder {
	return &MapboxGeocoder{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		AccessToken: accessToken,
		BaseURL:     "https://api.mapbox.com",
		Cache:       cache,
		DefaultTTL:  7 * 24 * time.Hour,
	}
}

func (c *MapboxGeocoder) Geocode(ctx context.Context, address string) (*mem.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	if v, ok := c.Cache.Get(address); ok {
		return &v, nil
	}

	if c.AccessToken == "" {
		return nil, fmt.Errorf("%w: mapbox access token is empty", ErrGeocoding)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", ErrGeocoding, err)
	}
	u.Path = "/geocoding/v5/mapbox.places/" + url.PathEscape(address) + ".json"
	q := url.Values{}
	q.Set("limit", "1")
	q.Set("types", "address,postcode,place")
	q.Set("access_token", c.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocoding, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: mapbox http error: %v", ErrGeocoding, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: mapbox bad status: %s", ErrGeocoding, resp.Status)
	}

	var payload struct {
		Features []struct {
			Center []float64 `json:"center"` // [lng, lat]
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: mapbox decode: %v", ErrGeocoding, err)
	}

	if len(payload.Features) == 0 || len(payload.Features[0].Center) != 2 {
		return nil, nil
	}

	coords := mem.Coordinates{
		Longitude: payload.Features[0].Center[0],
		Latitude:  payload.Features[0].Center[1],
	}
	c.Cache.Set(address, coords, c.DefaultTTL)

	return &coords, nil
}
