package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoResult is returned when the provider recognizes the request but
// finds no location for the address.
var ErrNoResult = errors.New("geocode: no result found")

// Result is one resolved address.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// Geocoder resolves a freeform address into coordinates. Implementations
// must return ErrNoResult for an address the provider cannot place; any
// error, ErrNoResult included, must be treated as non-fatal by callers.
type Geocoder interface {
	Geocode(address string) (Result, error)
}

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleClient geocodes through the Google Maps Geocoding API.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleClient creates a GoogleClient using the given API key.
func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: googleGeocodeURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves address via the Geocoding API.
func (c *GoogleClient) Geocode(address string) (Result, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	resp, err := c.httpClient.Get(c.baseURL + "?" + params.Encode())
	if err != nil {
		return Result{}, fmt.Errorf("geocode: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("geocode: decode response: %w", err)
	}

	if decoded.Status == "ZERO_RESULTS" {
		return Result{}, ErrNoResult
	}
	if decoded.Status != "OK" {
		return Result{}, fmt.Errorf("geocode: provider status %s", decoded.Status)
	}
	if len(decoded.Results) == 0 {
		return Result{}, ErrNoResult
	}

	first := decoded.Results[0]
	return Result{
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
