package geocode

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*GoogleClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewGoogleClient("test-key")
	client.baseURL = server.URL
	return client, server
}

func TestGeocodeResolvesAddress(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "Acme Corp, Waterloo, ON" {
			t.Errorf("address param = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key param = %q", got)
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "123 King St, Waterloo, ON, Canada",
				"geometry": {"location": {"lat": 43.4643, "lng": -80.5204}}
			}]
		}`))
	})
	defer server.Close()

	result, err := client.Geocode("Acme Corp, Waterloo, ON")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if result.Latitude != 43.4643 || result.Longitude != -80.5204 {
		t.Errorf("coordinates = %f/%f", result.Latitude, result.Longitude)
	}
	if result.FormattedAddress != "123 King St, Waterloo, ON, Canada" {
		t.Errorf("formatted address = %q", result.FormattedAddress)
	}
}

func TestGeocodeNoResult(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})
	defer server.Close()

	_, err := client.Geocode("nowhere at all")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("err = %v; want ErrNoResult", err)
	}
}

func TestGeocodeProviderError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
	})
	defer server.Close()

	_, err := client.Geocode("Acme Corp, Waterloo, ON")
	if err == nil || errors.Is(err, ErrNoResult) {
		t.Errorf("err = %v; want a provider error distinct from ErrNoResult", err)
	}
}
