package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mem "donations/pkg/memcache"
)

func TestMapboxGeocoder_Geocode(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if !strings.HasPrefix(r.URL.Path, "/geocoding/v5/mapbox.places/") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "pk.test" {
			t.Errorf("missing access token")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"center":[2.3447,48.8462]}]}`))
	}))
	defer server.Close()

	geocoder := NewMapboxGeocoder("pk.test", mem.NewGeocodeCache())
	geocoder.BaseURL = server.URL

	for i := 0; i < 2; i++ {
		coords, err := geocoder.Geocode(context.Background(), "1 rue Pierre et Marie Curie, 75005 Paris, FR")
		if err != nil {
			t.Fatalf("Geocode() error = %v", err)
		}
		if coords == nil || coords.Latitude != 48.8462 || coords.Longitude != 2.3447 {
			t.Fatalf("coords = %+v", coords)
		}
	}
	if hits != 1 {
		t.Errorf("mapbox called %d times, want 1 (second lookup cached)", hits)
	}
}

func TestMapboxGeocoder_NoResultAndErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "nowhere") {
			_, _ = w.Write([]byte(`{"features":[]}`))
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	geocoder := NewMapboxGeocoder("pk.test", mem.NewGeocodeCache())
	geocoder.BaseURL = server.URL

	coords, err := geocoder.Geocode(context.Background(), "nowhere")
	if err != nil || coords != nil {
		t.Errorf("Geocode(nowhere) = %v, %v; want nil, nil", coords, err)
	}

	if _, err := geocoder.Geocode(context.Background(), "Paris"); !errors.Is(err, ErrGeocoding) {
		t.Errorf("Geocode() error = %v, want ErrGeocoding", err)
	}

	coords, err = geocoder.Geocode(context.Background(), "   ")
	if err != nil || coords != nil {
		t.Errorf("blank address = %v, %v; want nil, nil", coords, err)
	}
}
