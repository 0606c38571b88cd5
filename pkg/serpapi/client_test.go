package serpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleHotels_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		want := map[string]string{
			"engine": "google_hotels", "q": "Lahaina, USA", "check_in_date": "2026-05-01",
			"check_out_date": "2026-05-08", "adults": "2", "currency": "USD", "gl": "us", "hl": "en", "api_key": "k",
		}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("param %s: expected %q, got %q", k, v, q.Get(k))
			}
		}
		_, _ = w.Write([]byte(`{"properties":[{"rate_per_night":{"lowest":"$212"}}]}`))
	}))
	defer srv.Close()

	c := Client{BaseURL: srv.URL, APIKey: "k"}
	got, err := c.GoogleHotels(context.Background(), HotelQuery{Query: "Lahaina, USA", CheckIn: "2026-05-01", CheckOut: "2026-05-08", Adults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["properties"]; !ok {
		t.Fatalf("expected properties in response: %v", got)
	}
}

func TestGoogleHotels_Errors(t *testing.T) {
	if _, err := (Client{}).GoogleHotels(context.Background(), HotelQuery{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := Client{BaseURL: srv.URL, APIKey: "k"}.GoogleHotels(context.Background(), HotelQuery{})
	var uerr *UpstreamError
	if !errors.As(err, &uerr) || uerr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
