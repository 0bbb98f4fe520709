package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/nominatim"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

func TestClient_Search(t *testing.T) {
	var gotQuery map[string][]string
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[
			{"display_name": "Bilbao, Biscay, Spain", "lat": "43.2630018", "lon": "-2.9350039"},
			{"display_name": "Broken entry", "lat": "not-a-number", "lon": "-2.9"}
		]`))
	}))
	defer srv.Close()

	client := nominatim.NewClient(srv.URL, 5*time.Second)
	places, err := client.Search(context.Background(), "bilbao", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotQuery["q"]; len(got) != 1 || got[0] != "bilbao" {
		t.Errorf("q = %v", got)
	}
	if got := gotQuery["format"]; len(got) != 1 || got[0] != "json" {
		t.Errorf("format = %v", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "5" {
		t.Errorf("limit = %v", got)
	}
	if gotUA == "" {
		t.Error("expected a User-Agent header per the usage policy")
	}

	if len(places) != 1 {
		t.Fatalf("expected the unparseable entry skipped, got %d places", len(places))
	}
	if places[0].Name != "Bilbao, Biscay, Spain" {
		t.Errorf("name = %q", places[0].Name)
	}
	if !places[0].Position.Equal(domain.GeoPoint{Lat: 43.2630018, Lng: -2.9350039}) {
		t.Errorf("position = %v", places[0].Position)
	}
}

func TestClient_Search_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := nominatim.NewClient(srv.URL, 5*time.Second)
	places, err := client.Search(context.Background(), "nowhere-at-all", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("expected no places, got %d", len(places))
	}
}

func TestClient_Search_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := nominatim.NewClient(srv.URL, 5*time.Second)
	if _, err := client.Search(context.Background(), "bilbao", 5); err == nil {
		t.Fatal("expected an error for a 429 response")
	}
}
