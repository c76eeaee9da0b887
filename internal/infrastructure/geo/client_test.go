package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_EstimateRoute(t *testing.T) {
	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		switch {
		case strings.Contains(q, "Madrid"):
			w.Write([]byte(`[{"lat":"40.4168","lon":"-3.7038"}]`))
		case strings.Contains(q, "Valencia"):
			w.Write([]byte(`[{"lat":"39.4699","lon":"-0.3763"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer geocoder.Close()

	router := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/route/v1/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":352000,"duration":12600}]}`))
	}))
	defer router.Close()

	c := NewClient(geocoder.URL, router.URL)
	est, err := c.EstimateRoute(context.Background(), "Madrid", "Valencia")
	if err != nil {
		t.Fatalf("EstimateRoute() error = %v", err)
	}
	if est.DistanceMeters != 352000 {
		t.Errorf("distance = %v, want 352000", est.DistanceMeters)
	}
	if est.DurationSeconds != 12600 {
		t.Errorf("duration = %v, want 12600", est.DurationSeconds)
	}
	if est.OriginLat != 40.4168 || est.DestinationLng != -0.3763 {
		t.Errorf("coords = %+v", est)
	}
}

func TestClient_EstimateRouteErrors(t *testing.T) {
	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer geocoder.Close()

	c := NewClient(geocoder.URL, geocoder.URL)
	if _, err := c.EstimateRoute(context.Background(), "Nowhere", "Elsewhere"); err == nil {
		t.Fatal("expected error for unresolvable place")
	}
}
