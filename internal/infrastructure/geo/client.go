// Package geo resolves free-text places through a Nominatim-style geocoder
// and estimates routes against an OSRM HTTP server. Used only to enrich
// request display; callers tolerate every failure.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type coord struct {
	Lat float64
	Lng float64
}

// Client implements ports.RouteEstimator over plain HTTP.
type Client struct {
	geocodeEndpoint string
	routeEndpoint   string
	http            *http.Client
}

func NewClient(geocodeEndpoint, routeEndpoint string) *Client {
	return &Client{
		geocodeEndpoint: geocodeEndpoint,
		routeEndpoint:   routeEndpoint,
		http:            &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) EstimateRoute(ctx context.Context, origin, destination string) (*ports.RouteEstimate, error) {
	from, err := c.geocode(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("geocode origin: %w", err)
	}
	to, err := c.geocode(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("geocode destination: %w", err)
	}

	distance, duration, err := c.route(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &ports.RouteEstimate{
		OriginLat:       from.Lat,
		OriginLng:       from.Lng,
		DestinationLat:  to.Lat,
		DestinationLng:  to.Lng,
		DistanceMeters:  distance,
		DurationSeconds: duration,
	}, nil
}

func (c *Client) geocode(ctx context.Context, place string) (coord, error) {
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", c.geocodeEndpoint, url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return coord{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return coord{}, err
	}
	defer resp.Body.Close()

	var out []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return coord{}, err
	}
	if len(out) == 0 {
		return coord{}, fmt.Errorf("no result for %q", place)
	}

	lat, err := strconv.ParseFloat(out[0].Lat, 64)
	if err != nil {
		return coord{}, err
	}
	lng, err := strconv.ParseFloat(out[0].Lon, 64)
	if err != nil {
		return coord{}, err
	}
	return coord{Lat: lat, Lng: lng}, nil
}

// route queries OSRM: /route/v1/driving/{lon1},{lat1};{lon2},{lat2}
func (c *Client) route(ctx context.Context, from, to coord) (distance, duration float64, err error) {
	u := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		c.routeEndpoint, from.Lng, from.Lat, to.Lng, to.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	var out struct {
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"routes"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, err
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return 0, 0, fmt.Errorf("no route: %v", out.Code)
	}
	return out.Routes[0].Distance, out.Routes[0].Duration, nil
}
