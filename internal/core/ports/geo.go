package ports

import "context"

// RouteEstimate is the display-only enrichment for a request's route.
type RouteEstimate struct {
	OriginLat       float64 `json:"origin_lat"`
	OriginLng       float64 `json:"origin_lng"`
	DestinationLat  float64 `json:"destination_lat"`
	DestinationLng  float64 `json:"destination_lng"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RouteEstimator resolves free-text origin/destination and estimates the
// route between them. Consumed only to enrich request display; failures
// must never affect lifecycle correctness.
type RouteEstimator interface {
	EstimateRoute(ctx context.Context, origin, destination string) (*RouteEstimate, error)
}
