package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const walkingProfile = "foot-walking"

// RouteService forwards direction requests to an OpenRouteService instance.
// It is stateless; every call is a single upstream request with no caching.
type RouteService struct {
	client *resty.Client
}

// NewRouteService creates a directions gateway against the given base URL
func NewRouteService(baseURL, apiKey string) *RouteService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", apiKey).
		SetHeader("Content-Type", "application/json")

	return &RouteService{client: client}
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// CalculateRoute requests a walking route between start and end and returns
// the gateway's GeoJSON response unmodified. Coordinate pairs are forwarded
// as received.
func (s *RouteService) CalculateRoute(ctx context.Context, start, end []float64) (json.RawMessage, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(directionsRequest{Coordinates: [][]float64{start, end}}).
		Post(fmt.Sprintf("/v2/directions/%s/geojson", walkingProfile))
	if err != nil {
		return nil, fmt.Errorf("failed to call directions service: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("directions service returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return json.RawMessage(resp.Body()), nil
}
