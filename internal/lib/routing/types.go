package routing

import (
	"context"

	"github.com/dpup/tripkit/internal/lib/geo"
	"github.com/dpup/tripkit/internal/lib/places"
)

// Proximity describes how close a place is to a route
type Proximity string

const (
	OnRoute Proximity = "on_route" // within the on-route threshold of the polyline
	Nearby  Proximity = "nearby"   // within the nearby threshold
	Distant Proximity = "distant"  // beyond it
)

// Route is an ordered polyline, usually one day of an itinerary
type Route struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Points []geo.Point `json:"points"`
}

// PlaceMatch is a place classified against a route
type PlaceMatch struct {
	Place      places.Place `json:"place"`
	Proximity  Proximity    `json:"proximity"`
	DistanceKm float64      `json:"distance_km"`
	RouteID    string       `json:"route_id"`
}

// Matcher classifies places against route geometry
type Matcher interface {
	// Classify a single place against a route
	Classify(ctx context.Context, place places.Place, route Route) (PlaceMatch, error)

	// NearRoute returns the on-route and nearby places, nearest first
	NearRoute(ctx context.Context, candidates []places.Place, route Route) ([]PlaceMatch, error)
}

// NewMatcher is implemented in matcher.go
