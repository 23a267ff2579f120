package routing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/tripkit/internal/lib/geo"
	"github.com/dpup/tripkit/internal/lib/itinerary"
	"github.com/dpup/tripkit/internal/lib/places"
)

// Default thresholds
const (
	DefaultOnRouteMeters = 100.0
	DefaultNearbyKm      = 2.0
)

// ErrEmptyRoute is returned when a route has no points
var ErrEmptyRoute = errors.New("route has no points")

// Option configures a Matcher
type Option func(*matcher)

// WithOnRouteMeters sets the on-route threshold in metres
func WithOnRouteMeters(m float64) Option {
	return func(r *matcher) {
		r.onRouteKm = m / 1000
	}
}

// WithNearbyKm sets the nearby threshold in kilometres
func WithNearbyKm(km float64) Option {
	return func(r *matcher) {
		r.nearbyKm = km
	}
}

// matcher implements the Matcher interface
type matcher struct {
	onRouteKm float64
	nearbyKm  float64
}

// NewMatcher creates a new Matcher
func NewMatcher(opts ...Option) Matcher {
	m := &matcher{
		onRouteKm: DefaultOnRouteMeters / 1000,
		nearbyKm:  DefaultNearbyKm,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Classify classifies a single place against the route
func (m *matcher) Classify(ctx context.Context, place places.Place, route Route) (PlaceMatch, error) {
	if len(route.Points) == 0 {
		return PlaceMatch{}, fmt.Errorf("classify %s: %w", route.ID, ErrEmptyRoute)
	}

	point, ok := place.Location()
	if !ok {
		return PlaceMatch{}, fmt.Errorf("place %s has invalid coordinates", place.ID)
	}

	distance, err := geo.PointToPolylineKm(point, route.Points)
	if err != nil {
		return PlaceMatch{}, err
	}

	// Determine classification based on distance and threshold
	proximity := Distant
	if distance <= m.onRouteKm {
		proximity = OnRoute
	} else if distance <= m.nearbyKm {
		proximity = Nearby
	}

	return PlaceMatch{
		Place:      place,
		Proximity:  proximity,
		DistanceKm: geo.RoundKm(distance),
		RouteID:    route.ID,
	}, nil
}

// NearRoute classifies every candidate and keeps the ones that are on or
// near the route. Places with invalid coordinates are skipped.
func (m *matcher) NearRoute(ctx context.Context, candidates []places.Place, route Route) ([]PlaceMatch, error) {
	if len(route.Points) == 0 {
		return nil, fmt.Errorf("near route %s: %w", route.ID, ErrEmptyRoute)
	}

	var matches []PlaceMatch
	skipped := 0
	for _, p := range candidates {
		match, err := m.Classify(ctx, p, route)
		if err != nil {
			skipped++
			continue
		}
		if match.Proximity != Distant {
			matches = append(matches, match)
		}
	}

	if skipped > 0 {
		ctx = logging.EnsureLogger(ctx)
		logging.Debugw(ctx, "Routing: skipped places without coordinates", "route", route.ID, "skipped", skipped)
	}

	// Nearest first, on-route before nearby on ties
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Proximity == OnRoute && matches[j].Proximity != OnRoute
	})

	return matches, nil
}

// DayRoute builds the route of one day of a view model from its locatable
// items, in time order
func DayRoute(vm itinerary.ViewModel, dayID string) (Route, bool) {
	day, ok := vm.Day(dayID)
	if !ok {
		return Route{}, false
	}

	route := Route{ID: day.ID, Name: day.Label}
	for _, item := range day.Items {
		if item.Locatable {
			route.Points = append(route.Points, item.Point)
		}
	}
	return route, len(route.Points) > 0
}

// RouteFromPolyline decodes an encoded polyline into a route
func RouteFromPolyline(id, encoded string) (Route, error) {
	points, err := geo.DecodePolyline(encoded)
	if err != nil {
		return Route{}, fmt.Errorf("route %s: %w", id, err)
	}
	return Route{ID: id, Points: points}, nil
}
