// Package mapsync keeps an abstract map surface in step with the itinerary
// and place views: point markers, a single route overlay and a single
// highlighted marker.
package mapsync

import (
	"github.com/dpup/tripkit/internal/lib/geo"
)

// Handle identifies a marker on a surface. The empty handle means "none".
type Handle string

// MarkerKind tells item markers from place markers
type MarkerKind string

const (
	KindItem  MarkerKind = "item"
	KindPlace MarkerKind = "place"
)

// Marker is the payload attached to a point marker
type Marker struct {
	ID    string     `json:"id"`
	Kind  MarkerKind `json:"kind"`
	Point geo.Point  `json:"point"`
	Label string     `json:"label"`
	Color string     `json:"color,omitempty"`
	DayID string     `json:"day_id,omitempty"`
}

// Key identifies the marker across rebuilds, e.g. "item:i1" or "place:p1"
func (m Marker) Key() string {
	return string(m.Kind) + ":" + m.ID
}

// Surface is the map capability set the synchronizer drives. Implementations
// render markers however they like; clustering is their concern.
type Surface interface {
	// ClearMarkers removes every point marker
	ClearMarkers()

	// AddMarker places a marker and returns its handle
	AddMarker(point geo.Point, payload Marker) Handle

	// SetRouteOverlay installs the route polyline, replacing any previous
	// one. Nil removes the overlay.
	SetRouteOverlay(points []geo.Point)

	// FitToPoints moves the view to show every point
	FitToPoints(points []geo.Point)

	// SetHighlighted highlights one marker (or its cluster). The empty handle
	// removes the highlight.
	SetHighlighted(handle Handle)
}
