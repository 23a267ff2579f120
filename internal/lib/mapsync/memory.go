package mapsync

import (
	"github.com/google/uuid"

	"github.com/dpup/tripkit/internal/lib/geo"
)

// MemorySurface is a Surface that records what it was asked to draw. It backs
// tests and headless rendering.
type MemorySurface struct {
	markers     map[Handle]Marker
	order       []Handle
	overlay     []geo.Point
	fit         []geo.Point
	highlighted Handle

	// Call counters
	Clears     int
	Adds       int
	Overlays   int
	Fits       int
	Highlights int

	// OnAdd, when set, runs after each AddMarker
	OnAdd func(h Handle, m Marker)
}

// NewMemorySurface creates an empty surface
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{markers: make(map[Handle]Marker)}
}

func (m *MemorySurface) ClearMarkers() {
	m.Clears++
	m.markers = make(map[Handle]Marker)
	m.order = nil
	m.highlighted = ""
}

func (m *MemorySurface) AddMarker(point geo.Point, payload Marker) Handle {
	m.Adds++
	h := Handle(uuid.NewString())
	payload.Point = point
	m.markers[h] = payload
	m.order = append(m.order, h)
	if m.OnAdd != nil {
		m.OnAdd(h, payload)
	}
	return h
}

func (m *MemorySurface) SetRouteOverlay(points []geo.Point) {
	m.Overlays++
	m.overlay = append([]geo.Point(nil), points...)
	if len(points) == 0 {
		m.overlay = nil
	}
}

func (m *MemorySurface) FitToPoints(points []geo.Point) {
	m.Fits++
	m.fit = append([]geo.Point(nil), points...)
}

func (m *MemorySurface) SetHighlighted(h Handle) {
	m.Highlights++
	m.highlighted = h
}

// Markers returns the markers in the order they were added
func (m *MemorySurface) Markers() []Marker {
	out := make([]Marker, 0, len(m.order))
	for _, h := range m.order {
		out = append(out, m.markers[h])
	}
	return out
}

// Handles returns the marker handles in the order they were added
func (m *MemorySurface) Handles() []Handle {
	return append([]Handle(nil), m.order...)
}

// Overlay returns the installed route overlay, nil when there is none
func (m *MemorySurface) Overlay() []geo.Point {
	return m.overlay
}

// EncodedOverlay returns the route overlay as an encoded polyline
func (m *MemorySurface) EncodedOverlay() string {
	return geo.EncodePolyline(m.overlay)
}

// Fit returns the points of the last FitToPoints call
func (m *MemorySurface) Fit() []geo.Point {
	return m.fit
}

// Highlighted returns the highlighted marker, if any
func (m *MemorySurface) Highlighted() (Marker, bool) {
	if m.highlighted == "" {
		return Marker{}, false
	}
	marker, ok := m.markers[m.highlighted]
	return marker, ok
}
