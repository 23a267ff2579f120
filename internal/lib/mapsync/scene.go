package mapsync

import (
	"github.com/dpup/tripkit/internal/lib/geo"
	"github.com/dpup/tripkit/internal/lib/itinerary"
	"github.com/dpup/tripkit/internal/lib/places"
)

// AllDays selects the route through every day
const AllDays = "*"

// DefaultItemColor is used for items without a status
const DefaultItemColor = "#1E88E5"

// DayRoute is the ordered locatable points of one day
type DayRoute struct {
	DayID  string      `json:"day_id"`
	Points []geo.Point `json:"points"`
}

// Scene is what the surface should show: markers in draw order and one
// candidate route per day
type Scene struct {
	Markers []Marker   `json:"markers"`
	Routes  []DayRoute `json:"routes"`
}

// SceneFromItinerary builds markers and routes for the visible days of a view
// model. Items without a location are skipped; they still show in lists.
func SceneFromItinerary(vm itinerary.ViewModel) Scene {
	var scene Scene
	for _, day := range vm.Days {
		if !day.Visible {
			continue
		}
		route := DayRoute{DayID: day.ID}
		for _, item := range day.Items {
			if !item.Locatable {
				continue
			}
			scene.Markers = append(scene.Markers, itemMarker(day.ID, item))
			route.Points = append(route.Points, item.Point)
		}
		scene.Routes = append(scene.Routes, route)
	}
	return scene
}

func itemMarker(dayID string, item itinerary.ItemView) Marker {
	label := item.Text
	if item.Time != "" {
		label = item.Time + " " + label
	}
	color := item.Status.Color()
	if color == "" {
		color = DefaultItemColor
	}
	return Marker{
		ID:    item.ID,
		Kind:  KindItem,
		Point: item.Point,
		Label: label,
		Color: color,
		DayID: dayID,
	}
}

// SceneFromPlaces builds one marker per place with valid coordinates
func SceneFromPlaces(ps []places.Place) Scene {
	var scene Scene
	for _, p := range ps {
		point, ok := p.Location()
		if !ok {
			continue
		}
		scene.Markers = append(scene.Markers, Marker{
			ID:    p.ID,
			Kind:  KindPlace,
			Point: point,
			Label: p.Name,
			Color: p.CategoryColor(),
		})
	}
	return scene
}

// Merge returns a scene holding the markers and routes of both. Markers
// whose key already appears in s are dropped.
func (s Scene) Merge(other Scene) Scene {
	seen := make(map[string]bool, len(s.Markers))
	out := Scene{
		Markers: append([]Marker(nil), s.Markers...),
		Routes:  append([]DayRoute(nil), s.Routes...),
	}
	for _, m := range s.Markers {
		seen[m.Key()] = true
	}
	for _, m := range other.Markers {
		if !seen[m.Key()] {
			seen[m.Key()] = true
			out.Markers = append(out.Markers, m)
		}
	}
	out.Routes = append(out.Routes, other.Routes...)
	return out
}

// Route returns the overlay polyline for owner, a day ID or AllDays. Days
// with fewer than two points never contribute; nil means no overlay.
func (s Scene) Route(owner string) []geo.Point {
	var points []geo.Point
	for _, r := range s.Routes {
		if len(r.Points) < 2 {
			continue
		}
		if owner == AllDays || r.DayID == owner {
			points = append(points, r.Points...)
		}
	}
	if len(points) < 2 {
		return nil
	}
	return points
}

// Points returns the position of every marker
func (s Scene) Points() []geo.Point {
	points := make([]geo.Point, len(s.Markers))
	for i, m := range s.Markers {
		points[i] = m.Point
	}
	return points
}
