// Package itinerary turns a trip snapshot into the per-day view model shared
// by the list view, the map synchronizer and the exporters.
package itinerary

import (
	"github.com/dpup/tripkit/internal/lib/geo"
	"github.com/dpup/tripkit/internal/lib/places"
)

// DateLayout is the calendar date format of TripDay.Date
const DateLayout = "2006-01-02"

// Trip is a planned trip. Revision changes whenever any day or item changes;
// zero means the data layer does not track revisions.
type Trip struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Revision   int64     `json:"revision,omitempty" yaml:"revision,omitempty"`
	Days       []TripDay `json:"days" yaml:"days"`
	PlaceIDs   []string  `json:"place_ids,omitempty" yaml:"place_ids,omitempty"`
	ShareToken string    `json:"share_token,omitempty" yaml:"share_token,omitempty"`
}

// TripDay is one day of a trip. Date is optional; days without a date are
// left out of calendar exports.
type TripDay struct {
	ID    string     `json:"id" yaml:"id"`
	Label string     `json:"label" yaml:"label"`
	Date  string     `json:"date,omitempty" yaml:"date,omitempty"`
	Items []TripItem `json:"items" yaml:"items"`
}

// TripItem is a scheduled entry within a day. Time is "HH:MM" or empty.
type TripItem struct {
	ID        string        `json:"id" yaml:"id"`
	DayID     string        `json:"day_id" yaml:"day_id"`
	Time      string        `json:"time,omitempty" yaml:"time,omitempty"`
	Text      string        `json:"text" yaml:"text"`
	Comment   string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	Price     *float64      `json:"price,omitempty" yaml:"price,omitempty"`
	Status    Status        `json:"status,omitempty" yaml:"status,omitempty"`
	Latitude  *float64      `json:"lat,omitempty" yaml:"lat,omitempty"`
	Longitude *float64      `json:"lng,omitempty" yaml:"lng,omitempty"`
	PlaceID   string        `json:"place_id,omitempty" yaml:"place_id,omitempty"`
	Place     *places.Place `json:"place,omitempty" yaml:"-"`
}

// Location resolves the item's effective coordinates. The item's own lat/lng
// win over its place; false means the item cannot be put on a map.
func (i TripItem) Location() (geo.Point, bool) {
	if i.Latitude != nil && i.Longitude != nil {
		if p, ok := geo.NewPoint(*i.Latitude, *i.Longitude); ok {
			return p, true
		}
	}
	if i.Place != nil {
		return i.Place.Location()
	}
	return geo.Point{}, false
}

// PlaceName returns the name of the referenced place, if any
func (i TripItem) PlaceName() string {
	if i.Place == nil {
		return ""
	}
	return i.Place.Name
}

// Cost returns the price, treating a missing price as zero
func (i TripItem) Cost() float64 {
	if i.Price == nil {
		return 0
	}
	return *i.Price
}
