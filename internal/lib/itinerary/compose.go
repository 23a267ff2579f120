package itinerary

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dpup/tripkit/internal/lib/geo"
)

// ViewModel is the derived, read-only projection of a trip for one search
// query
type ViewModel struct {
	TripID string    `json:"trip_id"`
	Query  string    `json:"query"`
	Days   []DayView `json:"days"`
	Totals Totals    `json:"totals"`
}

// DayView is one day of the view model
type DayView struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Date    string     `json:"date,omitempty"`
	Items   []ItemView `json:"items"`
	Stats   DayStats   `json:"stats"`
	Visible bool       `json:"visible"`
}

// DayStats summarises the items that survived the search
type DayStats struct {
	Count     int     `json:"count"`
	Cost      float64 `json:"cost"`
	HasPlaces bool    `json:"has_places"`
}

// Totals summarises the visible days
type Totals struct {
	Days  int     `json:"days"`
	Items int     `json:"items"`
	Cost  float64 `json:"cost"`
}

// ItemView is an item annotated with its resolved location and the distance
// from the previous locatable item of the same day
type ItemView struct {
	TripItem
	Point     geo.Point `json:"point"`
	Locatable bool      `json:"locatable"`
	LegKm     *float64  `json:"leg_km,omitempty"`
}

// Visible returns the visible days in order
func (vm ViewModel) Visible() []DayView {
	out := make([]DayView, 0, len(vm.Days))
	for _, d := range vm.Days {
		if d.Visible {
			out = append(out, d)
		}
	}
	return out
}

// Day looks a day up by ID
func (vm ViewModel) Day(id string) (DayView, bool) {
	for _, d := range vm.Days {
		if d.ID == id {
			return d, true
		}
	}
	return DayView{}, false
}

// Compose derives the view model of trip for query. It is a pure function of
// its inputs: the same trip and query always give the same view model.
//
// Items of each day are sorted by time using plain string comparison, so
// untimed items come first. A non-empty query keeps the items whose text,
// place name or comment contain it, ignoring case, and hides days with no
// surviving item.
func Compose(trip Trip, query string) ViewModel {
	query = strings.TrimSpace(query)
	needle := normalizeQuery(query)

	vm := ViewModel{
		TripID: trip.ID,
		Query:  query,
		Days:   make([]DayView, 0, len(trip.Days)),
	}

	fold := cases.Fold()
	for _, day := range trip.Days {
		dv := DayView{
			ID:    day.ID,
			Label: day.Label,
			Date:  day.Date,
			Items: []ItemView{},
		}

		for _, item := range annotate(day.Items) {
			if needle != "" && !matches(item.TripItem, needle, fold) {
				continue
			}
			dv.Items = append(dv.Items, item)
			dv.Stats.Count++
			dv.Stats.Cost += item.Cost()
			if item.Place != nil {
				dv.Stats.HasPlaces = true
			}
		}

		// Days are never filtered by their own label
		dv.Visible = needle == "" || len(dv.Items) > 0
		if dv.Visible {
			vm.Totals.Days++
			vm.Totals.Items += dv.Stats.Count
			vm.Totals.Cost += dv.Stats.Cost
		}

		vm.Days = append(vm.Days, dv)
	}

	return vm
}

// annotate sorts a day's items by time and resolves locations and leg
// distances. Legs are measured on the full schedule, before any search.
func annotate(items []TripItem) []ItemView {
	sorted := SortByTime(items)

	out := make([]ItemView, len(sorted))
	var prev *geo.Point
	for i, item := range sorted {
		out[i] = ItemView{TripItem: item}

		p, ok := item.Location()
		if !ok {
			continue
		}
		out[i].Point = p
		out[i].Locatable = true

		if prev != nil {
			km := geo.RoundKm(prev.DistanceKm(p))
			out[i].LegKm = &km
		}
		prev = &out[i].Point
	}
	return out
}

// SortByTime returns a copy of items ordered by time, keeping the original
// order among equal times
func SortByTime(items []TripItem) []TripItem {
	sorted := make([]TripItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Time < sorted[b].Time
	})
	return sorted
}

func matches(item TripItem, needle string, fold cases.Caser) bool {
	return strings.Contains(fold.String(item.Text), needle) ||
		strings.Contains(fold.String(item.PlaceName()), needle) ||
		strings.Contains(fold.String(item.Comment), needle)
}

// normalizeQuery trims and case-folds a search query
func normalizeQuery(query string) string {
	return cases.Fold().String(strings.TrimSpace(query))
}
