package itinerary

// FlatItem is a trip item together with the day it belongs to, the shape
// consumed by the exporters
type FlatItem struct {
	TripItem
	DayLabel string
	DayDate  string
	DayIndex int
	LegKm    *float64
}

// Flatten lists every item of the trip in stored order: days in trip order,
// items in the order they were added to their day
func Flatten(trip Trip) []FlatItem {
	var out []FlatItem
	for di, day := range trip.Days {
		for _, item := range day.Items {
			if item.DayID == "" {
				item.DayID = day.ID
			}
			out = append(out, FlatItem{
				TripItem: item,
				DayLabel: day.Label,
				DayDate:  day.Date,
				DayIndex: di,
			})
		}
	}
	return out
}

// FlattenView lists the items of the visible days of a view model in display
// order, carrying leg distances
func FlattenView(vm ViewModel) []FlatItem {
	var out []FlatItem
	for di, day := range vm.Days {
		if !day.Visible {
			continue
		}
		for _, item := range day.Items {
			fi := FlatItem{
				TripItem: item.TripItem,
				DayLabel: day.Label,
				DayDate:  day.Date,
				DayIndex: di,
				LegKm:    item.LegKm,
			}
			if fi.DayID == "" {
				fi.DayID = day.ID
			}
			out = append(out, fi)
		}
	}
	return out
}
