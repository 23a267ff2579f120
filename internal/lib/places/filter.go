package places

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/dpup/tripkit/internal/lib/geo"
)

// Filters are the standing map display predicates applied to the full place
// collection. Every enabled predicate must hold (AND semantics); zero values
// disable a predicate.
type Filters struct {
	HideVisited     bool
	FavoritesOnly   bool
	RestroomOnly    bool
	DogFriendlyOnly bool

	// Categories is the active category set keyed by category ID. Empty means
	// every category is active. Uncategorized places are keyed by "".
	Categories map[string]bool

	// Query matches name, address or description, case-insensitively
	Query string

	// Geofence restricts places to a geocoded search area
	Geofence *geo.Bounds

	// Viewport restricts places to the visible map area
	Viewport *geo.Bounds
}

// CategoryKey is the key a place is filed under in Filters.Categories
func CategoryKey(p Place) string {
	if p.Category == nil {
		return ""
	}
	return p.Category.ID
}

// FilterPlaces returns the places that pass every active filter, preserving
// input order.
func FilterPlaces(all []Place, f Filters) []Place {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(f.Query))

	out := make([]Place, 0, len(all))
	for _, p := range all {
		if f.matches(p, query, fold) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filters) matches(p Place, query string, fold cases.Caser) bool {
	if f.HideVisited && p.Visited {
		return false
	}
	if f.FavoritesOnly && !p.Favorite {
		return false
	}
	if f.RestroomOnly && !p.Restroom {
		return false
	}
	if f.DogFriendlyOnly && !p.AllowDog {
		return false
	}
	if len(f.Categories) > 0 && !f.Categories[CategoryKey(p)] {
		return false
	}

	if query != "" &&
		!strings.Contains(fold.String(p.Name), query) &&
		!strings.Contains(fold.String(p.Address), query) &&
		!strings.Contains(fold.String(p.Description), query) {
		return false
	}

	if f.Geofence != nil && !f.Geofence.Contains(geo.Point{Latitude: p.Latitude, Longitude: p.Longitude}) {
		return false
	}
	if f.Viewport != nil && !f.Viewport.Contains(geo.Point{Latitude: p.Latitude, Longitude: p.Longitude}) {
		return false
	}
	return true
}
