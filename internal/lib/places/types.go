package places

import (
	"github.com/dpup/tripkit/internal/lib/geo"
)

// Display fallbacks for a place whose category was removed
const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#9E9E9E"
)

// Category groups places for display and filtering
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Place is a user-created point of interest. CategoryID references a Category;
// Category is the resolved record inlined by the data layer and is nil when
// the reference dangles.
type Place struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Latitude    float64   `json:"lat" yaml:"lat"`
	Longitude   float64   `json:"lng" yaml:"lng"`
	Address     string    `json:"place,omitempty" yaml:"place,omitempty"` // Free-text address or label
	CategoryID  string    `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Category    *Category `json:"category,omitempty" yaml:"-"`
	GPX         string    `json:"gpx,omitempty" yaml:"gpx,omitempty"` // Raw GPX document
	Price       *float64  `json:"price,omitempty" yaml:"price,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Visited     bool      `json:"visited" yaml:"visited"`
	Favorite    bool      `json:"favorite" yaml:"favorite"`
	AllowDog    bool      `json:"allowdog" yaml:"allowdog"`
	Restroom    bool      `json:"restroom" yaml:"restroom"`
}

// Location returns the place coordinates, reporting false when they are out
// of range.
func (p Place) Location() (geo.Point, bool) {
	return geo.NewPoint(p.Latitude, p.Longitude)
}

// CategoryName returns the category name or the uncategorized label
func (p Place) CategoryName() string {
	if p.Category == nil || p.Category.Name == "" {
		return UncategorizedName
	}
	return p.Category.Name
}

// CategoryColor returns the category color or a neutral grey
func (p Place) CategoryColor() string {
	if p.Category == nil || p.Category.Color == "" {
		return UncategorizedColor
	}
	return p.Category.Color
}

// TrackKm returns the length of the place's GPX track, or false when the
// place has no usable track.
func (p Place) TrackKm() (float64, bool) {
	if p.GPX == "" {
		return 0, false
	}
	km, err := geo.TrackLengthKm(p.GPX)
	if err != nil {
		return 0, false
	}
	return km, true
}
