package places

import (
	"math"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Default duplicate thresholds. The location delta is an absolute degree
// difference per axis, roughly 11 m at the equator and narrower in longitude
// as latitude grows.
const (
	DefaultNameDistance  = 5
	DefaultLocationDelta = 0.0001
)

// DuplicateDetector flags an existing place that is probably the same as a
// place about to be created. A match is only a candidate for the user to
// confirm; nothing is merged.
type DuplicateDetector interface {
	// FindDuplicate returns the first existing place whose name or location
	// is close to the candidate
	FindDuplicate(candidate Place, existing []Place) (Place, bool)
}

// DuplicateOption configures a DuplicateDetector
type DuplicateOption func(*duplicateDetector)

// WithNameDistance sets the edit distance below which names count as close
func WithNameDistance(distance int) DuplicateOption {
	return func(d *duplicateDetector) {
		d.nameDistance = distance
	}
}

// WithLocationDelta sets the per-axis degree delta below which coordinates
// count as close. The delta is in degrees, not metres, so the east-west
// ground distance it covers shrinks toward the poles.
func WithLocationDelta(delta float64) DuplicateOption {
	return func(d *duplicateDetector) {
		d.locationDelta = delta
	}
}

type duplicateDetector struct {
	nameDistance  int
	locationDelta float64
}

// NewDuplicateDetector creates a detector with the default thresholds unless
// overridden.
func NewDuplicateDetector(opts ...DuplicateOption) DuplicateDetector {
	d := &duplicateDetector{
		nameDistance:  DefaultNameDistance,
		locationDelta: DefaultLocationDelta,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindDuplicate runs the default detector
func FindDuplicate(candidate Place, existing []Place) (Place, bool) {
	return NewDuplicateDetector().FindDuplicate(candidate, existing)
}

func (d *duplicateDetector) FindDuplicate(candidate Place, existing []Place) (Place, bool) {
	// Caser values carry state, so fold with a fresh one per scan
	fold := cases.Fold()
	name := fold.String(candidate.Name)

	for _, place := range existing {
		// A place being edited is not a duplicate of itself
		if candidate.ID != "" && place.ID == candidate.ID {
			continue
		}

		if d.closeName(name, fold.String(place.Name)) || d.closeLocation(candidate, place) {
			return place, true
		}
	}
	return Place{}, false
}

func (d *duplicateDetector) closeName(a, b string) bool {
	return levenshtein.ComputeDistance(a, b) < d.nameDistance
}

func (d *duplicateDetector) closeLocation(a, b Place) bool {
	return math.Abs(a.Latitude-b.Latitude) < d.locationDelta &&
		math.Abs(a.Longitude-b.Longitude) < d.locationDelta
}
