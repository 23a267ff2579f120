// Package snapshot loads the records the engine works on. It stands in for
// the data layer: a YAML or JSON document holding categories, places and a
// trip.
package snapshot

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dpup/tripkit/internal/lib/itinerary"
	"github.com/dpup/tripkit/internal/lib/places"
)

// Snapshot is one consistent read of the data layer
type Snapshot struct {
	Categories []places.Category `yaml:"categories"`
	Places     []places.Place    `yaml:"places"`
	Trip       itinerary.Trip    `yaml:"trip"`
}

// Load reads and resolves a snapshot file
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a snapshot from YAML (or JSON, which YAML accepts) and
// resolves its references
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.Resolve()
	return &s, nil
}

// Resolve inlines category and place references. Dangling references are
// left nil: the place shows as uncategorized, the item as unlocated unless
// it has its own coordinates. Items missing a day ID get their day's.
func (s *Snapshot) Resolve() {
	categories := make(map[string]*places.Category, len(s.Categories))
	for i := range s.Categories {
		categories[s.Categories[i].ID] = &s.Categories[i]
	}

	for i := range s.Places {
		p := &s.Places[i]
		p.Category = categories[p.CategoryID]
	}

	byID := s.PlaceIndex()
	for d := range s.Trip.Days {
		day := &s.Trip.Days[d]
		for j := range day.Items {
			item := &day.Items[j]
			if item.DayID == "" {
				item.DayID = day.ID
			}
			item.Place = nil
			if item.PlaceID == "" {
				continue
			}
			if p, ok := byID[item.PlaceID]; ok {
				item.Place = &p
			}
		}
	}
}

// PlaceIndex maps place IDs to places
func (s *Snapshot) PlaceIndex() map[string]places.Place {
	idx := make(map[string]places.Place, len(s.Places))
	for _, p := range s.Places {
		idx[p.ID] = p
	}
	return idx
}

// TripPlaces returns the places attached to the trip, in PlaceIDs order.
// Unknown IDs are skipped.
func (s *Snapshot) TripPlaces() []places.Place {
	idx := s.PlaceIndex()
	out := make([]places.Place, 0, len(s.Trip.PlaceIDs))
	for _, id := range s.Trip.PlaceIDs {
		if p, ok := idx[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
