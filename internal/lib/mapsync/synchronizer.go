package mapsync

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	prefaberrors "github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"

	"github.com/dpup/tripkit/internal/lib/geo"
)

var (
	// ErrSyncInProgress is returned when a selection change arrives from
	// inside a surface callback while a sync is running
	ErrSyncInProgress = errors.New("map sync already in progress")

	// ErrUnknownMarker is returned when highlighting a marker that is not on
	// the surface
	ErrUnknownMarker = errors.New("marker is not on the map")

	// ErrSurfacePanic wraps a panic raised by a surface implementation
	ErrSurfacePanic = errors.New("map surface panicked")
)

// State is the selection state owned by the synchronizer: at most one
// highlighted marker and at most one route owner (a day ID or AllDays)
type State struct {
	HighlightedID string `json:"highlighted_id,omitempty"` // Marker key
	RouteOwner    string `json:"route_owner,omitempty"`
}

// Synchronizer reconciles a Surface with the latest Scene. It is the single
// writer of its surface and is not safe for concurrent use; hosts with
// several goroutines must serialize calls. Calls made from inside a surface
// callback are detected: a nested Sync is queued and applied once the
// running one finishes, other nested calls fail with ErrSyncInProgress.
type Synchronizer struct {
	surface Surface
	state   State

	scene    Scene
	markers  []Marker // Markers currently on the surface
	handles  map[string]Handle
	byHandle map[Handle]Marker
	overlay  []geo.Point
	lit      Handle

	running bool
	pending *Scene
}

// NewSynchronizer creates a synchronizer driving surface
func NewSynchronizer(surface Surface) *Synchronizer {
	return &Synchronizer{
		surface:  surface,
		handles:  make(map[string]Handle),
		byHandle: make(map[Handle]Marker),
	}
}

// State returns the current selection state
func (s *Synchronizer) State() State {
	return s.state
}

// Scene returns the last scene applied
func (s *Synchronizer) Scene() Scene {
	return s.scene
}

// Sync brings the surface in line with scene. Markers are rebuilt only when
// the marker set changed; the route overlay and highlight are then
// re-applied from the selection state. Syncing the same scene twice leaves
// the surface unchanged.
func (s *Synchronizer) Sync(ctx context.Context, scene Scene) error {
	if s.running {
		s.pending = &scene
		return nil
	}

	s.running = true
	defer func() { s.running = false }()

	for {
		if err := s.apply(ctx, scene); err != nil {
			s.pending = nil
			return err
		}
		if s.pending == nil {
			return nil
		}
		scene, s.pending = *s.pending, nil
	}
}

func (s *Synchronizer) apply(ctx context.Context, scene Scene) error {
	s.scene = scene

	if !sameMarkers(s.markers, scene.Markers) {
		if err := s.rebuildMarkers(ctx, scene.Markers); err != nil {
			return err
		}
	}

	if err := s.applyRoute(ctx); err != nil {
		return err
	}

	return s.applyHighlight(ctx)
}

func (s *Synchronizer) rebuildMarkers(ctx context.Context, markers []Marker) error {
	handles := make(map[string]Handle, len(markers))
	byHandle := make(map[Handle]Marker, len(markers))

	err := s.guard(ctx, "rebuild markers", func() {
		s.surface.ClearMarkers()
		s.lit = ""
		for _, m := range markers {
			if _, dup := handles[m.Key()]; dup {
				continue
			}
			h := s.surface.AddMarker(m.Point, m)
			handles[m.Key()] = h
			byHandle[h] = m
		}
	})
	if err != nil {
		// The surface was cleared; forget its handles and force a full
		// rebuild next time
		s.markers = nil
		s.handles = make(map[string]Handle)
		s.byHandle = make(map[Handle]Marker)
		return err
	}

	s.markers = append([]Marker(nil), markers...)
	s.handles = handles
	s.byHandle = byHandle
	return nil
}

func (s *Synchronizer) applyRoute(ctx context.Context) error {
	var want []geo.Point
	if s.state.RouteOwner != "" {
		want = s.scene.Route(s.state.RouteOwner)
	}
	if samePoints(want, s.overlay) {
		return nil
	}

	err := s.guard(ctx, "set route overlay", func() {
		s.surface.SetRouteOverlay(want)
	})
	if err != nil {
		return err
	}
	s.overlay = want
	return nil
}

func (s *Synchronizer) applyHighlight(ctx context.Context) error {
	want := Handle("")
	if s.state.HighlightedID != "" {
		h, ok := s.handles[s.state.HighlightedID]
		if !ok {
			// Highlighted marker left the map
			s.state.HighlightedID = ""
		}
		want = h
	}
	if want == s.lit {
		return nil
	}
	return s.setHighlighted(ctx, want)
}

func (s *Synchronizer) setHighlighted(ctx context.Context, h Handle) error {
	err := s.guard(ctx, "set highlight", func() {
		// Single slot: drop the previous highlight first
		if s.lit != "" && h != "" {
			s.surface.SetHighlighted("")
		}
		s.surface.SetHighlighted(h)
	})
	if err != nil {
		return err
	}
	s.lit = h
	return nil
}

// ToggleRoute selects the route of dayID, or AllDays. Selecting the current
// owner again removes the route. Returns whether a route is now selected.
func (s *Synchronizer) ToggleRoute(ctx context.Context, dayID string) (bool, error) {
	if s.running {
		return false, ErrSyncInProgress
	}
	s.running = true
	defer func() { s.running = false }()

	if dayID == "" || s.state.RouteOwner == dayID {
		s.state.RouteOwner = ""
	} else {
		s.state.RouteOwner = dayID
	}

	if err := s.applyRoute(ctx); err != nil {
		return false, err
	}
	return s.state.RouteOwner != "", nil
}

// Highlight moves the single highlight slot to the marker with key. An empty
// key clears the highlight.
func (s *Synchronizer) Highlight(ctx context.Context, key string) error {
	if s.running {
		return ErrSyncInProgress
	}
	if key != "" {
		if _, ok := s.handles[key]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMarker, key)
		}
	}

	s.running = true
	defer func() { s.running = false }()

	s.state.HighlightedID = key
	return s.applyHighlight(ctx)
}

// Click resolves a surface handle to its marker and highlights it
func (s *Synchronizer) Click(ctx context.Context, h Handle) (Marker, error) {
	m, ok := s.byHandle[h]
	if !ok {
		return Marker{}, fmt.Errorf("%w: handle %s", ErrUnknownMarker, h)
	}
	if err := s.Highlight(ctx, m.Key()); err != nil {
		return Marker{}, err
	}
	return m, nil
}

// FitAll fits the view to every marker on the surface. A surface without
// markers is left alone.
func (s *Synchronizer) FitAll(ctx context.Context) error {
	if s.running {
		return ErrSyncInProgress
	}
	if len(s.markers) == 0 {
		return nil
	}

	s.running = true
	defer func() { s.running = false }()

	points := make([]geo.Point, len(s.markers))
	for i, m := range s.markers {
		points[i] = m.Point
	}
	return s.guard(ctx, "fit to points", func() {
		s.surface.FitToPoints(points)
	})
}

// guard runs a surface call, turning a panic into ErrSurfacePanic
func (s *Synchronizer) guard(ctx context.Context, op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stackErr, _ := prefaberrors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			ctx := logging.EnsureLogger(ctx)
			logging.Errorw(ctx, "Map sync: recovered from surface panic",
				"op", op, "error", r, "error.stack_trace", stackErr.MinimalStack(skipFrames, numFrames))
			err = fmt.Errorf("%w during %s: %v", ErrSurfacePanic, op, r)
		}
	}()
	fn()
	return nil
}

func sameMarkers(a, b []Marker) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func samePoints(a, b []geo.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
