package export

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/twpayne/go-kml"

	"github.com/dpup/tripkit/internal/lib/geo"
	"github.com/dpup/tripkit/internal/lib/mapsync"
)

const (
	routeStyleID     = "route"
	highlightStyleID = "highlight"
	trackStyleID     = "track"
)

var (
	routeColor = color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	trackColor = color.RGBA{R: 0x6D, G: 0x4C, B: 0x41, A: 0xFF}
)

type kmlMarker struct {
	handle mapsync.Handle
	marker mapsync.Marker
}

type kmlTrack struct {
	name   string
	points []geo.Point
}

// KMLSurface is a map surface that renders to a KML document: markers become
// placemarks, the route overlay a line string, and the highlighted marker
// gets its own style
type KMLSurface struct {
	name        string
	markers     []kmlMarker
	overlay     []geo.Point
	highlighted mapsync.Handle
	view        *geo.Bounds
	tracks      []kmlTrack
	next        int
}

// NewKMLSurface creates a surface for a document called name
func NewKMLSurface(name string) *KMLSurface {
	return &KMLSurface{name: name}
}

func (k *KMLSurface) ClearMarkers() {
	k.markers = nil
	k.highlighted = ""
}

func (k *KMLSurface) AddMarker(point geo.Point, payload mapsync.Marker) mapsync.Handle {
	k.next++
	h := mapsync.Handle("pm-" + strconv.Itoa(k.next))
	payload.Point = point
	k.markers = append(k.markers, kmlMarker{handle: h, marker: payload})
	return h
}

func (k *KMLSurface) SetRouteOverlay(points []geo.Point) {
	k.overlay = append([]geo.Point(nil), points...)
}

func (k *KMLSurface) FitToPoints(points []geo.Point) {
	k.view = geo.BoundsOf(points)
}

func (k *KMLSurface) SetHighlighted(h mapsync.Handle) {
	k.highlighted = h
}

// AddTrack adds a GPX track drawn as its own line string
func (k *KMLSurface) AddTrack(name string, points []geo.Point) {
	if len(points) < 2 {
		return
	}
	k.tracks = append(k.tracks, kmlTrack{name: name, points: points})
}

// View returns the bounds of the last FitToPoints call
func (k *KMLSurface) View() *geo.Bounds {
	return k.view
}

// Write renders the document
func (k *KMLSurface) Write(w io.Writer) error {
	doc := kml.Document(kml.Name(k.name), kml.Open(true))

	routeStyle := kml.SharedStyle(routeStyleID,
		kml.LineStyle(kml.Color(routeColor), kml.Width(4)),
	)
	trackStyle := kml.SharedStyle(trackStyleID,
		kml.LineStyle(kml.Color(trackColor), kml.Width(2)),
	)
	highlightStyle := kml.SharedStyle(highlightStyleID,
		kml.IconStyle(kml.Scale(1.6)),
	)
	doc.Add(routeStyle, trackStyle, highlightStyle)

	// One shared style per marker color
	colorStyles := map[string]string{}
	for _, m := range k.markers {
		c := m.marker.Color
		if _, ok := colorStyles[c]; ok {
			continue
		}
		rgba, ok := parseHexColor(c)
		if !ok {
			continue
		}
		style := kml.SharedStyle(colorStyleID(c), kml.IconStyle(kml.Color(rgba)))
		doc.Add(style)
		colorStyles[c] = style.URL()
	}

	if len(k.markers) > 0 {
		folder := kml.Folder(kml.Name("Markers"))
		for _, m := range k.markers {
			pm := kml.Placemark(kml.Name(m.marker.Label))
			switch {
			case m.handle == k.highlighted:
				pm.Add(kml.StyleURL(highlightStyle.URL()))
			case colorStyles[m.marker.Color] != "":
				pm.Add(kml.StyleURL(colorStyles[m.marker.Color]))
			}
			if m.marker.DayID != "" {
				pm.Add(kml.Description("Day " + m.marker.DayID))
			}
			pm.Add(kml.Point(kml.Coordinates(coordinate(m.marker.Point))))
			folder.Add(pm)
		}
		doc.Add(folder)
	}

	if len(k.overlay) >= 2 {
		doc.Add(kml.Placemark(
			kml.Name("Route"),
			kml.StyleURL(routeStyle.URL()),
			kml.LineString(kml.Tessellate(true), kml.Coordinates(coordinates(k.overlay)...)),
		))
	}

	if len(k.tracks) > 0 {
		folder := kml.Folder(kml.Name("Tracks"))
		for _, t := range k.tracks {
			folder.Add(kml.Placemark(
				kml.Name(t.name),
				kml.StyleURL(trackStyle.URL()),
				kml.LineString(kml.Tessellate(true), kml.Coordinates(coordinates(t.points)...)),
			))
		}
		doc.Add(folder)
	}

	if err := kml.KML(doc).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write kml: %w", err)
	}
	return nil
}

func coordinate(p geo.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
}

func coordinates(points []geo.Point) []kml.Coordinate {
	out := make([]kml.Coordinate, len(points))
	for i, p := range points {
		out[i] = coordinate(p)
	}
	return out
}

func colorStyleID(hex string) string {
	return "marker-" + strings.ToLower(strings.TrimPrefix(hex, "#"))
}

// parseHexColor parses "#RRGGBB"
func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, true
}
