package geo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/twpayne/go-gpx"
)

// ParseGPXTrack decodes raw GPX text into an ordered list of points. Track
// points are preferred; documents without tracks fall back to route points
// and then to waypoints. Points with out-of-range coordinates are dropped.
func ParseGPXTrack(raw string) ([]Point, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("gpx document is empty")
	}

	doc, err := gpx.Read(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gpx: %w", err)
	}

	var points []Point
	add := func(wpts []*gpx.WptType) {
		for _, w := range wpts {
			if w == nil {
				continue
			}
			if p, ok := NewPoint(w.Lat, w.Lon); ok {
				points = append(points, p)
			}
		}
	}

	for _, trk := range doc.Trk {
		for _, seg := range trk.TrkSeg {
			add(seg.TrkPt)
		}
	}
	if len(points) == 0 {
		for _, rte := range doc.Rte {
			add(rte.RtePt)
		}
	}
	if len(points) == 0 {
		add(doc.Wpt)
	}

	if len(points) == 0 {
		return nil, errors.New("gpx document has no points")
	}
	return points, nil
}

// TrackLengthKm parses raw GPX and returns the track length in kilometres,
// rounded to two decimals.
func TrackLengthKm(raw string) (float64, error) {
	points, err := ParseGPXTrack(raw)
	if err != nil {
		return 0, err
	}
	return RoundKm(PathLengthKm(points)), nil
}
