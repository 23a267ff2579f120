// Package geo holds the coordinate math used by the itinerary engine:
// great-circle distances, geofencing, coordinate text parsing and polyline
// encoding. Everything here is a pure function.
package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm calculates the great-circle distance between two coordinates in
// kilometres using the Haversine formula. The result is symmetric in its
// arguments and zero for identical points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}

	// Convert degrees to radians
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	sinLat := math.Sin(dlat / 2)
	sinLng := math.Sin(dlng / 2)
	a := sinLat*sinLat + math.Cos(rlat1)*math.Cos(rlat2)*sinLng*sinLng

	// Rounding can push a marginally above 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// RoundKm rounds a distance to two decimals, the precision used for
// itinerary legs.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// PathLengthKm sums the great-circle length of consecutive segments.
func PathLengthKm(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i-1].DistanceKm(points[i])
	}
	return total
}

// PointToPolylineKm calculates the minimum distance from point to any segment
// of the polyline. A single-point polyline degrades to point distance.
func PointToPolylineKm(point Point, line []Point) (float64, error) {
	if !isValidCoordinate(point) {
		return 0, errors.New("invalid point coordinates")
	}

	switch len(line) {
	case 0:
		return 0, errors.New("polyline has no points")
	case 1:
		return point.DistanceKm(line[0]), nil
	}

	minDistance := math.Inf(1)
	for i := 0; i < len(line)-1; i++ {
		d := pointToSegmentKm(point, line[i], line[i+1])
		if d < minDistance {
			minDistance = d
		}
	}

	return minDistance, nil
}

// pointToSegmentKm calculates the cross-track distance from point to the
// great circle through the segment, clamped to the nearest endpoint when the
// projection falls outside the segment.
func pointToSegmentKm(point, start, end Point) float64 {
	if start == end {
		return point.DistanceKm(start)
	}

	toStart := point.DistanceKm(start)
	toEnd := point.DistanceKm(end)
	segment := start.DistanceKm(end)

	// Sub-metre segments behave like points
	if segment < 0.001 {
		return math.Min(toStart, toEnd)
	}

	bearingSegment := initialBearing(start, end)
	bearingPoint := initialBearing(start, point)

	// Projection lies behind the segment start
	if math.Cos(bearingPoint-bearingSegment) < 0 {
		return toStart
	}

	d13 := toStart / EarthRadiusKm
	dxt := math.Asin(math.Sin(d13) * math.Sin(bearingPoint-bearingSegment))
	crossTrack := math.Abs(dxt) * EarthRadiusKm

	alongTrack := math.Acos(math.Min(1, math.Cos(d13)/math.Cos(dxt))) * EarthRadiusKm
	if alongTrack > segment {
		return toEnd
	}

	return crossTrack
}

// initialBearing returns the initial great-circle bearing from a to b in radians.
func initialBearing(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dlng := (b.Longitude - a.Longitude) * math.Pi / 180

	y := math.Sin(dlng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlng)
	return math.Atan2(y, x)
}

// EncodePolyline encodes points with the Google polyline algorithm (5 digit
// precision). An empty slice encodes to "".
func EncodePolyline(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline decodes Google polyline string to point sequence
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
