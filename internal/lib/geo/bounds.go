package geo

import "math"

// IsInBounds reports whether (lat, lng) lies inside the rectangle. Edges are
// inclusive. When the south-west longitude is east of the north-east
// longitude the box straddles the antimeridian and a point is inside if it is
// east of the west edge or west of the east edge. Nil or malformed bounds
// contain nothing.
func IsInBounds(lat, lng float64, bounds *Bounds) bool {
	if !bounds.wellFormed() {
		return false
	}

	ne, sw := bounds.NorthEast, bounds.SouthWest
	if lat < sw.Latitude || lat > ne.Latitude {
		return false
	}

	if sw.Longitude <= ne.Longitude {
		return lng >= sw.Longitude && lng <= ne.Longitude
	}
	return lng >= sw.Longitude || lng <= ne.Longitude
}

// Contains is IsInBounds for a Point.
func (b *Bounds) Contains(p Point) bool {
	return IsInBounds(p.Latitude, p.Longitude, b)
}

// wellFormed rejects nil boxes, NaN or out-of-range corners, and boxes whose
// south edge lies north of their north edge.
func (b *Bounds) wellFormed() bool {
	if b == nil {
		return false
	}
	for _, v := range []float64{b.NorthEast.Latitude, b.NorthEast.Longitude, b.SouthWest.Latitude, b.SouthWest.Longitude} {
		if math.IsNaN(v) {
			return false
		}
	}
	if !isValidCoordinate(b.NorthEast) || !isValidCoordinate(b.SouthWest) {
		return false
	}
	return b.SouthWest.Latitude <= b.NorthEast.Latitude
}

// BoundsOf returns the smallest non-wrapping rectangle holding every point,
// or nil for an empty slice.
func BoundsOf(points []Point) *Bounds {
	if len(points) == 0 {
		return nil
	}
	b := &Bounds{NorthEast: points[0], SouthWest: points[0]}
	for _, p := range points[1:] {
		b.NorthEast.Latitude = math.Max(b.NorthEast.Latitude, p.Latitude)
		b.NorthEast.Longitude = math.Max(b.NorthEast.Longitude, p.Longitude)
		b.SouthWest.Latitude = math.Min(b.SouthWest.Latitude, p.Latitude)
		b.SouthWest.Longitude = math.Min(b.SouthWest.Longitude, p.Longitude)
	}
	return b
}
