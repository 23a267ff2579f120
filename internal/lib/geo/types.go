package geo

// Point represents a geographic coordinate in decimal degrees (WGS84)
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Bounds is a lat/lng rectangle given by its north-east and south-west
// corners. A rectangle whose south-west longitude is greater than its
// north-east longitude wraps around the antimeridian.
type Bounds struct {
	NorthEast Point `json:"northeast"`
	SouthWest Point `json:"southwest"`
}

// NewPoint creates a Point, reporting false when the coordinates are outside
// |lat| <= 90 and |lng| <= 180
func NewPoint(latitude, longitude float64) (Point, bool) {
	p := Point{Latitude: latitude, Longitude: longitude}
	return p, p.Valid()
}

// Valid reports whether the point lies within the legal coordinate range.
func (p Point) Valid() bool {
	return isValidCoordinate(p)
}

// DistanceKm returns the great-circle distance from p to other in kilometres.
func (p Point) DistanceKm(other Point) float64 {
	return DistanceKm(p.Latitude, p.Longitude, other.Latitude, other.Longitude)
}

// String renders the point as "lat, lng" using FormatCoordinate.
func (p Point) String() string {
	return FormatCoordinate(p.Latitude) + ", " + FormatCoordinate(p.Longitude)
}
