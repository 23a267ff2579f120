package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	// Eiffel Tower to Notre-Dame de Paris is roughly 4.1 km
	d := DistanceKm(48.8584, 2.2945, 48.8530, 2.3499)
	assert.InDelta(t, 4.1, d, 0.1)

	// Angels Camp to Murphys, ~11.0 km
	d = DistanceKm(38.0675, -120.5436, 38.1391, -120.4561)
	assert.InDelta(t, 11.046, d, 0.1)
}

func TestDistanceKm_SymmetryAndIdentity(t *testing.T) {
	pairs := [][4]float64{
		{48.8584, 2.2945, 40.6892, -74.0445},
		{-33.8568, 151.2153, 35.6586, 139.7454},
		{0, 179.9, 0, -179.9},
		{89.9, 0, -89.9, 180},
	}
	for _, p := range pairs {
		assert.Equal(t, DistanceKm(p[0], p[1], p[2], p[3]), DistanceKm(p[2], p[3], p[0], p[1]))
		assert.Equal(t, 0.0, DistanceKm(p[0], p[1], p[0], p[1]))
		assert.GreaterOrEqual(t, DistanceKm(p[0], p[1], p[2], p[3]), 0.0)
	}

	// Across the antimeridian the short way round
	assert.InDelta(t, 22.2, DistanceKm(0, 179.9, 0, -179.9), 0.1)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 4.12, RoundKm(4.1234))
	assert.Equal(t, 4.13, RoundKm(4.125))
	assert.Equal(t, 0.0, RoundKm(0.004))
}

func TestPathLengthKm(t *testing.T) {
	assert.Equal(t, 0.0, PathLengthKm(nil))
	assert.Equal(t, 0.0, PathLengthKm([]Point{{Latitude: 1, Longitude: 1}}))

	path := []Point{
		{Latitude: 38.0675, Longitude: -120.5436},
		{Latitude: 38.1391, Longitude: -120.4561},
		{Latitude: 38.0675, Longitude: -120.5436},
	}
	assert.InDelta(t, 22.09, PathLengthKm(path), 0.2)
}

func TestPointToPolylineKm(t *testing.T) {
	route := []Point{
		{Latitude: 38.0675, Longitude: -120.5436}, // Angels Camp
		{Latitude: 38.1391, Longitude: -120.4561}, // Murphys
	}

	d, err := PointToPolylineKm(Point{Latitude: 38.0675, Longitude: -120.5436}, route)
	require.NoError(t, err)
	assert.Less(t, d, 0.1)

	d, err = PointToPolylineKm(Point{Latitude: 38.1000, Longitude: -120.5000}, route)
	require.NoError(t, err)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 2.0)

	// Behind the start of the segment the distance is to the start point
	behind := Point{Latitude: 38.0000, Longitude: -120.6200}
	d, err = PointToPolylineKm(behind, route)
	require.NoError(t, err)
	assert.InDelta(t, behind.DistanceKm(route[0]), d, 0.001)

	_, err = PointToPolylineKm(Point{Latitude: 1, Longitude: 1}, nil)
	assert.Error(t, err)

	_, err = PointToPolylineKm(Point{Latitude: 200, Longitude: 1}, route)
	assert.Error(t, err)

	d, err = PointToPolylineKm(route[1], route[:1])
	require.NoError(t, err)
	assert.InDelta(t, 11.046, d, 0.1)
}

func TestPolylineRoundTrip(t *testing.T) {
	// Reference example from the polyline algorithm documentation
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	points, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, Point{Latitude: 38.5, Longitude: -120.2}, points[0])
	assert.Equal(t, Point{Latitude: 43.252, Longitude: -126.453}, points[2])

	assert.Equal(t, encoded, EncodePolyline(points))
	assert.Equal(t, "", EncodePolyline(nil))

	_, err = DecodePolyline("")
	assert.Error(t, err)

	_, err = DecodePolyline("!!!")
	assert.Error(t, err, "bytes below '?' are invalid")
}

func TestNewPoint(t *testing.T) {
	_, ok := NewPoint(48.8584, 2.2945)
	assert.True(t, ok)

	_, ok = NewPoint(90.0001, 0)
	assert.False(t, ok)

	_, ok = NewPoint(0, -180.5)
	assert.False(t, ok)

	assert.Equal(t, "48.8584, 2.2945", Point{Latitude: 48.8584, Longitude: 2.2945}.String())
}
