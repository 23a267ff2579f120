package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTrack = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Angels Camp to Murphys</name>
    <trkseg>
      <trkpt lat="38.0675" lon="-120.5436"><ele>420</ele></trkpt>
      <trkpt lat="38.1391" lon="-120.4561"><ele>660</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`

const sampleWaypoints = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="48.8584" lon="2.2945"><name>Eiffel Tower</name></wpt>
</gpx>`

func TestParseGPXTrack(t *testing.T) {
	points, err := ParseGPXTrack(sampleTrack)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, Point{Latitude: 38.0675, Longitude: -120.5436}, points[0])

	km, err := TrackLengthKm(sampleTrack)
	require.NoError(t, err)
	assert.InDelta(t, 11.05, km, 0.1)
}

func TestParseGPXTrack_FallsBackToWaypoints(t *testing.T) {
	points, err := ParseGPXTrack(sampleWaypoints)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Latitude: 48.8584, Longitude: 2.2945}}, points)
}

func TestParseGPXTrack_Errors(t *testing.T) {
	_, err := ParseGPXTrack("   ")
	assert.Error(t, err)

	_, err = ParseGPXTrack("<gpx")
	assert.Error(t, err)

	_, err = ParseGPXTrack(`<gpx version="1.1" xmlns="http://www.topografix.com/GPX/1/1"></gpx>`)
	assert.Error(t, err)
}
