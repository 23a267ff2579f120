package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinatePair_Decimal(t *testing.T) {
	p, ok := ParseCoordinatePair("48.8584, 2.2945")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 48.8584, Longitude: 2.2945}, p)

	p, ok = ParseCoordinatePair("  -33.8568,151.2153 ")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: -33.8568, Longitude: 151.2153}, p)

	p, ok = ParseCoordinatePair("+40, -74")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 40, Longitude: -74}, p)

	// Syntactically a pair but out of range
	_, ok = ParseCoordinatePair("95.1, 20")
	assert.False(t, ok)
	_, ok = ParseCoordinatePair("45, 181")
	assert.False(t, ok)
}

func TestParseCoordinatePair_Hemisphere(t *testing.T) {
	p, ok := ParseCoordinatePair("48.8584° N, 2.2945° E")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 48.8584, Longitude: 2.2945}, p)

	p, ok = ParseCoordinatePair("33.8568°S 151.2153°E")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: -33.8568, Longitude: 151.2153}, p)

	p, ok = ParseCoordinatePair("40.6892° n, 74.0445° w")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 40.6892, Longitude: -74.0445}, p)

	_, ok = ParseCoordinatePair("91° N, 10° E")
	assert.False(t, ok)
}

func TestParseCoordinatePair_DMS(t *testing.T) {
	p, ok := ParseCoordinatePair(`48°51'30" N, 2°17'40.2" E`)
	require.True(t, ok)
	assert.InDelta(t, 48.858333, p.Latitude, 1e-6)
	assert.InDelta(t, 2.2945, p.Longitude, 1e-6)

	p, ok = ParseCoordinatePair(`33°51'24.5"S 151°12'55.1"E`)
	require.True(t, ok)
	assert.InDelta(t, -33.856806, p.Latitude, 1e-6)
	assert.InDelta(t, 151.215306, p.Longitude, 1e-6)

	// Minutes must stay below 60
	_, ok = ParseCoordinatePair(`48°61'30" N, 2°17'40" E`)
	assert.False(t, ok)
}

func TestParseCoordinatePair_DDM(t *testing.T) {
	p, ok := ParseCoordinatePair(`48°51.5' N, 2°17.67' W`)
	require.True(t, ok)
	assert.InDelta(t, 48.858333, p.Latitude, 1e-6)
	assert.InDelta(t, -2.2945, p.Longitude, 1e-6)
}

func TestParseCoordinatePair_Unrecognised(t *testing.T) {
	for _, input := range []string{"", "Paris", "48.8584", "48.8584,", "1234.5, 2", "N 48, E 2"} {
		_, ok := ParseCoordinatePair(input)
		assert.False(t, ok, input)
	}
}

func TestFormatCoordinate(t *testing.T) {
	assert.Equal(t, "48.8584", FormatCoordinate(48.8584))
	assert.Equal(t, "48.85837", FormatCoordinate(48.858370123))
	assert.Equal(t, "2.29449", FormatCoordinate(2.294488))
	assert.Equal(t, "-74", FormatCoordinate(-74))
	assert.Equal(t, "0", FormatCoordinate(-0.000001))
	assert.Equal(t, "12.5", FormatCoordinate(12.50000))
}

func TestFormatCoordinate_RoundTrip(t *testing.T) {
	inputs := [][2]string{
		{"48.8584", "2.2945"},
		{"-33.85681", "151.21534"},
		{"0", "0"},
		{"90", "-180"},
		{"-0.5", "179.99999"},
		{"12.34567", "-98.76543"},
	}
	for _, in := range inputs {
		p, ok := ParseCoordinatePair(in[0] + ", " + in[1])
		require.True(t, ok, in)
		assert.Equal(t, in[0], FormatCoordinate(p.Latitude))
		assert.Equal(t, in[1], FormatCoordinate(p.Longitude))
	}
}

func TestParseMapsURL(t *testing.T) {
	p, ok := ParseMapsURL("https://www.google.com/maps/place/Eiffel+Tower/@48.8583701,2.2922926,17z/data=!3m1!4b1!4m6!3m5!1s0x0:0x0!8m2!3d48.8583701!4d2.2944813")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 48.8583701, Longitude: 2.2944813}, p, "place pin wins over viewport")

	p, ok = ParseMapsURL("https://www.google.com/maps/@-33.8567844,151.213108,15z")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: -33.8567844, Longitude: 151.213108}, p)

	p, ok = ParseMapsURL("https://maps.google.com/?q=40.6892,-74.0445")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 40.6892, Longitude: -74.0445}, p)

	p, ok = ParseMapsURL("https://www.google.com/maps/search/?api=1&query=35.6586%2C139.7454")
	require.True(t, ok)
	assert.Equal(t, Point{Latitude: 35.6586, Longitude: 139.7454}, p)

	for _, raw := range []string{"", "not a url", "https://example.com/somewhere", "https://maps.google.com/?q=Eiffel+Tower", "/relative/@1,2"} {
		_, ok := ParseMapsURL(raw)
		assert.False(t, ok, raw)
	}
}
