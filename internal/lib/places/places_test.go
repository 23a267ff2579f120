package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/tripkit/internal/lib/geo"
)

var (
	museums = &Category{ID: "cat-museum", Name: "Museums", Color: "#8E24AA"}
	parks   = &Category{ID: "cat-park", Name: "Parks", Color: "#43A047"}
)

func samplePlaces() []Place {
	return []Place{
		{ID: "p1", Name: "Louvre Museum", Latitude: 48.8606, Longitude: 2.3376, Address: "Rue de Rivoli", Category: museums, CategoryID: museums.ID, Visited: true, Restroom: true},
		{ID: "p2", Name: "Jardin du Luxembourg", Latitude: 48.8462, Longitude: 2.3372, Category: parks, CategoryID: parks.ID, Favorite: true, AllowDog: true},
		{ID: "p3", Name: "Musée d'Orsay", Latitude: 48.8600, Longitude: 2.3266, Category: museums, CategoryID: museums.ID, Favorite: true, Restroom: true},
		{ID: "p4", Name: "Big Ben", Latitude: 51.5007, Longitude: -0.1246, CategoryID: "deleted", Description: "Clock tower by the river"},
	}
}

func TestFindDuplicate_IdenticalPlace(t *testing.T) {
	existing := samplePlaces()
	candidate := Place{Name: "Louvre Museum", Latitude: 48.8606, Longitude: 2.3376}

	match, ok := FindDuplicate(candidate, existing)
	require.True(t, ok)
	assert.Equal(t, "p1", match.ID)
}

func TestFindDuplicate_CloseName(t *testing.T) {
	existing := samplePlaces()

	// Case differences and a small typo, far away
	match, ok := FindDuplicate(Place{Name: "LOUVRE musem", Latitude: 10, Longitude: 10}, existing)
	require.True(t, ok)
	assert.Equal(t, "p1", match.ID)
}

func TestFindDuplicate_CloseLocation(t *testing.T) {
	existing := samplePlaces()

	// Same pin, unrelated name
	match, ok := FindDuplicate(Place{Name: "Somewhere completely different", Latitude: 48.86005, Longitude: 2.32665}, existing)
	require.True(t, ok)
	assert.Equal(t, "p3", match.ID)

	// Only one axis within the delta is not enough
	_, ok = FindDuplicate(Place{Name: "Somewhere completely different", Latitude: 48.86005, Longitude: 2.3300}, existing)
	assert.False(t, ok)
}

func TestFindDuplicate_FirstMatchWins(t *testing.T) {
	existing := []Place{
		{ID: "a", Name: "Cafe One", Latitude: 1, Longitude: 1},
		{ID: "b", Name: "Cafe Two", Latitude: 2, Longitude: 2},
	}

	// Both names are within distance; iteration order decides
	match, ok := FindDuplicate(Place{Name: "Cafe", Latitude: 50, Longitude: 50}, existing)
	require.True(t, ok)
	assert.Equal(t, "a", match.ID)
}

func TestFindDuplicate_NoMatch(t *testing.T) {
	existing := samplePlaces()

	_, ok := FindDuplicate(Place{Name: "Sagrada Familia", Latitude: 41.4036, Longitude: 2.1744}, existing)
	assert.False(t, ok)

	_, ok = FindDuplicate(Place{Name: "Anything"}, nil)
	assert.False(t, ok)
}

func TestFindDuplicate_Monotonicity(t *testing.T) {
	a := Place{ID: "x", Name: "Golden Gate Bridge", Latitude: 37.8199, Longitude: -122.4783}

	// Identical name and coordinates are always flagged
	_, ok := FindDuplicate(Place{Name: a.Name, Latitude: a.Latitude, Longitude: a.Longitude}, []Place{a})
	assert.True(t, ok)

	// Distant names and coordinates beyond the delta on both axes never are
	_, ok = FindDuplicate(Place{Name: "Alcatraz Island", Latitude: 37.8200 + 0.0002, Longitude: -122.4783 + 0.0002}, []Place{a})
	assert.False(t, ok)
}

func TestFindDuplicate_SkipsSelf(t *testing.T) {
	existing := samplePlaces()

	// Editing p1 in place must not report p1
	_, ok := FindDuplicate(existing[0], existing[:1])
	assert.False(t, ok)
}

func TestDuplicateDetector_Options(t *testing.T) {
	strict := NewDuplicateDetector(WithNameDistance(1), WithLocationDelta(0.00001))
	existing := samplePlaces()

	_, ok := strict.FindDuplicate(Place{Name: "Louvre Museu", Latitude: 10, Longitude: 10}, existing)
	assert.False(t, ok, "one edit is not below a threshold of one")

	_, ok = strict.FindDuplicate(Place{Name: "louvre museum", Latitude: 10, Longitude: 10}, existing)
	assert.True(t, ok, "case folding leaves zero edits")

	_, ok = strict.FindDuplicate(Place{Name: "Elsewhere entirely", Latitude: 48.86005, Longitude: 2.32665}, existing)
	assert.False(t, ok)
}

func TestPlace_CategoryFallback(t *testing.T) {
	all := samplePlaces()

	assert.Equal(t, "Museums", all[0].CategoryName())
	assert.Equal(t, "#8E24AA", all[0].CategoryColor())

	assert.Equal(t, UncategorizedName, all[3].CategoryName())
	assert.Equal(t, UncategorizedColor, all[3].CategoryColor())
}

func TestPlace_Location(t *testing.T) {
	p, ok := samplePlaces()[0].Location()
	require.True(t, ok)
	assert.Equal(t, geo.Point{Latitude: 48.8606, Longitude: 2.3376}, p)

	_, ok = Place{Latitude: 120}.Location()
	assert.False(t, ok)
}

func TestPlace_TrackKm(t *testing.T) {
	_, ok := Place{}.TrackKm()
	assert.False(t, ok)

	_, ok = Place{GPX: "not xml"}.TrackKm()
	assert.False(t, ok)

	p := Place{GPX: `<gpx version="1.1" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>
		<trkpt lat="38.0675" lon="-120.5436"></trkpt>
		<trkpt lat="38.1391" lon="-120.4561"></trkpt>
	</trkseg></trk></gpx>`}
	km, ok := p.TrackKm()
	require.True(t, ok)
	assert.InDelta(t, 11.05, km, 0.1)
}

func ids(ps []Place) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFilterPlaces_Predicates(t *testing.T) {
	all := samplePlaces()

	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(FilterPlaces(all, Filters{})))
	assert.Equal(t, []string{"p2", "p3", "p4"}, ids(FilterPlaces(all, Filters{HideVisited: true})))
	assert.Equal(t, []string{"p2", "p3"}, ids(FilterPlaces(all, Filters{FavoritesOnly: true})))
	assert.Equal(t, []string{"p1", "p3"}, ids(FilterPlaces(all, Filters{RestroomOnly: true})))
	assert.Equal(t, []string{"p2"}, ids(FilterPlaces(all, Filters{DogFriendlyOnly: true})))

	// AND semantics
	assert.Equal(t, []string{"p3"}, ids(FilterPlaces(all, Filters{HideVisited: true, RestroomOnly: true})))
	assert.Empty(t, FilterPlaces(all, Filters{DogFriendlyOnly: true, RestroomOnly: true}))
}

func TestFilterPlaces_Categories(t *testing.T) {
	all := samplePlaces()

	assert.Equal(t, []string{"p1", "p3"}, ids(FilterPlaces(all, Filters{Categories: map[string]bool{"cat-museum": true}})))
	assert.Equal(t, []string{"p4"}, ids(FilterPlaces(all, Filters{Categories: map[string]bool{"": true}})))
	assert.Empty(t, FilterPlaces(all, Filters{Categories: map[string]bool{"cat-museum": false}}))
}

func TestFilterPlaces_Query(t *testing.T) {
	all := samplePlaces()

	assert.Equal(t, []string{"p1"}, ids(FilterPlaces(all, Filters{Query: "  LOUVRE "})))
	assert.Equal(t, []string{"p1"}, ids(FilterPlaces(all, Filters{Query: "rivoli"})))
	assert.Equal(t, []string{"p4"}, ids(FilterPlaces(all, Filters{Query: "clock"})))
	assert.Equal(t, []string{"p3"}, ids(FilterPlaces(all, Filters{Query: "musée"})))
}

func TestFilterPlaces_Bounds(t *testing.T) {
	all := samplePlaces()
	paris := &geo.Bounds{
		NorthEast: geo.Point{Latitude: 48.9022, Longitude: 2.4699},
		SouthWest: geo.Point{Latitude: 48.8156, Longitude: 2.2242},
	}
	leftBank := &geo.Bounds{
		NorthEast: geo.Point{Latitude: 48.8590, Longitude: 2.4699},
		SouthWest: geo.Point{Latitude: 48.8156, Longitude: 2.2242},
	}

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(FilterPlaces(all, Filters{Geofence: paris})))
	assert.Equal(t, []string{"p2"}, ids(FilterPlaces(all, Filters{Geofence: paris, Viewport: leftBank})))

	// Malformed bounds contain nothing
	assert.Empty(t, FilterPlaces(all, Filters{Geofence: &geo.Bounds{
		NorthEast: geo.Point{Latitude: -10},
		SouthWest: geo.Point{Latitude: 10},
	}}))
}
