package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dpup/tripkit/internal/lib/export"
	"github.com/dpup/tripkit/internal/lib/geo"
	"github.com/dpup/tripkit/internal/lib/itinerary"
	"github.com/dpup/tripkit/internal/lib/mapsync"
	"github.com/dpup/tripkit/internal/lib/places"
	"github.com/dpup/tripkit/internal/lib/routing"
)

func handleDedupe(args []string) {
	fs := flag.NewFlagSet("dedupe", flag.ExitOnError)
	ef := addEnvFlags(fs)
	name := fs.String("name", "", "Candidate place name")
	at := fs.String("at", "", "Candidate location as \"lat,lng\"")
	fs.Parse(args)

	if *name == "" || *at == "" {
		fmt.Println("Example usage:")
		fmt.Println("  tripkit dedupe -data trip.yaml -name \"Louvre\" -at \"48.8606,2.3376\"")
		os.Exit(1)
	}

	e := ef.open(true)
	defer e.stop()

	p, ok := geo.ParseCoordinatePair(*at)
	if !ok {
		log.Fatalf("Invalid -at point: %q", *at)
	}

	detector := places.NewDuplicateDetector(
		places.WithNameDistance(e.cfg.Duplicates.NameDistance),
		places.WithLocationDelta(e.cfg.Duplicates.LocationDelta),
	)
	candidate := places.Place{Name: *name, Latitude: p.Latitude, Longitude: p.Longitude}
	if dup, found := detector.FindDuplicate(candidate, e.snap.Places); found {
		fmt.Printf("Duplicate of %q (%s) at %s\n", dup.Name, dup.ID, geo.Point{Latitude: dup.Latitude, Longitude: dup.Longitude})
		os.Exit(2)
	}
	fmt.Println("No duplicate found")
}

func handleItinerary(args []string) {
	fs := flag.NewFlagSet("itinerary", flag.ExitOnError)
	ef := addEnvFlags(fs)
	query := fs.String("q", "", "Filter items by text, place name or comment")
	stats := fs.Bool("stats", false, "Print view model cache details")
	fs.Parse(args)

	e := ef.open(true)
	defer e.stop()

	vm := e.composer.Compose(e.ctx, e.snap.Trip, *query)
	if *stats {
		defer printComposerStats(e, *query)
	}

	fmt.Printf("%s (%d days, %d items, %.2f total)\n", e.snap.Trip.Name, vm.Totals.Days, vm.Totals.Items, vm.Totals.Cost)
	for _, day := range vm.Visible() {
		fmt.Printf("\n%s", day.Label)
		if day.Date != "" {
			fmt.Printf(" [%s]", day.Date)
		}
		fmt.Printf(" - %d items, %.2f\n", day.Stats.Count, day.Stats.Cost)
		for _, item := range day.Items {
			line := fmt.Sprintf("  %-5s %s", item.Time, item.Text)
			if name := item.PlaceName(); name != "" {
				line += " @ " + name
			}
			if item.Status != itinerary.StatusNone {
				line += " (" + item.Status.Label() + ")"
			}
			if item.LegKm != nil {
				line += fmt.Sprintf(" +%.2f km", *item.LegKm)
			}
			fmt.Println(line)
		}
	}
	if len(vm.Visible()) == 0 && vm.Query != "" {
		fmt.Printf("\nNo items match %q\n", vm.Query)
	}
}

func printComposerStats(e *env, query string) {
	fmt.Println()
	if cached, ok := e.composer.Lookup(e.snap.Trip, query); ok {
		fmt.Printf("Cache entry %s: created %s, expires %s, stale %t\n",
			cached.Key, cached.CreatedAt.Format(time.RFC3339), cached.ExpiresAt.Format(time.RFC3339), cached.Stale)
	} else {
		fmt.Println("View model not cached (revision 0 or caching disabled)")
	}
	st := e.composer.Stats()
	fmt.Printf("Cache: %d entries (%d fresh, %d stale)\n", st.TotalEntries, st.FreshEntries, st.StaleEntries)
}

func handlePlaces(args []string) {
	fs := flag.NewFlagSet("places", flag.ExitOnError)
	ef := addEnvFlags(fs)
	hideVisited := fs.Bool("hide-visited", false, "Hide visited places")
	favorites := fs.Bool("favorites", false, "Only favorites")
	restroom := fs.Bool("restroom", false, "Only places with a restroom")
	dogs := fs.Bool("dogs", false, "Only dog friendly places")
	categories := fs.String("categories", "", "Comma separated category IDs; \"-\" for uncategorized")
	query := fs.String("q", "", "Text search")
	bbox := fs.String("bbox", "", "Viewport as \"north,east,south,west\"")
	fs.Parse(args)

	e := ef.open(true)
	defer e.stop()

	f := places.Filters{
		HideVisited:     *hideVisited,
		FavoritesOnly:   *favorites,
		RestroomOnly:    *restroom,
		DogFriendlyOnly: *dogs,
		Query:           *query,
	}
	if *categories != "" {
		f.Categories = make(map[string]bool)
		for _, id := range strings.Split(*categories, ",") {
			id = strings.TrimSpace(id)
			if id == "-" {
				id = ""
			}
			f.Categories[id] = true
		}
	}
	if *bbox != "" {
		b, err := parseBBox(*bbox)
		if err != nil {
			log.Fatalf("Invalid -bbox: %v", err)
		}
		f.Viewport = b
	}

	shown := places.FilterPlaces(e.snap.Places, f)
	fmt.Printf("%d of %d places\n", len(shown), len(e.snap.Places))
	for _, p := range shown {
		line := fmt.Sprintf("  %-24s %-14s %s", p.Name, p.CategoryName(), geo.Point{Latitude: p.Latitude, Longitude: p.Longitude})
		if km, ok := p.TrackKm(); ok {
			line += fmt.Sprintf(" track %.2f km", km)
		}
		fmt.Println(line)
	}
}

func parseBBox(s string) (*geo.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("expected 4 values, got %d", len(parts))
	}
	ne, ok := geo.ParseCoordinatePair(parts[0] + "," + parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid north-east corner")
	}
	sw, ok := geo.ParseCoordinatePair(parts[2] + "," + parts[3])
	if !ok {
		return nil, fmt.Errorf("invalid south-west corner")
	}
	return &geo.Bounds{NorthEast: ne, SouthWest: sw}, nil
}

func handleMap(args []string) {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	ef := addEnvFlags(fs)
	query := fs.String("q", "", "Itinerary filter")
	route := fs.String("route", "", "Day ID whose route to show, or \"*\" for all days")
	highlight := fs.String("highlight", "", "Marker key to highlight, e.g. item:i4")
	fs.Parse(args)

	e := ef.open(true)
	defer e.stop()

	surface := mapsync.NewMemorySurface()
	syncer := mapsync.NewSynchronizer(surface)
	scene := buildScene(e.composer.Compose(e.ctx, e.snap.Trip, *query), e.snap.TripPlaces())

	if err := syncer.Sync(e.ctx, scene); err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
	if *route != "" {
		if _, err := syncer.ToggleRoute(e.ctx, *route); err != nil {
			log.Fatalf("Route failed: %v", err)
		}
	}
	if *highlight != "" {
		if err := syncer.Highlight(e.ctx, *highlight); err != nil {
			log.Fatalf("Highlight failed: %v", err)
		}
	}
	if err := syncer.FitAll(e.ctx); err != nil {
		log.Fatalf("Fit failed: %v", err)
	}

	fmt.Printf("%d markers\n", len(surface.Markers()))
	for _, m := range surface.Markers() {
		fmt.Printf("  %-16s %s %s %s\n", m.Key(), m.Color, m.Point, m.Label)
	}
	if h, ok := surface.Highlighted(); ok {
		fmt.Printf("Highlighted: %s\n", h.Key())
	}
	if enc := surface.EncodedOverlay(); enc != "" {
		fmt.Printf("Route (%d points): %s\n", len(surface.Overlay()), enc)
	}
	if b := geo.BoundsOf(surface.Fit()); b != nil {
		fmt.Printf("Viewport: %s to %s\n", b.SouthWest, b.NorthEast)
	}
}

func buildScene(vm itinerary.ViewModel, tripPlaces []places.Place) mapsync.Scene {
	return mapsync.SceneFromItinerary(vm).Merge(mapsync.SceneFromPlaces(tripPlaces))
}

func handleNearby(args []string) {
	fs := flag.NewFlagSet("nearby", flag.ExitOnError)
	ef := addEnvFlags(fs)
	day := fs.String("day", "", "Day ID whose route to match against")
	encoded := fs.String("polyline", "", "Encoded polyline to match against instead of a day")
	fs.Parse(args)

	if *day == "" && *encoded == "" {
		fmt.Println("Example usage:")
		fmt.Println("  tripkit nearby -data trip.yaml -day d2")
		os.Exit(1)
	}

	e := ef.open(true)
	defer e.stop()

	var route routing.Route
	if *encoded != "" {
		var err error
		route, err = routing.RouteFromPolyline("polyline", *encoded)
		if err != nil {
			log.Fatalf("Invalid polyline: %v", err)
		}
	} else {
		var ok bool
		route, ok = routing.DayRoute(e.composer.Compose(e.ctx, e.snap.Trip, ""), *day)
		if !ok {
			log.Fatalf("Day %q has no route", *day)
		}
	}

	matcher := routing.NewMatcher(
		routing.WithOnRouteMeters(e.cfg.Routing.OnRouteMeters),
		routing.WithNearbyKm(e.cfg.Routing.NearbyKm),
	)
	matches, err := matcher.NearRoute(e.ctx, e.snap.Places, route)
	if err != nil {
		log.Fatalf("Matching failed: %v", err)
	}

	fmt.Printf("%d places near %s (%.2f km)\n", len(matches), route.Name, geo.RoundKm(geo.PathLengthKm(route.Points)))
	for _, m := range matches {
		fmt.Printf("  %-8s %6.2f km  %s\n", m.Proximity, m.DistanceKm, m.Place.Name)
	}
}

func handleExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	ef := addEnvFlags(fs)
	format := fs.String("format", "ics", "Output format: ics, csv or kml")
	out := fs.String("out", "", "Output file (default stdout)")
	fs.Parse(args)

	e := ef.open(true)
	defer e.stop()

	w := io.Writer(os.Stdout)
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "ics":
		exportICS(e, w)
	case "csv":
		vm := e.composer.Compose(e.ctx, e.snap.Trip, "")
		if err := export.WriteCSV(w, itinerary.FlattenView(vm)); err != nil {
			log.Fatalf("CSV export failed: %v", err)
		}
	case "kml":
		exportKML(e, w)
	default:
		log.Fatalf("Unknown format: %s", *format)
	}
}

func exportICS(e *env, w io.Writer) {
	loc, err := e.cfg.Calendar.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}
	cal := export.BuildCalendar(e.ctx, itinerary.Flatten(e.snap.Trip), e.snap.Trip.Name, export.CalendarOptions{
		Location:        loc,
		DefaultDuration: e.cfg.Calendar.DefaultDuration,
		ProdID:          e.cfg.Calendar.ProdID,
	})
	if _, err := io.WriteString(w, cal.Body); err != nil {
		log.Fatalf("ICS export failed: %v", err)
	}
	if cal.SkippedUndated > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d items on days without a date\n", cal.SkippedUndated)
	}
}

func exportKML(e *env, w io.Writer) {
	surface := export.NewKMLSurface(e.snap.Trip.Name)
	syncer := mapsync.NewSynchronizer(surface)
	tripPlaces := e.snap.TripPlaces()

	if err := syncer.Sync(e.ctx, buildScene(e.composer.Compose(e.ctx, e.snap.Trip, ""), tripPlaces)); err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
	if _, err := syncer.ToggleRoute(e.ctx, mapsync.AllDays); err != nil {
		log.Fatalf("Route failed: %v", err)
	}
	if err := syncer.FitAll(e.ctx); err != nil {
		log.Fatalf("Fit failed: %v", err)
	}

	for _, p := range tripPlaces {
		if p.GPX == "" {
			continue
		}
		track, err := geo.ParseGPXTrack(p.GPX)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping track for %s: %v\n", p.Name, err)
			continue
		}
		surface.AddTrack(p.Name, track)
	}

	if err := surface.Write(w); err != nil {
		log.Fatalf("KML export failed: %v", err)
	}
}
