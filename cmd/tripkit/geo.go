package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dpup/tripkit/internal/lib/geo"
)

func handleParseCoords(args []string) {
	fs := flag.NewFlagSet("parse-coords", flag.ExitOnError)
	input := fs.String("input", "", "Coordinate text, e.g. \"48.8584, 2.2945\"")
	fs.Parse(args)

	if *input == "" {
		fmt.Println("Example usage:")
		fmt.Println("  tripkit parse-coords -input \"38°4'3\\\"N 120°32'37\\\"W\"")
		os.Exit(1)
	}

	p, ok := geo.ParseCoordinatePair(*input)
	if !ok {
		log.Fatalf("Not a coordinate pair: %q", *input)
	}
	fmt.Printf("Parsed %q:\n", *input)
	fmt.Printf("  Latitude:  %s\n", geo.FormatCoordinate(p.Latitude))
	fmt.Printf("  Longitude: %s\n", geo.FormatCoordinate(p.Longitude))
}

func handleParseURL(args []string) {
	fs := flag.NewFlagSet("parse-url", flag.ExitOnError)
	raw := fs.String("url", "", "Maps URL")
	fs.Parse(args)

	if *raw == "" {
		fmt.Println("Example usage:")
		fmt.Println("  tripkit parse-url -url \"https://www.google.com/maps/place/@38.1391,-120.4561,15z\"")
		os.Exit(1)
	}

	p, ok := geo.ParseMapsURL(*raw)
	if !ok {
		log.Fatalf("No coordinates found in %q", *raw)
	}
	fmt.Printf("Coordinates: %s\n", p)
}

func handleDistance(args []string) {
	fs := flag.NewFlagSet("distance", flag.ExitOnError)
	from := fs.String("from", "", "First point as \"lat,lng\"")
	to := fs.String("to", "", "Second point as \"lat,lng\"")
	fs.Parse(args)

	if *from == "" || *to == "" {
		fmt.Println("Example usage:")
		fmt.Println("  tripkit distance -from \"38.0675,-120.5436\" -to \"38.1391,-120.4561\"")
		fmt.Println("  (Distance between Angels Camp and Murphys)")
		os.Exit(1)
	}

	p1, ok := geo.ParseCoordinatePair(*from)
	if !ok {
		log.Fatalf("Invalid -from point: %q", *from)
	}
	p2, ok := geo.ParseCoordinatePair(*to)
	if !ok {
		log.Fatalf("Invalid -to point: %q", *to)
	}

	km := p1.DistanceKm(p2)
	fmt.Printf("Distance between points:\n")
	fmt.Printf("  Point 1: %s\n", p1)
	fmt.Printf("  Point 2: %s\n", p2)
	fmt.Printf("  Distance: %.2f km (%.2f miles)\n", geo.RoundKm(km), km*0.621371)
}

func handleDecodePolyline(args []string) {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	encoded := fs.String("polyline", "", "Encoded polyline string")
	fs.Parse(args)

	if *encoded == "" {
		fmt.Println("Example usage:")
		fmt.Println("  tripkit decode-polyline -polyline \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\"")
		os.Exit(1)
	}

	points, err := geo.DecodePolyline(*encoded)
	if err != nil {
		log.Fatalf("Error decoding polyline: %v", err)
	}

	fmt.Printf("Decoded %d points (%.2f km):\n", len(points), geo.RoundKm(geo.PathLengthKm(points)))
	for i, p := range points {
		fmt.Printf("  %d: %s\n", i+1, p)
	}
}
