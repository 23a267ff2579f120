package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/tripkit/internal/cache"
	"github.com/dpup/tripkit/internal/config"
	"github.com/dpup/tripkit/internal/lib/itinerary"
	"github.com/dpup/tripkit/internal/snapshot"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "parse-coords":
		handleParseCoords(args)
	case "parse-url":
		handleParseURL(args)
	case "distance":
		handleDistance(args)
	case "decode-polyline":
		handleDecodePolyline(args)
	case "dedupe":
		handleDedupe(args)
	case "itinerary":
		handleItinerary(args)
	case "places":
		handlePlaces(args)
	case "map":
		handleMap(args)
	case "nearby":
		handleNearby(args)
	case "export":
		handleExport(args)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setFlags collects repeated -set key=value overrides
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// env bundles what the data commands share: configuration, the loaded
// snapshot and a memoizing composer.
type env struct {
	ctx      context.Context
	cfg      *config.Config
	snap     *snapshot.Snapshot
	composer *itinerary.Composer
	stop     context.CancelFunc
}

type envFlags struct {
	configPath *string
	dataPath   *string
	overrides  setFlags
}

func addEnvFlags(fs *flag.FlagSet) *envFlags {
	ef := &envFlags{
		configPath: fs.String("config", "", "Path to a YAML config file"),
		dataPath:   fs.String("data", "", "Path to a YAML or JSON snapshot"),
	}
	fs.Var(&ef.overrides, "set", "Config override as key=value (repeatable)")
	return ef
}

func (ef *envFlags) open(requireData bool) *env {
	overrides, err := config.ParseOverrides(ef.overrides)
	if err != nil {
		log.Fatalf("Invalid override: %v", err)
	}
	cfg, err := config.Load(*ef.configPath, overrides)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(logging.EnsureLogger(context.Background()))
	c := cache.NewCache()
	if cfg.Cache.TTL > 0 {
		c.StartPeriodicCleanup(ctx, cfg.Cache.CleanupInterval)
	}

	e := &env{
		ctx:      ctx,
		cfg:      cfg,
		composer: itinerary.NewComposer(c, cfg.Cache.TTL),
		stop:     cancel,
	}

	if *ef.dataPath == "" {
		if requireData {
			cancel()
			log.Fatalf("-data is required")
		}
		e.snap = &snapshot.Snapshot{}
		return e
	}

	e.snap, err = snapshot.Load(*ef.dataPath)
	if err != nil {
		cancel()
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	return e
}

func printUsage() {
	fmt.Println("tripkit - itinerary and map tooling")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tripkit <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  parse-coords     Parse a pasted coordinate pair (decimal, DMS or DDM)")
	fmt.Println("  parse-url        Extract coordinates from a maps URL")
	fmt.Println("  distance         Great-circle distance between two points")
	fmt.Println("  decode-polyline  Decode an encoded polyline")
	fmt.Println("  dedupe           Check a candidate place against a snapshot")
	fmt.Println("  itinerary        Print the itinerary view, optionally filtered")
	fmt.Println("  places           List places passing the map display filters")
	fmt.Println("  map              Synchronize a scene onto an in-memory map surface")
	fmt.Println("  nearby           Classify trip places against a day route or polyline")
	fmt.Println("  export           Export the itinerary as ICS, CSV or KML")
	fmt.Println("  help             Show this help message")
	fmt.Println()
	fmt.Println("Data commands accept -data <snapshot.yaml>, -config <config.yaml>")
	fmt.Println("and repeated -set key=value overrides, e.g. -set calendar.timezone=UTC.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tripkit parse-coords -input \"48°51'29.5\\\"N 2°17'40.2\\\"E\"")
	fmt.Println("  tripkit distance -from \"38.0675,-120.5436\" -to \"38.1391,-120.4561\"")
	fmt.Println("  tripkit itinerary -data trip.yaml -q museum")
	fmt.Println("  tripkit export -data trip.yaml -format ics -out trip.ics")
}
