package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read by Load. Nested keys use a
// double underscore, e.g. TRIPKIT__CALENDAR__TIMEZONE.
const EnvPrefix = "TRIPKIT__"

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config represents the complete engine configuration
type Config struct {
	Duplicates DuplicatesConfig `yaml:"duplicates"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Cache      CacheConfig      `yaml:"cache"`
	Routing    RoutingConfig    `yaml:"routing"`
}

// DuplicatesConfig holds duplicate place detection thresholds
type DuplicatesConfig struct {
	NameDistance  int     `yaml:"name_distance"`  // Names closer than this many edits match
	LocationDelta float64 `yaml:"location_delta"` // Degrees, per axis
}

// CalendarConfig holds ICS export settings
type CalendarConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration"`
	Timezone        string        `yaml:"timezone"` // Empty writes floating times
	ProdID          string        `yaml:"prod_id"`
}

// CacheConfig holds view model memoization settings
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// RoutingConfig holds route proximity thresholds
type RoutingConfig struct {
	OnRouteMeters float64 `yaml:"on_route_meters"`
	NearbyKm      float64 `yaml:"nearby_km"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Duplicates: DuplicatesConfig{
			NameDistance:  5,
			LocationDelta: 0.0001, // ~11 m at the equator
		},
		Calendar: CalendarConfig{
			DefaultDuration: 60 * time.Minute,
			ProdID:          "-//tripkit//itinerary export//EN",
		},
		Cache: CacheConfig{
			TTL:             5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Routing: RoutingConfig{
			OnRouteMeters: 100,
			NearbyKm:      2,
		},
	}
}

// defaultValues flattens DefaultConfig into koanf keys
func defaultValues() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"duplicates.name_distance":  d.Duplicates.NameDistance,
		"duplicates.location_delta": d.Duplicates.LocationDelta,
		"calendar.default_duration": d.Calendar.DefaultDuration.String(),
		"calendar.timezone":         d.Calendar.Timezone,
		"calendar.prod_id":          d.Calendar.ProdID,
		"cache.ttl":                 d.Cache.TTL.String(),
		"cache.cleanup_interval":    d.Cache.CleanupInterval.String(),
		"routing.on_route_meters":   d.Routing.OnRouteMeters,
		"routing.nearby_km":         d.Routing.NearbyKm,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then TRIPKIT__ environment variables, then
// overrides given as dotted keys ("calendar.timezone" = "UTC"). Later
// sources win. The result is validated.
func Load(path string, overrides map[string]string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if len(overrides) > 0 {
		values := make(map[string]interface{}, len(overrides))
		for key, v := range overrides {
			values[strings.ToLower(strings.TrimSpace(key))] = v
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps TRIPKIT__CALENDAR__DEFAULT_DURATION to calendar.default_duration
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// ParseOverrides turns "key=value" pairs into an overrides map
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("override %q is not key=value", p)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

// Validate checks thresholds and the time zone
func (c *Config) Validate() error {
	var errs []error
	if c.Duplicates.NameDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: duplicates.name_distance must not be negative", ErrInvalid))
	}
	if c.Duplicates.LocationDelta < 0 {
		errs = append(errs, fmt.Errorf("%w: duplicates.location_delta must not be negative", ErrInvalid))
	}
	if c.Calendar.DefaultDuration <= 0 {
		errs = append(errs, fmt.Errorf("%w: calendar.default_duration must be positive", ErrInvalid))
	}
	if _, err := c.Calendar.Location(); err != nil {
		errs = append(errs, fmt.Errorf("%w: calendar.timezone: %v", ErrInvalid, err))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalid))
	}
	if c.Cache.TTL > 0 && c.Cache.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache.cleanup_interval must be positive when caching", ErrInvalid))
	}
	if c.Routing.OnRouteMeters < 0 {
		errs = append(errs, fmt.Errorf("%w: routing.on_route_meters must not be negative", ErrInvalid))
	}
	if c.Routing.NearbyKm*1000 < c.Routing.OnRouteMeters {
		errs = append(errs, fmt.Errorf("%w: routing.nearby_km must cover routing.on_route_meters", ErrInvalid))
	}
	return errors.Join(errs...)
}

// Location resolves the calendar time zone. Nil means floating times.
func (c CalendarConfig) Location() (*time.Location, error) {
	switch c.Timezone {
	case "":
		return nil, nil
	case "UTC", "Z":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
