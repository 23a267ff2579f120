package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
duplicates:
  name_distance: 3
calendar:
  default_duration: 90m
  timezone: Europe/Paris
routing:
  nearby_km: 5
`), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Duplicates.NameDistance)
	assert.Equal(t, 0.0001, cfg.Duplicates.LocationDelta, "unset keys keep defaults")
	assert.Equal(t, 90*time.Minute, cfg.Calendar.DefaultDuration)
	assert.Equal(t, 5.0, cfg.Routing.NearbyKm)

	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLoad_EnvAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar:\n  timezone: Europe/Paris\n"), 0o600))

	t.Setenv("TRIPKIT__CALENDAR__TIMEZONE", "UTC")
	t.Setenv("TRIPKIT__DUPLICATES__LOCATION_DELTA", "0.0005")
	t.Setenv("TRIPKIT__CACHE__TTL", "30s")

	cfg, err := Load(path, map[string]string{"cache.ttl": "2m", "Routing.On_Route_Meters": "250"})
	require.NoError(t, err)

	// Environment beats the file
	assert.Equal(t, "UTC", cfg.Calendar.Timezone)
	assert.Equal(t, 0.0005, cfg.Duplicates.LocationDelta)

	// Overrides beat the environment
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 250.0, cfg.Routing.OnRouteMeters)

	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("calendar: [unclosed"), 0o600))
	_, err = Load(bad, nil)
	assert.Error(t, err)

	_, err = Load("", map[string]string{"calendar.timezone": "Mars/Olympus_Mons"})
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = Load("", map[string]string{"calendar.default_duration": "soon"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Duplicates.NameDistance = -1
	cfg.Calendar.DefaultDuration = 0
	cfg.Routing.NearbyKm = 0.05

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "duplicates.name_distance")
	assert.Contains(t, err.Error(), "calendar.default_duration")
	assert.Contains(t, err.Error(), "routing.nearby_km")

	cfg = DefaultConfig()
	cfg.Cache.TTL = 0
	cfg.Cache.CleanupInterval = 0
	assert.NoError(t, cfg.Validate(), "cleanup interval only matters when caching")
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{"calendar.timezone=UTC", " cache.ttl =1m", "calendar.prod_id=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"calendar.timezone": "UTC",
		"cache.ttl":         "1m",
		"calendar.prod_id":  "a=b",
	}, got)

	_, err = ParseOverrides([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseOverrides([]string{"=x"})
	assert.Error(t, err)
}
