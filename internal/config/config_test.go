package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/ephem"
	"github.com/pscicluna/obsplan/internal/night"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.BackupOptions()
	require.NoError(t, err)
	assert.Equal(t, backup.DefaultOptions(), opts)

	nopts, err := cfg.NightOptions()
	require.NoError(t, err)
	assert.Equal(t, night.DefaultOptions(), nopts)

	model, err := cfg.MoonModel()
	require.NoError(t, err)
	assert.Equal(t, ephem.MoonTopocentric, model)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "obsplan.yaml", `
site:
  name: paranal
backup:
  step: 10m
  twilight: nautical
  n_best: 5
night:
  slot_size: 10m
  max_airmass: 2
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "paranal", cfg.Site.Name)
	assert.Equal(t, 10*time.Minute, cfg.Backup.Step)
	assert.Equal(t, "nautical", cfg.Backup.Twilight)
	assert.Equal(t, 5, cfg.Backup.NBest)
	// Untouched keys keep their defaults.
	assert.Equal(t, 2*time.Hour, cfg.Backup.Duration)
	assert.Equal(t, 2.5, cfg.Backup.MaxAirmass)
	assert.Equal(t, 10*time.Minute, cfg.Night.SlotSize)
	assert.Equal(t, 2.0, cfg.Night.MaxAirmass)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	opts, err := cfg.BackupOptions()
	require.NoError(t, err)
	assert.Equal(t, backup.TwilightNautical, opts.Twilight)
}

func TestLoad_JSONWithCoordinates(t *testing.T) {
	path := writeFile(t, "obsplan.json", `{
  "site": {"name": "backyard", "lat": 51.5, "lon": -0.1, "height": 30},
  "ephemeris": {"moon": "geocentric"}
}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	site, err := cfg.Site.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "backyard", site.Name)
	assert.Equal(t, 51.5, site.LatDeg)
	assert.Equal(t, -0.1, site.LonDeg)
	assert.Equal(t, 30.0, site.HeightM)

	model, err := cfg.MoonModel()
	require.NoError(t, err)
	assert.Equal(t, ephem.MoonGeocentric, model)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "obsplan.yaml", "backup:\n  n_best: 5\n  min_good_fraction: 0.5\n")
	t.Setenv("OBSPLAN_BACKUP__N_BEST", "3")
	t.Setenv("OBSPLAN_BACKUP__DURATION", "90m")
	t.Setenv("OBSPLAN_SITE__NAME", "keck")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Backup.NBest)
	assert.Equal(t, 90*time.Minute, cfg.Backup.Duration)
	assert.Equal(t, 0.5, cfg.Backup.MinGoodFraction)
	assert.Equal(t, "keck", cfg.Site.Name)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("OBSPLAN_BACKUP__N_BEST", "3")
	t.Setenv("OBSPLAN_NIGHT__SLOT_SIZE", "10m")
	t.Setenv("OBSPLAN_LOGGING__LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Backup.NBest)
	assert.Equal(t, 10*time.Minute, cfg.Night.SlotSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{"unsupported format", "obsplan.toml", "x = 1", "unsupported config format"},
		{"bad twilight", "a.yaml", "backup:\n  twilight: dusk\n", "backup.twilight"},
		{"bad n_best", "a.yaml", "backup:\n  n_best: 0\n", "n_best"},
		{"bad slot", "a.yaml", "night:\n  slot_size: 0s\n", "night.slot_size"},
		{"bad night twilight", "a.yaml", "night:\n  twilight: civilish\n", "night.twilight"},
		{"bad moon", "a.yaml", "ephemeris:\n  moon: selenocentric\n", "ephemeris.moon"},
		{"bad level", "a.yaml", "logging:\n  level: loud\n", "logging.level"},
		{"bad interval", "a.yaml", "watch:\n  interval: 10ms\n", "watch.interval"},
		{"metrics without addr", "a.yaml", "metrics:\n  enabled: true\n  addr: \"\"\n", "metrics.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSiteResolve(t *testing.T) {
	lat, lon := 19.8, -155.5
	badLat := 95.0

	tests := []struct {
		name     string
		site     SiteConfig
		wantName string
		wantErr  bool
	}{
		{"registry", SiteConfig{Name: "IRTF"}, "NASA Infrared Telescope Facility", false},
		{"coordinates", SiteConfig{Lat: &lat, Lon: &lon}, "site", false},
		{"coordinates win", SiteConfig{Name: "mine", Lat: &lat, Lon: &lon}, "mine", false},
		{"half coordinates", SiteConfig{Lat: &lat}, "", true},
		{"bad latitude", SiteConfig{Lat: &badLat, Lon: &lon}, "", true},
		{"unknown", SiteConfig{Name: "atlantis"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site, err := tt.site.Resolve()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, site.Name)
		})
	}

	_, err := SiteConfig{}.Resolve()
	assert.ErrorIs(t, err, ErrNoSite)
}
