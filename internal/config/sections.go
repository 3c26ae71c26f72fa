package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/ephem"
	"github.com/pscicluna/obsplan/internal/night"
)

// ErrNoSite is returned when neither a registry name nor coordinates are set.
var ErrNoSite = errors.New("no observing site configured")

// SiteConfig selects the observatory. Explicit coordinates win over the
// registry name.
type SiteConfig struct {
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Height   float64  `json:"height"`
	Timezone string   `json:"timezone"`
}

// Resolve returns the configured site.
func (c SiteConfig) Resolve() (astro.Site, error) {
	if c.Lat != nil || c.Lon != nil {
		if c.Lat == nil || c.Lon == nil {
			return astro.Site{}, fmt.Errorf("site: lat and lon must be set together")
		}
		name := c.Name
		if name == "" {
			name = "site"
		}
		site := astro.Site{Name: name, LatDeg: *c.Lat, LonDeg: *c.Lon, HeightM: c.Height}
		if err := ephem.ValidateSite(site); err != nil {
			return astro.Site{}, fmt.Errorf("site: %w", err)
		}
		return site, nil
	}
	if c.Name == "" {
		return astro.Site{}, ErrNoSite
	}
	info, ok := ephem.SiteByName(c.Name)
	if !ok {
		return astro.Site{}, fmt.Errorf("site.name: unknown observatory %q", c.Name)
	}
	return info.Site(), nil
}

type BackupConfig struct {
	Duration        time.Duration `json:"duration"`
	Step            time.Duration `json:"step"`
	MaxAirmass      float64       `json:"max_airmass"`
	MinMoonSepDeg   float64       `json:"min_moon_sep_deg"`
	Twilight        string        `json:"twilight"`
	NBest           int           `json:"n_best"`
	MinGoodFraction float64       `json:"min_good_fraction"`
	Workers         int           `json:"workers"`
}

// BackupOptions returns validated ranking options.
func (c Config) BackupOptions() (backup.Options, error) {
	b := c.Backup
	mode, err := backup.ParseTwilightMode(b.Twilight)
	if err != nil {
		return backup.Options{}, fmt.Errorf("backup.twilight: %w", err)
	}
	opts := backup.Options{
		Duration:        b.Duration,
		Step:            b.Step,
		MaxAirmass:      b.MaxAirmass,
		MinMoonSepDeg:   b.MinMoonSepDeg,
		Twilight:        mode,
		NBest:           b.NBest,
		MinGoodFraction: b.MinGoodFraction,
	}
	if err := opts.Validate(); err != nil {
		return backup.Options{}, fmt.Errorf("backup: %w", err)
	}
	if b.Workers < 0 {
		return backup.Options{}, fmt.Errorf("backup.workers must not be negative, got %d", b.Workers)
	}
	return opts, nil
}

type NightConfig struct {
	HorizonAltDeg  float64       `json:"horizon_alt_deg"`
	MaxAirmass     float64       `json:"max_airmass"` // 0 disables
	MinMoonSepDeg  float64       `json:"min_moon_sep_deg"`
	MaxSolarAltDeg float64       `json:"max_solar_alt_deg"`
	Twilight       string        `json:"twilight"`
	SlotSize       time.Duration `json:"slot_size"`
}

// NightOptions returns validated night planning options.
func (c Config) NightOptions() (night.Options, error) {
	n := c.Night
	tw, err := night.ParseTwilight(n.Twilight)
	if err != nil {
		return night.Options{}, fmt.Errorf("night.twilight: %w", err)
	}
	if n.SlotSize <= 0 {
		return night.Options{}, fmt.Errorf("night.slot_size must be positive, got %s", n.SlotSize)
	}
	if n.MaxAirmass != 0 && n.MaxAirmass < 1 {
		return night.Options{}, fmt.Errorf("night.max_airmass must be >= 1 or 0, got %v", n.MaxAirmass)
	}
	return night.Options{
		Twilight: tw,
		SlotSize: n.SlotSize,
		Constraints: night.Constraints{
			MinAltDeg:      n.HorizonAltDeg,
			MaxAirmass:     n.MaxAirmass,
			MaxSolarAltDeg: n.MaxSolarAltDeg,
			MinMoonSepDeg:  n.MinMoonSepDeg,
		},
	}, nil
}

type EphemerisConfig struct {
	Moon string `json:"moon"` // topocentric | geocentric
}

// MoonModel returns the configured Moon model.
func (c Config) MoonModel() (ephem.MoonModel, error) {
	return ephem.ParseMoonModel(c.Ephemeris.Moon)
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // console | json
}

// Validate checks the level and format names.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Level)
	}
	switch c.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Format)
	}
	return nil
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

type WatchConfig struct {
	Interval time.Duration `json:"interval"`
	History  int           `json:"history"` // events kept in memory
}

// Validate checks the refresh interval and history size.
func (c WatchConfig) Validate() error {
	if c.Interval < time.Second {
		return fmt.Errorf("watch.interval must be at least 1s, got %s", c.Interval)
	}
	if c.History <= 0 {
		return fmt.Errorf("watch.history must be positive, got %d", c.History)
	}
	return nil
}
