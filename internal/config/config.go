// Package config loads obsplan settings from defaults, an optional YAML or
// JSON file and OBSPLAN_ environment variables, in that order.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore, e.g. OBSPLAN_BACKUP__N_BEST=5.
const EnvPrefix = "OBSPLAN_"

type Config struct {
	Site      SiteConfig      `json:"site"`
	Backup    BackupConfig    `json:"backup"`
	Night     NightConfig     `json:"night"`
	Ephemeris EphemerisConfig `json:"ephemeris"`
	Logging   LoggingConfig   `json:"logging"`
	Metrics   MetricsConfig   `json:"metrics"`
	Watch     WatchConfig     `json:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backup: BackupConfig{
			Duration:        2 * time.Hour,
			Step:            2 * time.Minute,
			MaxAirmass:      2.5,
			MinMoonSepDeg:   10,
			Twilight:        "civil",
			NBest:           10,
			MinGoodFraction: 0.2,
			Workers:         4,
		},
		Night: NightConfig{
			HorizonAltDeg:  25,
			MinMoonSepDeg:  20,
			MaxSolarAltDeg: -18,
			Twilight:       "astronomical",
			SlotSize:       5 * time.Minute,
		},
		Ephemeris: EphemerisConfig{Moon: "topocentric"},
		Logging:   LoggingConfig{Level: "info", Format: "console"},
		Metrics:   MetricsConfig{Addr: ":9109"},
		Watch:     WatchConfig{Interval: time.Minute, History: 100},
	}
}

// Load reads configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.BackupOptions(); err != nil {
		return err
	}
	if _, err := c.NightOptions(); err != nil {
		return err
	}
	if _, err := c.MoonModel(); err != nil {
		return fmt.Errorf("ephemeris.moon: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Watch.Validate(); err != nil {
		return err
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	return nil
}
