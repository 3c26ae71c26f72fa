package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/catalog"
	"github.com/pscicluna/obsplan/internal/config"
	"github.com/pscicluna/obsplan/internal/ephem"
	"github.com/pscicluna/obsplan/internal/logging"
	"github.com/pscicluna/obsplan/internal/state"
	"github.com/pscicluna/obsplan/internal/version"
)

// Persistent flags shared by every subcommand.
var (
	cfgPath    string
	siteName   string
	siteLat    float64
	siteLon    float64
	siteHeight float64
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "obsplan",
	Short:         "Observing night planner and backup target ranker",
	Version:       fmt.Sprintf("%s (%s)", version.Version, version.Commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "configuration file (.yaml, .yml or .json)")
	pf.StringVar(&siteName, "site", "", "observatory registry name (see 'obsplan sites')")
	pf.Float64Var(&siteLat, "lat", 0, "site latitude in degrees, north positive")
	pf.Float64Var(&siteLon, "lon", 0, "site longitude in degrees, east positive")
	pf.Float64Var(&siteHeight, "height", 0, "site height in meters")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// env is the resolved runtime shared by the subcommands.
type env struct {
	cfg      *config.Config
	log      *logging.Logger
	site     astro.Site
	loc      *time.Location
	provider *ephem.Local
}

// loadEnv loads configuration and applies the site and logging flags on top.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	latSet, lonSet := flags.Changed("lat"), flags.Changed("lon")
	switch {
	case latSet || lonSet:
		if !latSet || !lonSet {
			return nil, fmt.Errorf("--lat and --lon must be given together")
		}
		lat, lon := siteLat, siteLon
		cfg.Site.Lat, cfg.Site.Lon = &lat, &lon
		cfg.Site.Height = siteHeight
		cfg.Site.Name = siteName
	case siteName != "":
		cfg.Site = config.SiteConfig{Name: siteName, Timezone: cfg.Site.Timezone}
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}

	log := logging.NewWithFormat(
		logging.ParseLevel(cfg.Logging.Level),
		logging.ParseFormat(cfg.Logging.Format),
		os.Stderr,
	)

	site, err := cfg.Site.Resolve()
	if err != nil {
		if errors.Is(err, config.ErrNoSite) {
			return nil, fmt.Errorf("%w: use --site or --lat/--lon", err)
		}
		return nil, err
	}
	loc, err := siteLocation(cfg.Site)
	if err != nil {
		return nil, err
	}
	model, err := cfg.MoonModel()
	if err != nil {
		return nil, err
	}
	provider, err := ephem.NewLocal(site, model)
	if err != nil {
		return nil, err
	}

	log.Debug("Site %s (lat %.4f, lon %.4f, %.0f m), moon %s", site.Name, site.LatDeg, site.LonDeg, site.HeightM, model)
	return &env{cfg: cfg, log: log, site: site, loc: loc, provider: provider}, nil
}

// siteLocation returns the zone used to read times without an offset: the
// configured timezone, else the registry's, else UTC.
func siteLocation(c config.SiteConfig) (*time.Location, error) {
	tz := c.Timezone
	if tz == "" && c.Lat == nil {
		if info, ok := ephem.SiteByName(c.Name); ok {
			tz = info.Timezone
		}
	}
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("site.timezone: %w", err)
	}
	return loc, nil
}

var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime reads an RFC 3339 time, or a zone-less date/time in loc. An
// empty string yields def.
func parseTime(s string, loc *time.Location, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want RFC 3339 or YYYY-MM-DD[ HH:MM[:SS]])", s)
}

// loadBackups returns the backup candidates: the non-primary rows of the
// CSV (every row with all=true), or the builtin bright stars when path is empty.
func loadBackups(path string, all bool, maxMag float64) ([]astro.Target, error) {
	if path == "" {
		return catalog.Targets(catalog.BrightStars(maxMag)), nil
	}
	rows, err := catalog.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if all {
		return catalog.Targets(rows), nil
	}
	_, backups := catalog.Split(rows)
	return catalog.Targets(backups), nil
}

// newRanker builds a ranker from the environment.
func (e *env) newRanker() *backup.Ranker {
	return &backup.Ranker{
		Provider: e.provider,
		Workers:  e.cfg.Backup.Workers,
		Logger:   e.log.With("component", "ranker"),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newStateManager keeps c.History change events and refreshes every
// c.Interval.
func newStateManager(c config.WatchConfig) *state.Manager {
	sc := state.DefaultConfig()
	sc.MaxEvents = c.History
	sc.RefreshInterval = c.Interval
	return state.NewManager(sc)
}
