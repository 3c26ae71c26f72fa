package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/backup"
)

// NewRunID returns a fresh identifier for a ranking run.
func NewRunID() string {
	return uuid.NewString()
}

// SiteInfo is the JSON form of an observing site.
type SiteInfo struct {
	Name    string  `json:"name"`
	LatDeg  float64 `json:"lat_deg"`
	LonDeg  float64 `json:"lon_deg"`
	HeightM float64 `json:"height_m"`
}

// OptionsInfo is the JSON form of backup.Options.
type OptionsInfo struct {
	Duration        string  `json:"duration"`
	Step            string  `json:"step"`
	MaxAirmass      float64 `json:"max_airmass"`
	MinMoonSepDeg   float64 `json:"min_moon_sep_deg"`
	Twilight        string  `json:"twilight"`
	NBest           int     `json:"n_best"`
	MinGoodFraction float64 `json:"min_good_fraction"`
}

// BackupEntry is one ranked target.
type BackupEntry struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	RADeg       float64 `json:"ra_deg"`
	DecDeg      float64 `json:"dec_deg"`
	BestAirmass float64 `json:"best_airmass"`
	FracGood    float64 `json:"frac_good"`
	BestTime    string  `json:"best_time"`
	Tier        string  `json:"tier"`
}

// BackupExport is a complete ranking run.
type BackupExport struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Site        SiteInfo      `json:"site"`
	Start       string        `json:"start"`
	Options     OptionsInfo   `json:"options"`
	Backups     []BackupEntry `json:"backups"`
}

// ExportBackups builds the JSON document for a ranking run.
func ExportBackups(runID string, site astro.Site, start time.Time, opts backup.Options, scores []backup.Score) BackupExport {
	exp := BackupExport{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Site: SiteInfo{
			Name:    site.Name,
			LatDeg:  site.LatDeg,
			LonDeg:  site.LonDeg,
			HeightM: site.HeightM,
		},
		Start: FormatTime(start),
		Options: OptionsInfo{
			Duration:        opts.Duration.String(),
			Step:            opts.Step.String(),
			MaxAirmass:      opts.MaxAirmass,
			MinMoonSepDeg:   opts.MinMoonSepDeg,
			Twilight:        opts.Twilight.String(),
			NBest:           opts.NBest,
			MinGoodFraction: opts.MinGoodFraction,
		},
		Backups: make([]BackupEntry, len(scores)),
	}
	for i, s := range scores {
		exp.Backups[i] = BackupEntry{
			Rank:        i + 1,
			Name:        s.Target.Name,
			RADeg:       s.Target.Coord.RADeg,
			DecDeg:      s.Target.Coord.DecDeg,
			BestAirmass: s.BestAirmass,
			FracGood:    s.FracGood,
			BestTime:    FormatTime(s.BestTime),
			Tier:        astro.GetAirmassTier(s.BestAirmass).String(),
		}
	}
	return exp
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
