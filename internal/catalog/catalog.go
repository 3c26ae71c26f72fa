// Package catalog reads target lists.
//
// A catalog is CSV with a header row. The name, ra_deg and dec_deg columns
// are required; priority, exptime_min and group are optional. Column order
// does not matter and extra columns are ignored.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pscicluna/obsplan/internal/astro"
)

// Defaults for optional columns.
const (
	DefaultPriority   = 1
	DefaultExptimeMin = 20.0
	GroupPrimary      = "primary"
)

var (
	// ErrMissingColumns is returned when required header columns are absent.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrBadRow is returned for a row that cannot be parsed.
	ErrBadRow = errors.New("bad catalog row")
)

var requiredColumns = []string{"name", "ra_deg", "dec_deg"}

// Row is one catalog entry.
type Row struct {
	Name       string
	Coord      astro.Equatorial // ICRS
	Priority   int              // lower schedules first
	ExptimeMin float64
	Group      string // "primary", "backup", "night2", ...
}

// Target returns the row as a ranking target.
func (r Row) Target() astro.Target {
	return astro.Target{Name: r.Name, Coord: r.Coord}
}

// IsPrimary reports whether the row belongs to the primary group.
func (r Row) IsPrimary() bool {
	return r.Group == GroupPrimary
}

// ReadFile reads a catalog from path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read parses a catalog. Names must be unique.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(requiredColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[h] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []Row
	seen := make(map[string]int)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRow, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}

		row, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadRow, line, err)
		}
		if prev, dup := seen[row.Name]; dup {
			return nil, fmt.Errorf("%w: line %d: name %q already used on line %d", ErrBadRow, line, row.Name, prev)
		}
		seen[row.Name] = line
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string, cols map[string]int) (Row, error) {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := Row{
		Name:       get("name"),
		Priority:   DefaultPriority,
		ExptimeMin: DefaultExptimeMin,
		Group:      GroupPrimary,
	}
	if row.Name == "" {
		return Row{}, errors.New("empty name")
	}

	ra, err := parseFinite(get("ra_deg"))
	if err != nil {
		return Row{}, fmt.Errorf("ra_deg: %w", err)
	}
	dec, err := parseFinite(get("dec_deg"))
	if err != nil {
		return Row{}, fmt.Errorf("dec_deg: %w", err)
	}
	if dec < -90 || dec > 90 {
		return Row{}, fmt.Errorf("dec_deg %v out of [-90, 90]", dec)
	}
	ra = math.Mod(ra, 360)
	if ra < 0 {
		ra += 360
	}
	row.Coord = astro.Equatorial{RADeg: ra, DecDeg: dec}

	if s := get("priority"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			return Row{}, fmt.Errorf("priority: %w", err)
		}
		row.Priority = p
	}
	if s := get("exptime_min"); s != "" {
		e, err := parseFinite(s)
		if err != nil {
			return Row{}, fmt.Errorf("exptime_min: %w", err)
		}
		if e <= 0 {
			return Row{}, fmt.Errorf("exptime_min must be positive, got %v", e)
		}
		row.ExptimeMin = e
	}
	if s := get("group"); s != "" {
		row.Group = s
	}
	return row, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Split separates primary rows from everything else, preserving order.
func Split(rows []Row) (primaries, backups []Row) {
	for _, r := range rows {
		if r.IsPrimary() {
			primaries = append(primaries, r)
		} else {
			backups = append(backups, r)
		}
	}
	return primaries, backups
}

// Targets converts rows to ranking targets.
func Targets(rows []Row) []astro.Target {
	out := make([]astro.Target, len(rows))
	for i, r := range rows {
		out[i] = r.Target()
	}
	return out
}
