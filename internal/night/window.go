// Package night builds a single-night schedule for primary targets.
package night

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/ephem"
)

// Twilight names the solar depression that bounds the night.
type Twilight string

const (
	TwilightCivil        Twilight = "civil"        // Sun at -6°
	TwilightNautical     Twilight = "nautical"     // Sun at -12°
	TwilightAstronomical Twilight = "astronomical" // Sun at -18°
)

var (
	// ErrUnknownTwilight is returned for unrecognized twilight names.
	ErrUnknownTwilight = errors.New("unknown twilight")
	// ErrNoNight is returned when the Sun never crosses the twilight
	// altitude near the anchor, as in polar summer or winter.
	ErrNoNight = errors.New("no night near anchor")
	// ErrSampleCount is returned when a provider answers with a different
	// number of samples than times requested.
	ErrSampleCount = errors.New("ephemeris sample count mismatch")
)

// ParseTwilight parses a twilight name. Empty means astronomical.
func ParseTwilight(s string) (Twilight, error) {
	switch tw := Twilight(strings.ToLower(strings.TrimSpace(s))); tw {
	case "":
		return TwilightAstronomical, nil
	case TwilightCivil, TwilightNautical, TwilightAstronomical:
		return tw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTwilight, s)
	}
}

// SunAltitude returns the Sun's altitude at this twilight in degrees.
func (tw Twilight) SunAltitude() float64 {
	switch tw {
	case TwilightCivil:
		return -6
	case TwilightNautical:
		return -12
	default:
		return -18
	}
}

const (
	searchBefore = 24 * time.Hour
	searchAfter  = 48 * time.Hour
	searchStep   = 5 * time.Minute
)

// Window returns the evening twilight nearest anchor and the first morning
// twilight after it.
func Window(p ephem.Provider, anchor time.Time, tw Twilight) (start, end time.Time, err error) {
	n := int((searchBefore+searchAfter)/searchStep) + 1
	times := make([]time.Time, n)
	for i := range times {
		times[i] = anchor.Add(-searchBefore + time.Duration(i)*searchStep)
	}

	alts, err := p.SunAltitude(times)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("sun altitude: %w", err)
	}
	samples := make([]astro.AltitudeSample, n)
	for i := range times {
		samples[i] = astro.AltitudeSample{Time: times[i], AltDeg: alts[i]}
	}

	crossings, err := astro.FindCrossings(samples, tw.SunAltitude())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	evening := -1
	best := time.Duration(math.MaxInt64)
	for i, c := range crossings {
		if c.Direction != astro.Setting {
			continue
		}
		d := c.Time.Sub(anchor).Abs()
		if d < best {
			best, evening = d, i
		}
	}
	if evening < 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: sun never sets below %v°", ErrNoNight, tw.SunAltitude())
	}
	for _, c := range crossings[evening+1:] {
		if c.Direction == astro.Rising {
			return crossings[evening].Time, c.Time, nil
		}
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: no %s morning twilight after %s",
		ErrNoNight, tw, crossings[evening].Time.UTC().Format(time.RFC3339))
}
