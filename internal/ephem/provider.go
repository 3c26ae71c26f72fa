// Package ephem provides the ephemeris capability the planners query: Sun
// altitude, target altitude/azimuth and the Moon's position for one site.
package ephem

import (
	"errors"
	"fmt"
	"time"

	"github.com/pscicluna/obsplan/internal/astro"
)

// Provider defines the interface for ephemeris sources. Implementations are
// bound to a single site and must be safe for concurrent use.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Site returns the observing site the provider computes for.
	Site() astro.Site

	// SunAltitude returns the Sun's altitude in degrees at each time.
	SunAltitude(times []time.Time) ([]float64, error)

	// IsNight reports, per time, whether the Sun is below maxSolarAltDeg.
	IsNight(times []time.Time, maxSolarAltDeg float64) ([]bool, error)

	// AltAz returns the target's horizontal coordinates at each time.
	AltAz(times []time.Time, target astro.Equatorial) ([]astro.Horizontal, error)

	// MoonPosition returns the Moon's position at each time.
	MoonPosition(times []time.Time) ([]astro.Equatorial, error)

	// AngularSeparation returns the angle between two positions in degrees.
	AngularSeparation(a, b astro.Equatorial) float64
}

// MoonModel selects how the Moon's position is referenced.
type MoonModel int

const (
	MoonTopocentric MoonModel = iota // As seen from the site (default)
	MoonGeocentric                   // As seen from Earth's center
)

// String returns the model name.
func (m MoonModel) String() string {
	switch m {
	case MoonTopocentric:
		return "topocentric"
	case MoonGeocentric:
		return "geocentric"
	default:
		return "unknown"
	}
}

// ErrUnknownMoonModel is returned by ParseMoonModel for unrecognized names.
var ErrUnknownMoonModel = errors.New("unknown moon model")

// ParseMoonModel parses a moon model string. Empty means topocentric.
func ParseMoonModel(s string) (MoonModel, error) {
	switch s {
	case "", "topocentric":
		return MoonTopocentric, nil
	case "geocentric":
		return MoonGeocentric, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMoonModel, s)
	}
}
