package ephem

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pscicluna/obsplan/internal/astro"
)

// ErrInvalidSite is returned when a site cannot be used for ephemeris work.
var ErrInvalidSite = errors.New("invalid site")

// Local computes ephemerides in-process from analytic theories. It holds no
// mutable state, so one value may be shared across goroutines.
type Local struct {
	site astro.Site
	moon MoonModel
}

// NewLocal creates a provider for site.
func NewLocal(site astro.Site, moon MoonModel) (*Local, error) {
	if err := ValidateSite(site); err != nil {
		return nil, err
	}
	return &Local{site: site, moon: moon}, nil
}

// ValidateSite checks that the coordinates are finite and in range.
func ValidateSite(site astro.Site) error {
	switch {
	case math.IsNaN(site.LatDeg) || site.LatDeg < -90 || site.LatDeg > 90:
		return fmt.Errorf("%w: latitude %v out of [-90, 90]", ErrInvalidSite, site.LatDeg)
	case math.IsNaN(site.LonDeg) || site.LonDeg < -180 || site.LonDeg > 360:
		return fmt.Errorf("%w: longitude %v out of [-180, 360]", ErrInvalidSite, site.LonDeg)
	case math.IsNaN(site.HeightM) || math.IsInf(site.HeightM, 0) || site.HeightM < -500:
		return fmt.Errorf("%w: height %v m", ErrInvalidSite, site.HeightM)
	}
	return nil
}

// Name implements Provider.
func (p *Local) Name() string {
	return "local/" + p.moon.String()
}

// Site implements Provider.
func (p *Local) Site() astro.Site {
	return p.site
}

// SunAltitude implements Provider.
func (p *Local) SunAltitude(times []time.Time) ([]float64, error) {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = astro.SunAltitude(p.site, t)
	}
	return out, nil
}

// IsNight implements Provider.
func (p *Local) IsNight(times []time.Time, maxSolarAltDeg float64) ([]bool, error) {
	alts, err := p.SunAltitude(times)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(alts))
	for i, alt := range alts {
		out[i] = alt < maxSolarAltDeg
	}
	return out, nil
}

// AltAz implements Provider.
func (p *Local) AltAz(times []time.Time, target astro.Equatorial) ([]astro.Horizontal, error) {
	out := make([]astro.Horizontal, len(times))
	for i, t := range times {
		out[i] = astro.EquatorialToHorizontal(target, p.site, t)
	}
	return out, nil
}

// MoonPosition implements Provider.
func (p *Local) MoonPosition(times []time.Time) ([]astro.Equatorial, error) {
	out := make([]astro.Equatorial, len(times))
	for i, t := range times {
		if p.moon == MoonGeocentric {
			out[i], _ = astro.MoonGeocentric(t)
			continue
		}
		out[i] = astro.MoonTopocentric(p.site, t)
	}
	return out, nil
}

// AngularSeparation implements Provider.
func (p *Local) AngularSeparation(a, b astro.Equatorial) float64 {
	return astro.AngularSeparation(a, b)
}
