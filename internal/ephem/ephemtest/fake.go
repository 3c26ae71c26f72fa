// Package ephemtest provides a scripted ephemeris provider for tests.
package ephemtest

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/pscicluna/obsplan/internal/astro"
)

// Fake is a deterministic ephemeris.Provider driven by callbacks. Nil
// callbacks fall back to: Sun far below the horizon, targets at the zenith,
// Moon at the south celestial pole.
type Fake struct {
	// SiteValue is returned from Site.
	SiteValue astro.Site

	// SunAltitudeFunc returns the Sun's altitude at t.
	SunAltitudeFunc func(t time.Time) float64

	// AltitudeFunc returns the altitude of target at t.
	AltitudeFunc func(target astro.Equatorial, t time.Time) float64

	// MoonFunc returns the Moon's position at t.
	MoonFunc func(t time.Time) astro.Equatorial

	// Err, when set, is returned from every query.
	Err error

	// MoonErr, when set, is returned from MoonPosition only.
	MoonErr error

	calls atomic.Int64
}

// Calls returns the number of ephemeris queries made so far.
func (f *Fake) Calls() int64 {
	return f.calls.Load()
}

// Name implements ephem.Provider.
func (f *Fake) Name() string { return "fake" }

// Site implements ephem.Provider.
func (f *Fake) Site() astro.Site { return f.SiteValue }

// SunAltitude implements ephem.Provider.
func (f *Fake) SunAltitude(times []time.Time) ([]float64, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = -90
		if f.SunAltitudeFunc != nil {
			out[i] = f.SunAltitudeFunc(t)
		}
	}
	return out, nil
}

// IsNight implements ephem.Provider.
func (f *Fake) IsNight(times []time.Time, maxSolarAltDeg float64) ([]bool, error) {
	alts, err := f.SunAltitude(times)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(alts))
	for i, a := range alts {
		out[i] = a < maxSolarAltDeg
	}
	return out, nil
}

// AltAz implements ephem.Provider.
func (f *Fake) AltAz(times []time.Time, target astro.Equatorial) ([]astro.Horizontal, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]astro.Horizontal, len(times))
	for i, t := range times {
		out[i] = astro.Horizontal{AltDeg: 90, AzDeg: 180}
		if f.AltitudeFunc != nil {
			out[i].AltDeg = f.AltitudeFunc(target, t)
		}
	}
	return out, nil
}

// MoonPosition implements ephem.Provider.
func (f *Fake) MoonPosition(times []time.Time) ([]astro.Equatorial, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.MoonErr != nil {
		return nil, f.MoonErr
	}
	out := make([]astro.Equatorial, len(times))
	for i, t := range times {
		out[i] = astro.Equatorial{RADeg: 0, DecDeg: -90}
		if f.MoonFunc != nil {
			out[i] = f.MoonFunc(t)
		}
	}
	return out, nil
}

// AngularSeparation implements ephem.Provider.
func (f *Fake) AngularSeparation(a, b astro.Equatorial) float64 {
	return astro.AngularSeparation(a, b)
}

// AirmassAltitude returns the altitude in degrees at which airmass equals x
// (x >= 1). Handy for scripting airmass series.
func AirmassAltitude(x float64) float64 {
	return math.Asin(1/x) * 180 / math.Pi
}
