// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// Equatorial is a position on the celestial sphere (ICRS/J2000 for catalog
// targets, apparent of date for Sun and Moon).
type Equatorial struct {
	RADeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)
}

// Horizontal is an observer-relative position.
type Horizontal struct {
	AltDeg float64 // Altitude in degrees (0=horizon, 90=zenith)
	AzDeg  float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
}

// Site is a ground-based observing location.
type Site struct {
	Name    string
	LatDeg  float64 // Latitude in degrees (north positive)
	LonDeg  float64 // Longitude in degrees (east positive)
	HeightM float64 // Height above the ellipsoid in meters
}

// Target is a named fixed celestial position.
type Target struct {
	Name  string
	Coord Equatorial
}

// EquatorialToHorizontal converts equatorial coordinates to altitude/azimuth
// for a site and time.
//
// Conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Altitude: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq Equatorial, site Site, t time.Time) Horizontal {
	lat := degToRad(site.LatDeg)
	dec := degToRad(eq.DecDeg)
	ha := degToRad(LocalSiderealTime(t, site.LonDeg) - eq.RADeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clamp(cosAz, -1, 1))

	// West of the meridian when the hour angle is positive.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{
		AltDeg: radToDeg(alt),
		AzDeg:  radToDeg(az),
	}
}

// Airmass returns sec(z) = 1/sin(alt) for an altitude in degrees.
// Targets at or below the horizon have infinite airmass.
func Airmass(altDeg float64) float64 {
	if altDeg <= 0 || math.IsNaN(altDeg) {
		return math.Inf(1)
	}
	return 1 / math.Sin(degToRad(altDeg))
}

// LocalSiderealTime returns the local mean sidereal time in degrees.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime returns GMST in degrees.
func greenwichMeanSiderealTime(t time.Time) float64 {
	// sidereal.Mean returns seconds of sidereal time; 240 s per degree.
	return normalizeAngle360(float64(sidereal.Mean(julianDate(t))) / 240)
}

// julianDate returns the Julian Date of t (UTC).
func julianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func degToRad(deg float64) float64 {
	return unit.AngleFromDeg(deg).Rad()
}

func radToDeg(rad float64) float64 {
	return unit.Angle(rad).Deg()
}

// normalizeAngle360 normalizes an angle to [0, 360).
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
