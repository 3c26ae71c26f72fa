package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/solar"
)

// SunEquatorial returns the apparent equatorial position of the Sun.
// TT-UT is ignored; the resulting error is far below what twilight gating needs.
func SunEquatorial(t time.Time) Equatorial {
	α, δ := solar.ApparentEquatorial(julianDate(t))
	return Equatorial{
		RADeg:  normalizeAngle360(α.Deg()),
		DecDeg: δ.Deg(),
	}
}

// SunAltitude returns the Sun's altitude in degrees as seen from site.
func SunAltitude(site Site, t time.Time) float64 {
	return EquatorialToHorizontal(SunEquatorial(t), site, t).AltDeg
}

// AngularSeparation returns the great-circle distance between two positions
// in degrees, in [0, 180]. Uses the Vincenty form, which stays accurate for
// both tiny and near-antipodal separations.
func AngularSeparation(a, b Equatorial) float64 {
	ra1, dec1 := degToRad(a.RADeg), degToRad(a.DecDeg)
	ra2, dec2 := degToRad(b.RADeg), degToRad(b.DecDeg)

	dRA := ra2 - ra1
	sinD1, cosD1 := math.Sincos(dec1)
	sinD2, cosD2 := math.Sincos(dec2)
	sinDRA, cosDRA := math.Sincos(dRA)

	num1 := cosD2 * sinDRA
	num2 := cosD1*sinD2 - sinD1*cosD2*cosDRA
	den := sinD1*sinD2 + cosD1*cosD2*cosDRA

	return radToDeg(math.Atan2(math.Hypot(num1, num2), den))
}
