package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"gonum.org/v1/gonum/spatial/r3"
)

// EarthEquatorialRadiusKm is the IAU 1976 equatorial radius.
const EarthEquatorialRadiusKm = 6378.14

// earthFlattening is the IAU 1976 flattening of the reference ellipsoid.
const earthFlattening = 1 / 298.257

// MoonGeocentric returns the Moon's geocentric equatorial position (mean
// equinox of date) and its distance from Earth's center in km.
func MoonGeocentric(t time.Time) (Equatorial, float64) {
	jde := julianDate(t)
	λ, β, Δ := moonposition.Position(jde)
	sε, cε := math.Sincos(nutation.MeanObliquity(jde).Rad())
	α, δ := coord.EclToEq(λ, β, sε, cε)
	return Equatorial{
		RADeg:  normalizeAngle360(α.Deg()),
		DecDeg: δ.Deg(),
	}, Δ
}

// MoonTopocentric returns the Moon's position as seen from site. The lunar
// parallax reaches about one degree, so it matters near separation limits.
func MoonTopocentric(site Site, t time.Time) Equatorial {
	geo, distKm := MoonGeocentric(t)

	ra, dec := degToRad(geo.RADeg), degToRad(geo.DecDeg)
	moon := r3.Vec{
		X: distKm * math.Cos(dec) * math.Cos(ra),
		Y: distKm * math.Cos(dec) * math.Sin(ra),
		Z: distKm * math.Sin(dec),
	}

	return vecToEquatorial(r3.Sub(moon, siteVector(site, t)))
}

// siteVector returns the site's geocentric position in km, in the
// equatorial frame of date.
func siteVector(site Site, t time.Time) r3.Vec {
	lat := degToRad(site.LatDeg)
	lst := degToRad(LocalSiderealTime(t, site.LonDeg))

	// Geocentric parallax constants ρ·sinφ′ and ρ·cosφ′ (Meeus ch. 11).
	b := 1 - earthFlattening
	u := math.Atan(b * math.Tan(lat))
	h := site.HeightM / (EarthEquatorialRadiusKm * 1000)
	rhoSin := b*math.Sin(u) + h*math.Sin(lat)
	rhoCos := math.Cos(u) + h*math.Cos(lat)

	return r3.Vec{
		X: EarthEquatorialRadiusKm * rhoCos * math.Cos(lst),
		Y: EarthEquatorialRadiusKm * rhoCos * math.Sin(lst),
		Z: EarthEquatorialRadiusKm * rhoSin,
	}
}
