package astro

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// testSites for sky-math testing
var testSites = map[string]Site{
	"irtf":       {Name: "IRTF", LatDeg: 19.826218, LonDeg: -155.471999, HeightM: 4168},
	"paranal":    {Name: "Paranal", LatDeg: -24.627, LonDeg: -70.404, HeightM: 2635},
	"greenwich":  {Name: "Greenwich", LatDeg: 51.4778, LonDeg: -0.0015, HeightM: 46},
	"north_pole": {Name: "North Pole", LatDeg: 89.0, LonDeg: 0.0},
}

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
			tol:      0.0001,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
			tol:      0.0001,
		},
		{
			name:     "non-UTC location is converted",
			time:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.FixedZone("HST", -10*3600)),
			expected: 2460311.5 - 4.0/24,
			tol:      0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := julianDate(tt.time)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("julianDate() = %v, want %v (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestGreenwichMeanSiderealTime(t *testing.T) {
	t2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	gmst := greenwichMeanSiderealTime(t2000)

	if math.Abs(gmst-280.46) > 0.01 {
		t.Errorf("GMST at J2000 = %v, want ~280.46", gmst)
	}
}

func TestLocalSiderealTime(t *testing.T) {
	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	gmst := greenwichMeanSiderealTime(testTime)

	if lst0 := LocalSiderealTime(testTime, 0); math.Abs(lst0-gmst) > 1e-9 {
		t.Errorf("LST at lon=0 should equal GMST: got %v, want %v", lst0, gmst)
	}

	lst90 := LocalSiderealTime(testTime, 90)
	if want := math.Mod(gmst+90, 360); math.Abs(lst90-want) > 1e-9 {
		t.Errorf("LST at lon=90 = %v, want %v", lst90, want)
	}

	for lon := -180.0; lon <= 180; lon += 30 {
		lst := LocalSiderealTime(testTime, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at lon=%v out of range: %v", lon, lst)
		}
	}
}

func TestEquatorialToHorizontal_Polaris(t *testing.T) {
	polaris := Equatorial{RADeg: 37.95, DecDeg: 89.26}
	site := Site{LatDeg: 35.0, LonDeg: -117.0}

	for h := 0; h < 24; h += 3 {
		ts := time.Date(2024, 6, 15, h, 0, 0, 0, time.UTC)
		got := EquatorialToHorizontal(polaris, site, ts)

		// Polaris sits within a degree of the pole, so altitude ≈ latitude.
		if math.Abs(got.AltDeg-site.LatDeg) > 1.5 {
			t.Errorf("%02dh: Polaris altitude = %.2f°, want ~%.1f°", h, got.AltDeg, site.LatDeg)
		}
		// And it stays near due north.
		if got.AzDeg > 3 && got.AzDeg < 357 {
			t.Errorf("%02dh: Polaris azimuth = %.2f°, want near 0°", h, got.AzDeg)
		}
	}
}

func TestEquatorialToHorizontal_Zenith(t *testing.T) {
	// An object on the local meridian at dec == lat passes through the zenith.
	site := testSites["irtf"]
	ts := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)
	eq := Equatorial{RADeg: LocalSiderealTime(ts, site.LonDeg), DecDeg: site.LatDeg}

	got := EquatorialToHorizontal(eq, site, ts)
	if got.AltDeg < 89.99 {
		t.Errorf("altitude at meridian transit = %.4f°, want 90°", got.AltDeg)
	}
}

func TestEquatorialToHorizontal_Ranges(t *testing.T) {
	site := testSites["paranal"]
	ts := time.Date(2026, 2, 15, 3, 0, 0, 0, time.UTC)

	for ra := 0.0; ra < 360; ra += 45 {
		for dec := -80.0; dec <= 80; dec += 40 {
			got := EquatorialToHorizontal(Equatorial{RADeg: ra, DecDeg: dec}, site, ts)
			if got.AltDeg < -90 || got.AltDeg > 90 {
				t.Errorf("ra=%v dec=%v: altitude %v out of range", ra, dec, got.AltDeg)
			}
			if got.AzDeg < 0 || got.AzDeg > 360 {
				t.Errorf("ra=%v dec=%v: azimuth %v out of range", ra, dec, got.AzDeg)
			}
		}
	}
}

func TestAirmass(t *testing.T) {
	tests := []struct {
		altDeg float64
		want   float64
	}{
		{90, 1},
		{30, 2},
		{19.4712206, 3},
		{0, math.Inf(1)},
		{-12, math.Inf(1)},
		{math.NaN(), math.Inf(1)},
	}

	for _, tt := range tests {
		got := Airmass(tt.altDeg)
		if math.IsInf(tt.want, 1) {
			if !math.IsInf(got, 1) {
				t.Errorf("Airmass(%v) = %v, want +Inf", tt.altDeg, got)
			}
			continue
		}
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Airmass(%v) = %v, want %v", tt.altDeg, got, tt.want)
		}
	}
}

func TestVecToEquatorial(t *testing.T) {
	tests := []struct {
		name string
		v    r3.Vec
		want Equatorial
	}{
		{"x axis", r3.Vec{X: 1}, Equatorial{RADeg: 0, DecDeg: 0}},
		{"y axis", r3.Vec{Y: 2}, Equatorial{RADeg: 90, DecDeg: 0}},
		{"negative y", r3.Vec{Y: -1}, Equatorial{RADeg: 270, DecDeg: 0}},
		{"pole", r3.Vec{Z: 5}, Equatorial{RADeg: 0, DecDeg: 90}},
		{"zero", r3.Vec{}, Equatorial{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vecToEquatorial(tt.v)
			if math.Abs(got.RADeg-tt.want.RADeg) > 1e-9 || math.Abs(got.DecDeg-tt.want.DecDeg) > 1e-9 {
				t.Errorf("vecToEquatorial() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
