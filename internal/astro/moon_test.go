package astro

import (
	"math"
	"testing"
	"time"
)

func TestMoonGeocentric_MeeusExample(t *testing.T) {
	// Meeus, Astronomical Algorithms, example 47.a: 1992 April 12, 0h TD.
	got, dist := MoonGeocentric(time.Date(1992, 4, 12, 0, 0, 0, 0, time.UTC))

	if math.Abs(got.RADeg-134.688) > 0.1 {
		t.Errorf("RA = %.4f°, want ~134.688°", got.RADeg)
	}
	if math.Abs(got.DecDeg-13.768) > 0.1 {
		t.Errorf("Dec = %.4f°, want ~13.768°", got.DecDeg)
	}
	if math.Abs(dist-368409.7) > 100 {
		t.Errorf("distance = %.1f km, want ~368409.7 km", dist)
	}
}

func TestMoonGeocentric_Ranges(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 60; d += 3 {
		ts := start.Add(time.Duration(d) * 24 * time.Hour)
		pos, dist := MoonGeocentric(ts)

		if pos.DecDeg < -30 || pos.DecDeg > 30 {
			t.Errorf("%s: Dec = %.2f°, outside lunar range", ts.Format("2006-01-02"), pos.DecDeg)
		}
		if dist < 356000 || dist > 407000 {
			t.Errorf("%s: distance = %.0f km, outside lunar range", ts.Format("2006-01-02"), dist)
		}
	}
}

func TestMoonTopocentric_Parallax(t *testing.T) {
	site := testSites["irtf"]
	start := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	for h := 0; h < 24; h += 2 {
		ts := start.Add(time.Duration(h) * time.Hour)
		geo, _ := MoonGeocentric(ts)
		topo := MoonTopocentric(site, ts)

		// Horizontal parallax never exceeds ~1.03°.
		if sep := AngularSeparation(geo, topo); sep > 1.05 {
			t.Errorf("%02dh: topocentric shift = %.3f°, want <= 1.05°", h, sep)
		}
	}
}
