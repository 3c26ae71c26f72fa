package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunEquatorial(t *testing.T) {
	tests := []struct {
		name       string
		time       time.Time
		wantRAMin  float64
		wantRAMax  float64
		wantDecMin float64
		wantDecMax float64
	}{
		{
			name:       "Spring Equinox 2024 - Sun near 0h RA, 0° Dec",
			time:       time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
			wantRAMin:  359,
			wantRAMax:  2,
			wantDecMin: -1,
			wantDecMax: 1,
		},
		{
			name:       "Summer Solstice 2024 - Sun near 6h RA, +23.4° Dec",
			time:       time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
			wantRAMin:  88,
			wantRAMax:  92,
			wantDecMin: 23,
			wantDecMax: 24,
		},
		{
			name:       "Winter Solstice 2024 - Sun near 18h RA, -23.4° Dec",
			time:       time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC),
			wantRAMin:  268,
			wantRAMax:  272,
			wantDecMin: -24,
			wantDecMax: -23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunEquatorial(tt.time)

			var raOK bool
			if tt.wantRAMin > tt.wantRAMax {
				raOK = got.RADeg >= tt.wantRAMin || got.RADeg <= tt.wantRAMax
			} else {
				raOK = got.RADeg >= tt.wantRAMin && got.RADeg <= tt.wantRAMax
			}
			if !raOK {
				t.Errorf("SunEquatorial() RA = %.2f°, want between %.2f° and %.2f°",
					got.RADeg, tt.wantRAMin, tt.wantRAMax)
			}
			if got.DecDeg < tt.wantDecMin || got.DecDeg > tt.wantDecMax {
				t.Errorf("SunEquatorial() Dec = %.2f°, want between %.2f° and %.2f°",
					got.DecDeg, tt.wantDecMin, tt.wantDecMax)
			}
		})
	}
}

func TestSunAltitude(t *testing.T) {
	greenwich := testSites["greenwich"]

	// Local noon near the June solstice: 90 - 51.48 + 23.44.
	noon := SunAltitude(greenwich, time.Date(2024, 6, 21, 12, 2, 0, 0, time.UTC))
	if math.Abs(noon-61.96) > 1 {
		t.Errorf("noon altitude = %.2f°, want ~61.96°", noon)
	}

	midnight := SunAltitude(greenwich, time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC))
	if midnight > -50 {
		t.Errorf("midwinter midnight altitude = %.2f°, want below -50°", midnight)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b Equatorial
		want float64
	}{
		{"same point", Equatorial{RADeg: 10, DecDeg: 20}, Equatorial{RADeg: 10, DecDeg: 20}, 0},
		{"quarter along equator", Equatorial{RADeg: 0, DecDeg: 0}, Equatorial{RADeg: 90, DecDeg: 0}, 90},
		{"antipodal on equator", Equatorial{RADeg: 0, DecDeg: 0}, Equatorial{RADeg: 180, DecDeg: 0}, 180},
		{"pole to pole", Equatorial{RADeg: 0, DecDeg: 90}, Equatorial{RADeg: 123, DecDeg: -90}, 180},
		{"RA wrap", Equatorial{RADeg: 359, DecDeg: 0}, Equatorial{RADeg: 1, DecDeg: 0}, 2},
		{"dec only", Equatorial{RADeg: 50, DecDeg: -10}, Equatorial{RADeg: 50, DecDeg: 25}, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngularSeparation() = %v, want %v", got, tt.want)
			}
			if rev := AngularSeparation(tt.b, tt.a); math.Abs(rev-got) > 1e-12 {
				t.Errorf("AngularSeparation not symmetric: %v vs %v", got, rev)
			}
		})
	}
}
