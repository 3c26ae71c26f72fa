package catalog

import "github.com/pscicluna/obsplan/internal/astro"

// GroupStandards is the group assigned to builtin bright stars.
const GroupStandards = "standards"

type star struct {
	name string
	ra   float64 // J2000, degrees
	dec  float64
	mag  float64 // visual
}

// Bright named stars spread across both hemispheres, for use as fallback
// targets when no catalog is supplied. Yale Bright Star Catalog positions.
var brightStars = []star{
	{"Sirius", 101.287, -16.716, -1.46},
	{"Canopus", 95.988, -52.696, -0.74},
	{"Arcturus", 213.915, 19.182, -0.05},
	{"Vega", 279.235, 38.784, 0.03},
	{"Capella", 79.172, 45.998, 0.08},
	{"Rigel", 78.634, -8.202, 0.13},
	{"Procyon", 114.826, 5.225, 0.34},
	{"Achernar", 24.429, -57.237, 0.46},
	{"Betelgeuse", 88.793, 7.407, 0.50},
	{"Hadar", 210.956, -60.373, 0.61},
	{"Altair", 297.696, 8.868, 0.76},
	{"Acrux", 186.650, -63.099, 0.76},
	{"Aldebaran", 68.980, 16.509, 0.85},
	{"Antares", 247.352, -26.432, 0.96},
	{"Spica", 201.298, -11.161, 0.97},
	{"Pollux", 116.329, 28.026, 1.14},
	{"Fomalhaut", 344.413, -29.622, 1.16},
	{"Deneb", 310.358, 45.280, 1.25},
	{"Regulus", 152.093, 11.967, 1.35},
	{"Castor", 113.650, 31.889, 1.58},
	{"Bellatrix", 81.283, 6.350, 1.64},
	{"Alnilam", 84.053, -1.202, 1.69},
	{"Alioth", 193.507, 55.960, 1.77},
	{"Dubhe", 165.932, 61.751, 1.79},
	{"Mirfak", 51.081, 49.861, 1.79},
	{"Alkaid", 206.885, 49.313, 1.86},
	{"Alphard", 141.897, -8.659, 2.00},
	{"Hamal", 31.793, 23.463, 2.00},
	{"Diphda", 10.897, -17.987, 2.02},
	{"Nunki", 283.816, -26.297, 2.02},
	{"Alpheratz", 2.097, 29.091, 2.06},
	{"Menkent", 211.671, -36.370, 2.06},
	{"Rasalhague", 263.734, 12.560, 2.08},
	{"Denebola", 177.265, 14.572, 2.13},
	{"Alphecca", 233.672, 26.715, 2.23},
	{"Enif", 326.046, 9.875, 2.39},
	{"Markab", 346.190, 15.205, 2.49},
	{"Zubeneschamali", 229.252, -9.383, 2.61},
	{"Sadalmelik", 331.446, -0.320, 2.96},
	{"Albireo", 292.680, 27.960, 3.18},
}

// BrightStars returns builtin stars no fainter than maxMag, brightest
// first. Priority grows by one per magnitude.
func BrightStars(maxMag float64) []Row {
	var rows []Row
	for _, s := range brightStars {
		if s.mag > maxMag {
			continue
		}
		rows = append(rows, Row{
			Name:       s.name,
			Coord:      astro.Equatorial{RADeg: s.ra, DecDeg: s.dec},
			Priority:   DefaultPriority + int(max(s.mag, 0)),
			ExptimeMin: 5,
			Group:      GroupStandards,
		})
	}
	return rows
}
