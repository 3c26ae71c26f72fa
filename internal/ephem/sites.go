package ephem

import (
	"sort"
	"strings"

	"github.com/pscicluna/obsplan/internal/astro"
)

// SiteInfo describes a registered observatory.
type SiteInfo struct {
	Code     string   // Short registry key (e.g., "irtf")
	Name     string   // Full observatory name
	LatDeg   float64  // Geodetic latitude, north positive
	LonDeg   float64  // Longitude, east positive
	HeightM  float64  // Height above the ellipsoid in meters
	Timezone string   // IANA zone, used only for labels
	Aliases  []string // Alternative names
}

// Site returns the astro.Site for the observatory.
func (s SiteInfo) Site() astro.Site {
	return astro.Site{Name: s.Name, LatDeg: s.LatDeg, LonDeg: s.LonDeg, HeightM: s.HeightM}
}

// Sites is the built-in observatory registry.
var Sites = []SiteInfo{
	// Maunakea
	{Code: "irtf", Name: "NASA Infrared Telescope Facility", LatDeg: 19.826218, LonDeg: -155.471999, HeightM: 4168, Timezone: "Pacific/Honolulu", Aliases: []string{"IRTF"}},
	{Code: "keck", Name: "W. M. Keck Observatory", LatDeg: 19.8283, LonDeg: -155.4783, HeightM: 4160, Timezone: "Pacific/Honolulu"},
	{Code: "subaru", Name: "Subaru Telescope", LatDeg: 19.825504, LonDeg: -155.476021, HeightM: 4139, Timezone: "Pacific/Honolulu"},
	{Code: "cfht", Name: "Canada-France-Hawaii Telescope", LatDeg: 19.825333, LonDeg: -155.468889, HeightM: 4204, Timezone: "Pacific/Honolulu"},
	{Code: "gemini_north", Name: "Gemini North", LatDeg: 19.823806, LonDeg: -155.469056, HeightM: 4213, Timezone: "Pacific/Honolulu", Aliases: []string{"gemini-north", "gemini n"}},
	{Code: "mko", Name: "Maunakea Observatories", LatDeg: 19.8207, LonDeg: -155.4681, HeightM: 4205, Timezone: "Pacific/Honolulu", Aliases: []string{"mauna kea", "maunakea"}},

	// Chile
	{Code: "gemini_south", Name: "Gemini South", LatDeg: -30.24075, LonDeg: -70.736693, HeightM: 2722, Timezone: "America/Santiago", Aliases: []string{"gemini-south", "gemini s"}},
	{Code: "paranal", Name: "Paranal Observatory", LatDeg: -24.627, LonDeg: -70.404, HeightM: 2635, Timezone: "America/Santiago", Aliases: []string{"vlt", "eso paranal"}},
	{Code: "lasilla", Name: "La Silla Observatory", LatDeg: -29.2567, LonDeg: -70.7346, HeightM: 2347, Timezone: "America/Santiago", Aliases: []string{"la silla"}},
	{Code: "ctio", Name: "Cerro Tololo Inter-American Observatory", LatDeg: -30.165, LonDeg: -70.815, HeightM: 2215, Timezone: "America/Santiago", Aliases: []string{"cerro tololo"}},

	// Continental US
	{Code: "kpno", Name: "Kitt Peak National Observatory", LatDeg: 31.9583, LonDeg: -111.5967, HeightM: 2120, Timezone: "America/Phoenix", Aliases: []string{"kitt peak"}},
	{Code: "palomar", Name: "Palomar Observatory", LatDeg: 33.3563, LonDeg: -116.865, HeightM: 1706, Timezone: "America/Los_Angeles"},
	{Code: "lick", Name: "Lick Observatory", LatDeg: 37.3414, LonDeg: -121.6429, HeightM: 1283, Timezone: "America/Los_Angeles"},
	{Code: "mcdonald", Name: "McDonald Observatory", LatDeg: 30.6717, LonDeg: -104.0217, HeightM: 2075, Timezone: "America/Chicago"},
	{Code: "apo", Name: "Apache Point Observatory", LatDeg: 32.7803, LonDeg: -105.8203, HeightM: 2798, Timezone: "America/Denver", Aliases: []string{"apache point"}},

	// Elsewhere
	{Code: "lapalma", Name: "Roque de los Muchachos Observatory", LatDeg: 28.7606, LonDeg: -17.8792, HeightM: 2396, Timezone: "Atlantic/Canary", Aliases: []string{"orm", "la palma"}},
	{Code: "sso", Name: "Siding Spring Observatory", LatDeg: -31.2733, LonDeg: 149.0617, HeightM: 1165, Timezone: "Australia/Sydney", Aliases: []string{"siding spring"}},
	{Code: "saao", Name: "South African Astronomical Observatory", LatDeg: -32.3794, LonDeg: 20.8107, HeightM: 1798, Timezone: "Africa/Johannesburg", Aliases: []string{"sutherland"}},
	{Code: "greenwich", Name: "Royal Observatory Greenwich", LatDeg: 51.4778, LonDeg: -0.0015, HeightM: 46, Timezone: "Europe/London"},
}

// sitesByName maps lowercase codes, names and aliases to registry entries.
var sitesByName = func() map[string]SiteInfo {
	m := make(map[string]SiteInfo, len(Sites)*3)
	for _, s := range Sites {
		m[normalizeName(s.Code)] = s
		m[normalizeName(s.Name)] = s
		for _, alias := range s.Aliases {
			m[normalizeName(alias)] = s
		}
	}
	return m
}()

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SiteByName returns the registry entry for a code, name or alias
// (case-insensitive).
func SiteByName(name string) (SiteInfo, bool) {
	s, ok := sitesByName[normalizeName(name)]
	return s, ok
}

// SiteCodes returns all registry codes in sorted order.
func SiteCodes() []string {
	codes := make([]string, len(Sites))
	for i, s := range Sites {
		codes[i] = s.Code
	}
	sort.Strings(codes)
	return codes
}
