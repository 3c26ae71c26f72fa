package backup

import (
	"fmt"
	"strings"
)

// TwilightMode gates samples on the Sun's altitude.
type TwilightMode string

const (
	TwilightNone     TwilightMode = "none"     // no gating
	TwilightCivil    TwilightMode = "civil"    // Sun below 0°
	TwilightNautical TwilightMode = "nautical" // Sun below -12°
)

// TwilightModes lists the recognized modes in cycling order.
var TwilightModes = []TwilightMode{TwilightNone, TwilightCivil, TwilightNautical}

// ParseTwilightMode parses a mode name, case-insensitively.
func ParseTwilightMode(s string) (TwilightMode, error) {
	m := TwilightMode(strings.ToLower(strings.TrimSpace(s)))
	if _, _, err := m.SolarAltitudeLimit(); err != nil {
		return "", err
	}
	return m, nil
}

// SolarAltitudeLimit returns the altitude the Sun must be below, and
// whether the mode gates at all.
func (m TwilightMode) SolarAltitudeLimit() (deg float64, gated bool, err error) {
	switch m {
	case TwilightNone:
		return 0, false, nil
	case TwilightCivil:
		return 0, true, nil
	case TwilightNautical:
		return -12, true, nil
	default:
		return 0, false, fmt.Errorf("%w: unknown twilight mode %q", ErrInvalidConfiguration, string(m))
	}
}

// Next returns the mode after m in TwilightModes, wrapping around.
func (m TwilightMode) Next() TwilightMode {
	for i, mode := range TwilightModes {
		if mode == m {
			return TwilightModes[(i+1)%len(TwilightModes)]
		}
	}
	return TwilightModes[0]
}

func (m TwilightMode) String() string {
	return string(m)
}
