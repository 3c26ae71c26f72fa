package astro

import (
	"errors"
	"time"
)

// AltitudeSample is an altitude value at a specific time.
type AltitudeSample struct {
	Time   time.Time
	AltDeg float64
}

// CrossingDirection tells whether a crossing goes up or down through a threshold.
type CrossingDirection int

const (
	Rising  CrossingDirection = iota // below -> above
	Setting                          // above -> below
)

// String returns the direction name.
func (d CrossingDirection) String() string {
	switch d {
	case Rising:
		return "rising"
	case Setting:
		return "setting"
	default:
		return "unknown"
	}
}

// Crossing is an interpolated threshold crossing.
type Crossing struct {
	Time      time.Time
	Direction CrossingDirection
}

// ErrInsufficientSamples is returned when a series is too short to search.
var ErrInsufficientSamples = errors.New("insufficient samples for crossing search")

// FindCrossings returns every time the altitude series crosses threshold, in
// chronological order. Samples must be chronological. A sample exactly at the
// threshold counts as below it.
func FindCrossings(samples []AltitudeSample, threshold float64) ([]Crossing, error) {
	if len(samples) < 2 {
		return nil, ErrInsufficientSamples
	}

	var out []Crossing
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		prevAbove := prev.AltDeg > threshold
		currAbove := curr.AltDeg > threshold
		if prevAbove == currAbove {
			continue
		}
		dir := Rising
		if prevAbove {
			dir = Setting
		}
		out = append(out, Crossing{
			Time:      interpolateCrossing(prev.Time, curr.Time, prev.AltDeg, curr.AltDeg, threshold),
			Direction: dir,
		})
	}
	return out, nil
}

// interpolateCrossing finds the time when altitude crosses a threshold.
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if el2 == el1 {
		return t1
	}
	fraction := clamp((threshold-el1)/(el2-el1), 0, 1)
	dt := t2.Sub(t1)
	return t1.Add(time.Duration(float64(dt) * fraction))
}

// AirmassTier categorizes airmass for display.
type AirmassTier int

const (
	AirmassNone      AirmassTier = iota // Below horizon
	AirmassPoor                         // >= 2.0
	AirmassFair                         // 1.5-2.0
	AirmassGood                         // 1.2-1.5
	AirmassExcellent                    // < 1.2
)

// String returns the tier name.
func (t AirmassTier) String() string {
	switch t {
	case AirmassExcellent:
		return "excellent"
	case AirmassGood:
		return "good"
	case AirmassFair:
		return "fair"
	case AirmassPoor:
		return "poor"
	default:
		return "none"
	}
}

// GetAirmassTier returns the tier for a given airmass.
func GetAirmassTier(airmass float64) AirmassTier {
	switch {
	case !(airmass >= 1) || airmass > 1e6:
		return AirmassNone
	case airmass < 1.2:
		return AirmassExcellent
	case airmass < 1.5:
		return AirmassGood
	case airmass < 2.0:
		return AirmassFair
	default:
		return AirmassPoor
	}
}
