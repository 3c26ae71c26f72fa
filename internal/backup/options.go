package backup

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfiguration wraps every option validation failure.
var ErrInvalidConfiguration = errors.New("invalid backup configuration")

// MaxSamples bounds the time grid of a single run.
const MaxSamples = 100_000

// Options controls a ranking run. Pass by value.
type Options struct {
	Duration        time.Duration // look-ahead window
	Step            time.Duration // grid spacing
	MaxAirmass      float64       // inclusive upper bound
	MinMoonSepDeg   float64       // inclusive lower bound
	Twilight        TwilightMode
	NBest           int     // maximum number of results
	MinGoodFraction float64 // in [0, 1]
}

// DefaultOptions returns the standard two-hour look-ahead settings.
func DefaultOptions() Options {
	return Options{
		Duration:        2 * time.Hour,
		Step:            2 * time.Minute,
		MaxAirmass:      2.5,
		MinMoonSepDeg:   10,
		Twilight:        TwilightCivil,
		NBest:           10,
		MinGoodFraction: 0.2,
	}
}

// Validate reports the first invalid option. A step longer than the
// duration is allowed and yields a one-sample grid.
func (o Options) Validate() error {
	if _, _, err := o.Twilight.SolarAltitudeLimit(); err != nil {
		return err
	}
	switch {
	case o.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidConfiguration, o.Duration)
	case o.Step <= 0:
		return fmt.Errorf("%w: step must be positive, got %s", ErrInvalidConfiguration, o.Step)
	case int64(o.Duration/o.Step) >= MaxSamples:
		return fmt.Errorf("%w: %s at %s steps exceeds %d samples", ErrInvalidConfiguration, o.Duration, o.Step, MaxSamples)
	case o.NBest <= 0:
		return fmt.Errorf("%w: n_best must be positive, got %d", ErrInvalidConfiguration, o.NBest)
	case math.IsNaN(o.MinGoodFraction) || o.MinGoodFraction < 0 || o.MinGoodFraction > 1:
		return fmt.Errorf("%w: min_good_fraction must be in [0, 1], got %v", ErrInvalidConfiguration, o.MinGoodFraction)
	case math.IsNaN(o.MaxAirmass):
		return fmt.Errorf("%w: max_airmass is NaN", ErrInvalidConfiguration)
	case math.IsNaN(o.MinMoonSepDeg):
		return fmt.Errorf("%w: min_moon_sep is NaN", ErrInvalidConfiguration)
	}
	return nil
}
