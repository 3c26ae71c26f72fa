// Package backup ranks backup targets by how well they can be observed
// over a short look-ahead window.
package backup

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/ephem"
	"github.com/pscicluna/obsplan/internal/logging"
	"github.com/pscicluna/obsplan/internal/metrics"
)

// ErrEphemeris wraps failures reported by the ephemeris provider.
var ErrEphemeris = errors.New("ephemeris failure")

// Score is the ranking result for one target.
type Score struct {
	Target      astro.Target
	BestAirmass float64   // lowest airmass among good samples
	FracGood    float64   // good samples / grid samples
	BestTime    time.Time // grid time of BestAirmass, earliest on ties
}

// Ranker evaluates candidates against a provider. The zero value of every
// field except Provider is usable.
type Ranker struct {
	Provider ephem.Provider

	// Workers bounds concurrent target evaluation. Values <= 1 evaluate
	// targets one after another.
	Workers int

	Logger   *logging.Logger
	Recorder metrics.Recorder
}

// Rank is a sequential Ranker.Rank without logging or metrics.
func Rank(p ephem.Provider, targets []astro.Target, start time.Time, opts Options) ([]Score, error) {
	return (&Ranker{Provider: p}).Rank(targets, start, opts)
}

// sky holds per-sample values shared by every target.
type sky struct {
	times []time.Time
	night []bool
	moon  []astro.Equatorial
}

// Rank scores targets over the window starting at start and returns at
// most opts.NBest of them, ordered by ascending best airmass then
// descending good fraction. Any error aborts the whole call.
func (r *Ranker) Rank(targets []astro.Target, start time.Time, opts Options) ([]Score, error) {
	began := time.Now()
	scores, err := r.rank(targets, start, opts)

	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, ErrInvalidConfiguration):
		outcome = metrics.OutcomeInvalid
	case err != nil:
		outcome = metrics.OutcomeError
	}
	r.recorder().ObserveRank(outcome, time.Since(began), len(targets), len(scores))

	return scores, err
}

func (r *Ranker) rank(targets []astro.Target, start time.Time, opts Options) ([]Score, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return []Score{}, nil
	}

	log := r.logger()
	s, err := r.observeSky(start, opts)
	if err != nil {
		return nil, err
	}
	log.Debug("grid of %d samples from %s, twilight=%s", len(s.times), start.UTC().Format(time.RFC3339), opts.Twilight)

	results := make([]*Score, len(targets))
	if r.Workers <= 1 {
		for i, target := range targets {
			if results[i], err = r.evaluate(s, target, opts); err != nil {
				return nil, err
			}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.Workers)
		for i, target := range targets {
			g.Go(func() error {
				score, err := r.evaluate(s, target, opts)
				results[i] = score
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	scores := make([]Score, 0, len(targets))
	for _, score := range results {
		if score != nil {
			scores = append(scores, *score)
		}
	}
	sortScores(scores)
	if len(scores) > opts.NBest {
		scores = scores[:opts.NBest]
	}

	log.Debug("ranked %d of %d candidates", len(scores), len(targets))
	return scores, nil
}

// observeSky computes the twilight mask and Moon track once per run.
func (r *Ranker) observeSky(start time.Time, opts Options) (sky, error) {
	s := sky{times: TimeGrid(start, opts.Duration, opts.Step)}

	limit, gated, err := opts.Twilight.SolarAltitudeLimit()
	if err != nil {
		return sky{}, err
	}
	if gated {
		s.night, err = r.Provider.IsNight(s.times, limit)
		if err != nil {
			return sky{}, fmt.Errorf("%w: twilight: %w", ErrEphemeris, err)
		}
	} else {
		s.night = make([]bool, len(s.times))
		for i := range s.night {
			s.night[i] = true
		}
	}

	s.moon, err = r.Provider.MoonPosition(s.times)
	if err != nil {
		return sky{}, fmt.Errorf("%w: moon: %w", ErrEphemeris, err)
	}

	if len(s.night) != len(s.times) || len(s.moon) != len(s.times) {
		return sky{}, fmt.Errorf("%w: provider %s returned %d/%d samples for %d times",
			ErrEphemeris, r.Provider.Name(), len(s.night), len(s.moon), len(s.times))
	}
	return s, nil
}

// evaluate scores one target. A nil score means the target was filtered.
func (r *Ranker) evaluate(s sky, target astro.Target, opts Options) (*Score, error) {
	altaz, err := r.Provider.AltAz(s.times, target.Coord)
	if err != nil {
		return nil, fmt.Errorf("%w: target %s: %w", ErrEphemeris, target.Name, err)
	}
	if len(altaz) != len(s.times) {
		return nil, fmt.Errorf("%w: target %s: %d samples for %d times", ErrEphemeris, target.Name, len(altaz), len(s.times))
	}

	var goodIdx []int
	var goodAirmass []float64
	for i := range s.times {
		if !s.night[i] {
			continue
		}
		am := astro.Airmass(altaz[i].AltDeg)
		if math.IsInf(am, 0) || math.IsNaN(am) || am > opts.MaxAirmass {
			continue
		}
		if r.Provider.AngularSeparation(target.Coord, s.moon[i]) < opts.MinMoonSepDeg {
			continue
		}
		goodIdx = append(goodIdx, i)
		goodAirmass = append(goodAirmass, am)
	}

	frac := float64(len(goodIdx)) / float64(len(s.times))
	if frac < opts.MinGoodFraction {
		r.logger().Debug("drop %s: frac_good %.2f below %.2f", target.Name, frac, opts.MinGoodFraction)
		return nil, nil
	}
	// Reachable only with a zero floor.
	if len(goodIdx) == 0 {
		r.logger().Debug("drop %s: no good samples", target.Name)
		return nil, nil
	}

	best := floats.MinIdx(goodAirmass)
	return &Score{
		Target:      target,
		BestAirmass: goodAirmass[best],
		FracGood:    frac,
		BestTime:    s.times[goodIdx[best]],
	}, nil
}

// sortScores orders by ascending best airmass, then descending good
// fraction, keeping input order for exact ties.
func sortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.BestAirmass != b.BestAirmass {
			return a.BestAirmass < b.BestAirmass
		}
		return a.FracGood > b.FracGood
	})
}

func (r *Ranker) logger() *logging.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}

func (r *Ranker) recorder() metrics.Recorder {
	if r.Recorder == nil {
		return metrics.Nop{}
	}
	return r.Recorder
}
