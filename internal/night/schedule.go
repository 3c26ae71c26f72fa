package night

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/catalog"
	"github.com/pscicluna/obsplan/internal/ephem"
)

// Block is one observation request.
type Block struct {
	Target   astro.Target
	Priority int // lower schedules first
	Duration time.Duration
	Group    string
}

// BlocksFromRows turns catalog rows into single-exposure blocks.
func BlocksFromRows(rows []catalog.Row) []Block {
	blocks := make([]Block, len(rows))
	for i, r := range rows {
		blocks[i] = Block{
			Target:   r.Target(),
			Priority: r.Priority,
			Duration: time.Duration(r.ExptimeMin * float64(time.Minute)),
			Group:    r.Group,
		}
	}
	return blocks
}

// Constraints must hold at every slot a block occupies.
type Constraints struct {
	MinAltDeg      float64
	MaxAirmass     float64 // 0 disables the check
	MaxSolarAltDeg float64
	MinMoonSepDeg  float64
}

// Options controls PlanNight.
type Options struct {
	Twilight    Twilight
	SlotSize    time.Duration
	Constraints Constraints
}

// DefaultOptions returns astronomical-twilight planning on 5 minute slots.
func DefaultOptions() Options {
	return Options{
		Twilight: TwilightAstronomical,
		SlotSize: 5 * time.Minute,
		Constraints: Constraints{
			MinAltDeg:      25,
			MaxSolarAltDeg: -18,
			MinMoonSepDeg:  20,
		},
	}
}

// Slot is a scheduled block.
type Slot struct {
	Block       Block
	Start       time.Time
	End         time.Time
	MeanAirmass float64
}

// Schedule is the result of planning one night.
type Schedule struct {
	Start       time.Time
	End         time.Time
	Slots       []Slot  // chronological
	Unscheduled []Block // in priority order
}

// Plan is a night window with its schedule.
type Plan struct {
	Start    time.Time
	End      time.Time
	Schedule *Schedule
}

// PlanNight finds the night around anchor and schedules blocks into it.
// Blocks are placed in ascending priority order, each at the free start
// slot with the lowest mean airmass that satisfies every constraint.
// Earlier slots win ties.
func PlanNight(p ephem.Provider, anchor time.Time, blocks []Block, opts Options) (*Plan, error) {
	if opts.SlotSize <= 0 {
		return nil, fmt.Errorf("slot size must be positive, got %s", opts.SlotSize)
	}
	start, end, err := Window(p, anchor, opts.Twilight)
	if err != nil {
		return nil, err
	}

	sched, err := newScheduler(p, start, end, opts).run(blocks)
	if err != nil {
		return nil, err
	}
	return &Plan{Start: start, End: end, Schedule: sched}, nil
}

type scheduler struct {
	p     ephem.Provider
	opts  Options
	start time.Time
	end   time.Time
	times []time.Time
	busy  []bool
}

func newScheduler(p ephem.Provider, start, end time.Time, opts Options) *scheduler {
	n := int(end.Sub(start) / opts.SlotSize)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * opts.SlotSize)
	}
	return &scheduler{p: p, opts: opts, start: start, end: end, times: times, busy: make([]bool, n)}
}

func (s *scheduler) run(blocks []Block) (*Schedule, error) {
	sched := &Schedule{Start: s.start, End: s.end}

	ordered := append([]Block(nil), blocks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	if len(ordered) == 0 || len(s.times) == 0 {
		sched.Unscheduled = ordered
		return sched, nil
	}

	sunOK, err := s.p.IsNight(s.times, s.opts.Constraints.MaxSolarAltDeg)
	if err != nil {
		return nil, fmt.Errorf("night mask: %w", err)
	}
	moon, err := s.p.MoonPosition(s.times)
	if err != nil {
		return nil, fmt.Errorf("moon position: %w", err)
	}
	if len(sunOK) != len(s.times) || len(moon) != len(s.times) {
		return nil, fmt.Errorf("%w: %d night flags and %d moon positions for %d slots",
			ErrSampleCount, len(sunOK), len(moon), len(s.times))
	}

	for _, b := range ordered {
		airmass, err := s.airmass(b, sunOK, moon)
		if err != nil {
			return nil, err
		}
		idx, mean, ok := s.place(b, airmass)
		if !ok {
			sched.Unscheduled = append(sched.Unscheduled, b)
			continue
		}
		k := s.slotsFor(b)
		for i := idx; i < idx+k; i++ {
			s.busy[i] = true
		}
		sched.Slots = append(sched.Slots, Slot{
			Block:       b,
			Start:       s.times[idx],
			End:         s.times[idx].Add(b.Duration),
			MeanAirmass: mean,
		})
	}

	sort.SliceStable(sched.Slots, func(i, j int) bool {
		return sched.Slots[i].Start.Before(sched.Slots[j].Start)
	})
	return sched, nil
}

// airmass returns per-slot airmass, +Inf where a constraint fails.
func (s *scheduler) airmass(b Block, sunOK []bool, moon []astro.Equatorial) ([]float64, error) {
	altaz, err := s.p.AltAz(s.times, b.Target.Coord)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", b.Target.Name, err)
	}
	if len(altaz) != len(s.times) {
		return nil, fmt.Errorf("%w: target %s: %d samples for %d slots",
			ErrSampleCount, b.Target.Name, len(altaz), len(s.times))
	}
	c := s.opts.Constraints
	out := make([]float64, len(s.times))
	for i := range s.times {
		am := astro.Airmass(altaz[i].AltDeg)
		switch {
		case !sunOK[i],
			altaz[i].AltDeg < c.MinAltDeg,
			c.MaxAirmass > 0 && am > c.MaxAirmass,
			s.p.AngularSeparation(b.Target.Coord, moon[i]) < c.MinMoonSepDeg:
			am = math.Inf(1)
		}
		out[i] = am
	}
	return out, nil
}

func (s *scheduler) slotsFor(b Block) int {
	k := int((b.Duration + s.opts.SlotSize - 1) / s.opts.SlotSize)
	return max(k, 1)
}

// place returns the best free start index for b.
func (s *scheduler) place(b Block, airmass []float64) (int, float64, bool) {
	k := s.slotsFor(b)
	bestIdx, bestMean := -1, math.Inf(1)
	for i := 0; i+k <= len(s.times); i++ {
		sum := 0.0
		ok := true
		for j := i; j < i+k; j++ {
			if s.busy[j] || math.IsInf(airmass[j], 1) {
				ok = false
				break
			}
			sum += airmass[j]
		}
		if !ok {
			continue
		}
		if mean := sum / float64(k); mean < bestMean {
			bestIdx, bestMean = i, mean
		}
	}
	return bestIdx, bestMean, bestIdx >= 0
}

// String renders the schedule as a plain-text table.
func (s *Schedule) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Schedule %s -> %s\n", formatTime(s.Start), formatTime(s.End))

	if len(s.Slots) == 0 {
		buf.WriteString("(no blocks scheduled)\n")
	} else {
		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "start\tend\ttarget\tpriority\tgroup\tairmass")
		for _, sl := range s.Slots {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%.3f\n",
				formatTime(sl.Start), formatTime(sl.End), sl.Block.Target.Name,
				sl.Block.Priority, sl.Block.Group, sl.MeanAirmass)
		}
		tw.Flush()
	}

	if len(s.Unscheduled) > 0 {
		names := make([]string, len(s.Unscheduled))
		for i, b := range s.Unscheduled {
			names[i] = b.Target.Name
		}
		fmt.Fprintf(&buf, "unscheduled: %s\n", strings.Join(names, ", "))
	}
	return buf.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
