// Package metrics records ranking activity.
package metrics

import "time"

// Outcome labels a ranking run.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeInvalid Outcome = "invalid" // rejected configuration
	OutcomeError   Outcome = "error"   // ephemeris failure
)

// Recorder receives one observation per ranking run.
type Recorder interface {
	ObserveRank(outcome Outcome, elapsed time.Duration, candidates, ranked int)
}

// Nop discards all observations.
type Nop struct{}

// ObserveRank implements Recorder.
func (Nop) ObserveRank(Outcome, time.Duration, int, int) {}
