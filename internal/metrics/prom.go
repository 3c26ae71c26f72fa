package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder exports ranking runs as Prometheus metrics.
type PromRecorder struct {
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	candidates prometheus.Gauge
	results    prometheus.Gauge
}

// NewPromRecorder registers ranking metrics on reg. If reg is nil, the
// default registerer is used. Collectors that are already registered are
// reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "obsplan_rank_runs_total",
		Help: "Total number of backup ranking runs",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "obsplan_rank_duration_seconds",
		Help:    "Wall time spent ranking backup targets",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}))
	if err != nil {
		return nil, err
	}
	candidates, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obsplan_rank_candidates",
		Help: "Number of candidate targets in the last ranking run",
	}))
	if err != nil {
		return nil, err
	}
	results, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obsplan_rank_results",
		Help: "Number of ranked targets returned by the last successful run",
	}))
	if err != nil {
		return nil, err
	}

	return &PromRecorder{runs: runs, duration: duration, candidates: candidates, results: results}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// ObserveRank implements Recorder.
func (r *PromRecorder) ObserveRank(outcome Outcome, elapsed time.Duration, candidates, ranked int) {
	r.runs.WithLabelValues(string(outcome)).Inc()
	r.duration.Observe(elapsed.Seconds())
	r.candidates.Set(float64(candidates))
	if outcome == OutcomeOK {
		r.results.Set(float64(ranked))
	}
}
