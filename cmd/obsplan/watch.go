package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/logging"
	"github.com/pscicluna/obsplan/internal/metrics"
	"github.com/pscicluna/obsplan/internal/report"
	"github.com/pscicluna/obsplan/internal/state"
)

const minWatchInterval = time.Second

var (
	watchTargets  string
	watchAll      bool
	watchMaxMag   float64
	watchInterval time.Duration
	watchMetrics  bool
	watchAddr     string
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-rank backups at an interval and log ranking changes",
	RunE:  runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchTargets, "targets", "", "CSV catalog (default: builtin bright stars)")
	f.BoolVar(&watchAll, "all", false, "rank every CSV row, not only non-primary groups")
	f.Float64Var(&watchMaxMag, "max-mag", 2.5, "faintest builtin star to consider")
	f.DurationVar(&watchInterval, "interval", 0, "override watch.interval")
	f.BoolVar(&watchMetrics, "metrics", false, "serve Prometheus metrics (overrides metrics.enabled)")
	f.StringVar(&watchAddr, "metrics-addr", "", "override metrics.addr")
	f.BoolVarP(&watchQuiet, "quiet", "q", false, "log events only, do not print each ranking")
	rootCmd.AddCommand(watchCmd)
}

// watcher re-ranks a fixed candidate list against the current time.
type watcher struct {
	ranker  *backup.Ranker
	targets []astro.Target
	opts    backup.Options
	state   *state.Manager
	log     *logging.Logger
	out     io.Writer
	quiet   bool
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	opts, err := e.cfg.BackupOptions()
	if err != nil {
		return err
	}
	if watchInterval > 0 {
		e.cfg.Watch.Interval = max(watchInterval, minWatchInterval)
	}
	if watchMetrics {
		e.cfg.Metrics.Enabled = true
	}
	if watchAddr != "" {
		e.cfg.Metrics.Addr = watchAddr
	}

	targets, err := loadBackups(watchTargets, watchAll, watchMaxMag)
	if err != nil {
		return err
	}

	ranker := e.newRanker()
	g, ctx := errgroup.WithContext(ctx)
	if e.cfg.Metrics.Enabled {
		rec, err := metrics.NewPromRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		ranker.Recorder = rec
		e.log.Info("Serving metrics on %s/metrics", e.cfg.Metrics.Addr)
		g.Go(func() error {
			return metrics.Serve(ctx, e.cfg.Metrics.Addr, prometheus.DefaultGatherer)
		})
	}

	w := &watcher{
		ranker:  ranker,
		targets: targets,
		opts:    opts,
		state:   newStateManager(e.cfg.Watch),
		log:     e.log.With("component", "watch"),
		out:     cmd.OutOrStdout(),
		quiet:   watchQuiet,
	}
	g.Go(func() error { return w.run(ctx) })

	return g.Wait()
}

// run ranks immediately and then at every refresh interval until ctx ends.
func (w *watcher) run(ctx context.Context) error {
	w.once(time.Now().UTC())

	ticker := time.NewTicker(w.state.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Watch loop shutting down")
			return nil
		case t := <-ticker.C:
			w.once(t.UTC())
		}
	}
}

// once performs one ranking at start and reports what changed. Ranking
// errors are logged and kept in state; the loop continues.
func (w *watcher) once(start time.Time) {
	runID := report.NewRunID()
	log := w.log.With("run_id", runID)

	began := time.Now()
	scores, err := w.ranker.Rank(w.targets, start, w.opts)
	elapsed := time.Since(began)
	if err != nil {
		log.Error("Ranking failed: %v", err)
		w.state.Update(nil, elapsed, err)
		if w.state.HasData() {
			log.Warn("Keeping the previous ranking")
		}
		return
	}

	w.state.Update(&state.Ranking{RunID: runID, Start: start, Options: w.opts, Scores: scores}, elapsed, nil)
	log.Debug("Ranked %d of %d candidates in %v", len(scores), len(w.targets), elapsed)

	for _, ev := range w.state.Snapshot().Events {
		if ev.RunID != runID {
			continue
		}
		switch ev.Type {
		case state.EventBackupAdded:
			log.Info("%s entered at #%d", ev.Target, ev.NewRank)
		case state.EventBackupDropped:
			log.Info("%s dropped from #%d", ev.Target, ev.OldRank)
		case state.EventBackupMoved:
			log.Info("%s moved #%d -> #%d", ev.Target, ev.OldRank, ev.NewRank)
		}
	}

	if w.quiet {
		return
	}
	fmt.Fprintf(w.out, "# %s\n", report.FormatTime(start))
	if err := report.WriteBackups(w.out, scores); err != nil {
		log.Error("Write report: %v", err)
	}
}
