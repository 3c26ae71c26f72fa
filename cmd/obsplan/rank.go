package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/report"
)

var (
	rankTargets  string
	rankAll      bool
	rankMaxMag   float64
	rankStart    string
	rankOut      string
	rankJSON     bool
	rankTable    bool
	rankTwilight string
	rankNBest    int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank backup targets for the window starting at --start",
	RunE:  runRank,
}

func init() {
	f := rankCmd.Flags()
	f.StringVar(&rankTargets, "targets", "", "CSV catalog (default: builtin bright stars)")
	f.BoolVar(&rankAll, "all", false, "rank every CSV row, not only non-primary groups")
	f.Float64Var(&rankMaxMag, "max-mag", 2.5, "faintest builtin star to consider")
	f.StringVar(&rankStart, "start", "", "window start (default: now)")
	f.StringVarP(&rankOut, "out", "o", "", "write the report to a file instead of stdout")
	f.BoolVar(&rankJSON, "json", false, "emit JSON instead of text")
	f.BoolVar(&rankTable, "table", false, "render a coloured table (default when stdout is a terminal)")
	f.StringVar(&rankTwilight, "twilight", "", "override backup.twilight (none, civil, nautical)")
	f.IntVar(&rankNBest, "n-best", 0, "override backup.n_best")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	opts, err := e.cfg.BackupOptions()
	if err != nil {
		return err
	}
	if rankTwilight != "" {
		if opts.Twilight, err = backup.ParseTwilightMode(rankTwilight); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("n-best") {
		opts.NBest = rankNBest
	}

	start, err := parseTime(rankStart, e.loc, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	targets, err := loadBackups(rankTargets, rankAll, rankMaxMag)
	if err != nil {
		return err
	}

	runID := report.NewRunID()
	e.log.With("run_id", runID).Info("Ranking %d candidates from %s", len(targets), report.FormatTime(start))

	scores, err := e.newRanker().Rank(targets, start, opts)
	if err != nil {
		return err
	}

	write := func(w io.Writer) error {
		switch {
		case rankJSON:
			return report.WriteJSON(w, report.ExportBackups(runID, e.site, start, opts, scores))
		case rankTable || (rankOut == "" && isTerminal(w)):
			_, err := io.WriteString(w, report.RenderTable(scores, isTerminal(w)))
			return err
		default:
			return report.WriteBackups(w, scores)
		}
	}
	if rankOut != "" {
		err = writeFile(rankOut, write)
	} else {
		err = write(cmd.OutOrStdout())
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
