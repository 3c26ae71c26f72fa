package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/report"
	"github.com/pscicluna/obsplan/internal/state"
	"github.com/pscicluna/obsplan/internal/ui"
)

var (
	tuiTargets string
	tuiAll     bool
	tuiMaxMag  float64
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live backup board in the terminal",
	RunE:  runTUI,
}

func init() {
	f := tuiCmd.Flags()
	f.StringVar(&tuiTargets, "targets", "", "CSV catalog (default: builtin bright stars)")
	f.BoolVar(&tuiAll, "all", false, "rank every CSV row, not only non-primary groups")
	f.Float64Var(&tuiMaxMag, "max-mag", 2.5, "faintest builtin star to consider")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("tui needs an interactive terminal; use 'obsplan watch' instead")
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	opts, err := e.cfg.BackupOptions()
	if err != nil {
		return err
	}
	targets, err := loadBackups(tuiTargets, tuiAll, tuiMaxMag)
	if err != nil {
		return err
	}

	// Log lines would corrupt the alternate screen.
	e.log.SetOutput(io.Discard)
	ranker := e.newRanker()

	rank := func(mode backup.TwilightMode) (*state.Ranking, error) {
		o := opts
		o.Twilight = mode
		start := time.Now().UTC()
		scores, err := ranker.Rank(targets, start, o)
		if err != nil {
			return nil, err
		}
		return &state.Ranking{RunID: report.NewRunID(), Start: start, Options: o, Scores: scores}, nil
	}

	stateMgr := newStateManager(e.cfg.Watch)

	p := tea.NewProgram(ui.New(stateMgr, rank, e.site.Name, opts.Twilight), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
