package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/catalog"
	"github.com/pscicluna/obsplan/internal/night"
	"github.com/pscicluna/obsplan/internal/report"
)

// Output file names in --outdir.
const (
	scheduleFile    = "schedule.txt"
	backupsFile     = "best_backups_next2h.txt"
	backupsJSONFile = "best_backups_next2h.json"
)

var (
	planTargets string
	planDate    string
	planStart   string
	planOutdir  string
	planJSON    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Schedule primary targets for a night and rank the backups",
	Long: `Reads a target CSV, schedules the "primary" group over the night nearest
--date and ranks every other group as backups for the window starting at
--start. Writes schedule.txt and best_backups_next2h.txt to --outdir.`,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planTargets, "targets", "", "CSV catalog with name, ra_deg, dec_deg columns")
	f.StringVar(&planDate, "date", "", "night date/time, e.g. '2026-02-15 12:00:00'")
	f.StringVar(&planStart, "start", "", "backup window start (default: now)")
	f.StringVar(&planOutdir, "outdir", "out", "output directory")
	f.BoolVar(&planJSON, "json", false, "also write the backup ranking as JSON")
	_ = planCmd.MarkFlagRequired("targets")
	_ = planCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	anchor, err := parseTime(planDate, e.loc, time.Time{})
	if err != nil {
		return fmt.Errorf("--date: %w", err)
	}
	start, err := parseTime(planStart, e.loc, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	nightOpts, err := e.cfg.NightOptions()
	if err != nil {
		return err
	}
	backupOpts, err := e.cfg.BackupOptions()
	if err != nil {
		return err
	}

	rows, err := catalog.ReadFile(planTargets)
	if err != nil {
		return err
	}
	primaries, backups := catalog.Split(rows)
	e.log.Info("Loaded %d targets: %d primary, %d backup", len(rows), len(primaries), len(backups))

	if err := os.MkdirAll(planOutdir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	plan, err := night.PlanNight(e.provider, anchor, night.BlocksFromRows(primaries), nightOpts)
	if err != nil {
		return fmt.Errorf("plan night: %w", err)
	}
	e.log.Info("Night %s → %s: %d scheduled, %d unscheduled",
		report.FormatTime(plan.Start), report.FormatTime(plan.End),
		len(plan.Schedule.Slots), len(plan.Schedule.Unscheduled))

	if err := os.WriteFile(filepath.Join(planOutdir, scheduleFile), []byte(plan.Schedule.String()), 0o644); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}

	runID := report.NewRunID()
	e.log.With("run_id", runID).Info("Ranking %d backups from %s", len(backups), report.FormatTime(start))
	scores, err := e.newRanker().Rank(catalog.Targets(backups), start, backupOpts)
	if err != nil {
		return err
	}

	if err := writeBackupsFile(filepath.Join(planOutdir, backupsFile), scores); err != nil {
		return err
	}
	if planJSON {
		export := report.ExportBackups(runID, e.site, start, backupOpts, scores)
		err := writeFile(filepath.Join(planOutdir, backupsJSONFile), func(w io.Writer) error {
			return report.WriteJSON(w, export)
		})
		if err != nil {
			return fmt.Errorf("write backup JSON: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s to %s\n", scheduleFile, backupsFile, planOutdir)
	return nil
}

func writeBackupsFile(path string, scores []backup.Score) error {
	err := writeFile(path, func(w io.Writer) error {
		return report.WriteBackups(w, scores)
	})
	if err != nil {
		return fmt.Errorf("write backups report: %w", err)
	}
	return nil
}

// writeFile creates path and fills it through write. A failed Close is
// reported like a failed write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
