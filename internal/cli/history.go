/*
PURPOSE:
  Defines the 'history' subcommand.
  Lists past sweeps and per-seed outcomes from the history database.

REQUIREMENTS:
  User-specified:
  - "Which seeds failed in last night's sweep?" must be answerable after
    the terminal is gone.

ARCHITECTURE INTEGRATION:
  - Uses: internal/config, internal/store

ERROR HANDLING:
  - Missing history DB is reported, not fatal to the binary.

IMPLEMENTATION RULES:
  - Plain stdout tables; this is a read path, keep it boring.

USAGE:
  sweep-runner history
  sweep-runner history --runs 3

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/store/store.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ec-llm/sweep-runner/internal/config"
	"github.com/ec-llm/sweep-runner/internal/store"
)

var (
	historyLimit int
	historySweep int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sweeps and their per-seed outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.HistoryDB == "" {
			return fmt.Errorf("history is disabled (history_db is empty)")
		}

		s, err := store.Open(filepath.Join(cfg.OutputDir, cfg.HistoryDB))
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer s.Close()

		if historySweep > 0 {
			runs, err := s.ListRuns(historySweep)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Printf("no runs recorded for sweep %d\n", historySweep)
				return nil
			}
			for _, r := range runs {
				d := time.Duration(r.DurationMS) * time.Millisecond
				fmt.Printf("seed %-6d %-12s exit_code=%-4d attempts=%d duration=%s", r.Seed, r.Status, r.ExitCode, r.Attempts, d.Round(time.Second))
				if r.Error != "" {
					fmt.Printf("  (%s)", r.Error)
				}
				fmt.Println()
			}
			return nil
		}

		sweeps, err := s.ListSweeps(historyLimit)
		if err != nil {
			return err
		}
		if len(sweeps) == 0 {
			fmt.Println("no sweeps recorded yet")
			return nil
		}
		for _, sw := range sweeps {
			fmt.Printf("%-4d %-30s %-12s seeds=%s started=%s\n", sw.ID, sw.Name, sw.Status, sw.Seeds, sw.StartedAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of sweeps to list")
	historyCmd.Flags().Int64Var(&historySweep, "runs", 0, "Show the individual runs of the given sweep id")
}
