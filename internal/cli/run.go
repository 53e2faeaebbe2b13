/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full seed sweep.

REQUIREMENTS:
  User-specified:
  - Run the sweep.
  - Specific flags for overrides.
  - Ctrl-C must kill the in-flight trainer and still print the summary.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails or the sweep is interrupted.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Engine.Run.

USAGE:
  sweep-runner run --seeds 42,45,47

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ec-llm/sweep-runner/internal/config"
	"github.com/ec-llm/sweep-runner/internal/engine"
)

var (
	seedsOverride   []int
	trainerOverride []string
	outputOverride  string
	logDirOverride  string
	failFast        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the seed sweep",
	Long: `Executes the configured sweep: one trainer invocation per seed, strictly
sequential, with every other flag held fixed.

Each run's exit status is recorded; a failed run does not stop the sweep
unless --fail-fast is set. Results are streamed to CSV and JSON Lines as
runs finish, and the sweep is recorded in the history database.`,
	Example: `  # Run with defaults (uses sweep.yaml, seeds 42/45/47)
  sweep-runner run

  # Override the seed list
  sweep-runner run --seeds 1,2,3,4,5

  # Point at a different trainer checkout
  sweep-runner run --trainer python3,/data/ec-llm/main.py

  # Stop at the first failed seed
  sweep-runner run --fail-fast

  # Keep a per-seed copy of trainer output
  sweep-runner run --log-dir ./logs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2. Overrides
		if len(seedsOverride) > 0 {
			cfg.Seeds = seedsOverride
		}
		if len(trainerOverride) > 0 {
			cfg.Trainer = trainerOverride
		}
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}
		if logDirOverride != "" {
			cfg.LogDir = logDirOverride
		}
		if cmd.Flags().Changed("fail-fast") {
			cfg.FailFast = failFast
		}

		// 3. Execution
		// SIGINT/SIGTERM kills the in-flight trainer; remaining seeds are
		// reported as skipped rather than silently dropped.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = engine.Run(ctx, cfg)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntSliceVar(&seedsOverride, "seeds", nil, "Comma-separated list of seeds to sweep")
	runCmd.Flags().StringSliceVar(&trainerOverride, "trainer", nil, "Trainer command (comma-separated, e.g. python3,main.py)")
	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for results (CSV/JSONL/history)")
	runCmd.Flags().StringVar(&logDirOverride, "log-dir", "", "Directory for per-seed trainer logs")
	runCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop the sweep after the first failed run")
}
