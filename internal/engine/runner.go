/*
PURPOSE:
  High-level runner that orchestrates the sweep.
  Loops through Run Specifications in order and executes them.

REQUIREMENTS:
  User-specified:
  - Run every seed in the sweep, sequentially.
  - A failed run never stops the sweep unless fail-fast is on.
  - Log results to CSV/JSON and print a summary keyed by seed.

  Implementation-discovered:
  - Cancellation must mark remaining seeds as skipped, not drop them,
    so the summary always has one entry per configured seed.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine, internal/output, internal/store

ERROR HANDLING:
  - Records errors but continues (resilience).
  - Returns an error only when the sweep itself was interrupted.

IMPLEMENTATION RULES:
  - Strictly one trainer process at a time. No parallelism.
  - Every configured seed produces exactly one summary entry.

USAGE:
  results, err := engine.Run(ctx, cfg)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/launcher.go

MAINTENANCE:
  - Update iteration logic if parallelism is ever introduced.
*/

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ec-llm/sweep-runner/internal/config"
	"github.com/ec-llm/sweep-runner/internal/model"
	"github.com/ec-llm/sweep-runner/internal/output"
	"github.com/ec-llm/sweep-runner/internal/store"
)

// Run executes the full sweep. It returns one Result per configured seed,
// in seed order, and a non-nil error only when the sweep was interrupted.
func Run(ctx context.Context, cfg *config.Config) ([]model.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := New(cfg)
	sweepName := fmt.Sprintf("sweep_%s_%d", cfg.Dataset(), time.Now().Unix())

	// Ensure output directory exists
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	// Setup Outputs
	csvPath := filepath.Join(cfg.OutputDir, cfg.OutputFile)
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	jsonPath := filepath.Join(cfg.OutputDir, "sweep_results.jsonl")
	jsonWriter, err := output.NewJSONWriter(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
	}
	defer jsonWriter.Close()

	// History store is optional; a broken DB should not block training.
	var hist *store.Store
	var sweepID int64
	if cfg.HistoryDB != "" {
		hist, err = store.Open(filepath.Join(cfg.OutputDir, cfg.HistoryDB))
		if err != nil {
			output.Logger.Warn("History store unavailable", "error", err)
			hist = nil
		} else {
			defer hist.Close()
			sweepID, err = hist.BeginSweep(sweepName, cfg.Trainer, cfg.FixedParams, cfg.Seeds)
			if err != nil {
				output.Logger.Warn("Failed to record sweep start", "error", err)
				hist = nil
			}
		}
	}

	specs := cfg.Specs()
	output.Logger.Info("Starting sweep",
		"name", sweepName,
		"trainer", cfg.Trainer,
		"seeds", cfg.Seeds,
		"fail_fast", cfg.FailFast,
	)

	results := make([]model.Result, 0, len(specs))
	var halted string // "" while the sweep is still executing runs

	for i, spec := range specs {
		if halted == "" && ctx.Err() != nil {
			halted = "interrupted"
		}

		var res model.Result
		if halted != "" {
			res = model.Result{
				Sweep:     sweepName,
				Seed:      spec.Seed,
				Args:      spec.Args(),
				Status:    model.StatusSkipped,
				ExitCode:  -1,
				Timestamp: time.Now(),
				Error:     "skipped: " + halted,
			}
			output.Logger.Info("Skipping run", "seed", spec.Seed, "reason", halted)
		} else {
			output.Logger.Info("Starting run",
				"seed", spec.Seed,
				"run", fmt.Sprintf("%d/%d", i+1, len(specs)),
			)
			res = l.Launch(ctx, sweepName, spec)
			switch res.Status {
			case model.StatusSuccess:
				output.Logger.Info("Run complete", "seed", spec.Seed, "duration", res.Duration)
			case model.StatusInterrupted:
				output.Logger.Warn("Run interrupted", "seed", spec.Seed)
				halted = "interrupted"
			default:
				output.Logger.Error("Run failed",
					"seed", spec.Seed,
					"status", res.Status,
					"exit_code", res.ExitCode,
					"error", res.Error,
				)
				if cfg.FailFast {
					halted = "fail-fast"
				}
			}
		}

		results = append(results, res)

		// Write Result
		if err := csvWriter.Write(res); err != nil {
			output.Logger.Error("Failed to write result to CSV", "error", err)
		}
		if err := jsonWriter.Write(res); err != nil {
			output.Logger.Error("Failed to write result to JSON", "error", err)
		}
		if hist != nil {
			if err := hist.RecordRun(sweepID, res); err != nil {
				output.Logger.Error("Failed to record run in history", "error", err)
			}
		}

		if halted == "" && cfg.Cooldown > 0 && i < len(specs)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.Cooldown):
			}
		}
	}

	if hist != nil {
		if err := hist.FinishSweep(sweepID, sweepStatus(results, halted)); err != nil {
			output.Logger.Error("Failed to record sweep end", "error", err)
		}
	}

	printSummary(sweepName, results)

	if halted == "interrupted" {
		return results, fmt.Errorf("sweep interrupted")
	}
	return results, nil
}

func sweepStatus(results []model.Result, halted string) string {
	if halted == "interrupted" {
		return "interrupted"
	}
	for _, r := range results {
		if !r.OK() {
			return "failed"
		}
	}
	return "finished"
}

// printSummary writes the end-of-sweep report to stdout, one line per seed.
func printSummary(sweep string, results []model.Result) {
	ok := 0
	for _, r := range results {
		if r.OK() {
			ok++
		}
	}

	fmt.Printf("\nSweep %s: %d/%d runs succeeded\n", sweep, ok, len(results))
	for _, r := range results {
		switch r.Status {
		case model.StatusSuccess:
			fmt.Printf("  seed %-6d %-12s duration=%s\n", r.Seed, r.Status, r.Duration.Round(time.Second))
		case model.StatusFailed:
			fmt.Printf("  seed %-6d %-12s exit_code=%d\n", r.Seed, r.Status, r.ExitCode)
		default:
			fmt.Printf("  seed %-6d %-12s %s\n", r.Seed, r.Status, r.Error)
		}
	}
}
