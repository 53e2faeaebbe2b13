/*
PURPOSE:
  Core engine for invoking the external trainer.
  Handles process launching, retries, cancellation, and log capture.

REQUIREMENTS:
  User-specified:
  - Launch one trainer process per Run Specification.
  - Classify launch failures separately from run failures.

  Implementation-discovered:
  - Needs exec.CommandContext so cancellation kills the child.
  - Trainer output should stay visible (training progress is the user's
    only feedback for hours at a time), optionally teed to a log file.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli
  - Uses: internal/config, internal/model, internal/output

ERROR HANDLING:
  - Launch errors (binary missing) are terminal for the run: no retry.
  - Run failures (non-zero exit) retry up to MaxRetries with RetryDelay.
  - Context cancellation is reported as interrupted, never retried.

IMPLEMENTATION RULES:
  - Use os/exec.
  - Resolve the trainer binary up front (LookPath) so a bad path is a
    launch error, not N retry cycles.
  - Exit codes are recorded verbatim; the launcher does not interpret them
    beyond zero/non-zero.

USAGE:
  l := engine.New(cfg)
  res := l.Launch(ctx, sweepName, spec)

SELF-HEALING INSTRUCTIONS:
  - If runs hang forever, the trainer ignores SIGKILL semantics of
    CommandContext; check the trainer's own signal handling.

RELATED FILES:
  - internal/config/config.go
  - internal/model/types.go

MAINTENANCE:
  - Update if per-run timeouts are ever needed.
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ec-llm/sweep-runner/internal/config"
	"github.com/ec-llm/sweep-runner/internal/model"
	"github.com/ec-llm/sweep-runner/internal/output"
)

// Launcher spawns trainer processes.
type Launcher struct {
	Config *config.Config
}

// New creates a new Launcher.
func New(cfg *config.Config) *Launcher {
	return &Launcher{Config: cfg}
}

// Launch runs the trainer once for spec, retrying failed runs per config.
// It always returns a populated Result; the Result's Status and Error carry
// the failure taxonomy (launch-error / failed / interrupted).
func (l *Launcher) Launch(ctx context.Context, sweep string, spec model.RunSpec) model.Result {
	start := time.Now()
	res := model.Result{
		Sweep:     sweep,
		Seed:      spec.Seed,
		Args:      spec.Args(),
		Timestamp: start,
	}

	// Resolve the trainer binary once. A missing or non-executable trainer
	// is a launch failure for this run, not something retries can fix.
	bin, err := exec.LookPath(l.Config.Trainer[0])
	if err != nil {
		res.Status = model.StatusLaunchError
		res.ExitCode = -1
		res.Error = fmt.Sprintf("trainer not runnable: %v", err)
		res.Duration = time.Since(start)
		return res
	}

	args := make([]string, 0, len(l.Config.Trainer)-1+len(res.Args))
	args = append(args, l.Config.Trainer[1:]...)
	args = append(args, res.Args...)

	logFile, logPath, err := l.openLogFile(sweep, spec)
	if err != nil {
		// Log capture is best-effort; the run itself still proceeds.
		output.Logger.Warn("Failed to open run log file", "seed", spec.Seed, "error", err)
	}
	if logFile != nil {
		defer logFile.Close()
		res.LogPath = logPath
	}

	// Retry loop
	var lastErr error
	for attempt := 0; attempt <= l.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				res.Status = model.StatusInterrupted
				res.ExitCode = -1
				res.Error = ctx.Err().Error()
				res.Attempts = attempt
				res.Duration = time.Since(start)
				return res
			case <-time.After(l.Config.RetryDelay):
			}
			output.Logger.Info("Retrying run", "seed", spec.Seed, "attempt", attempt+1)
		}
		res.Attempts = attempt + 1

		cmd := exec.CommandContext(ctx, bin, args...)
		cmd.Dir = l.Config.WorkDir
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if logFile != nil {
			cmd.Stdout = io.MultiWriter(os.Stdout, logFile)
			cmd.Stderr = io.MultiWriter(os.Stderr, logFile)
		}

		err := cmd.Run()
		if err == nil {
			res.Status = model.StatusSuccess
			res.ExitCode = 0
			res.Duration = time.Since(start)
			return res
		}

		// The child died because we were cancelled, not because it failed.
		if ctx.Err() != nil {
			res.Status = model.StatusInterrupted
			res.ExitCode = -1
			res.Error = ctx.Err().Error()
			res.Duration = time.Since(start)
			return res
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			lastErr = fmt.Errorf("trainer exited with code %d", res.ExitCode)
			output.Logger.Error("Run failed", "seed", spec.Seed, "exit_code", res.ExitCode, "attempt", attempt+1)
			continue
		}

		// Start failed for some other reason (e.g. work_dir missing).
		res.Status = model.StatusLaunchError
		res.ExitCode = -1
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}

	res.Status = model.StatusFailed
	res.Error = lastErr.Error()
	res.Duration = time.Since(start)
	return res
}

// openLogFile creates <log_dir>/<sweep>/<seed>.log when log capture is on.
func (l *Launcher) openLogFile(sweep string, spec model.RunSpec) (*os.File, string, error) {
	if l.Config.LogDir == "" {
		return nil, "", nil
	}
	dir := filepath.Join(l.Config.LogDir, sweep)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, strconv.Itoa(spec.Seed)+".log")
	f, err := os.Create(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}
