/*
PURPOSE:
  Defines the core data structures used throughout Sweep Runner.
  These models represent run specifications and their outcomes.

REQUIREMENTS:
  User-specified:
  - One Run Specification per seed; fixed parameters identical across the sweep.
  - Record status, exit code, duration per run.

  Implementation-discovered:
  - Need JSON tags for the JSONL result stream.
  - Argument construction must be deterministic (same spec -> same argv).

ARCHITECTURE INTEGRATION:
  - Used by: internal/config, internal/engine, internal/output, internal/store
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Use time.Time and time.Duration for high precision.
  - Param order is significant; never sort.

USAGE:
  spec := model.RunSpec{Seed: 42, Fixed: params}
  argv := spec.Args()

SELF-HEALING INSTRUCTIONS:
  - If new outcome fields are needed, add field and update CSV/JSON writers.

RELATED FILES:
  - internal/output/csv.go
  - internal/output/json.go

MAINTENANCE:
  - Update when the trainer grows flags we want to surface individually.
*/

package model

import (
	"strconv"
	"time"
)

// Param is a single (flag, value) pair passed to the external trainer.
// A Param with an empty Value is emitted as a bare flag (e.g. --no_compile).
// Flag is stored without the leading dashes.
type Param struct {
	Flag  string `yaml:"flag" json:"flag"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// RunSpec is the full command-line configuration for one invocation of the
// external trainer. Fixed is shared by every spec in a sweep; only Seed varies.
// A RunSpec is built immediately before its invocation and never mutated.
type RunSpec struct {
	Seed  int     `json:"seed"`
	Fixed []Param `json:"fixed"`
}

// Args builds the trainer argument list: every fixed parameter in declaration
// order, then --seed. Calling Args twice yields identical slices.
func (s RunSpec) Args() []string {
	// 2 slots per param worst case, plus --seed N
	args := make([]string, 0, 2*len(s.Fixed)+2)
	for _, p := range s.Fixed {
		args = append(args, "--"+p.Flag)
		if p.Value != "" {
			args = append(args, p.Value)
		}
	}
	args = append(args, "--seed", strconv.Itoa(s.Seed))
	return args
}

// Name returns the per-run identifier used in logs and file names.
// Mirrors the trainer's own experiment naming (seed=N suffix).
func (s RunSpec) Name() string {
	return "seed=" + strconv.Itoa(s.Seed)
}

// Status classifies the outcome of one run.
type Status string

const (
	StatusSuccess     Status = "success"      // trainer exited 0
	StatusFailed      Status = "failed"       // trainer exited non-zero
	StatusLaunchError Status = "launch-error" // trainer could not be started
	StatusSkipped     Status = "skipped"      // never attempted (fail-fast or cancellation)
	StatusInterrupted Status = "interrupted"  // killed while running
)

// Result represents the outcome of a single trainer run.
type Result struct {
	Sweep     string        `json:"sweep"`
	Seed      int           `json:"seed"`
	Args      []string      `json:"args"`
	Status    Status        `json:"status"`
	ExitCode  int           `json:"exit_code"`
	Attempts  int           `json:"attempts"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	LogPath   string        `json:"log_path,omitempty"`
	Error     string        `json:"error,omitempty"` // If the run failed
}

// OK reports whether the run completed successfully.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}
