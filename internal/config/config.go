/*
PURPOSE:
  Defines the configuration structure and loading logic for Sweep Runner.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the trainer command, seeds, and fixed parameters.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Fixed parameters must keep their declaration order (argv order matters).

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing config file falls back to defaults (not an error).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should reproduce the reference sweep (seeds 42/45/47, multiwiki).

USAGE:
  cfg, err := config.Load("sweep.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update Load() defaults.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ec-llm/sweep-runner/internal/model"
)

// Config represents the full configuration for Sweep Runner.
type Config struct {
	// Trainer is the command that launches the external trainer,
	// e.g. [python3, main.py]. Run specs append their flags to it.
	Trainer []string `yaml:"trainer"`
	// WorkDir is the working directory for trainer processes ("" = inherit).
	WorkDir string `yaml:"work_dir"`
	// Seeds are executed in order; everything else is held fixed.
	Seeds []int `yaml:"seeds"`
	// FixedParams are passed to every run, in declaration order.
	FixedParams []model.Param `yaml:"fixed_params"`

	OutputDir  string `yaml:"output_dir"`
	OutputFile string `yaml:"output_file"`
	// LogDir, when set, tees each trainer's stdout/stderr into
	// <log_dir>/<sweep>/<seed>.log in addition to the console.
	LogDir string `yaml:"log_dir"`
	// HistoryDB is the sqlite file recording past sweeps ("" disables it).
	HistoryDB string `yaml:"history_db"`

	// FailFast stops the sweep after the first non-success run.
	FailFast bool `yaml:"fail_fast"`
	// MaxRetries is the number of *additional* attempts for a failed run.
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	// Cooldown is an optional pause between runs (GPU cool-off).
	Cooldown time.Duration `yaml:"cooldown"`
}

// DefaultConfig returns the default configuration: the reference federated
// LoRA fine-tuning sweep over seeds 42, 45, 47.
func DefaultConfig() *Config {
	return &Config{
		Trainer: []string{"python3", "main.py"},
		Seeds:   []int{42, 45, 47},
		FixedParams: []model.Param{
			{Flag: "config_format", Value: "lora"},
			{Flag: "use_pretrained", Value: "gpt2"},
			{Flag: "no_compile"},
			{Flag: "lora_rank", Value: "8"},
			{Flag: "eval_freq", Value: "10"},
			{Flag: "pretraining_rounds", Value: "0"},
			{Flag: "iterations", Value: "200"},
			{Flag: "lora_mlp"},
			{Flag: "lora_causal_self_attention"},
			{Flag: "lora_freeze_all_non_lora"},
			{Flag: "trust", Value: "dynamic-ref"},
			{Flag: "dataset", Value: "multiwiki"},
			{Flag: "num_clients", Value: "4"},
			{Flag: "wandb"},
			{Flag: "wandb_project", Value: "multiwiki-nicolas"},
		},
		OutputDir:  ".",
		OutputFile: "sweep_results.csv",
		HistoryDB:  "sweep_history.db",
		FailFast:   false,
		MaxRetries: 0,
		RetryDelay: 2 * time.Second,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		// Search for defaults
		defaults := []string{"sweep.yaml", "sweep_runner.yaml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name // record which file we loaded
				found = true
				break
			}
		}
		if !found {
			// No config file found, return default
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the parts of the config that would otherwise fail
// halfway through a multi-hour sweep.
func (c *Config) Validate() error {
	if len(c.Trainer) == 0 {
		return fmt.Errorf("trainer command is empty")
	}
	if len(c.Seeds) == 0 {
		return fmt.Errorf("no seeds configured")
	}
	seen := make(map[int]bool, len(c.Seeds))
	for _, s := range c.Seeds {
		if seen[s] {
			return fmt.Errorf("duplicate seed %d", s)
		}
		seen[s] = true
	}
	for _, p := range c.FixedParams {
		if p.Flag == "" {
			return fmt.Errorf("fixed parameter with empty flag name")
		}
		if p.Flag == "seed" {
			return fmt.Errorf("seed must not appear in fixed_params; use seeds")
		}
	}
	return nil
}

// Specs expands the config into one RunSpec per seed. All specs share the
// same FixedParams slice; RunSpec never mutates it.
func (c *Config) Specs() []model.RunSpec {
	specs := make([]model.RunSpec, 0, len(c.Seeds))
	for _, seed := range c.Seeds {
		specs = append(specs, model.RunSpec{Seed: seed, Fixed: c.FixedParams})
	}
	return specs
}

// Dataset returns the value of the fixed "dataset" parameter, used for
// naming sweeps. Falls back to "run" when the flag is absent.
func (c *Config) Dataset() string {
	for _, p := range c.FixedParams {
		if p.Flag == "dataset" && p.Value != "" {
			return p.Value
		}
	}
	return "run"
}
