/*
PURPOSE:
  Defines the 'plan' subcommand.
  Prints the exact invocations a sweep would issue, without executing.

REQUIREMENTS:
  User-specified:
  - Inspect the sweep before burning GPU-hours on it.

  Implementation-discovered:
  - Useful validation step before full run.

ARCHITECTURE INTEGRATION:
  - Uses: internal/config, internal/model

ERROR HANDLING:
  - Returns config validation errors.

IMPLEMENTATION RULES:
  - Simple output to stdout, one command line per seed.

USAGE:
  sweep-runner plan --seeds 42,45,47

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/cli/run.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ec-llm/sweep-runner/internal/config"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the planned trainer invocations without executing them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Same overrides as run, so plan shows exactly what run would do.
		if len(seedsOverride) > 0 {
			cfg.Seeds = seedsOverride
		}
		if len(trainerOverride) > 0 {
			cfg.Trainer = trainerOverride
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		for _, spec := range cfg.Specs() {
			argv := append(append([]string{}, cfg.Trainer...), spec.Args()...)
			fmt.Println(strings.Join(argv, " "))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().IntSliceVar(&seedsOverride, "seeds", nil, "Comma-separated list of seeds to sweep")
	planCmd.Flags().StringSliceVar(&trainerOverride, "trainer", nil, "Trainer command (comma-separated)")
}
