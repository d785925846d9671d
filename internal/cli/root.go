// Package cli implements the boxplanner command-line interface.
//
// Commands:
//   - solve: plan a full solution for a problem file
//   - roadmap: build and save a single robot roadmap for inspection
//
// All commands accept --verbose (-v) for debug logging, --config for a TOML
// planner configuration and --seed to fix the random source. Loggers travel
// through the command context.
package cli

import (
	"context"
	"math/rand"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"box-motion-planner/internal/config"
)

// globalOpts holds the persistent flags shared by every command.
type globalOpts struct {
	verbose    bool
	configPath string
	seed       int64
}

// Execute runs the boxplanner CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:          "boxplanner",
		Short:        "Plan a robot pushing boxes through a cluttered unit square",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "planner configuration (TOML)")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed, overrides the configuration (0 = time based)")

	root.AddCommand(newSolveCmd(opts))
	root.AddCommand(newRoadmapCmd(opts))
	return root
}

// load resolves the configuration and random source for one command.
func (o *globalOpts) load(cmd *cobra.Command) (config.Config, *rand.Rand, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = o.seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	loggerFromContext(cmd.Context()).Debug("configuration loaded", "seed", cfg.Seed, "strategy", cfg.Search.Strategy)
	return cfg, rand.New(rand.NewSource(cfg.Seed)), nil
}
