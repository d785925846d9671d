// Package config holds the tunable planner parameters and reads them from a
// TOML file.
//
// Unset keys keep their defaults:
//
//	seed = 42
//
//	[prm]
//	samples = 400
//	neighbors = 8
//
//	[search]
//	strategy = "bfs"
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/geom"
)

// Config is the full planner configuration.
type Config struct {
	// Seed for the random source; 0 picks a time-based seed.
	Seed   int64  `toml:"seed"`
	PRM    PRM    `toml:"prm"`
	RRT    RRT    `toml:"rrt"`
	Search Search `toml:"search"`
	Output Output `toml:"output"`
}

// PRM configures roadmap construction for robot moves.
type PRM struct {
	Samples     int     `toml:"samples"`
	Neighbors   int     `toml:"neighbors"`
	EdgeChecks  int     `toml:"edge_checks"`
	MaxAttempts int     `toml:"max_attempts"` // 0 means 10 × samples
	Retries     int     `toml:"retries"`      // rebuilds with doubled samples after a failure
	ThetaMax    float64 `toml:"theta_max"`
}

// RRT configures box transport planning.
type RRT struct {
	Step          float64 `toml:"step"`
	MaxNodes      int     `toml:"max_nodes"`
	MaxIterations int     `toml:"max_iterations"` // 0 means 20 × max_nodes
	Margin        float64 `toml:"margin"`         // first search window around start and goal; 0 searches everywhere
}

// Search selects the roadmap search strategy.
type Search struct {
	Strategy string `toml:"strategy"`
}

// Output configures the written trajectory.
type Output struct {
	Step float64 `toml:"step"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PRM: PRM{
			Samples:    200,
			Neighbors:  5,
			EdgeChecks: 10,
			Retries:    3,
			ThetaMax:   math.Pi,
		},
		RRT: RRT{
			Step:     geom.Grain,
			MaxNodes: 1_000_000,
			Margin:   0.1,
		},
		Search: Search{Strategy: "astar"},
		Output: Output{Step: geom.Grain},
	}
}

// Load decodes filename over Default and validates the result.
func Load(filename string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse %s", filename)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every out-of-range field at once.
func (c Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.PRM.Samples > 0, "prm.samples must be positive, got %d", c.PRM.Samples)
	check(c.PRM.Neighbors > 0, "prm.neighbors must be positive, got %d", c.PRM.Neighbors)
	check(c.PRM.EdgeChecks > 0, "prm.edge_checks must be positive, got %d", c.PRM.EdgeChecks)
	check(c.PRM.MaxAttempts >= 0, "prm.max_attempts must not be negative, got %d", c.PRM.MaxAttempts)
	check(c.PRM.Retries >= 0, "prm.retries must not be negative, got %d", c.PRM.Retries)
	check(c.PRM.ThetaMax >= 0 && c.PRM.ThetaMax <= 2*math.Pi, "prm.theta_max must be in [0, 2π], got %v", c.PRM.ThetaMax)
	check(c.RRT.Step >= geom.Grain && geom.OnGrid(c.RRT.Step), "rrt.step must be a positive multiple of %v, got %v", geom.Grain, c.RRT.Step)
	check(c.RRT.MaxNodes > 0, "rrt.max_nodes must be positive, got %d", c.RRT.MaxNodes)
	check(c.RRT.MaxIterations >= 0, "rrt.max_iterations must not be negative, got %d", c.RRT.MaxIterations)
	check(c.RRT.Margin >= 0, "rrt.margin must not be negative, got %v", c.RRT.Margin)
	check(c.Search.Strategy == "astar" || c.Search.Strategy == "bfs", "search.strategy must be \"astar\" or \"bfs\", got %q", c.Search.Strategy)
	check(c.Output.Step > 0, "output.step must be positive, got %v", c.Output.Step)

	if errs != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, errs, "invalid configuration")
	}
	return nil
}
