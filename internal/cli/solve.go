package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"box-motion-planner/internal/planner"
	"box-motion-planner/internal/problem"
)

type solveOpts struct {
	output string // solution file; empty writes to stdout
}

func newSolveCmd(g *globalOpts) *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "Move every box of a problem to its goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, g, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runSolve(cmd *cobra.Command, g *globalOpts, path string, opts solveOpts, stdout io.Writer) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, rng, err := g.load(cmd)
	if err != nil {
		return err
	}
	prob, err := problem.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Info("problem loaded",
		"file", path,
		"boxes", len(prob.Goals),
		"moving", len(prob.Initial.MovingObstacles),
		"static", len(prob.Static))

	prog := newProgress(logger)
	states, err := planner.New(cfg, rng, logger).Solve(ctx, prob)
	if err != nil {
		return solveError(ctx, err)
	}
	prog.done(fmt.Sprintf("Solved %d boxes in %d states", len(prob.Goals), len(states)))

	if opts.output == "" {
		return problem.WriteSolution(stdout, states)
	}
	return problem.WriteSolutionFile(opts.output, states, logger)
}

func solveError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("no solution: %w", err)
}
