package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"box-motion-planner/internal/geom"
	"box-motion-planner/internal/planner"
	"box-motion-planner/internal/problem"
	"box-motion-planner/internal/roadmap"
)

type roadmapOpts struct {
	goal   string // "x,y,theta"
	output string // roadmap JSON; empty writes to stdout
}

func newRoadmapCmd(g *globalOpts) *cobra.Command {
	var opts roadmapOpts

	cmd := &cobra.Command{
		Use:   "roadmap [problem]",
		Short: "Build a robot roadmap from the initial pose to a goal pose",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := parsePose(opts.goal)
			if err != nil {
				return err
			}
			return runRoadmap(cmd, g, args[0], goal, opts.output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.goal, "goal", "", "goal pose as x,y,theta")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func runRoadmap(cmd *cobra.Command, g *globalOpts, path string, goal geom.Pose, output string, stdout io.Writer) error {
	logger := loggerFromContext(cmd.Context())

	cfg, rng, err := g.load(cmd)
	if err != nil {
		return err
	}
	prob, err := problem.LoadFile(path)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	graph, err := planner.New(cfg, rng, logger).Roadmap(prob, goal)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built roadmap with %d vertices and %d edges", graph.NumVertices(), graph.NumEdges()))

	if output == "" {
		return roadmap.Save(stdout, graph)
	}
	return roadmap.SaveFile(output, graph, logger)
}

// parsePose parses "x,y,theta".
func parsePose(s string) (geom.Pose, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Pose{}, fmt.Errorf("invalid pose %q: want x,y,theta", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Pose{}, fmt.Errorf("invalid pose %q: %w", s, err)
		}
		v[i] = f
	}
	return geom.Pose{X: v[0], Y: v[1], Theta: v[2]}, nil
}
