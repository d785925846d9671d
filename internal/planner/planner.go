// Package planner solves a whole problem: it moves each box to its goal in
// turn, walking the robot to the right side of the box with a roadmap before
// every straight push.
package planner

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"box-motion-planner/internal/config"
	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/geom"
	"box-motion-planner/internal/problem"
	"box-motion-planner/internal/refine"
	"box-motion-planner/internal/roadmap"
	"box-motion-planner/internal/rrt"
	"box-motion-planner/internal/search"
	"box-motion-planner/internal/workspace"
)

// Planner runs the full pipeline with one configuration and random source.
// It is not safe for concurrent use.
type Planner struct {
	cfg     config.Config
	sampler *geom.Sampler
	logger  *log.Logger
}

// New returns a planner drawing samples from rng.
func New(cfg config.Config, rng *rand.Rand, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{
		cfg:     cfg,
		sampler: geom.NewSampler(rng, cfg.PRM.ThetaMax),
		logger:  logger,
	}
}

// session is the state of one Solve call.
type session struct {
	*Planner
	logger *log.Logger
	scene  *workspace.Scene
	state  workspace.State
	states []workspace.State
}

func (r *session) emit(s workspace.State) {
	r.state = s
	r.states = append(r.states, s)
}

// Solve returns the sequence of states that takes every box of prob to its
// goal, starting with the initial state. Moving obstacles stay where they
// are. Partial progress is discarded on failure.
func (p *Planner) Solve(ctx context.Context, prob *problem.Problem) ([]workspace.State, error) {
	r := &session{
		Planner: p,
		logger:  p.logger.With("run", uuid.New().String()),
		scene:   prob.Scene(),
	}
	if err := r.scene.Validate(prob.Initial); err != nil {
		return nil, err
	}

	start := time.Now()
	r.emit(prob.Initial)
	for i, goal := range prob.Goals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.moveBox(i, goal); err != nil {
			return nil, err
		}
	}
	r.logger.Info("solved",
		"boxes", len(prob.Goals),
		"states", len(r.states),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return r.states, nil
}

// moveBox plans box i to goal and executes the plan one straight run at a
// time.
func (r *session) moveBox(i int, goal geom.Point) error {
	logger := r.logger.With("box", i+1)

	path, err := r.planBox(i, goal, logger)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "box %d", i+1)
	}
	runs := SplitRuns(path)
	logger.Debug("box path", "length", len(path), "runs", len(runs))

	for _, seg := range runs {
		pose := PushingPose(seg.Points[0], r.scene.BoxWidth, seg.Dir)
		if err := r.moveRobot(pose, logger); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "box %d: moving robot to push %s", i+1, seg.Dir)
		}
		r.push(i, seg)
	}
	return nil
}

// planBox searches a window around the box first and falls back to the whole
// workspace.
func (r *session) planBox(i int, goal geom.Point, logger *log.Logger) ([]geom.Point, error) {
	opts := rrt.Options{
		Step:          r.cfg.RRT.Step,
		MaxNodes:      r.cfg.RRT.MaxNodes,
		MaxIterations: r.cfg.RRT.MaxIterations,
	}
	obstacles := r.scene.BoxObstacles(r.state, i)
	from := r.state.Boxes[i]

	if r.cfg.RRT.Margin > 0 {
		window := opts
		window.Bounds = SearchWindow(from, goal, r.scene.BoxWidth, r.cfg.RRT.Margin)
		// A window holds few lattice points; stop once the trees have had a
		// fair chance to fill it.
		step := opts.Step
		if step <= 0 {
			step = rrt.DefaultStep
		}
		cells := (window.Bounds.Width()/step + 1) * (window.Bounds.Height()/step + 1)
		if limit := int(4 * cells); window.MaxIterations == 0 || window.MaxIterations > limit {
			window.MaxIterations = limit
		}
		path, err := rrt.NewPlanner(window, r.sampler, obstacles, r.scene.BoxWidth, logger).Plan(from, goal)
		if err == nil || !errors.Is(err, errors.ErrCodeNoPath) {
			return path, err
		}
		logger.Debug("no box path in window, widening", "window", window.Bounds)
	}
	return rrt.NewPlanner(opts, r.sampler, obstacles, r.scene.BoxWidth, logger).Plan(from, goal)
}

// moveRobot walks the robot to pose through a fresh roadmap. Roadmaps that
// are too sparse are rebuilt with twice the samples, up to cfg.PRM.Retries
// times.
func (r *session) moveRobot(pose geom.Pose, logger *log.Logger) error {
	if r.state.Robot == pose {
		return nil
	}

	strategy, err := search.New[geom.Pose](r.cfg.Search.Strategy)
	if err != nil {
		return err
	}

	samples := r.cfg.PRM.Samples
	for attempt := 0; ; attempt++ {
		g, err := r.buildRoadmap(pose, samples, logger)
		var path []geom.Pose
		if err == nil {
			path, err = strategy.Search(g)
		}
		if err == nil {
			for _, c := range refine.Path(path, r.cfg.Output.Step)[1:] {
				r.emit(r.state.WithRobot(c))
			}
			return nil
		}
		retryable := errors.Is(err, errors.ErrCodeNoPath) || errors.Is(err, errors.ErrCodeNoRoadmapCapacity)
		if !retryable || attempt >= r.cfg.PRM.Retries {
			return err
		}
		samples *= 2
		logger.Warn("robot path failed, retrying", "err", errors.UserMessage(err), "samples", samples)
	}
}

func (r *session) buildRoadmap(goal geom.Pose, samples int, logger *log.Logger) (*roadmap.Graph[geom.Pose], error) {
	return r.newRoadmap(r.scene, r.state, goal, samples, logger)
}

func (p *Planner) newRoadmap(scene *workspace.Scene, s workspace.State, goal geom.Pose, samples int, logger *log.Logger) (*roadmap.Graph[geom.Pose], error) {
	return roadmap.NewBuilder(
		roadmap.Options{
			Samples:     samples,
			Neighbors:   p.cfg.PRM.Neighbors,
			EdgeChecks:  p.cfg.PRM.EdgeChecks,
			MaxAttempts: p.cfg.PRM.MaxAttempts,
		},
		p.sampler.SamplePose,
		scene.RobotOracle(s),
		logger,
	).Build(s.Robot, goal)
}

// Roadmap builds a single roadmap from the initial robot pose of prob to
// goal.
func (p *Planner) Roadmap(prob *problem.Problem, goal geom.Pose) (*roadmap.Graph[geom.Pose], error) {
	return p.newRoadmap(prob.Scene(), prob.Initial, goal, p.cfg.PRM.Samples, p.logger)
}

// push moves box i along run with the robot in lock-step behind it.
func (r *session) push(i int, seg Run) {
	for _, pos := range refine.Path(seg.Points, r.cfg.Output.Step)[1:] {
		prev := r.state.Boxes[i]
		robot := r.state.Robot.Translate(pos.X-prev.X, pos.Y-prev.Y)
		r.emit(r.state.WithBox(i, pos).WithRobot(robot))
	}
}

// Run is a maximal straight stretch of a box path.
type Run struct {
	Dir    geom.Direction
	Points []geom.Point // includes the point the run starts from
}

// SplitRuns cuts a step path into straight runs.
func SplitRuns(path []geom.Point) []Run {
	var runs []Run
	for k := 1; k < len(path); k++ {
		d := geom.Toward(path[k-1], path[k])
		if len(runs) == 0 || runs[len(runs)-1].Dir != d {
			runs = append(runs, Run{Dir: d, Points: []geom.Point{path[k-1]}})
		}
		last := &runs[len(runs)-1]
		last.Points = append(last.Points, path[k])
	}
	return runs
}

// PushingPose is the robot pose flush against the side of the box at corner
// that pushes it along d: the robot spans the whole side.
func PushingPose(corner geom.Point, width float64, d geom.Direction) geom.Pose {
	half := width / 2
	switch d {
	case geom.Right:
		return geom.Pose{X: corner.X, Y: corner.Y + half, Theta: math.Pi / 2}
	case geom.Left:
		return geom.Pose{X: corner.X + width, Y: corner.Y + half, Theta: math.Pi / 2}
	case geom.Up:
		return geom.Pose{X: corner.X + half, Y: corner.Y, Theta: 0}
	case geom.Down:
		return geom.Pose{X: corner.X + half, Y: corner.Y + width, Theta: 0}
	}
	return geom.Pose{X: corner.X + half, Y: corner.Y + half}
}

// SearchWindow is the rectangle spanned by the start and goal footprints,
// grown by margin on every side and clipped to the workspace.
func SearchWindow(from, to geom.Point, width, margin float64) geom.Rect {
	return geom.FromBounds(
		math.Max(math.Min(from.X, to.X)-margin, 0),
		math.Max(math.Min(from.Y, to.Y)-margin, 0),
		math.Min(math.Max(from.X, to.X)+width+margin, 1),
		math.Min(math.Max(from.Y, to.Y)+width+margin, 1),
	)
}
