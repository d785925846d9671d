// Package rrt plans box transport with a bidirectional rapidly-exploring
// random tree on the Grain lattice.
//
// Both trees live in one arena. Nodes refer to their parent by index, so
// backtracking is an iterative walk and the trees are released together by
// Reset.
package rrt

import (
	"time"

	"github.com/charmbracelet/log"

	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/geom"
)

const (
	// DefaultStep is the length of one tree edge.
	DefaultStep = geom.Grain
	// DefaultMaxNodes caps the combined size of both trees.
	DefaultMaxNodes = 1_000_000
)

// Obstacles answers whether a box footprint is unusable: it overlaps another
// box, a moving obstacle or a static obstacle, or leaves the workspace.
type Obstacles interface {
	Blocked(footprint geom.Rect) bool
}

// ObstaclesFunc adapts a plain function to Obstacles.
type ObstaclesFunc func(geom.Rect) bool

// Blocked calls f(footprint).
func (f ObstaclesFunc) Blocked(footprint geom.Rect) bool { return f(footprint) }

// Options bound a single Plan call.
type Options struct {
	Step          float64   // 0 means DefaultStep
	MaxNodes      int       // 0 means DefaultMaxNodes
	MaxIterations int       // 0 means 20 × MaxNodes
	Bounds        geom.Rect // random targets are drawn here; zero means geom.Unit
}

func (o Options) withDefaults() Options {
	if o.Step = geom.Quantize(o.Step); o.Step < geom.Grain {
		o.Step = DefaultStep
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 20 * o.MaxNodes
	}
	if o.Bounds == (geom.Rect{}) {
		o.Bounds = geom.Unit
	}
	return o
}

type tree int

const (
	startTree tree = iota
	goalTree
)

func (t tree) other() tree { return 1 - t }

type node struct {
	pos    geom.Point
	parent int // -1 for roots
	dir    geom.Direction
	tree   tree
}

// connectProbe is the order in which neighbours in the other tree are tried.
var connectProbe = [...]geom.Direction{geom.Right, geom.Left, geom.Up, geom.Down}

// Planner grows a start tree and a goal tree for one box until they meet.
// It is owned by one caller at a time; Plan resets any previous state.
type Planner struct {
	opts      Options
	sampler   *geom.Sampler
	obstacles Obstacles
	width     float64
	logger    *log.Logger

	nodes []node
	trees [2][]int
	index map[geom.Point]int
}

// NewPlanner returns a planner for a box of side width.
func NewPlanner(opts Options, sampler *geom.Sampler, obstacles Obstacles, width float64, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.Default()
	}
	p := &Planner{
		opts:      opts.withDefaults(),
		sampler:   sampler,
		obstacles: obstacles,
		width:     width,
		logger:    logger,
	}
	p.Reset()
	return p
}

// Reset discards both trees.
func (p *Planner) Reset() {
	p.nodes = p.nodes[:0]
	p.trees = [2][]int{}
	p.index = make(map[geom.Point]int)
}

// NumNodes is the combined size of both trees.
func (p *Planner) NumNodes() int {
	return len(p.nodes)
}

func (p *Planner) add(pos geom.Point, parent int, dir geom.Direction, t tree) int {
	i := len(p.nodes)
	p.nodes = append(p.nodes, node{pos: pos, parent: parent, dir: dir, tree: t})
	p.trees[t] = append(p.trees[t], i)
	p.index[pos] = i
	return i
}

// Plan returns box positions from start to goal, each one step from the
// previous along a single axis.
func (p *Planner) Plan(start, goal geom.Point) ([]geom.Point, error) {
	p.Reset()
	startTime := time.Now()

	if p.blocked(start) {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "box start %v is blocked", start)
	}
	if p.blocked(goal) {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "box goal %v is blocked", goal)
	}
	if !start.OnGrid() || !goal.OnGrid() {
		return nil, errors.New(errors.ErrCodeInvalidQuery,
			"box start %v and goal %v must lie on the %v grid", start, goal, geom.Grain)
	}
	if start == goal {
		return []geom.Point{start}, nil
	}

	p.add(start, -1, geom.None, startTree)
	root := p.add(goal, -1, geom.None, goalTree)
	if other, ok := p.adjacent(root); ok {
		return p.join(root, other), nil
	}

	active := startTree
	iterations := 0
	for ; len(p.nodes) < p.opts.MaxNodes && iterations < p.opts.MaxIterations; iterations++ {
		target := p.sampler.SamplePointIn(p.opts.Bounds)
		near := p.nearest(active, target)
		dir := geom.Toward(p.nodes[near].pos, target)

		if i, ok := p.extend(near, dir, active); ok {
			if other, ok := p.adjacent(i); ok {
				path := p.join(i, other)
				p.logger.Debug("box path found",
					"nodes", len(p.nodes),
					"iterations", iterations+1,
					"length", len(path),
					"elapsed", time.Since(startTime).Round(time.Millisecond))
				return path, nil
			}
		}
		active = active.other()
	}

	p.logger.Warn("box planner gave up", "nodes", len(p.nodes), "iterations", iterations)
	return nil, errors.New(errors.ErrCodeNoPath,
		"trees did not meet after %d iterations (%d nodes)", iterations, len(p.nodes))
}

// nearest returns the node of t closest to target in L1 distance. The first
// of equally close nodes wins.
func (p *Planner) nearest(t tree, target geom.Point) int {
	best := -1
	bestDist := 0.0
	for _, i := range p.trees[t] {
		d := p.nodes[i].pos.Manhattan(target)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// extend tries to add a child of parent one step along dir.
func (p *Planner) extend(parent int, dir geom.Direction, t tree) (int, bool) {
	from := p.nodes[parent]
	pos := from.pos.Step(dir, p.opts.Step)

	if p.blocked(pos) {
		return 0, false
	}
	// The box travels goal-tree edges from child to parent.
	in, out := from.dir, dir
	if t == goalTree {
		in, out = dir.Opposite(), from.dir.Opposite()
	}
	if geom.QuarterTurn(in, out) && !p.roomToTurn(from.pos, in, out) {
		return 0, false
	}
	if _, dup := p.index[pos]; dup {
		return 0, false
	}
	return p.add(pos, parent, dir, t), true
}

func (p *Planner) blocked(pos geom.Point) bool {
	return p.obstacles.Blocked(geom.Square(pos, p.width))
}

// roomToTurn checks the cells the pusher sweeps when it walks around the
// box at pos to change from pushing along a to pushing along b.
func (p *Planner) roomToTurn(pos geom.Point, a, b geom.Direction) bool {
	for _, cell := range Satellites(geom.Square(pos, p.width), a, b) {
		if p.obstacles.Blocked(cell) {
			return false
		}
	}
	return true
}

// Satellites returns the two half-width squares beside box that a pusher
// passes through when switching between directions a and b, one horizontal
// and one vertical. Each lies against the side a pusher stands on for its
// direction, in the half nearest the corner the pusher walks around.
func Satellites(box geom.Rect, a, b geom.Direction) [2]geom.Rect {
	h, v := a, b
	if h.Vertical() {
		h, v = b, a
	}
	w := box.Width()
	half := w / 2

	// The corner shared by the two pushing sides.
	cx, cy := box.Min[0], box.Min[1]
	if h == geom.Left {
		cx += w
	}
	if v == geom.Down {
		cy += w
	}

	side := geom.NewRect(cx-half, cy, half, half)
	if h == geom.Left {
		side = geom.NewRect(cx, cy, half, half)
	}
	if v == geom.Down {
		side = geom.NewRect(side.Min[0], cy-half, half, half)
	}

	end := geom.NewRect(cx, cy-half, half, half)
	if v == geom.Down {
		end = geom.NewRect(cx, cy, half, half)
	}
	if h == geom.Left {
		end = geom.NewRect(cx-half, end.Min[1], half, half)
	}
	return [2]geom.Rect{side, end}
}

// adjacent looks for a node of the other tree one step from node i.
func (p *Planner) adjacent(i int) (int, bool) {
	n := p.nodes[i]
	for _, d := range connectProbe {
		j, ok := p.index[n.pos.Step(d, p.opts.Step)]
		if ok && p.nodes[j].tree != n.tree && p.canMeet(i, j) {
			return j, true
		}
	}
	return 0, false
}

// canMeet checks the turns the box makes where the two trees are joined
// through nodes i and j: at the start-tree node and at the goal-tree node.
func (p *Planner) canMeet(i, j int) bool {
	s, g := p.nodes[i], p.nodes[j]
	if s.tree == goalTree {
		s, g = g, s
	}
	across := geom.Toward(s.pos, g.pos)
	if geom.QuarterTurn(s.dir, across) && !p.roomToTurn(s.pos, s.dir, across) {
		return false
	}
	out := g.dir.Opposite()
	return !geom.QuarterTurn(across, out) || p.roomToTurn(g.pos, across, out)
}

// join concatenates root→i with j→root and orients the result start to goal.
func (p *Planner) join(i, j int) []geom.Point {
	var head []geom.Point
	for k := i; k >= 0; k = p.nodes[k].parent {
		head = append(head, p.nodes[k].pos)
	}
	path := make([]geom.Point, 0, len(head))
	for k := len(head) - 1; k >= 0; k-- {
		path = append(path, head[k])
	}
	for k := j; k >= 0; k = p.nodes[k].parent {
		path = append(path, p.nodes[k].pos)
	}

	if p.nodes[i].tree == goalTree {
		for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
			path[l], path[r] = path[r], path[l]
		}
	}
	return path
}
