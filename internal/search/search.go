// Package search extracts paths from a roadmap with breadth-first search
// (fewest hops) or A* (least cost).
package search

import (
	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/roadmap"
)

// Strategy finds a path from a graph's root to its goal.
// Search clears any state left by a previous call, so one Strategy value can
// serve many queries; Reset does the same explicitly.
type Strategy[C roadmap.Configuration[C]] interface {
	Search(g *roadmap.Graph[C]) ([]C, error)
	Reset()
}

// New returns the strategy registered under name ("bfs" or "astar").
func New[C roadmap.Configuration[C]](name string) (Strategy[C], error) {
	switch name {
	case "bfs":
		return NewBFS[C](), nil
	case "astar", "a*":
		return NewAStar[C](), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown search strategy %q", name)
}

func checkEnds[C roadmap.Configuration[C]](g *roadmap.Graph[C]) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidQuery, "nil roadmap")
	}
	if !g.HasVertex(g.Root()) {
		return errors.New(errors.ErrCodeInvalidQuery, "root %v is not in the roadmap", g.Root())
	}
	if !g.HasVertex(g.Goal()) {
		return errors.New(errors.ErrCodeInvalidQuery, "goal %v is not in the roadmap", g.Goal())
	}
	return nil
}

// walkBack follows parent links from goal to root and returns the path in
// root-to-goal order.
func walkBack[C comparable](parent map[C]C, root, goal C) []C {
	var rev []C
	for c := goal; ; c = parent[c] {
		rev = append(rev, c)
		if c == root {
			break
		}
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
