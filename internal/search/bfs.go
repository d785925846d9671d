package search

import (
	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/roadmap"
)

// BFS finds the path with the fewest edges. Edge costs are ignored.
type BFS[C roadmap.Configuration[C]] struct {
	queue   []C
	parent  map[C]C
	visited map[C]bool
}

// NewBFS returns an empty breadth-first search.
func NewBFS[C roadmap.Configuration[C]]() *BFS[C] {
	b := &BFS[C]{}
	b.Reset()
	return b
}

// Reset clears the fringe and visited set.
func (b *BFS[C]) Reset() {
	b.queue = b.queue[:0]
	b.parent = make(map[C]C)
	b.visited = make(map[C]bool)
}

// Search explores g from its root in FIFO order. Each vertex is enqueued at
// most once and keeps the parent that reached it first.
func (b *BFS[C]) Search(g *roadmap.Graph[C]) ([]C, error) {
	b.Reset()
	if err := checkEnds(g); err != nil {
		return nil, err
	}

	root, goal := g.Root(), g.Goal()
	b.queue = append(b.queue, root)
	b.visited[root] = true

	for head := 0; head < len(b.queue); head++ {
		current := b.queue[head]
		if current == goal {
			return walkBack(b.parent, root, goal), nil
		}
		for _, next := range g.Neighbors(current) {
			if b.visited[next] {
				continue
			}
			b.visited[next] = true
			b.parent[next] = current
			b.queue = append(b.queue, next)
		}
	}
	return nil, errors.New(errors.ErrCodeNoPath, "bfs exhausted %d vertices without reaching the goal", len(b.visited))
}
