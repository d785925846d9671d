package search

import (
	"container/heap"

	"box-motion-planner/internal/errors"
	"box-motion-planner/internal/roadmap"
)

// node is an A* open-set entry.
type node[C any] struct {
	config C
	g      float64 // cost from the root
	h      float64 // estimate to the goal
	f      float64 // g + h
	seq    int     // push order, breaks ties on f
	index  int     // position in the heap
}

// priorityQueue implements heap.Interface ordered by f, then by push order.
type priorityQueue[C any] []*node[C]

func (pq priorityQueue[C]) Len() int { return len(pq) }

func (pq priorityQueue[C]) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue[C]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[C]) Push(x any) {
	n := x.(*node[C])
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue[C]) Pop() any {
	old := *pq
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*pq = old[:last]
	return n
}

// AStar finds the least-cost path using the configuration metric to the goal
// as heuristic. With edge costs equal to that metric the heuristic is
// consistent and the result is optimal.
type AStar[C roadmap.Configuration[C]] struct {
	open   priorityQueue[C]
	inOpen map[C]*node[C]
	closed map[C]bool
	parent map[C]C
	seq    int
}

// NewAStar returns an empty A* search.
func NewAStar[C roadmap.Configuration[C]]() *AStar[C] {
	a := &AStar[C]{}
	a.Reset()
	return a
}

// Reset clears the open set, closed set and parent links.
func (a *AStar[C]) Reset() {
	a.open = nil
	a.inOpen = make(map[C]*node[C])
	a.closed = make(map[C]bool)
	a.parent = make(map[C]C)
	a.seq = 0
}

func (a *AStar[C]) push(c C, g, h float64) {
	n := &node[C]{config: c, g: g, h: h, f: g + h, seq: a.seq}
	a.seq++
	heap.Push(&a.open, n)
	a.inOpen[c] = n
}

// Search expands the open entry with the lowest f until the goal is popped.
func (a *AStar[C]) Search(g *roadmap.Graph[C]) ([]C, error) {
	a.Reset()
	if err := checkEnds(g); err != nil {
		return nil, err
	}

	root, goal := g.Root(), g.Goal()
	a.push(root, 0, root.Distance(goal))

	for a.open.Len() > 0 {
		current := heap.Pop(&a.open).(*node[C])
		delete(a.inOpen, current.config)

		if current.config == goal {
			return walkBack(a.parent, root, goal), nil
		}
		a.closed[current.config] = true

		for _, e := range g.Vertex(current.config).Edges() {
			next := e.Other(current.config)
			if a.closed[next] {
				continue
			}
			tentative := current.g + e.Cost

			n, ok := a.inOpen[next]
			if !ok {
				a.parent[next] = current.config
				a.push(next, tentative, next.Distance(goal))
			} else if tentative < n.g {
				n.g = tentative
				n.f = n.g + n.h
				a.parent[next] = current.config
				heap.Fix(&a.open, n.index)
			}
		}
	}
	return nil, errors.New(errors.ErrCodeNoPath, "a* closed %d vertices without reaching the goal", len(a.closed))
}
