// Package roadmap implements the probabilistic roadmap: a generic undirected
// graph of configurations and the PRM builder that populates it.
package roadmap

// DefaultCost is the cost of an edge added without an explicit cost.
const DefaultCost = 1.0

// Configuration is a point in a search space. Identity is value equality;
// Distance is the metric used for neighbour selection and search heuristics.
type Configuration[C any] interface {
	comparable
	Distance(other C) float64
}

// Interpolable configurations can be linearly blended, which edge validation
// and path refinement both rely on.
type Interpolable[C any] interface {
	Configuration[C]
	Interpolate(to C, t float64) C
}

// Edge is an undirected connection with a cost. Edge(a, b) and Edge(b, a)
// are the same edge.
type Edge[C Configuration[C]] struct {
	A, B C
	Cost float64
}

// Other returns the endpoint of e that is not c.
func (e *Edge[C]) Other(c C) C {
	if e.A == c {
		return e.B
	}
	return e.A
}

// Vertex wraps one configuration and its incident edges, in insertion order.
type Vertex[C Configuration[C]] struct {
	Config C
	edges  []*Edge[C]
}

// Edges returns a copy of the incident edges.
func (v *Vertex[C]) Edges() []*Edge[C] {
	out := make([]*Edge[C], len(v.edges))
	copy(out, v.edges)
	return out
}

// Degree is the number of incident edges.
func (v *Vertex[C]) Degree() int {
	return len(v.edges)
}

func (v *Vertex[C]) removeEdge(e *Edge[C]) {
	for i, x := range v.edges {
		if x == e {
			v.edges = append(v.edges[:i], v.edges[i+1:]...)
			return
		}
	}
}

type edgeKey[C comparable] struct {
	a, b C
}

// Graph is an undirected roadmap with a designated root (start) and goal.
// It never holds two vertices with equal configurations, and every edge's
// endpoints are vertices of the graph.
type Graph[C Configuration[C]] struct {
	root, goal C
	vertices   []*Vertex[C]
	index      map[C]*Vertex[C]
	edges      map[edgeKey[C]]*Edge[C]
}

// NewGraph returns a graph holding only the root and goal vertices.
func NewGraph[C Configuration[C]](root, goal C) *Graph[C] {
	g := &Graph[C]{
		root:  root,
		goal:  goal,
		index: make(map[C]*Vertex[C]),
		edges: make(map[edgeKey[C]]*Edge[C]),
	}
	g.AddVertex(root)
	g.AddVertex(goal)
	return g
}

// Root is the start configuration.
func (g *Graph[C]) Root() C { return g.root }

// Goal is the goal configuration.
func (g *Graph[C]) Goal() C { return g.goal }

// AddVertex inserts c and reports whether it was new.
func (g *Graph[C]) AddVertex(c C) bool {
	if _, ok := g.index[c]; ok {
		return false
	}
	v := &Vertex[C]{Config: c}
	g.vertices = append(g.vertices, v)
	g.index[c] = v
	return true
}

// RemoveVertex deletes c together with its incident edges.
func (g *Graph[C]) RemoveVertex(c C) bool {
	v, ok := g.index[c]
	if !ok {
		return false
	}
	for _, e := range v.Edges() {
		g.RemoveEdge(e.A, e.B)
	}
	delete(g.index, c)
	for i, x := range g.vertices {
		if x == v {
			g.vertices = append(g.vertices[:i], g.vertices[i+1:]...)
			break
		}
	}
	return true
}

// HasVertex reports whether c is a vertex.
func (g *Graph[C]) HasVertex(c C) bool {
	_, ok := g.index[c]
	return ok
}

// Vertex returns the vertex holding c, or nil.
func (g *Graph[C]) Vertex(c C) *Vertex[C] {
	return g.index[c]
}

// Vertices returns every configuration in insertion order.
func (g *Graph[C]) Vertices() []C {
	out := make([]C, len(g.vertices))
	for i, v := range g.vertices {
		out[i] = v.Config
	}
	return out
}

// NumVertices is the vertex count, root and goal included.
func (g *Graph[C]) NumVertices() int {
	return len(g.vertices)
}

// NumEdges is the undirected edge count.
func (g *Graph[C]) NumEdges() int {
	return len(g.edges)
}

// AddEdge connects a and b with the given cost. Self loops, duplicates and
// edges touching unknown vertices are refused.
func (g *Graph[C]) AddEdge(a, b C, cost float64) bool {
	if a == b || g.HasEdge(a, b) {
		return false
	}
	va, vb := g.index[a], g.index[b]
	if va == nil || vb == nil {
		return false
	}
	e := &Edge[C]{A: a, B: b, Cost: cost}
	g.edges[edgeKey[C]{a, b}] = e
	va.edges = append(va.edges, e)
	vb.edges = append(vb.edges, e)
	return true
}

// Connect adds an edge with DefaultCost.
func (g *Graph[C]) Connect(a, b C) bool {
	return g.AddEdge(a, b, DefaultCost)
}

// Edge returns the edge between a and b in either orientation, or nil.
func (g *Graph[C]) Edge(a, b C) *Edge[C] {
	if e, ok := g.edges[edgeKey[C]{a, b}]; ok {
		return e
	}
	return g.edges[edgeKey[C]{b, a}]
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph[C]) HasEdge(a, b C) bool {
	return g.Edge(a, b) != nil
}

// RemoveEdge deletes the edge between a and b.
func (g *Graph[C]) RemoveEdge(a, b C) bool {
	e := g.Edge(a, b)
	if e == nil {
		return false
	}
	delete(g.edges, edgeKey[C]{e.A, e.B})
	g.index[e.A].removeEdge(e)
	g.index[e.B].removeEdge(e)
	return true
}

// Neighbors returns the configurations adjacent to c in edge insertion order.
func (g *Graph[C]) Neighbors(c C) []C {
	v := g.index[c]
	if v == nil {
		return nil
	}
	out := make([]C, len(v.edges))
	for i, e := range v.edges {
		out[i] = e.Other(c)
	}
	return out
}

// Edges returns every edge, ordered by the insertion order of their first
// endpoint's incidence list.
func (g *Graph[C]) Edges() []*Edge[C] {
	out := make([]*Edge[C], 0, len(g.edges))
	seen := make(map[*Edge[C]]bool, len(g.edges))
	for _, v := range g.vertices {
		for _, e := range v.edges {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}
