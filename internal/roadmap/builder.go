package roadmap

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"box-motion-planner/internal/errors"
)

// DefaultEdgeChecks is the number of interior configurations tested on every
// candidate edge.
const DefaultEdgeChecks = 10

// Oracle answers whether a configuration is collision-free in the current
// workspace snapshot.
type Oracle[C any] interface {
	Free(c C) bool
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc[C any] func(C) bool

// Free calls f(c).
func (f OracleFunc[C]) Free(c C) bool { return f(c) }

// Options bound the size of a roadmap.
type Options struct {
	Samples     int // free samples to add, start and goal excluded
	Neighbors   int // edges attempted per vertex
	EdgeChecks  int // interior configurations tested per edge
	MaxAttempts int // sampling budget; 0 means 10 × Samples
}

func (o Options) withDefaults() Options {
	if o.EdgeChecks <= 0 {
		o.EdgeChecks = DefaultEdgeChecks
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = o.Samples * 10
	}
	return o
}

// Builder populates a Graph by rejection sampling and k-nearest connection.
// A Builder may be reused; every Build call starts from an empty graph.
type Builder[C Interpolable[C]] struct {
	opts   Options
	sample func() C
	oracle Oracle[C]
	logger *log.Logger
}

// NewBuilder returns a PRM builder drawing candidates from sample and
// filtering them through oracle.
func NewBuilder[C Interpolable[C]](opts Options, sample func() C, oracle Oracle[C], logger *log.Logger) *Builder[C] {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder[C]{
		opts:   opts.withDefaults(),
		sample: sample,
		oracle: oracle,
		logger: logger,
	}
}

// Build returns a roadmap holding start, goal and exactly Samples free
// configurations, each connected to up to Neighbors reachable nearest
// neighbours.
func (b *Builder[C]) Build(start, goal C) (*Graph[C], error) {
	startTime := time.Now()

	if !b.oracle.Free(start) {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "roadmap start %v is not collision-free", start)
	}
	if !b.oracle.Free(goal) {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "roadmap goal %v is not collision-free", goal)
	}

	g := NewGraph(start, goal)

	b.logger.Debug("sampling roadmap", "samples", b.opts.Samples, "budget", b.opts.MaxAttempts)
	added, attempts := 0, 0
	for added < b.opts.Samples {
		if attempts >= b.opts.MaxAttempts {
			b.logger.Warn("roadmap sampling budget exhausted", "added", added, "requested", b.opts.Samples)
			return nil, errors.New(errors.ErrCodeNoRoadmapCapacity,
				"only %d of %d free samples after %d attempts", added, b.opts.Samples, attempts)
		}
		attempts++
		c := b.sample()
		if !b.oracle.Free(c) {
			continue
		}
		if g.AddVertex(c) {
			added++
		}
	}

	rejected := b.connect(g)

	b.logger.Debug("roadmap built",
		"vertices", g.NumVertices(),
		"edges", g.NumEdges(),
		"rejected", rejected,
		"attempts", attempts,
		"elapsed", time.Since(startTime).Round(time.Millisecond))
	return g, nil
}

type candidate[C any] struct {
	c    C
	dist float64
}

// connect links every vertex to its nearest reachable neighbours and returns
// the number of candidate edges that failed validation.
func (b *Builder[C]) connect(g *Graph[C]) int {
	tested := make(map[edgeKey[C]]bool)
	rejected := 0

	reachable := func(a, c C) bool {
		if ok, seen := tested[edgeKey[C]{a, c}]; seen {
			return ok
		}
		ok := PathCollisionFree(b.oracle, a, c, b.opts.EdgeChecks)
		tested[edgeKey[C]{a, c}] = ok
		tested[edgeKey[C]{c, a}] = ok
		if !ok {
			rejected++
		}
		return ok
	}

	for _, v := range g.vertices {
		cands := make([]candidate[C], 0, len(g.vertices)-1)
		for _, u := range g.vertices {
			if u == v {
				continue
			}
			cands = append(cands, candidate[C]{c: u.Config, dist: v.Config.Distance(u.Config)})
		}
		// Stable so that equal distances keep vertex insertion order.
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].dist < cands[j].dist
		})

		kept := 0
		for _, cand := range cands {
			if kept == b.opts.Neighbors {
				break
			}
			if g.HasEdge(v.Config, cand.c) {
				kept++
				continue
			}
			if reachable(v.Config, cand.c) {
				g.AddEdge(v.Config, cand.c, cand.dist)
				kept++
			}
		}
	}
	return rejected
}

// PathCollisionFree tests checks evenly spaced interior configurations of
// the straight segment from a to b. It is a sampled approximation of a sweep
// and can miss obstacles thinner than the spacing.
func PathCollisionFree[C Interpolable[C]](oracle Oracle[C], a, b C, checks int) bool {
	for i := 1; i <= checks; i++ {
		t := float64(i) / float64(checks+1)
		if !oracle.Free(a.Interpolate(b, t)) {
			return false
		}
	}
	return true
}
