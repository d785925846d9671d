package roadmap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"box-motion-planner/internal/errors"
)

// document is the JSON form of a roadmap. Edges refer to Vertices by index.
type document[C any] struct {
	Root     C         `json:"root"`
	Goal     C         `json:"goal"`
	Vertices []C       `json:"vertices"`
	Edges    []edgeDoc `json:"edges"`
}

type edgeDoc struct {
	From int     `json:"from"`
	To   int     `json:"to"`
	Cost float64 `json:"cost"`
}

// Save writes g as indented JSON.
func Save[C Configuration[C]](w io.Writer, g *Graph[C]) error {
	doc := document[C]{
		Root:     g.root,
		Goal:     g.goal,
		Vertices: g.Vertices(),
	}
	pos := make(map[C]int, len(doc.Vertices))
	for i, c := range doc.Vertices {
		pos[c] = i
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edgeDoc{From: pos[e.A], To: pos[e.B], Cost: e.Cost})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	return nil
}

// SaveFile writes g to filename.
func SaveFile[C Configuration[C]](filename string, g *Graph[C], logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Save(f, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Info("roadmap saved", "file", filename, "vertices", g.NumVertices(), "edges", g.NumEdges())
	return nil
}

// Load reads a roadmap written by Save.
func Load[C Configuration[C]](r io.Reader) (*Graph[C], error) {
	var doc document[C]
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedRoadmap, err, "failed to unmarshal graph")
	}

	g := NewGraph(doc.Root, doc.Goal)
	for _, c := range doc.Vertices {
		g.AddVertex(c)
	}
	for i, e := range doc.Edges {
		if e.From < 0 || e.From >= len(doc.Vertices) || e.To < 0 || e.To >= len(doc.Vertices) {
			return nil, errors.New(errors.ErrCodeMalformedRoadmap, "edge %d references missing vertex (%d, %d)", i, e.From, e.To)
		}
		g.AddEdge(doc.Vertices[e.From], doc.Vertices[e.To], e.Cost)
	}
	return g, nil
}
