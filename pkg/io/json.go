package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
)

type document struct {
	Nodes []graph.Node     `json:"nodes"`
	Edges []graph.Relation `json:"edges"`
}

// WriteJSON encodes g as indented JSON and writes it to w.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		Nodes: g.Nodes(),
		Edges: g.Relations(),
	}
	if out.Nodes == nil {
		out.Nodes = []graph.Node{}
	}
	if out.Edges == nil {
		out.Edges = []graph.Relation{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// ReadJSON decodes a JSON graph from r. Nodes are added in document order,
// then edges; edges may reference nodes that are not listed.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "decode graph")
	}

	b := graph.NewBuilder()
	for _, n := range doc.Nodes {
		if _, err := b.AddNode(n.ID); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := b.AddRelation(e); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	return b.Build(), nil
}

// ImportJSON reads a JSON graph file at path.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fgerrors.Wrap(fgerrors.ErrCodeFileNotFound, err, "graph %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Import reads a graph file, choosing JSON or edge-list parsing by extension.
// The report is nil for JSON input.
func Import(path string, opts Options) (*graph.Graph, *Report, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		g, err := ImportJSON(path)
		return g, nil, err
	}
	return ImportEdgeList(path, opts)
}
