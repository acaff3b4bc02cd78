package events

import (
	"bytes"
	"encoding/json"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
)

// TapNode is the payload Cytoscape emits when a node is tapped.
type TapNode struct {
	Data      NodeData   `json:"data"`
	EdgesData []EdgeData `json:"edgesData"`
}

// NodeData is the data object of a tapped node.
type NodeData struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// EdgeData is the data object of an edge connected to the tapped node.
type EdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Selection converts the payload into a selection without validating it.
func (t *TapNode) Selection() *graph.Selection {
	if t == nil {
		return nil
	}
	sel := &graph.Selection{
		Node:      t.Data.ID,
		Relations: make([]graph.Relation, 0, len(t.EdgesData)),
	}
	for _, e := range t.EdgesData {
		sel.Relations = append(sel.Relations, graph.Relation{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return sel
}

// TapFor builds the payload Cytoscape would emit for a tap on sel's node.
func TapFor(sel *graph.Selection) *TapNode {
	if sel == nil {
		return nil
	}
	t := &TapNode{
		Data:      NodeData{ID: sel.Node, Label: graph.Label(sel.Node)},
		EdgesData: make([]EdgeData, 0, len(sel.Relations)),
	}
	for _, r := range sel.Relations {
		t.EdgesData = append(t.EdgesData, EdgeData{ID: r.ID, Source: r.Source, Target: r.Target})
	}
	return t
}

// DecodeTap decodes a tap payload into a validated selection. Empty input
// and JSON null mean nothing is selected and return (nil, nil).
func DecodeTap(data []byte) (*graph.Selection, error) {
	if isNull(data) {
		return nil, nil
	}
	var t TapNode
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "decode tap payload")
	}
	sel := t.Selection()
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return sel, nil
}

func isNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}
