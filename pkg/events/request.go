package events

import (
	"encoding/json"

	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/layout"
	"github.com/matzehuels/followgraph/pkg/style"
)

// StylesheetRequest asks for the stylesheet of one interaction state.
//
// Tap takes precedence over Node when both are set. Params fields left
// empty take the control panel defaults.
type StylesheetRequest struct {
	Tap    json.RawMessage `json:"tapNode,omitempty"`
	Node   string          `json:"node,omitempty"`
	Params style.Params    `json:"params"`
	Layout string          `json:"layout,omitempty"`
}

// Selection resolves the request against g. A plain node id is looked up in
// the graph and fails with NODE_NOT_FOUND when it is unknown; a tap payload
// is decoded as sent.
func (r StylesheetRequest) Selection(g *graph.Graph) (*graph.Selection, error) {
	if !isNull(r.Tap) {
		return DecodeTap(r.Tap)
	}
	if r.Node == "" {
		return nil, nil
	}
	return g.Select(r.Node)
}

// StyleParams returns the request parameters with defaults filled in.
func (r StylesheetRequest) StyleParams(defaults style.Params) style.Params {
	return r.Params.WithDefaults(defaults)
}

// LayoutConfig returns the requested layout, or the default one.
func (r StylesheetRequest) LayoutConfig() layout.Layout {
	if r.Layout == "" {
		return layout.Select(layout.Default)
	}
	return layout.Select(r.Layout)
}

// StylesheetResponse carries the generated stylesheet and the layout it
// should be rendered with.
type StylesheetResponse struct {
	Stylesheet style.Stylesheet `json:"stylesheet"`
	Layout     layout.Layout    `json:"layout"`
	Node       string           `json:"node,omitempty"`
}

// Handle resolves and answers a request in one step.
func Handle(g *graph.Graph, req StylesheetRequest, defaults style.Params) (*StylesheetResponse, error) {
	sel, err := req.Selection(g)
	if err != nil {
		return nil, err
	}
	ss, err := style.Generate(sel, req.StyleParams(defaults))
	if err != nil {
		return nil, err
	}
	resp := &StylesheetResponse{Stylesheet: ss, Layout: req.LayoutConfig()}
	if sel != nil {
		resp.Node = sel.Node
	}
	return resp, nil
}
