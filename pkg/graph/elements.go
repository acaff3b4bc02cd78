package graph

// Element is one entry of a Cytoscape.js element list.
type Element struct {
	Data ElementData `json:"data"`
}

// ElementData holds the fields Cytoscape reads from an element. Node
// elements set ID and Label; edge elements set ID, Source and Target.
type ElementData struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// Elements converts g to the Cytoscape element list, edges first and then
// nodes, each group in graph order.
func Elements(g *Graph) []Element {
	out := make([]Element, 0, g.RelationCount()+g.NodeCount())
	for _, r := range g.relations {
		out = append(out, Element{Data: ElementData{ID: r.ID, Source: r.Source, Target: r.Target}})
	}
	for _, n := range g.nodes {
		out = append(out, Element{Data: ElementData{ID: n.ID, Label: n.Label}})
	}
	return out
}
