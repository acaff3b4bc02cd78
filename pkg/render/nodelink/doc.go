// Package nodelink renders a styled follow graph as a node-link diagram
// with Graphviz.
//
// # Overview
//
// The browser renders stylesheets with Cytoscape. This package is the
// offline counterpart: it resolves every element of a graph through a
// [style.Stylesheet] and writes the result as Graphviz DOT, which can then be
// laid out and rendered in-process.
//
// # Usage
//
//	ss, _ := style.Generate(sel, style.DefaultParams())
//	dot := nodelink.ToDOT(g, ss, nodelink.Options{Layout: "circle"})
//	svg, err := nodelink.RenderSVG(ctx, dot, "circle")
//
// # Style Mapping
//
// Cytoscape properties map onto Graphviz attributes:
//
//	background-color        fillcolor (node)
//	line-color              color (edge)
//	mid-target-arrow-color  fillcolor (edge arrowhead)
//	mid-target-arrow-shape  arrowhead
//	shape                   shape
//	opacity                 alpha channel of every color
//	border-color/width      color/penwidth (node)
//	label, color            label, fontcolor
//	font-size               fontsize
//
// Alpha is only applied to hex colors; named colors are passed through
// opaque.
//
// # Stacking
//
// Graphviz paints in declaration order, so elements are written in
// ascending z-index (edges before nodes, ties in graph order). A high
// z-index therefore paints on top, as it does in Cytoscape.
//
// # Layouts
//
// [Engine] maps Cytoscape layout names onto Graphviz engines: circle uses
// circo, concentric twopi, breadthfirst dot, cose fdp, grid osage and random
// neato. Unknown names fall back to dot.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is required.
package nodelink
