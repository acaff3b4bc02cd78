// Package graph holds the in-memory social graph that followgraph highlights.
//
// A [Graph] is a set of [Node] values (users) and an ordered list of directed
// [Relation] values ("source follows target"). Graphs are assembled once with
// a [Builder] and are read-only afterwards, so a single *Graph can be shared
// by every request handler without locking.
//
// # Selection
//
// A [Selection] is the ephemeral "user tapped a node" value: the node id plus
// every relation incident to it. Selections normally arrive from the browser
// (see package events) but can also be derived locally:
//
//	sel, err := g.Select("42")
//
// [Selection.Validate] enforces the contract the stylesheet generator relies
// on. A nil *Selection means nothing is selected.
//
// # Elements
//
// [Elements] exports the graph in the Cytoscape.js element format consumed by
// the browser renderer:
//
//	[{"data": {"id": "e0", "source": "1", "target": "2"}}, {"data": {"id": "1", "label": "User #1"}}]
package graph
