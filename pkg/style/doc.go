// Package style builds the Cytoscape stylesheets that highlight a selected
// user's followers and followings.
//
// # Overview
//
// A [Stylesheet] is an ordered list of [Rule] values. Each rule pairs a
// [Selector] ("node", "edge", node[id = "42"], ...) with [Declarations], a
// mapping from a closed set of [Property] names to typed [Value]s. Order is
// significant: when several rules match an element, a later rule's
// declaration wins over an earlier one with the same property, and
// declarations that are not overridden persist. [Resolve] applies that
// cascade to a single element.
//
// # Generating
//
// [Generate] is the heart of followgraph:
//
//	ss, err := style.Generate(sel, style.DefaultParams())
//
// With a nil selection it returns [Default]. Otherwise it emits four layers:
//
//  1. A dimmed background for every node and edge.
//  2. An accent rule for the selected node.
//  3. For each incident relation, in order, a neighbour rule and an edge rule
//     colored with the following color (outgoing) or the follower color
//     (incoming). Self-loops produce both pairs.
//
// Neighbours reached through several relations get several rules; the last
// one wins through the cascade. Generate is pure: it performs no I/O, logs
// nothing and returns a new Stylesheet on every call.
//
// # Wire Format
//
// Stylesheets marshal to the JSON shape Cytoscape.js expects:
//
//	[{"selector": "node", "style": {"opacity": 0.65}}]
package style
