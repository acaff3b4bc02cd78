// Package events decodes the interaction payloads a Cytoscape front end
// sends and turns them into inputs for [style.Generate].
//
// A tap on a node arrives as a [TapNode] carrying the node's data and the
// data of every edge connected to it. [DecodeTap] converts that payload into
// a validated [graph.Selection]; a JSON null (nothing tapped yet) decodes to
// a nil selection.
//
// [StylesheetRequest] is what the HTTP and WebSocket endpoints accept: a tap
// payload or a bare node id, plus the control panel parameters and layout.
//
// [MergeDrag] and [FormatDebug] implement the drag debug panel, which shows
// the merged data of the grabbed and dragged node.
package events
