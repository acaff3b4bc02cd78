// Package io reads and writes followgraph graphs.
//
// # Edge Lists
//
// The primary input is a newline-delimited list of "source target" pairs,
// one follow relation per line:
//
//	214328887 34428380
//	17116707 28465635
//
// [ReadEdgeList] keeps the first [Options.Limit] records (750 by default, the
// size the browser renders comfortably), deduplicates users by id in
// first-seen order and assigns relation ids e0, e1, ... in record order.
// Relation ids are only unique within one load.
//
// Blank lines are ignored. Any other line that is not exactly two tokens
// separated by a single space is malformed: in strict mode it aborts the
// load with an INVALID_RECORD error naming the line, otherwise it is skipped
// and listed in the returned [Report].
//
// # JSON
//
// [WriteJSON] and [ReadJSON] serialize a graph as
//
//	{
//	  "nodes": [{"id": "1", "label": "User #1"}],
//	  "edges": [{"id": "e0", "source": "1", "target": "2"}]
//	}
//
// Labels are always re-derived from ids on import.
//
// # Files
//
// [Import] picks the format from the file extension: ".json" files are read
// with [ReadJSON], everything else as an edge list.
package io
