// Package pkg provides the libraries behind followgraph.
//
// # Overview
//
// followgraph shows a social "follows" graph and, when a user is selected,
// recolors it so that the user's followers and followings stand out. The
// pkg directory is organized as follows:
//
//  1. [graph] - Immutable nodes and relations, and selections
//  2. [style] - Stylesheets: the default sheet, the highlight generator and the cascade
//  3. [layout] - Layout names passed through to the renderer
//  4. [io], [source] - Edge-list and JSON files, MongoDB collections
//  5. [events] - Decoding of tap and drag payloads from the front end
//  6. [render/nodelink] - Graphviz renderings that honor a stylesheet
//  7. [pipeline], [cache] - Select, generate and render with cached images
//  8. [errors], [observability], [buildinfo] - Ambient support
//
// # Architecture
//
// The data flow through followgraph:
//
//	Edge list / MongoDB
//	         ↓
//	   graph.Graph (loaded once, read-only)
//	         ↓  tap on a node
//	   graph.Selection + style.Params
//	         ↓
//	   style.Generate → style.Stylesheet
//	         ↓
//	   Cytoscape.js in the browser, or nodelink → SVG/PNG
//
// Every selection produces a brand-new stylesheet; nothing is patched
// incrementally and nothing about the selection is persisted.
//
// [graph]: github.com/matzehuels/followgraph/pkg/graph
// [style]: github.com/matzehuels/followgraph/pkg/style
// [layout]: github.com/matzehuels/followgraph/pkg/layout
// [io]: github.com/matzehuels/followgraph/pkg/io
// [source]: github.com/matzehuels/followgraph/pkg/source
// [events]: github.com/matzehuels/followgraph/pkg/events
// [render/nodelink]: github.com/matzehuels/followgraph/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/followgraph/pkg/pipeline
// [cache]: github.com/matzehuels/followgraph/pkg/cache
// [errors]: github.com/matzehuels/followgraph/pkg/errors
// [observability]: github.com/matzehuels/followgraph/pkg/observability
// [buildinfo]: github.com/matzehuels/followgraph/pkg/buildinfo
package pkg
