// Package pipeline runs the select → generate → render sequence shared by
// the CLI and the server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Select: look up the requested node and its incident relations
//  2. Generate: build the highlight stylesheet with [style.Generate]
//  3. Render: produce artifacts (stylesheet JSON, DOT, SVG, PNG)
//
// SVG and PNG artifacts are cached by graph hash and render options; the
// stylesheet and DOT are cheap and always recomputed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Node:    "214328887",
//	    Layout:  "circle",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/followgraph/pkg/cache"
	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
	fgio "github.com/matzehuels/followgraph/pkg/io"
	"github.com/matzehuels/followgraph/pkg/layout"
	"github.com/matzehuels/followgraph/pkg/style"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG}

// cachedFormats are the formats worth caching.
var cachedFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Node is the selected node id; empty means nothing is selected.
	Node string `json:"node,omitempty"`
	// Params are the style parameters; empty fields take defaults.
	Params style.Params `json:"params"`
	// Layout names the layout; empty means [layout.Default].
	Layout string `json:"layout,omitempty"`
	// Formats to produce; empty means svg.
	Formats []string `json:"formats,omitempty"`
	// Labels shows every node label in rendered output.
	Labels bool `json:"labels,omitempty"`
	// Refresh bypasses cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// GraphHash may be set by callers that render the same graph
	// repeatedly; it is computed when empty.
	GraphHash string      `json:"-"`
	Logger    *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Selection  *graph.Selection
	Stylesheet style.Stylesheet
	GraphHash  string
	Layout     layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes        int
	Relations    int
	Rules        int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // every cacheable artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return fgerrors.New(fgerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Params = o.Params.WithDefaults(style.DefaultParams())
	if o.Layout == "" {
		o.Layout = layout.Default
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	labels := ""
	if o.Labels {
		labels = ":labels"
	}
	return cache.ArtifactKeyOpts{
		Node:           o.Node,
		Layout:         o.Layout,
		Format:         format + labels,
		FollowerColor:  o.Params.FollowerColor,
		FollowingColor: o.Params.FollowingColor,
		EdgeArrowShape: o.Params.EdgeArrowShape,
		NodeShape:      o.Params.NodeShape,
	}
}

// GraphHash returns the SHA-256 of the graph's JSON encoding. A graph that
// cannot be encoded has no hash; callers must not cache under one.
func GraphHash(g *graph.Graph) (string, error) {
	if g == nil {
		return "", fgerrors.New(fgerrors.ErrCodeInvalidInput, "no graph to hash")
	}
	var buf bytes.Buffer
	if err := fgio.WriteJSON(g, &buf); err != nil {
		return "", fgerrors.Wrap(fgerrors.ErrCodeInternal, err, "hash graph")
	}
	return cache.Hash(buf.Bytes()), nil
}
