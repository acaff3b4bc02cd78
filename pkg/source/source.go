// Package source defines where follow graphs come from.
//
// A [Source] produces a finished [graph.Graph]. [File] reads edge lists
// and JSON graphs from disk; the [mongo] subpackage reads follow documents
// from a MongoDB collection. Both apply the same node deduplication and
// labelling because both build through [graph.Builder].
//
// [mongo]: github.com/matzehuels/followgraph/pkg/source/mongo
package source

import (
	"context"
	"time"

	"github.com/matzehuels/followgraph/pkg/graph"
	fgio "github.com/matzehuels/followgraph/pkg/io"
	"github.com/matzehuels/followgraph/pkg/observability"
)

// Source loads a graph.
type Source interface {
	// Name identifies the source in logs, e.g. a path or collection name.
	Name() string
	// Load reads up to limit relations. Zero means the default limit and a
	// negative value reads everything.
	Load(ctx context.Context, limit int) (*graph.Graph, error)
}

// File loads a graph from a file on disk.
type File struct {
	Path   string
	Strict bool

	// Report of the last edge-list load; nil for JSON files.
	Report *fgio.Report
}

// Name returns the file path.
func (f *File) Name() string { return f.Path }

// Load reads the file, choosing the format by extension.
func (f *File) Load(ctx context.Context, limit int) (*graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, rep, err := fgio.Import(f.Path, fgio.Options{Limit: limit, Strict: f.Strict})
	if err != nil {
		return nil, err
	}
	f.Report = rep
	return g, nil
}

// Load runs src.Load and reports it to the pipeline hooks.
func Load(ctx context.Context, src Source, limit int) (*graph.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.Name())
	start := time.Now()

	g, err := src.Load(ctx, limit)
	if err != nil {
		hooks.OnLoadComplete(ctx, src.Name(), 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, src.Name(), g.NodeCount(), g.RelationCount(), time.Since(start), nil)
	return g, nil
}

var _ Source = (*File)(nil)
