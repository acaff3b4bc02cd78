package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/followgraph/pkg/cache"
	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/layout"
	"github.com/matzehuels/followgraph/pkg/observability"
	"github.com/matzehuels/followgraph/pkg/style"
)

// artifactKeyType labels artifact events for cache hooks.
const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete select → generate → render pipeline.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Layout: layout.Select(opts.Layout),
		Stats: Stats{
			Nodes:     g.NodeCount(),
			Relations: g.RelationCount(),
		},
	}

	// Stage 1+2: Select and generate
	genStart := time.Now()
	sel, ss, err := r.Generate(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Selection = sel
	result.Stylesheet = ss
	result.Stats.Rules = len(ss)
	result.Stats.GenerateTime = time.Since(genStart)

	opts.Logger.Debug("generated stylesheet",
		"node", opts.Node,
		"rules", len(ss),
		"duration", result.Stats.GenerateTime)

	// Stage 3: Render
	if opts.GraphHash == "" {
		h, err := GraphHash(g)
		if err != nil {
			return nil, err
		}
		opts.GraphHash = h
	}
	result.GraphHash = opts.GraphHash

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, ss, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generate selects opts.Node in g and builds its stylesheet.
func (r *Runner) Generate(ctx context.Context, g *graph.Graph, opts Options) (*graph.Selection, style.Stylesheet, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Node)
	start := time.Now()

	var sel *graph.Selection
	if opts.Node != "" {
		var err error
		if sel, err = g.Select(opts.Node); err != nil {
			hooks.OnGenerateComplete(ctx, opts.Node, 0, time.Since(start), err)
			return nil, nil, err
		}
	}

	ss, err := style.Generate(sel, opts.Params)
	hooks.OnGenerateComplete(ctx, opts.Node, len(ss), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return sel, ss, nil
}

// RenderWithCacheInfo produces every requested format for ss and reports
// whether all cacheable artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, ss style.Stylesheet, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if opts.GraphHash == "" {
		h, err := GraphHash(g)
		if err != nil {
			return nil, false, err
		}
		opts.GraphHash = h
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	cacheable := 0
	for _, format := range opts.Formats {
		if !cachedFormats[format] {
			continue
		}
		cacheable++
		if opts.Refresh {
			allCached = false
			continue
		}
		key := r.Keyer.ArtifactKey(opts.GraphHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, artifactKeyType)
			artifacts[format] = data
		} else {
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			observability.Cache().OnCacheMiss(ctx, artifactKeyType)
			allCached = false
		}
	}

	var dot string
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		if dot == "" && format != FormatJSON {
			dot = buildDOT(g, ss, opts)
		}
		data, err := renderFormat(ctx, format, dot, ss, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if cachedFormats[format] {
			key := r.Keyer.ArtifactKey(opts.GraphHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
			}
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, cacheable > 0 && allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, ss style.Stylesheet, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, ss, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
