// Package cli implements the followgraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/followgraph/internal/config"
	"github.com/matzehuels/followgraph/pkg/buildinfo"
	"github.com/matzehuels/followgraph/pkg/cache"
	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/observability"
	"github.com/matzehuels/followgraph/pkg/pipeline"
	"github.com/matzehuels/followgraph/pkg/source"
	"github.com/matzehuels/followgraph/pkg/source/mongo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "followgraph"

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	// Verbose switches the logger to debug level before any command runs.
	Verbose bool

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "followgraph highlights who follows whom in a social graph",
		Long:         `followgraph loads a follow graph from an edge list, highlights the followers and followings of a selected user, and serves or renders the result.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.NewLogHooks(c.Logger).Install()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.stylesheetCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Graph Loading
// =============================================================================

// graphFlags are shared by every command that reads a graph.
type graphFlags struct {
	limit  int
	strict bool
	mongo  bool
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum relations to load (0: config default, -1: all)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on malformed edge-list lines instead of skipping them")
	cmd.Flags().BoolVar(&f.mongo, "mongo", false, "load from the configured MongoDB collection instead of a file")
}

// loadGraph reads the graph from path, or from MongoDB when requested by
// flag or config. An empty path falls back to graph.path from the config.
func (c *CLI) loadGraph(ctx context.Context, path string, flags graphFlags) (*graph.Graph, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	limit := flags.limit
	if limit == 0 {
		limit = cfg.Graph.Limit
	}

	if flags.mongo || (path == "" && cfg.Graph.Source == config.SourceMongo) {
		src, err := mongo.Open(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		defer src.Close(context.WithoutCancel(ctx))
		g, err := source.Load(ctx, src, limit)
		if err != nil {
			return nil, err
		}
		if src.Skipped > 0 {
			c.Logger.Warn("skipped malformed documents", "count", src.Skipped)
		}
		return g, nil
	}

	if path == "" {
		path = cfg.Graph.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no graph file given and graph.path is not configured")
	}
	src := &source.File{Path: path, Strict: flags.strict || cfg.Graph.Strict}
	g, err := source.Load(ctx, src, limit)
	if err != nil {
		return nil, err
	}
	if rep := src.Report; rep != nil {
		for _, le := range rep.Skipped {
			c.Logger.Warn("skipped line", "line", le.Line, "reason", le.Reason)
		}
		if rep.Truncated {
			c.Logger.Debug("edge list truncated", "records", rep.Records)
		}
	}
	return g, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, keyScope()), c.Logger)
	r.TTL = cfg.Cache.TTLDuration()
	return r, nil
}

// keyScope prefixes artifact keys with the build version, so a new release
// never serves images drawn by an older renderer.
func keyScope() string {
	return "render:" + buildinfo.Version + ":"
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.Redis)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/followgraph/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
