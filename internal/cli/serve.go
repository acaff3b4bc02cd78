package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/followgraph/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		gflags  graphFlags
		addr    string
		cors    []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [graph]",
		Short: "Serve the graph and its stylesheets over HTTP and WebSocket",
		Long: `Serve the graph and its stylesheets over HTTP and WebSocket.

The graph is loaded once at start-up and shared read-only by every request.
A Cytoscape front end fetches /api/elements, then posts each tap event to
/api/stylesheet (or sends it over /ws) and applies the stylesheet it gets
back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return c.runServe(cmd.Context(), path, gflags, addr, cors, noCache)
		},
	}

	gflags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8050)")
	cmd.Flags().StringSliceVar(&cors, "cors", nil, "allowed CORS origins")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching of rendered images")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, gflags graphFlags, addr string, cors []string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	g, err := c.loadGraph(ctx, path, gflags)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d nodes and %d relations", g.NodeCount(), g.RelationCount()))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if addr == "" {
		addr = cfg.Server.Addr
	}
	if len(cors) == 0 {
		cors = cfg.Server.CORSOrigins
	}

	srv := server.New(g, runner, loggerFromContext(ctx), server.Options{
		Addr:        addr,
		CORSOrigins: cors,
		Params:      cfg.Style.Params(),
		Layout:      cfg.Style.Layout,
	})
	err = srv.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
