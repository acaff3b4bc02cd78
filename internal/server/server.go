// Package server serves a follow graph and its highlight stylesheets to a
// Cytoscape front end.
//
// The server holds one read-only graph. Every request that depends on the
// selection carries the selection (or its node id) explicitly; no
// interaction state is kept between requests. The /ws endpoint accepts the
// same stylesheet requests as POST /api/stylesheet over a WebSocket and
// answers them in the order they arrive.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/layout"
	"github.com/matzehuels/followgraph/pkg/pipeline"
	"github.com/matzehuels/followgraph/pkg/style"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxBodySize       = 1 << 20
)

// Options configures a Server.
type Options struct {
	Addr        string
	CORSOrigins []string
	// Params and Layout are the control panel defaults.
	Params style.Params
	Layout string
}

// Server is the followgraph HTTP server.
type Server struct {
	graph     *graph.Graph
	graphHash string
	runner    *pipeline.Runner
	logger    *log.Logger
	opts      Options
}

// New returns a server for g. Rendering goes through runner.
func New(g *graph.Graph, runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	opts.Params = opts.Params.WithDefaults(style.DefaultParams())
	if opts.Layout == "" {
		opts.Layout = layout.Default
	}
	// An empty hash makes the runner retry per request and report the error.
	hash, err := pipeline.GraphHash(g)
	if err != nil {
		logger.Warn("graph hash unavailable", "err", err)
	}
	return &Server{
		graph:     g,
		graphHash: hash,
		runner:    runner,
		logger:    logger,
		opts:      opts,
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(echoRequestID)
	r.Use(middleware.RequestLogger(requestLogger{logger: s.logger}))
	r.Use(middleware.Recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(corsHandler(s.opts.CORSOrigins))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleSocket)
	r.Route("/api", func(r chi.Router) {
		r.Get("/elements", s.handleElements)
		r.Get("/options", s.handleOptions)
		r.Get("/layout", s.handleLayout)
		r.Get("/stylesheet", s.handleDefaultStylesheet)
		r.Post("/stylesheet", s.handleStylesheet)
		r.Post("/debug/drag", s.handleDrag)
		r.Get("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr,
			"nodes", s.graph.NodeCount(), "relations", s.graph.RelationCount())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
