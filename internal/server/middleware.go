package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/followgraph/pkg/observability"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// echoRequestID returns the id assigned by middleware.RequestID to the client.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger feeds chi's request logger into charmbracelet/log and the
// server hooks. middleware.Recoverer reports panics through the same entry.
type requestLogger struct {
	logger *log.Logger
}

func (l requestLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &logEntry{logger: l.logger, r: r}
}

type logEntry struct {
	logger *log.Logger
	r      *http.Request
}

// route is the matched chi pattern, or the raw path when nothing matched.
func (e *logEntry) route() string {
	if rctx := chi.RouteContext(e.r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return e.r.URL.Path
}

func (e *logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	observability.Server().OnRequest(e.r.Context(), e.r.Method, e.route(), status, elapsed)
	e.logger.Debug("request",
		"id", middleware.GetReqID(e.r.Context()),
		"method", e.r.Method,
		"path", e.r.URL.Path,
		"status", status,
		"bytes", bytes,
		"duration", elapsed.Round(time.Millisecond),
	)
}

func (e *logEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error("panic recovered",
		"id", middleware.GetReqID(e.r.Context()),
		"error", fmt.Sprintf("%v", v),
		"path", e.r.URL.Path,
		"stack", string(stack),
	)
}

// corsHandler allows the listed origins; "*" allows any.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		allowed = append(allowed, strings.TrimSuffix(o, "/"))
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400,
	})
}

// checkOrigin admits WebSocket upgrades from the CORS origins, from
// localhost, and from clients that send no Origin header.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.opts.CORSOrigins {
		if o == "*" || strings.TrimSuffix(o, "/") == origin {
			return true
		}
	}
	hostport := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	if hostport == r.Host {
		return true
	}
	host, _, _ := strings.Cut(hostport, ":")
	return host == "localhost" || host == "127.0.0.1"
}
