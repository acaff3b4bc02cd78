package server

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/followgraph/pkg/buildinfo"
	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/events"
	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/layout"
	"github.com/matzehuels/followgraph/pkg/pipeline"
	"github.com/matzehuels/followgraph/pkg/style"
)

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"graph":  s.graph.Stats(),
	})
}

// GET /api/elements
func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, graph.Elements(s.graph))
}

// controlOptions describes the control panel.
type controlOptions struct {
	Layouts     []string     `json:"layouts"`
	NodeShapes  []string     `json:"nodeShapes"`
	ArrowShapes []string     `json:"arrowShapes"`
	Defaults    style.Params `json:"defaults"`
	Layout      string       `json:"layout"`
}

// GET /api/options
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, controlOptions{
		Layouts:     layout.Names,
		NodeShapes:  style.NodeShapes,
		ArrowShapes: style.ArrowShapes,
		Defaults:    s.opts.Params,
		Layout:      s.opts.Layout,
	})
}

// GET /api/layout?name=
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = s.opts.Layout
	}
	writeJSON(w, http.StatusOK, layout.Select(name))
}

// GET /api/stylesheet
func (s *Server) handleDefaultStylesheet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, style.Default())
}

// POST /api/stylesheet
func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	var req events.StylesheetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.stylesheet(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) stylesheet(req events.StylesheetRequest) (*events.StylesheetResponse, error) {
	if req.Layout == "" {
		req.Layout = s.opts.Layout
	}
	return events.Handle(s.graph, req, s.opts.Params)
}

// POST /api/debug/drag
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req events.DragRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	text, err := events.FormatDebug(events.MergeDrag(req.Grab, req.Drag))
	if err != nil {
		writeError(w, fgerrors.Wrap(fgerrors.ErrCodeInternal, err, "format drag data"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

// GET /api/render?node=&layout=&format=&follower_color=&following_color=&arrow_shape=&node_shape=&labels=
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Node:   q.Get("node"),
		Layout: q.Get("layout"),
		Params: style.Params{
			FollowerColor:  q.Get("follower_color"),
			FollowingColor: q.Get("following_color"),
			EdgeArrowShape: q.Get("arrow_shape"),
			NodeShape:      q.Get("node_shape"),
		}.WithDefaults(s.opts.Params),
		Formats:   []string{format},
		GraphHash: s.graphHash,
	}
	if opts.Layout == "" {
		opts.Layout = s.opts.Layout
	}
	if v := q.Get("labels"); v != "" {
		labels, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, fgerrors.New(fgerrors.ErrCodeInvalidInput, "labels must be a boolean, got %q", v))
			return
		}
		opts.Labels = labels
	}

	res, err := s.runner.Execute(r.Context(), s.graph, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	}
	_, _ = w.Write(res.Artifacts[format])
}
