package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/style"
)

func testServer(t *testing.T, opts Options) *Server {
	t.Helper()
	b := graph.NewBuilder()
	for _, r := range []graph.Relation{
		{ID: "e0", Source: "a", Target: "b"},
		{ID: "e1", Source: "c", Target: "a"},
		{ID: "e2", Source: "b", Target: "c"},
	} {
		if err := b.AddRelation(r); err != nil {
			t.Fatal(err)
		}
	}
	return New(b.Build(), nil, log.New(io.Discard), opts)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type stylesheetBody struct {
	Stylesheet []json.RawMessage `json:"stylesheet"`
	Layout     struct {
		Name string `json:"name"`
	} `json:"layout"`
	Node string `json:"node"`
}

type errBody struct {
	Error string        `json:"error"`
	Code  fgerrors.Code `json:"code"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[struct {
		Status string      `json:"status"`
		Graph  graph.Stats `json:"graph"`
	}](t, rec)
	if body.Status != "ok" || body.Graph.Nodes != 3 || body.Graph.Relations != 3 {
		t.Errorf("health = %+v", body)
	}
}

func TestElements(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/api/elements", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	elems := decode[[]json.RawMessage](t, rec)
	if len(elems) != 6 {
		t.Errorf("got %d elements, want 6", len(elems))
	}
}

func TestOptions(t *testing.T) {
	h := testServer(t, Options{Layout: "circle"}).Handler()
	body := decode[controlOptions](t, do(t, h, http.MethodGet, "/api/options", ""))
	if body.Layout != "circle" {
		t.Errorf("layout = %q", body.Layout)
	}
	if body.Defaults != style.DefaultParams() {
		t.Errorf("defaults = %+v", body.Defaults)
	}
	if len(body.NodeShapes) != len(style.NodeShapes) || len(body.ArrowShapes) != len(style.ArrowShapes) {
		t.Errorf("shapes = %v / %v", body.NodeShapes, body.ArrowShapes)
	}
}

func TestLayout(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	tests := []struct {
		target string
		want   string
	}{
		{"/api/layout", "grid"},
		{"/api/layout?name=cose", "cose"},
		{"/api/layout?name=spiral", "spiral"},
	}
	for _, tt := range tests {
		body := decode[struct {
			Name string `json:"name"`
		}](t, do(t, h, http.MethodGet, tt.target, ""))
		if body.Name != tt.want {
			t.Errorf("%s: name = %q, want %q", tt.target, body.Name, tt.want)
		}
	}
}

func TestDefaultStylesheet(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	rules := decode[[]json.RawMessage](t, do(t, h, http.MethodGet, "/api/stylesheet", ""))
	if len(rules) != len(style.Default()) {
		t.Errorf("got %d rules, want %d", len(rules), len(style.Default()))
	}
}

func TestStylesheetByNode(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/api/stylesheet", `{"node":"a","layout":"circle"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := decode[stylesheetBody](t, rec)
	// a follows b and is followed by c.
	if len(body.Stylesheet) != 7 {
		t.Errorf("got %d rules, want 7", len(body.Stylesheet))
	}
	if body.Layout.Name != "circle" || body.Node != "a" {
		t.Errorf("layout = %q node = %q", body.Layout.Name, body.Node)
	}
}

func TestStylesheetNoSelection(t *testing.T) {
	h := testServer(t, Options{Layout: "random"}).Handler()
	body := decode[stylesheetBody](t, do(t, h, http.MethodPost, "/api/stylesheet", `{}`))
	if len(body.Stylesheet) != len(style.Default()) {
		t.Errorf("got %d rules", len(body.Stylesheet))
	}
	if body.Layout.Name != "random" {
		t.Errorf("layout = %q, want server default", body.Layout.Name)
	}
}

func TestStylesheetTap(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	tap := `{"tapNode":{"data":{"id":"b"},"edgesData":[{"id":"e0","source":"a","target":"b"}]},"node":"a"}`
	rec := do(t, h, http.MethodPost, "/api/stylesheet", tap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := decode[stylesheetBody](t, rec)
	if body.Node != "b" {
		t.Errorf("node = %q, want tap to win", body.Node)
	}
	if len(body.Stylesheet) != 5 {
		t.Errorf("got %d rules, want 5", len(body.Stylesheet))
	}
}

func TestStylesheetErrors(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	tests := []struct {
		name   string
		body   string
		status int
		code   fgerrors.Code
	}{
		{"unknown node", `{"node":"zzz"}`, http.StatusNotFound, fgerrors.ErrCodeNodeNotFound},
		{"bad json", `{"node":`, http.StatusBadRequest, fgerrors.ErrCodeInvalidInput},
		{
			"edge not incident",
			`{"tapNode":{"data":{"id":"a"},"edgesData":[{"id":"e2","source":"b","target":"c"}]}}`,
			http.StatusBadRequest, fgerrors.ErrCodeInvalidSelection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/stylesheet", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decode[errBody](t, rec); body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestDrag(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/api/debug/drag",
		`{"grabNodeData":{"id":"a","x":1},"dragNodeData":{"x":2}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	var merged map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &merged); err != nil {
		t.Fatal(err)
	}
	if merged["id"] != "a" || merged["x"] != float64(1) {
		t.Errorf("merged = %v", merged)
	}

	rec = do(t, h, http.MethodPost, "/api/debug/drag", `{"grabNodeData":{"id":"a"}}`)
	if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
		t.Errorf("half-empty drag = %q, want {}", got)
	}
}

func TestRenderDOT(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/api/render?node=a&format=dot&layout=circle&labels=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	out := rec.Body.String()
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("not a DOT document: %q", out)
	}
	if !strings.Contains(out, `"a"`) {
		t.Errorf("node a missing from DOT output")
	}
}

func TestRenderErrors(t *testing.T) {
	h := testServer(t, Options{}).Handler()
	tests := []struct {
		target string
		status int
	}{
		{"/api/render?format=gif", http.StatusBadRequest},
		{"/api/render?labels=maybe", http.StatusBadRequest},
		{"/api/render?node=zzz&format=dot", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := do(t, h, http.MethodGet, tt.target, ""); rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.target, rec.Code, tt.status)
		}
	}
}

func TestRequestID(t *testing.T) {
	h := testServer(t, Options{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want client value", got)
	}

	rec = do(t, h, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get(RequestIDHeader); got == "" {
		t.Error("no request id generated")
	}
}

func TestRecoverPanics(t *testing.T) {
	var buf bytes.Buffer
	s := New(testServer(t, Options{}).graph, nil, log.New(&buf), Options{})
	mux := s.Handler().(*chi.Mux)
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := do(t, mux, http.MethodGet, "/boom", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic not logged: %q", buf.String())
	}

	// The server keeps serving after a panic.
	if rec := do(t, mux, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz after panic = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := testServer(t, Options{CORSOrigins: []string{"http://app.test"}}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/stylesheet", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code >= 300 {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}
}

func TestCheckOrigin(t *testing.T) {
	s := testServer(t, Options{CORSOrigins: []string{"http://app.test"}})
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://app.test", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1:8050", true},
		{"http://example.com", true},
		{"http://evil.test", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := s.checkOrigin(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestSocket(t *testing.T) {
	ts := httptest.NewServer(testServer(t, Options{}).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	type reply struct {
		Seq        int64             `json:"seq"`
		Stylesheet []json.RawMessage `json:"stylesheet"`
		Node       string            `json:"node"`
		Code       fgerrors.Code     `json:"code"`
	}

	requests := []string{
		`{"seq":1,"node":"a"}`,
		`{"seq":2,"node":"zzz"}`,
		`{"seq":3}`,
		`not json`,
	}
	for _, msg := range requests {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
	}

	var got []reply
	for range requests {
		var r reply
		if err := conn.ReadJSON(&r); err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, r)
	}

	if got[0].Seq != 1 || got[0].Node != "a" || len(got[0].Stylesheet) != 7 {
		t.Errorf("reply 1 = %+v", got[0])
	}
	if got[1].Seq != 2 || got[1].Code != fgerrors.ErrCodeNodeNotFound {
		t.Errorf("reply 2 = %+v", got[1])
	}
	if got[2].Seq != 3 || len(got[2].Stylesheet) != len(style.Default()) {
		t.Errorf("reply 3 = %+v", got[2])
	}
	if got[3].Code != fgerrors.ErrCodeInvalidFormat {
		t.Errorf("reply 4 = %+v", got[3])
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code fgerrors.Code
		want int
	}{
		{fgerrors.ErrCodeInvalidSelection, http.StatusBadRequest},
		{fgerrors.ErrCodeNodeNotFound, http.StatusNotFound},
		{fgerrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{fgerrors.ErrCodeNetwork, http.StatusBadGateway},
		{fgerrors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
