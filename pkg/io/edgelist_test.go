package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
)

func nodeIDs(g *graph.Graph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestReadEdgeList(t *testing.T) {
	in := "3 1\n1 2\n\n2 3\n3 1\n"
	g, rep, err := ReadEdgeList(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}

	if got, want := strings.Join(nodeIDs(g), ","), "3,1,2"; got != want {
		t.Errorf("nodes = %s, want %s", got, want)
	}
	if rep.Records != 4 {
		t.Errorf("Records = %d, want 4", rep.Records)
	}
	rels := g.Relations()
	if len(rels) != 4 {
		t.Fatalf("relations = %d, want 4", len(rels))
	}
	for i, want := range []graph.Relation{
		{ID: "e0", Source: "3", Target: "1"},
		{ID: "e1", Source: "1", Target: "2"},
		{ID: "e2", Source: "2", Target: "3"},
		{ID: "e3", Source: "3", Target: "1"},
	} {
		if rels[i] != want {
			t.Errorf("relation %d = %+v, want %+v", i, rels[i], want)
		}
	}
}

func TestReadEdgeListLabels(t *testing.T) {
	g, _, err := ReadEdgeList(strings.NewReader("214328887 42\n"), Options{})
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	tests := map[string]string{
		"214328887": "User #28887",
		"42":        "User #42",
	}
	for id, want := range tests {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Label != want {
			t.Errorf("Label(%s) = %q, want %q", id, n.Label, want)
		}
	}
}

func TestReadEdgeListLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 800; i++ {
		b.WriteString("a b\n")
	}

	tests := []struct {
		name      string
		limit     int
		want      int
		truncated bool
	}{
		{"default", 0, DefaultLimit, true},
		{"explicit", 10, 10, true},
		{"unlimited", -1, 800, false},
		{"above input", 1000, 800, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rep, err := ReadEdgeList(strings.NewReader(b.String()), Options{Limit: tt.limit})
			if err != nil {
				t.Fatalf("ReadEdgeList: %v", err)
			}
			if g.RelationCount() != tt.want {
				t.Errorf("RelationCount = %d, want %d", g.RelationCount(), tt.want)
			}
			if rep.Truncated != tt.truncated {
				t.Errorf("Truncated = %v, want %v", rep.Truncated, tt.truncated)
			}
			if g.NodeCount() != 2 {
				t.Errorf("NodeCount = %d, want 2", g.NodeCount())
			}
		})
	}
}

func TestReadEdgeListLimitIgnoresSkipped(t *testing.T) {
	in := "bad\n1 2\n\n2 3\n3 4\n"
	g, rep, err := ReadEdgeList(strings.NewReader(in), Options{Limit: 2})
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if g.RelationCount() != 2 {
		t.Errorf("RelationCount = %d, want 2", g.RelationCount())
	}
	if len(rep.Skipped) != 1 || rep.Skipped[0].Line != 1 {
		t.Errorf("Skipped = %+v, want line 1", rep.Skipped)
	}
}

func TestReadEdgeListMalformed(t *testing.T) {
	lines := []string{
		"1",
		"1 2 3",
		"1  2",
		"1\t2",
		` "x" 2`,
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			in := "1 2\n" + line + "\n2 3\n"

			g, rep, err := ReadEdgeList(strings.NewReader(in), Options{})
			if err != nil {
				t.Fatalf("lenient: %v", err)
			}
			if g.RelationCount() != 2 {
				t.Errorf("RelationCount = %d, want 2", g.RelationCount())
			}
			if len(rep.Skipped) != 1 {
				t.Fatalf("Skipped = %d, want 1", len(rep.Skipped))
			}
			if rep.Skipped[0].Line != 2 {
				t.Errorf("Skipped line = %d, want 2", rep.Skipped[0].Line)
			}

			_, _, err = ReadEdgeList(strings.NewReader(in), Options{Strict: true})
			if !fgerrors.Is(err, fgerrors.ErrCodeInvalidRecord) {
				t.Fatalf("strict error = %v, want INVALID_RECORD", err)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q does not name line 2", err)
			}
		})
	}
}

func TestReadEdgeListWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"only blank lines", "\n\n  \n", 0},
		{"no trailing newline", "1 2\n2 3", 2},
		{"crlf", "1 2\r\n2 3\r\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rep, err := ReadEdgeList(strings.NewReader(tt.in), Options{Strict: true})
			if err != nil {
				t.Fatalf("ReadEdgeList: %v", err)
			}
			if g.RelationCount() != tt.want {
				t.Errorf("RelationCount = %d, want %d", g.RelationCount(), tt.want)
			}
			if len(rep.Skipped) != 0 {
				t.Errorf("Skipped = %v, want none", rep.Skipped)
			}
		})
	}
}

func TestReadEdgeListSelfLoop(t *testing.T) {
	g, _, err := ReadEdgeList(strings.NewReader("7 7\n"), Options{})
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if g.NodeCount() != 1 || g.RelationCount() != 1 {
		t.Errorf("got %d nodes %d relations, want 1 and 1", g.NodeCount(), g.RelationCount())
	}
	if got := g.Stats().SelfLoops; got != 1 {
		t.Errorf("SelfLoops = %d, want 1", got)
	}
}

func TestImportEdgeList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "follows.txt")
	if err := os.WriteFile(path, []byte("1 2\n2 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g, _, err := ImportEdgeList(path, Options{})
	if err != nil {
		t.Fatalf("ImportEdgeList: %v", err)
	}
	if g.RelationCount() != 2 {
		t.Errorf("RelationCount = %d, want 2", g.RelationCount())
	}

	_, _, err = ImportEdgeList(filepath.Join(dir, "missing.txt"), Options{})
	if !fgerrors.Is(err, fgerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}
