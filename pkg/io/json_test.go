package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
)

func TestJSONRoundTrip(t *testing.T) {
	g, _, err := ReadEdgeList(strings.NewReader("1 2\n2 3\n3 3\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.NodeCount() != g.NodeCount() || got.RelationCount() != g.RelationCount() {
		t.Fatalf("round trip = %d/%d, want %d/%d",
			got.NodeCount(), got.RelationCount(), g.NodeCount(), g.RelationCount())
	}
	for i, r := range g.Relations() {
		if got.Relations()[i] != r {
			t.Errorf("relation %d = %+v, want %+v", i, got.Relations()[i], r)
		}
	}
	for i, n := range g.Nodes() {
		if got.Nodes()[i] != n {
			t.Errorf("node %d = %+v, want %+v", i, got.Nodes()[i], n)
		}
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	g, _, _ := ReadEdgeList(strings.NewReader(""), Options{})
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"nodes\": [],\n  \"edges\": []\n}\n"
	if buf.String() != want {
		t.Errorf("WriteJSON = %q, want %q", buf.String(), want)
	}
}

func TestReadJSONRederivesLabels(t *testing.T) {
	in := `{"nodes":[{"id":"123456","label":"someone"}],"edges":[{"id":"x","source":"123456","target":"9"}]}`
	g, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	n, _ := g.Node("123456")
	if n.Label != "User #23456" {
		t.Errorf("Label = %q, want %q", n.Label, "User #23456")
	}
	if _, ok := g.Node("9"); !ok {
		t.Error("edge endpoint 9 not added")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code fgerrors.Code
	}{
		{"syntax", `{"nodes":`, fgerrors.ErrCodeInvalidFormat},
		{"duplicate edge", `{"edges":[{"id":"e","source":"1","target":"2"},{"id":"e","source":"2","target":"1"}]}`, fgerrors.ErrCodeInvalidInput},
		{"empty node id", `{"nodes":[{"id":""}]}`, fgerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !fgerrors.Is(err, tt.code) {
				t.Errorf("ReadJSON error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	g, _, _ := ReadEdgeList(strings.NewReader("1 2\n"), Options{})

	jsonPath := filepath.Join(dir, "graph.json")
	if err := ExportJSON(g, jsonPath); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	edgePath := filepath.Join(dir, "graph.txt")
	if err := os.WriteFile(edgePath, []byte("1 2\n2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, rep, err := Import(jsonPath, Options{})
	if err != nil {
		t.Fatalf("Import json: %v", err)
	}
	if rep != nil || got.RelationCount() != 1 {
		t.Errorf("Import json = %d relations, report %v", got.RelationCount(), rep)
	}

	got, rep, err = Import(edgePath, Options{})
	if err != nil {
		t.Fatalf("Import edge list: %v", err)
	}
	if rep == nil || got.RelationCount() != 2 {
		t.Errorf("Import edge list = %d relations, report %v", got.RelationCount(), rep)
	}
}
