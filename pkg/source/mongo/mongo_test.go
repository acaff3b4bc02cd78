package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
)

func TestOpenRejectsBadURI(t *testing.T) {
	tests := []string{"", "http://localhost:27017", "localhost:27017"}
	for _, uri := range tests {
		_, err := Open(context.Background(), Config{URI: uri})
		if !fgerrors.Is(err, fgerrors.ErrCodeInvalidInput) {
			t.Errorf("Open(%q) error = %v, want INVALID_INPUT", uri, err)
		}
	}
}

func TestAddFollow(t *testing.T) {
	b := graph.NewBuilder()
	docs := []follow{
		{Source: "1", Target: "2"},
		{Source: "", Target: "2"},
		{Source: "2", Target: "bad\"id"},
		{Source: "2", Target: "1"},
	}
	n := 0
	skipped := 0
	for _, d := range docs {
		if addFollow(b, n, d) {
			n++
		} else {
			skipped++
		}
	}
	g := b.Build()

	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	rels := g.Relations()
	if len(rels) != 2 {
		t.Fatalf("relations = %d, want 2", len(rels))
	}
	if rels[1] != (graph.Relation{ID: "e1", Source: "2", Target: "1"}) {
		t.Errorf("second relation = %+v", rels[1])
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
}

func TestNetworkCode(t *testing.T) {
	tests := []struct {
		err  error
		want fgerrors.Code
	}{
		{context.DeadlineExceeded, fgerrors.ErrCodeTimeout},
		{fmt.Errorf("server selection: %w", context.DeadlineExceeded), fgerrors.ErrCodeTimeout},
		{errors.New("connection refused"), fgerrors.ErrCodeNetwork},
	}
	for _, tt := range tests {
		if got := networkCode(tt.err); got != tt.want {
			t.Errorf("networkCode(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
