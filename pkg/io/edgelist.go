package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
)

// DefaultLimit is the number of records kept when Options.Limit is zero.
const DefaultLimit = 750

// Options configures edge-list loading.
type Options struct {
	// Limit is the maximum number of records to keep. Zero means
	// DefaultLimit; a negative value keeps every record.
	Limit int
	// Strict aborts on the first malformed line instead of skipping it.
	Strict bool
}

func (o Options) limit() int {
	if o.Limit == 0 {
		return DefaultLimit
	}
	return o.Limit
}

// LineError describes a skipped input line.
type LineError struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Report summarizes an edge-list load.
type Report struct {
	Records   int         `json:"records"`   // accepted records
	Skipped   []LineError `json:"skipped"`   // malformed lines (non-strict mode)
	Truncated bool        `json:"truncated"` // input had more records than the limit
}

// ReadEdgeList parses an edge list from r and builds a graph.
func ReadEdgeList(r io.Reader, opts Options) (*graph.Graph, *Report, error) {
	limit := opts.limit()
	b := graph.NewBuilder()
	rep := &Report{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if limit >= 0 && rep.Records >= limit {
			rep.Truncated = true
			break
		}

		source, target, err := parseRecord(text)
		if err == nil {
			id := fmt.Sprintf("e%d", rep.Records)
			err = b.AddRelation(graph.Relation{ID: id, Source: source, Target: target})
		}
		if err != nil {
			le := LineError{Line: line, Text: text, Reason: fgerrors.UserMessage(err)}
			if opts.Strict {
				return nil, nil, fgerrors.Wrap(fgerrors.ErrCodeInvalidRecord, le, "malformed edge list")
			}
			rep.Skipped = append(rep.Skipped, le)
			continue
		}
		rep.Records++
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read edge list: %w", err)
	}
	return b.Build(), rep, nil
}

// parseRecord splits "source target" into its two tokens.
func parseRecord(text string) (string, string, error) {
	parts := strings.Split(text, " ")
	if len(parts) != 2 {
		return "", "", fgerrors.New(fgerrors.ErrCodeInvalidRecord, "expected 2 space-separated tokens, got %d", len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", fgerrors.New(fgerrors.ErrCodeInvalidRecord, "empty token")
	}
	for _, id := range parts {
		if err := fgerrors.ValidateNodeID(id); err != nil {
			return "", "", err
		}
	}
	return parts[0], parts[1], nil
}

// ImportEdgeList reads an edge-list file at path.
func ImportEdgeList(path string, opts Options) (*graph.Graph, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fgerrors.Wrap(fgerrors.ErrCodeFileNotFound, err, "edge list %s", path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdgeList(f, opts)
}
