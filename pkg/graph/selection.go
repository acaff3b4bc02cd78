package graph

import (
	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
)

// Selection is the node a user tapped together with its incident relations.
// A nil *Selection means no node is selected.
//
// Relations must contain every relation where Node is the source or the
// target; their order is preserved by everything that consumes a Selection.
type Selection struct {
	Node      string     `json:"node"`
	Relations []Relation `json:"relations"`
}

// Validate checks the selection contract. Every failure is an
// INVALID_SELECTION error because it indicates a defect in whatever produced
// the selection, not a recoverable condition.
func (s *Selection) Validate() error {
	if s == nil {
		return nil
	}
	if s.Node == "" {
		return fgerrors.New(fgerrors.ErrCodeInvalidSelection, "selection has no node id")
	}
	if err := fgerrors.ValidateNodeID(s.Node); err != nil {
		return fgerrors.Wrap(fgerrors.ErrCodeInvalidSelection, err, "selected node")
	}
	for i, r := range s.Relations {
		switch {
		case r.ID == "":
			return fgerrors.New(fgerrors.ErrCodeInvalidSelection, "relation %d has no id", i)
		case r.Source == "":
			return fgerrors.New(fgerrors.ErrCodeInvalidSelection, "relation %q has no source", r.ID)
		case r.Target == "":
			return fgerrors.New(fgerrors.ErrCodeInvalidSelection, "relation %q has no target", r.ID)
		case !r.Touches(s.Node):
			return fgerrors.New(fgerrors.ErrCodeInvalidSelection,
				"relation %q (%s -> %s) does not touch selected node %q", r.ID, r.Source, r.Target, s.Node)
		}
		if err := fgerrors.ValidateRelationID(r.ID); err != nil {
			return fgerrors.Wrap(fgerrors.ErrCodeInvalidSelection, err, "relation %d", i)
		}
		other := r.Source
		if other == s.Node {
			other = r.Target
		}
		if err := fgerrors.ValidateNodeID(other); err != nil {
			return fgerrors.Wrap(fgerrors.ErrCodeInvalidSelection, err, "relation %q endpoint", r.ID)
		}
	}
	return nil
}

// Outgoing returns the relations where the selected node is the source.
func (s *Selection) Outgoing() []Relation {
	if s == nil {
		return nil
	}
	var out []Relation
	for _, r := range s.Relations {
		if r.Source == s.Node {
			out = append(out, r)
		}
	}
	return out
}

// Incoming returns the relations where the selected node is the target.
func (s *Selection) Incoming() []Relation {
	if s == nil {
		return nil
	}
	var out []Relation
	for _, r := range s.Relations {
		if r.Target == s.Node {
			out = append(out, r)
		}
	}
	return out
}
