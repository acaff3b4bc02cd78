package style

import (
	"encoding/json"
	"fmt"
	"regexp"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
)

// Group is the element group a selector addresses.
type Group string

// Element groups.
const (
	GroupNode Group = "node"
	GroupEdge Group = "edge"
)

// Selector addresses either every element of a group or a single element by id.
type Selector struct {
	Group Group
	ID    string // empty selects the whole group
}

// AllNodes selects every node.
func AllNodes() Selector { return Selector{Group: GroupNode} }

// AllEdges selects every edge.
func AllEdges() Selector { return Selector{Group: GroupEdge} }

// NodeID selects the node with the given id.
func NodeID(id string) Selector { return Selector{Group: GroupNode, ID: id} }

// EdgeID selects the edge with the given id.
func EdgeID(id string) Selector { return Selector{Group: GroupEdge, ID: id} }

// String renders the selector in Cytoscape syntax, e.g. node[id = "42"].
func (s Selector) String() string {
	if s.ID == "" {
		return string(s.Group)
	}
	return fmt.Sprintf("%s[id = %q]", s.Group, s.ID)
}

// Element identifies one graph element for cascade resolution.
type Element struct {
	Group Group
	ID    string
}

// Matches reports whether the selector applies to el.
func (s Selector) Matches(el Element) bool {
	if s.Group != el.Group {
		return false
	}
	return s.ID == "" || s.ID == el.ID
}

var selectorRe = regexp.MustCompile(`^(node|edge)(?:\[\s*id\s*=\s*"([^"\\]*)"\s*\])?$`)

// ParseSelector parses the subset of Cytoscape selector syntax followgraph
// emits: "node", "edge", and node[id = "x"] / edge[id="x"] with any spacing.
func ParseSelector(s string) (Selector, error) {
	m := selectorRe.FindStringSubmatch(s)
	if m == nil {
		return Selector{}, fgerrors.New(fgerrors.ErrCodeInvalidInput, "unsupported selector %q", s)
	}
	return Selector{Group: Group(m[1]), ID: m[2]}, nil
}

// MarshalJSON encodes the selector as its Cytoscape string.
func (s Selector) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a Cytoscape selector string.
func (s *Selector) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSelector(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
