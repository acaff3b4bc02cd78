package graph

import (
	"fmt"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
)

// labelPrefix and labelSuffixLen define how display labels derive from ids.
const (
	labelPrefix    = "User #"
	labelSuffixLen = 5
)

// Node is a user in the social graph.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
}

// Relation is a directed "follows" edge: Source follows Target.
type Relation struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// IsSelfLoop reports whether the relation starts and ends at the same node.
func (r Relation) IsSelfLoop() bool { return r.Source == r.Target }

// Touches reports whether id is either endpoint of the relation.
func (r Relation) Touches(id string) bool { return r.Source == id || r.Target == id }

// Label derives the display label for a node id: "User #" followed by the
// last five characters of the id (the whole id when it is shorter).
func Label(id string) string {
	runes := []rune(id)
	if len(runes) > labelSuffixLen {
		runes = runes[len(runes)-labelSuffixLen:]
	}
	return labelPrefix + string(runes)
}

// Graph is an immutable set of nodes and an ordered list of relations.
// The zero value is an empty graph; use [Builder] to construct populated graphs.
type Graph struct {
	nodes     []Node
	index     map[string]int
	relations []Relation
	incident  map[string][]int
}

// Stats summarizes graph size.
type Stats struct {
	Nodes     int `json:"nodes"`
	Relations int `json:"relations"`
	SelfLoops int `json:"self_loops"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns the nodes in first-seen order. The slice is a copy.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Relations returns the relations in insertion order. The slice is a copy.
func (g *Graph) Relations() []Relation {
	return append([]Relation(nil), g.relations...)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// RelationCount returns the number of relations.
func (g *Graph) RelationCount() int { return len(g.relations) }

// Incident returns every relation where id is the source or the target, in
// graph order. A self-loop appears once.
func (g *Graph) Incident(id string) []Relation {
	idx := g.incident[id]
	out := make([]Relation, len(idx))
	for i, j := range idx {
		out[i] = g.relations[j]
	}
	return out
}

// Followers returns the ids of nodes with a relation pointing at id.
func (g *Graph) Followers(id string) []string {
	var out []string
	for _, r := range g.Incident(id) {
		if r.Target == id {
			out = append(out, r.Source)
		}
	}
	return out
}

// Following returns the ids of nodes that id points at.
func (g *Graph) Following(id string) []string {
	var out []string
	for _, r := range g.Incident(id) {
		if r.Source == id {
			out = append(out, r.Target)
		}
	}
	return out
}

// Stats returns node, relation and self-loop counts.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes), Relations: len(g.relations)}
	for _, r := range g.relations {
		if r.IsSelfLoop() {
			s.SelfLoops++
		}
	}
	return s
}

// Select builds the selection for node id from the graph's own relations.
// Returns a NODE_NOT_FOUND error if the node does not exist.
func (g *Graph) Select(id string) (*Selection, error) {
	if _, ok := g.index[id]; !ok {
		return nil, fgerrors.New(fgerrors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	return &Selection{Node: id, Relations: g.Incident(id)}, nil
}

// Builder accumulates nodes and relations and produces a [Graph].
// Nodes are deduplicated by id; the first occurrence fixes the label.
// A Builder is not safe for concurrent use.
type Builder struct {
	g      *Graph
	relIDs map[string]struct{}
	built  bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		g: &Graph{
			index:    make(map[string]int),
			incident: make(map[string][]int),
		},
		relIDs: make(map[string]struct{}),
	}
}

// AddNode adds a node with a derived label unless it already exists.
// It reports whether the node was new.
func (b *Builder) AddNode(id string) (bool, error) {
	if err := fgerrors.ValidateNodeID(id); err != nil {
		return false, err
	}
	if _, ok := b.g.index[id]; ok {
		return false, nil
	}
	b.g.index[id] = len(b.g.nodes)
	b.g.nodes = append(b.g.nodes, Node{ID: id, Label: Label(id)})
	return true, nil
}

// AddRelation appends a relation, adding its endpoints as nodes when they
// are not yet known. Relation ids must be unique within the graph.
func (b *Builder) AddRelation(r Relation) error {
	if err := fgerrors.ValidateRelationID(r.ID); err != nil {
		return err
	}
	if _, dup := b.relIDs[r.ID]; dup {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "duplicate relation id %q", r.ID)
	}
	if _, err := b.AddNode(r.Source); err != nil {
		return fmt.Errorf("relation %s source: %w", r.ID, err)
	}
	if _, err := b.AddNode(r.Target); err != nil {
		return fmt.Errorf("relation %s target: %w", r.ID, err)
	}

	i := len(b.g.relations)
	b.relIDs[r.ID] = struct{}{}
	b.g.relations = append(b.g.relations, r)
	b.g.incident[r.Source] = append(b.g.incident[r.Source], i)
	if !r.IsSelfLoop() {
		b.g.incident[r.Target] = append(b.g.incident[r.Target], i)
	}
	return nil
}

// Build returns the finished graph. The builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	if b.built {
		panic("graph: Builder.Build called twice")
	}
	b.built = true
	return b.g
}
