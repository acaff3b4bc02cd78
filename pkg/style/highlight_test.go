package style

import (
	"reflect"
	"testing"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/graph"
)

var testParams = Params{
	FollowerColor:  "#0074D9",
	FollowingColor: "#FF4136",
	EdgeArrowShape: "vee",
	NodeShape:      "star",
}

func scenarioSelection() *graph.Selection {
	return &graph.Selection{
		Node: "42",
		Relations: []graph.Relation{
			{ID: "e1", Source: "42", Target: "7"},
			{ID: "e2", Source: "9", Target: "42"},
		},
	}
}

func TestGenerateNoSelection(t *testing.T) {
	for _, p := range []Params{{}, DefaultParams(), testParams} {
		got, err := Generate(nil, p)
		if err != nil {
			t.Fatalf("Generate(nil) error: %v", err)
		}
		if !reflect.DeepEqual(got, Default()) {
			t.Errorf("Generate(nil, %+v) = %v, want Default()", p, got)
		}
	}
}

func TestGenerateScenario(t *testing.T) {
	ss, err := Generate(scenarioSelection(), testParams)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ss) != 7 {
		t.Fatalf("len = %d, want 7", len(ss))
	}

	wantSelectors := []string{
		"node",
		"edge",
		`node[id = "42"]`,
		`node[id = "7"]`,
		`edge[id = "e1"]`,
		`node[id = "9"]`,
		`edge[id = "e2"]`,
	}
	for i, want := range wantSelectors {
		if got := ss[i].Selector.String(); got != want {
			t.Errorf("rule %d selector = %s, want %s", i, got, want)
		}
	}

	checks := []struct {
		rule int
		want Declarations
	}{
		{0, Declarations{Opacity: Num(0.3), Shape: Str("star")}},
		{1, Declarations{Opacity: Num(0.2), MidTargetArrowShape: Str("vee"), CurveStyle: Str("bezier")}},
		{3, Declarations{BackgroundColor: Str("#FF4136"), Opacity: Num(0.9)}},
		{4, Declarations{
			MidTargetArrowColor: Str("#FF4136"),
			MidTargetArrowShape: Str("vee"),
			LineColor:           Str("#FF4136"),
			Opacity:             Num(0.9),
			ZIndex:              Num(5000),
		}},
		{5, Declarations{BackgroundColor: Str("#0074D9"), Opacity: Num(0.9), ZIndex: Num(9999)}},
		{6, Declarations{
			MidTargetArrowColor: Str("#0074D9"),
			MidTargetArrowShape: Str("vee"),
			LineColor:           Str("#0074D9"),
			Opacity:             Num(1),
			ZIndex:              Num(5000),
		}},
	}
	for _, c := range checks {
		if !reflect.DeepEqual(ss[c.rule].Style, c.want) {
			t.Errorf("rule %d style = %v, want %v", c.rule, ss[c.rule].Style, c.want)
		}
	}

	self := ss[2].Style
	if self[BackgroundColor] != Str(AccentColor) || self[Opacity] != Num(1) ||
		self[Label] != Str("data(label)") || self[ZIndex] != Num(9999) {
		t.Errorf("selected node style = %v", self)
	}
}

func TestGenerateSelfLoop(t *testing.T) {
	sel := &graph.Selection{
		Node:      "42",
		Relations: []graph.Relation{{ID: "e3", Source: "42", Target: "42"}},
	}
	ss, err := Generate(sel, testParams)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ss) != 7 {
		t.Fatalf("len = %d, want 7", len(ss))
	}

	want := []string{`node[id = "42"]`, `edge[id = "e3"]`, `node[id = "42"]`, `edge[id = "e3"]`}
	for i, w := range want {
		if got := ss[3+i].Selector.String(); got != w {
			t.Errorf("rule %d selector = %s, want %s", 3+i, got, w)
		}
	}
	if ss[3].Style[BackgroundColor] != Str(testParams.FollowingColor) {
		t.Error("outgoing pair should come first")
	}
	if ss[5].Style[BackgroundColor] != Str(testParams.FollowerColor) {
		t.Error("incoming pair should come second")
	}
}

func TestGenerateLengthLaw(t *testing.T) {
	tests := []struct {
		name    string
		k, m, s int
	}{
		{"isolated", 0, 0, 0},
		{"following only", 3, 0, 0},
		{"followers only", 0, 4, 0},
		{"mixed", 2, 5, 0},
		{"with self loops", 1, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := &graph.Selection{Node: "n"}
			id := 0
			add := func(src, dst string) {
				sel.Relations = append(sel.Relations, graph.Relation{ID: "e" + string(rune('a'+id)), Source: src, Target: dst})
				id++
			}
			for i := 0; i < tt.k; i++ {
				add("n", "out"+string(rune('0'+i)))
			}
			for i := 0; i < tt.m; i++ {
				add("in"+string(rune('0'+i)), "n")
			}
			for i := 0; i < tt.s; i++ {
				add("n", "n")
			}

			ss, err := Generate(sel, testParams)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			want := 3 + 2*(tt.k+tt.s) + 2*(tt.m+tt.s)
			if len(ss) != want {
				t.Errorf("len = %d, want %d", len(ss), want)
			}
			if got := RuleCount(sel); got != want {
				t.Errorf("RuleCount = %d, want %d", got, want)
			}
		})
	}
}

func TestGenerateIsPure(t *testing.T) {
	sel := scenarioSelection()
	a, err := Generate(sel, testParams)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(sel, testParams)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs should give identical stylesheets")
	}

	// Mutating one result must not leak into the next.
	a[0].Style[Opacity] = Num(0)
	c, _ := Generate(sel, testParams)
	if c[0].Style[Opacity] != Num(0.3) {
		t.Error("stylesheets must not share declaration maps")
	}
	if !reflect.DeepEqual(sel, scenarioSelection()) {
		t.Error("Generate must not modify the selection")
	}
}

func TestGeneratePreservesRelationOrder(t *testing.T) {
	sel := &graph.Selection{Node: "n", Relations: []graph.Relation{
		{ID: "r3", Source: "c", Target: "n"},
		{ID: "r1", Source: "n", Target: "a"},
		{ID: "r2", Source: "b", Target: "n"},
	}}
	ss, err := Generate(sel, testParams)
	if err != nil {
		t.Fatal(err)
	}

	var edges []string
	for _, r := range ss[3:] {
		if r.Selector.Group == GroupEdge {
			edges = append(edges, r.Selector.ID)
		}
	}
	want := []string{"r3", "r1", "r2"}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("edge rule order = %v, want %v", edges, want)
	}
}

func TestGenerateDuplicateNeighbourLastWins(t *testing.T) {
	sel := &graph.Selection{Node: "n", Relations: []graph.Relation{
		{ID: "r1", Source: "n", Target: "x"},
		{ID: "r2", Source: "x", Target: "n"},
	}}
	ss, err := Generate(sel, testParams)
	if err != nil {
		t.Fatal(err)
	}
	// The dimmed "node" rule plus one rule per relation; no deduplication.
	if got := len(ss.Matching(Element{Group: GroupNode, ID: "x"})); got != 3 {
		t.Errorf("rules matching x = %d, want 3", got)
	}
	resolved := Resolve(ss, Element{Group: GroupNode, ID: "x"})
	if resolved[BackgroundColor] != Str(testParams.FollowerColor) {
		t.Errorf("x background = %v, want follower color from the later relation", resolved[BackgroundColor])
	}
	if resolved[ZIndex] != Num(ZFollower) {
		t.Errorf("x z-index = %v", resolved[ZIndex])
	}
}

func TestGenerateContractViolation(t *testing.T) {
	tests := []struct {
		name string
		sel  *graph.Selection
	}{
		{"missing node", &graph.Selection{}},
		{"missing relation id", &graph.Selection{Node: "42", Relations: []graph.Relation{{Source: "42", Target: "7"}}}},
		{"relation elsewhere", &graph.Selection{Node: "42", Relations: []graph.Relation{{ID: "e", Source: "1", Target: "2"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss, err := Generate(tt.sel, testParams)
			if err == nil {
				t.Fatal("expected error")
			}
			if ss != nil {
				t.Error("no stylesheet should be returned on error")
			}
			if !fgerrors.Is(err, fgerrors.ErrCodeInvalidSelection) {
				t.Errorf("code = %v, want INVALID_SELECTION", fgerrors.GetCode(err))
			}
		})
	}
}

func TestGenerateNeighbourProperties(t *testing.T) {
	sel := &graph.Selection{Node: "n", Relations: []graph.Relation{
		{ID: "o1", Source: "n", Target: "a"},
		{ID: "i1", Source: "b", Target: "n"},
		{ID: "o2", Source: "n", Target: "c"},
	}}
	ss, err := Generate(sel, testParams)
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range sel.Outgoing() {
		rule := findRule(t, ss, NodeID(r.Target))
		if rule.Style[BackgroundColor] != Str(testParams.FollowingColor) || rule.Style[Opacity] != Num(0.9) {
			t.Errorf("following neighbour %s style = %v", r.Target, rule.Style)
		}
		if _, ok := rule.Style[ZIndex]; ok {
			t.Errorf("following neighbour %s should carry no z-index", r.Target)
		}
	}
	for _, r := range sel.Incoming() {
		rule := findRule(t, ss, NodeID(r.Source))
		if rule.Style[BackgroundColor] != Str(testParams.FollowerColor) ||
			rule.Style[Opacity] != Num(0.9) || rule.Style[ZIndex] != Num(9999) {
			t.Errorf("follower neighbour %s style = %v", r.Source, rule.Style)
		}
	}
}

func findRule(t *testing.T, ss Stylesheet, sel Selector) Rule {
	t.Helper()
	for _, r := range ss {
		if r.Selector == sel {
			return r
		}
	}
	t.Fatalf("no rule for %s", sel)
	return Rule{}
}
