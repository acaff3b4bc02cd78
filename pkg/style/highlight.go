package style

import (
	"github.com/matzehuels/followgraph/pkg/graph"
)

// Accent styling for the selected node.
const (
	AccentColor  = "#B10DC9"
	AccentBorder = "purple"
)

// Stack orders. Follower neighbours share the selected node's order while
// following neighbours carry none, matching the established rendering.
const (
	ZSelected = 9999
	ZFollower = 9999
	ZRelation = 5000
)

const (
	dimNodeOpacity       = 0.3
	dimEdgeOpacity       = 0.2
	neighbourOpacity     = 0.9
	followingEdgeOpacity = 0.9
	followerEdgeOpacity  = 1.0
)

// Generate returns the stylesheet highlighting sel with the colors and
// shapes in p. A nil selection yields [Default]. A selection that breaks its
// contract yields an INVALID_SELECTION error and no stylesheet.
func Generate(sel *graph.Selection, p Params) (Stylesheet, error) {
	if sel == nil {
		return Default(), nil
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	ss := make(Stylesheet, 0, 3+2*len(sel.Relations))
	ss = append(ss, background(p)...)
	ss = append(ss, selected(sel.Node))
	for _, r := range sel.Relations {
		if r.Source == sel.Node {
			ss = append(ss, following(r, p)...)
		}
		if r.Target == sel.Node {
			ss = append(ss, follower(r, p)...)
		}
	}
	return ss, nil
}

// RuleCount returns the number of rules Generate emits for sel.
func RuleCount(sel *graph.Selection) int {
	if sel == nil {
		return len(Default())
	}
	n := 3
	for _, r := range sel.Relations {
		if r.Source == sel.Node {
			n += 2
		}
		if r.Target == sel.Node {
			n += 2
		}
	}
	return n
}

func background(p Params) []Rule {
	return []Rule{
		{
			Selector: AllNodes(),
			Style: Declarations{
				Opacity: Num(dimNodeOpacity),
				Shape:   Str(p.NodeShape),
			},
		},
		{
			Selector: AllEdges(),
			Style: Declarations{
				Opacity:             Num(dimEdgeOpacity),
				MidTargetArrowShape: Str(p.EdgeArrowShape),
				CurveStyle:          Str(curveBezier),
			},
		},
	}
}

func selected(id string) Rule {
	return Rule{
		Selector: NodeID(id),
		Style: Declarations{
			BackgroundColor: Str(AccentColor),
			BorderColor:     Str(AccentBorder),
			BorderWidth:     Num(2),
			BorderOpacity:   Num(1),
			Opacity:         Num(1),
			Label:           Str("data(label)"),
			Color:           Str(AccentColor),
			TextOpacity:     Num(1),
			FontSize:        Num(12),
			ZIndex:          Num(ZSelected),
		},
	}
}

// following styles an outgoing relation and the node it points at.
func following(r graph.Relation, p Params) []Rule {
	return []Rule{
		{
			Selector: NodeID(r.Target),
			Style: Declarations{
				BackgroundColor: Str(p.FollowingColor),
				Opacity:         Num(neighbourOpacity),
			},
		},
		{
			Selector: EdgeID(r.ID),
			Style: Declarations{
				MidTargetArrowColor: Str(p.FollowingColor),
				MidTargetArrowShape: Str(p.EdgeArrowShape),
				LineColor:           Str(p.FollowingColor),
				Opacity:             Num(followingEdgeOpacity),
				ZIndex:              Num(ZRelation),
			},
		},
	}
}

// follower styles an incoming relation and the node it comes from.
func follower(r graph.Relation, p Params) []Rule {
	return []Rule{
		{
			Selector: NodeID(r.Source),
			Style: Declarations{
				BackgroundColor: Str(p.FollowerColor),
				Opacity:         Num(neighbourOpacity),
				ZIndex:          Num(ZFollower),
			},
		},
		{
			Selector: EdgeID(r.ID),
			Style: Declarations{
				MidTargetArrowColor: Str(p.FollowerColor),
				MidTargetArrowShape: Str(p.EdgeArrowShape),
				LineColor:           Str(p.FollowerColor),
				Opacity:             Num(followerEdgeOpacity),
				ZIndex:              Num(ZRelation),
			},
		},
	}
}
