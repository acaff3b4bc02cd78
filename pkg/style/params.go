package style

// Params are the user-controlled inputs to [Generate]. Values are passed
// through to the renderer unvalidated.
type Params struct {
	FollowerColor  string `json:"followerColor" toml:"follower_color"`
	FollowingColor string `json:"followingColor" toml:"following_color"`
	EdgeArrowShape string `json:"edgeArrowShape" toml:"edge_arrow_shape"`
	NodeShape      string `json:"nodeShape" toml:"node_shape"`
}

// Control panel defaults.
const (
	DefaultFollowerColor  = "#0074D9"
	DefaultFollowingColor = "#FF4136"
	DefaultEdgeArrowShape = "tee"
	DefaultNodeShape      = "ellipse"
)

// NodeShapes lists the node shapes offered by the control panel.
var NodeShapes = []string{
	"ellipse", "triangle", "rectangle", "diamond", "pentagon",
	"hexagon", "heptagon", "octagon", "star", "polygon",
}

// ArrowShapes lists the edge arrow shapes offered by the control panel.
var ArrowShapes = []string{
	"triangle", "triangle-tee", "circle-triangle", "triangle-cross",
	"triangle-backcurve", "vee", "tee", "square", "circle", "diamond",
	"chevron", "double-tee", "none",
}

// DefaultParams returns the control panel's initial values.
func DefaultParams() Params {
	return Params{
		FollowerColor:  DefaultFollowerColor,
		FollowingColor: DefaultFollowingColor,
		EdgeArrowShape: DefaultEdgeArrowShape,
		NodeShape:      DefaultNodeShape,
	}
}

// WithDefaults fills empty fields from base.
func (p Params) WithDefaults(base Params) Params {
	if p.FollowerColor == "" {
		p.FollowerColor = base.FollowerColor
	}
	if p.FollowingColor == "" {
		p.FollowingColor = base.FollowingColor
	}
	if p.EdgeArrowShape == "" {
		p.EdgeArrowShape = base.EdgeArrowShape
	}
	if p.NodeShape == "" {
		p.NodeShape = base.NodeShape
	}
	return p
}
