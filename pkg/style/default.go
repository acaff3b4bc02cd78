package style

const (
	defaultOpacity = 0.65
	curveBezier    = "bezier"
)

// Default returns the stylesheet used while no node is selected. Each call
// returns a new value.
func Default() Stylesheet {
	return Stylesheet{
		{
			Selector: AllNodes(),
			Style: Declarations{
				Opacity: Num(defaultOpacity),
			},
		},
		{
			Selector: AllEdges(),
			Style: Declarations{
				CurveStyle:          Str(curveBezier),
				Opacity:             Num(defaultOpacity),
				MidTargetArrowShape: Str(DefaultEdgeArrowShape),
			},
		},
	}
}
