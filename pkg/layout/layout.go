// Package layout names the graph layout the renderer should use.
//
// Layout selection is a pass-through: [Select] wraps whatever name it is
// given and the renderer decides what to do with names it does not know.
package layout

// Layout is the layout configuration handed to the renderer.
type Layout struct {
	Name string `json:"name"`
}

// Default is the layout shown before the user picks one.
const Default = "grid"

// Names lists the layouts offered by the control panel, in display order.
var Names = []string{"random", "grid", "circle", "concentric", "breadthfirst", "cose"}

// Select returns the layout configuration for name without validating it.
func Select(name string) Layout {
	return Layout{Name: name}
}

// Known reports whether name is one of [Names].
func Known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
