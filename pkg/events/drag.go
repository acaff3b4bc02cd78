package events

import (
	"encoding/json"
	"maps"
)

// DragRequest is the body of a drag debug request.
type DragRequest struct {
	Grab map[string]any `json:"grabNodeData"`
	Drag map[string]any `json:"dragNodeData"`
}

// MergeDrag merges the grabbed and dragged node data. It returns an empty
// map unless both inputs are non-empty; keys in grab override keys in drag,
// so the panel shows the node as it was when picked up.
// Neither input is modified.
func MergeDrag(grab, drag map[string]any) map[string]any {
	out := map[string]any{}
	if len(grab) == 0 || len(drag) == 0 {
		return out
	}
	maps.Copy(out, drag)
	maps.Copy(out, grab)
	return out
}

// FormatDebug renders m as JSON indented by two spaces.
func FormatDebug(m map[string]any) (string, error) {
	if m == nil {
		m = map[string]any{}
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
