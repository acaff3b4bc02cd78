package style

import (
	"encoding/json"
	"io"
)

// Rule is one selector/declarations pair.
type Rule struct {
	Selector Selector     `json:"selector"`
	Style    Declarations `json:"style"`
}

// Stylesheet is an ordered list of rules. Later rules override earlier ones
// for the properties they set.
type Stylesheet []Rule

// Matching returns the rules whose selector applies to el, in order.
func (ss Stylesheet) Matching(el Element) []Rule {
	var out []Rule
	for _, r := range ss {
		if r.Selector.Matches(el) {
			out = append(out, r)
		}
	}
	return out
}

// Resolve folds every rule that matches el into a single set of
// declarations. Rules apply in order, so a later rule's value for a property
// replaces an earlier one; properties no later rule sets are kept.
func Resolve(ss Stylesheet, el Element) Declarations {
	out := Declarations{}
	for _, r := range ss {
		if !r.Selector.Matches(el) {
			continue
		}
		for p, v := range r.Style {
			out[p] = v
		}
	}
	return out
}

// WriteJSON writes the stylesheet as indented Cytoscape JSON.
func WriteJSON(w io.Writer, ss Stylesheet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ss)
}

// ReadJSON decodes a Cytoscape JSON stylesheet, validating every selector
// and property.
func ReadJSON(r io.Reader) (Stylesheet, error) {
	var ss Stylesheet
	if err := json.NewDecoder(r).Decode(&ss); err != nil {
		return nil, err
	}
	return ss, nil
}
