package style

import (
	"encoding/json"
	"fmt"
	"strconv"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
)

// Property is a Cytoscape style property name.
type Property string

// Properties used by followgraph stylesheets.
const (
	Opacity             Property = "opacity"
	Shape               Property = "shape"
	CurveStyle          Property = "curve-style"
	MidTargetArrowShape Property = "mid-target-arrow-shape"
	MidTargetArrowColor Property = "mid-target-arrow-color"
	LineColor           Property = "line-color"
	BackgroundColor     Property = "background-color"
	BorderColor         Property = "border-color"
	BorderWidth         Property = "border-width"
	BorderOpacity       Property = "border-opacity"
	Label               Property = "label"
	Color               Property = "color"
	TextOpacity         Property = "text-opacity"
	FontSize            Property = "font-size"
	ZIndex              Property = "z-index"
)

type valueKind int

const (
	kindText valueKind = iota
	kindNumber
)

var properties = map[Property]valueKind{
	Opacity:             kindNumber,
	Shape:               kindText,
	CurveStyle:          kindText,
	MidTargetArrowShape: kindText,
	MidTargetArrowColor: kindText,
	LineColor:           kindText,
	BackgroundColor:     kindText,
	BorderColor:         kindText,
	BorderWidth:         kindNumber,
	BorderOpacity:       kindNumber,
	Label:               kindText,
	Color:               kindText,
	TextOpacity:         kindNumber,
	FontSize:            kindNumber,
	ZIndex:              kindNumber,
}

// ParseProperty returns the Property for name, or an INVALID_PROPERTY error
// if followgraph does not know it.
func ParseProperty(name string) (Property, error) {
	p := Property(name)
	if _, ok := properties[p]; !ok {
		return "", fgerrors.New(fgerrors.ErrCodeInvalidProperty, "unknown style property %q", name)
	}
	return p, nil
}

// IsNumeric reports whether p takes a numeric value.
func (p Property) IsNumeric() bool { return properties[p] == kindNumber }

// Value is a typed declaration value: a number or a text literal.
type Value struct {
	Number   float64
	Text     string
	IsNumber bool
}

// Num returns a numeric value.
func Num(f float64) Value { return Value{Number: f, IsNumber: true} }

// Str returns a text value.
func Str(s string) Value { return Value{Text: s} }

// String formats the value the way Cytoscape would read it.
func (v Value) String() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNumber {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Num(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("style value must be a number or string: %s", data)
	}
	*v = Str(s)
	return nil
}

// Declarations maps properties to values for one rule.
type Declarations map[Property]Value

// NewDeclarations builds declarations from loosely typed input, rejecting
// unknown property names and values of the wrong kind.
func NewDeclarations(raw map[string]any) (Declarations, error) {
	d := make(Declarations, len(raw))
	for name, v := range raw {
		p, err := ParseProperty(name)
		if err != nil {
			return nil, err
		}
		val, err := toValue(p, v)
		if err != nil {
			return nil, err
		}
		d[p] = val
	}
	return d, nil
}

func toValue(p Property, v any) (Value, error) {
	var val Value
	switch x := v.(type) {
	case Value:
		val = x
	case string:
		val = Str(x)
	case float64:
		val = Num(x)
	case float32:
		val = Num(float64(x))
	case int:
		val = Num(float64(x))
	case int64:
		val = Num(float64(x))
	default:
		return Value{}, fgerrors.New(fgerrors.ErrCodeInvalidProperty, "property %q: unsupported value type %T", p, v)
	}
	if val.IsNumber != p.IsNumeric() {
		return Value{}, fgerrors.New(fgerrors.ErrCodeInvalidProperty, "property %q: wrong value kind %q", p, val)
	}
	return val, nil
}

// UnmarshalJSON decodes a style object and validates every property.
func (d *Declarations) UnmarshalJSON(data []byte) error {
	var raw map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Declarations, len(raw))
	for name, v := range raw {
		p, err := ParseProperty(name)
		if err != nil {
			return err
		}
		if _, err := toValue(p, v); err != nil {
			return err
		}
		out[p] = v
	}
	*d = out
	return nil
}
