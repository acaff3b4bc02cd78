package nodelink

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/style"
)

// Cytoscape defaults for properties no rule sets.
const (
	defaultNodeColor = "#999999"
	defaultEdgeColor = "#999999"
	defaultTextColor = "#000000"
	defaultFontSize  = 16
)

// Options configures DOT generation.
type Options struct {
	// Layout is written as the graph's layout attribute so the DOT renders
	// the same with external Graphviz tools. Empty means dot.
	Layout string
	// Labels shows every node label, not only those the stylesheet enables.
	Labels bool
}

type element struct {
	z    float64
	line string
}

// ToDOT converts g to Graphviz DOT, styling every element with the cascade
// of ss.
func ToDOT(g *graph.Graph, ss style.Stylesheet, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  layout=%q;\n", Engine(opts.Layout))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [style=filled, fontname=\"Helvetica\", width=0.4, height=0.4, fixedsize=true];\n")
	buf.WriteString("  edge [dir=forward];\n")
	buf.WriteString("\n")

	edges := make([]element, 0, g.RelationCount())
	for _, r := range g.Relations() {
		d := style.Resolve(ss, style.Element{Group: style.GroupEdge, ID: r.ID})
		edges = append(edges, element{
			z:    number(d, style.ZIndex, 0),
			line: fmt.Sprintf("  %q -> %q [%s];\n", r.Source, r.Target, strings.Join(edgeAttrs(r, d), ", ")),
		})
	}
	nodes := make([]element, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		d := style.Resolve(ss, style.Element{Group: style.GroupNode, ID: n.ID})
		nodes = append(nodes, element{
			z:    number(d, style.ZIndex, 0),
			line: fmt.Sprintf("  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, d, opts.Labels), ", ")),
		})
	}

	writeStacked(&buf, edges)
	buf.WriteString("\n")
	writeStacked(&buf, nodes)
	buf.WriteString("}\n")
	return buf.String()
}

func writeStacked(buf *bytes.Buffer, els []element) {
	sort.SliceStable(els, func(i, j int) bool { return els[i].z < els[j].z })
	for _, el := range els {
		buf.WriteString(el.line)
	}
}

func nodeAttrs(n graph.Node, d style.Declarations, labels bool) []string {
	alpha := number(d, style.Opacity, 1)
	attrs := []string{
		fmt.Sprintf("id=%q", "node-"+n.ID),
		fmt.Sprintf("tooltip=%q", n.Label),
		fmt.Sprintf("shape=%s", nodeShape(text(d, style.Shape, style.DefaultNodeShape))),
		fmt.Sprintf("fillcolor=%q", withAlpha(text(d, style.BackgroundColor, defaultNodeColor), alpha)),
	}

	if w := number(d, style.BorderWidth, 0); w > 0 {
		border := alpha * number(d, style.BorderOpacity, 1)
		attrs = append(attrs,
			fmt.Sprintf("color=%q", withAlpha(text(d, style.BorderColor, defaultTextColor), border)),
			"penwidth="+fmtNum(w))
	} else {
		attrs = append(attrs, "penwidth=0")
	}

	label := labelText(n, text(d, style.Label, ""))
	if label == "" && labels {
		label = n.Label
	}
	attrs = append(attrs, fmt.Sprintf("label=%q", label))
	if label != "" {
		textAlpha := alpha * number(d, style.TextOpacity, 1)
		attrs = append(attrs,
			fmt.Sprintf("fontcolor=%q", withAlpha(text(d, style.Color, defaultTextColor), textAlpha)),
			"fontsize="+fmtNum(number(d, style.FontSize, defaultFontSize)),
			"labelloc=b")
	}
	return attrs
}

func edgeAttrs(r graph.Relation, d style.Declarations) []string {
	alpha := number(d, style.Opacity, 1)
	line := text(d, style.LineColor, defaultEdgeColor)
	attrs := []string{
		fmt.Sprintf("id=%q", "edge-"+r.ID),
		fmt.Sprintf("color=%q", withAlpha(line, alpha)),
		fmt.Sprintf("fillcolor=%q", withAlpha(text(d, style.MidTargetArrowColor, line), alpha)),
		fmt.Sprintf("arrowhead=%s", arrowhead(text(d, style.MidTargetArrowShape, "none"))),
	}
	return attrs
}

// labelText expands Cytoscape's data(label) mapper.
func labelText(n graph.Node, v string) string {
	switch {
	case v == "data(label)":
		return n.Label
	case v == "data(id)":
		return n.ID
	case strings.HasPrefix(v, "data("):
		return ""
	}
	return v
}

var nodeShapes = map[string]string{
	"ellipse":   "ellipse",
	"triangle":  "triangle",
	"rectangle": "box",
	"diamond":   "diamond",
	"pentagon":  "pentagon",
	"hexagon":   "hexagon",
	"heptagon":  "septagon",
	"octagon":   "octagon",
	"star":      "star",
	"polygon":   "polygon",
}

func nodeShape(s string) string {
	if gv, ok := nodeShapes[s]; ok {
		return gv
	}
	return "ellipse"
}

var arrowShapes = map[string]string{
	"triangle":           "normal",
	"triangle-tee":       "teenormal",
	"circle-triangle":    "normaldot",
	"triangle-cross":     "normal",
	"triangle-backcurve": "normal",
	"vee":                "vee",
	"tee":                "tee",
	"square":             "box",
	"circle":             "dot",
	"diamond":            "diamond",
	"chevron":            "vee",
	"double-tee":         "teetee",
	"none":               "none",
}

func arrowhead(s string) string {
	if gv, ok := arrowShapes[s]; ok {
		return gv
	}
	return "normal"
}

// withAlpha appends an alpha byte to hex colors. Named colors are returned
// unchanged.
func withAlpha(color string, alpha float64) string {
	hex, ok := expandHex(color)
	if !ok {
		return color
	}
	if alpha >= 1 {
		return hex
	}
	a := int(math.Round(math.Max(alpha, 0) * 255))
	return fmt.Sprintf("%s%02x", hex, a)
}

func expandHex(color string) (string, bool) {
	if !strings.HasPrefix(color, "#") {
		return "", false
	}
	digits := color[1:]
	if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
		return "", false
	}
	switch len(digits) {
	case 3:
		var b strings.Builder
		b.WriteByte('#')
		for _, c := range digits {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		return strings.ToLower(b.String()), true
	case 6:
		return strings.ToLower(color), true
	}
	return "", false
}

func text(d style.Declarations, p style.Property, def string) string {
	if v, ok := d[p]; ok && v.String() != "" {
		return v.String()
	}
	return def
}

func number(d style.Declarations, p style.Property, def float64) float64 {
	v, ok := d[p]
	if !ok {
		return def
	}
	if v.IsNumber {
		return v.Number
	}
	if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
		return f
	}
	return def
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
