package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

var engines = map[string]graphviz.Layout{
	"circle":       graphviz.CIRCO,
	"concentric":   graphviz.TWOPI,
	"breadthfirst": graphviz.DOT,
	"cose":         graphviz.FDP,
	"grid":         graphviz.OSAGE,
	"random":       graphviz.NEATO,
}

// Engine returns the Graphviz layout engine used for a Cytoscape layout name.
func Engine(layout string) graphviz.Layout {
	if e, ok := engines[layout]; ok {
		return e
	}
	return graphviz.DOT
}

// RenderSVG lays out a DOT graph with the engine for layout and renders it
// to SVG.
func RenderSVG(ctx context.Context, dot, layout string) ([]byte, error) {
	out, err := render(ctx, dot, layout, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out a DOT graph with the engine for layout and renders it
// to PNG.
func RenderPNG(ctx context.Context, dot, layout string) ([]byte, error) {
	return render(ctx, dot, layout, graphviz.PNG)
}

func render(ctx context.Context, dot, layout string, format graphviz.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(Engine(layout))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
