package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/render/nodelink"
	"github.com/matzehuels/followgraph/pkg/style"
)

func buildDOT(g *graph.Graph, ss style.Stylesheet, opts Options) string {
	return nodelink.ToDOT(g, ss, nodelink.Options{Layout: opts.Layout, Labels: opts.Labels})
}

// renderFormat produces one artifact. dot is unused for json.
func renderFormat(ctx context.Context, format, dot string, ss style.Stylesheet, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := style.WriteJSON(&buf, ss); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot, opts.Layout)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Layout)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
