package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/followgraph/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		gflags     graphFlags
		sflags     styleFlags
		formatsStr string
		output     string
		labels     bool
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph]",
		Short: "Render the highlighted graph to SVG, PNG, DOT or JSON",
		Long: `Render the highlighted graph to SVG, PNG, DOT or JSON.

The stylesheet for --node is resolved for every node and relation and
translated into Graphviz attributes, so the rendering matches what the
browser shows. The layout name picks a Graphviz engine.

SVG and PNG results are cached; use --refresh to re-render or --no-cache to
skip the cache entirely.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			opts, err := c.options(sflags)
			if err != nil {
				return err
			}
			opts.Formats = formats
			opts.Labels = labels
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), path, gflags, opts, output, noCache)
		},
	}

	gflags.register(cmd)
	sflags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&labels, "labels", false, "label every node, not only the selected one")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when a cached result exists")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.ValidFormats))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, gflags graphFlags, opts pipeline.Options, output string, noCache bool) error {
	g, err := c.loadGraph(ctx, path, gflags)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	input := path
	if input == "" {
		input = appName
	}
	if err := writeArtifacts(result.Artifacts, opts.Formats, input, output); err != nil {
		return err
	}
	printStats(result.Stats.Nodes, result.Stats.Relations, result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes each artifact to disk. A single format goes to
// output verbatim; several formats use output (or the input path without
// its extension) as a base and append the format's extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
	} else {
		base := basePath(output, input)
		for _, f := range formats {
			paths[f] = base + extension(f)
		}
	}

	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return fmt.Errorf("missing %s artifact", f)
		}
		if err := os.WriteFile(paths[f], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Rendered %d file(s)", len(formats))
	for _, f := range formats {
		printFile(paths[f])
	}
	return nil
}

// extension returns the file suffix for a format. Stylesheets get a
// compound suffix so they never replace a JSON graph of the same name.
func extension(format string) string {
	if format == pipeline.FormatJSON {
		return ".stylesheet.json"
	}
	return "." + format
}

// basePath strips the extension from output, or from input when output is empty.
func basePath(output, input string) string {
	p := output
	if p == "" {
		p = input
	}
	return strings.TrimSuffix(p, filepath.Ext(p))
}
