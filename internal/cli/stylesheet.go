package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/followgraph/pkg/layout"
	"github.com/matzehuels/followgraph/pkg/pipeline"
	"github.com/matzehuels/followgraph/pkg/style"
)

// styleFlags are the control panel inputs shared by stylesheet and render.
// Empty values fall back to the [style] section of the config.
type styleFlags struct {
	node   string
	params style.Params
	layout string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.node, "node", "n", "", "selected node id (none: default stylesheet)")
	cmd.Flags().StringVar(&f.params.FollowerColor, "follower-color", "", "color of followers (incoming relations)")
	cmd.Flags().StringVar(&f.params.FollowingColor, "following-color", "", "color of followings (outgoing relations)")
	cmd.Flags().StringVar(&f.params.EdgeArrowShape, "arrow-shape", "",
		"edge arrow shape: "+strings.Join(style.ArrowShapes, ", "))
	cmd.Flags().StringVar(&f.params.NodeShape, "node-shape", "",
		"node shape: "+strings.Join(style.NodeShapes, ", "))
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "",
		"layout: "+strings.Join(layout.Names, ", "))

	_ = cmd.RegisterFlagCompletionFunc("arrow-shape", fixedCompletion(style.ArrowShapes))
	_ = cmd.RegisterFlagCompletionFunc("node-shape", fixedCompletion(style.NodeShapes))
	_ = cmd.RegisterFlagCompletionFunc("layout", fixedCompletion(layout.Names))
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// options merges the flags with the configured control panel state.
func (c *CLI) options(f styleFlags) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Node:   f.node,
		Params: f.params.WithDefaults(cfg.Style.Params()),
		Layout: f.layout,
		Logger: c.Logger,
	}
	if opts.Layout == "" {
		opts.Layout = cfg.Style.Layout
	}
	if opts.Layout != "" && !layout.Known(opts.Layout) {
		c.Logger.Warn("unknown layout, the renderer will fall back to its default", "layout", opts.Layout)
	}
	return opts, nil
}

// stylesheetCommand creates the stylesheet command.
func (c *CLI) stylesheetCommand() *cobra.Command {
	var (
		gflags graphFlags
		sflags styleFlags
		output string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "stylesheet [graph]",
		Short: "Print the highlight stylesheet for a selected node",
		Long: `Print the highlight stylesheet for a selected node.

Without --node the default stylesheet is printed. With --node the output
dims every element, accents the selected node, and colors each follower
and following together with the relation that connects it.

The output is Cytoscape.js JSON unless --pretty is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return c.runStylesheet(cmd.Context(), cmd.OutOrStdout(), path, gflags, sflags, output, pretty)
		},
	}

	gflags.register(cmd)
	sflags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "print one rule per line instead of JSON")

	return cmd
}

func (c *CLI) runStylesheet(ctx context.Context, stdout io.Writer, path string, gflags graphFlags, sflags styleFlags, output string, pretty bool) error {
	g, err := c.loadGraph(ctx, path, gflags)
	if err != nil {
		return err
	}
	opts, err := c.options(sflags)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	sel, ss, err := runner.Generate(ctx, g, opts)
	if err != nil {
		return err
	}

	w, err := openOutput(output, stdout)
	if err != nil {
		return err
	}
	defer w.Close()

	if !pretty {
		return style.WriteJSON(w, ss)
	}
	if sel != nil {
		fmt.Fprintf(w, "%s %s\n", StyleTitle.Render("Selected"), StyleValue.Render(sel.Node))
		fmt.Fprintf(w, "%s\n", StyleDim.Render(fmt.Sprintf("%d following · %d followers · %d rules",
			len(sel.Outgoing()), len(sel.Incoming()), len(ss))))
	}
	_, err = fmt.Fprintln(w, formatStylesheet(ss))
	return err
}
