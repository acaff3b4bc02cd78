package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/followgraph/pkg/graph"
	"github.com/matzehuels/followgraph/pkg/pipeline"
)

// exploreCommand creates the explore command: an interactive node picker
// that prints the stylesheet of the chosen user.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		gflags graphFlags
		sflags styleFlags
	)

	cmd := &cobra.Command{
		Use:   "explore [graph]",
		Short: "Pick a user interactively and show their highlight stylesheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return c.runExplore(cmd.Context(), cmd.OutOrStdout(), path, gflags, sflags)
		},
	}

	gflags.register(cmd)
	sflags.register(cmd)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, stdout io.Writer, path string, gflags graphFlags, sflags styleFlags) error {
	g, err := c.loadGraph(ctx, path, gflags)
	if err != nil {
		return err
	}
	if g.NodeCount() == 0 {
		printWarning("Graph is empty")
		return nil
	}

	final, err := tea.NewProgram(NewNodeListModel(NodeItems(g)), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("node picker: %w", err)
	}
	m, ok := final.(NodeListModel)
	if !ok || m.Selected == nil {
		printInfo("No user selected")
		return nil
	}

	sflags.node = m.Selected.ID
	return c.showSelection(ctx, stdout, g, sflags)
}

// showSelection prints a summary of the selected user and their stylesheet.
func (c *CLI) showSelection(ctx context.Context, w io.Writer, g *graph.Graph, sflags styleFlags) error {
	opts, err := c.options(sflags)
	if err != nil {
		return err
	}
	sel, ss, err := pipeline.NewRunner(nil, nil, c.Logger).Generate(ctx, g, opts)
	if err != nil {
		return err
	}

	n, _ := g.Node(sel.Node)
	fmt.Fprintln(w, StyleTitle.Render(n.Label)+" "+StyleDim.Render(n.ID))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("following %d · followers %d", len(sel.Outgoing()), len(sel.Incoming()))))
	fmt.Fprintln(w)
	fmt.Fprintln(w, formatStylesheet(ss))
	fmt.Fprintln(w)
	printNextStep("Render it", fmt.Sprintf("%s render --node %s", appName, sel.Node))
	return nil
}
