package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/followgraph/pkg/graph"
	fgio "github.com/matzehuels/followgraph/pkg/io"
)

// parseCommand creates the parse command, which converts an edge list (or a
// MongoDB collection) into a JSON graph.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		flags  graphFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "parse [edges.txt]",
		Short: "Convert a \"source target\" edge list to a JSON graph",
		Long: `Convert a "source target" edge list to a JSON graph.

Each non-blank line holds one follow relation: the follower id, a single
space, and the followed id. Only the first --limit records are kept (750 by
default). Malformed lines are skipped with a warning, or abort the parse
with --strict.

The JSON graph can be passed to every other command in place of the edge
list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return c.runParse(cmd.Context(), cmd.OutOrStdout(), path, flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, stdout io.Writer, path string, flags graphFlags, output string) error {
	prog := newProgress(c.Logger)
	g, err := c.loadGraph(ctx, path, flags)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d nodes and %d relations", g.NodeCount(), g.RelationCount()))

	return writeGraph(g, output, stdout)
}

// writeGraph writes g as JSON to path, or to stdout when path is empty.
func writeGraph(g *graph.Graph, path string, stdout io.Writer) error {
	w, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := fgio.WriteJSON(g, w); err != nil {
		return err
	}
	if path != "" {
		printSuccess("Graph written")
		printFile(path)
		printNextStep("Highlight a user", fmt.Sprintf("%s stylesheet %s --node <id>", appName, path))
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for an empty path, otherwise creates the file.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
