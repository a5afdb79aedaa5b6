package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/edit"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// nodesCommand creates the nodes command, which lists every graph node.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the nodes of the document graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, closeStore, err := c.openHandle(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			g := h.Graph(ctx)
			if output != "" {
				if err := graph.WriteGraphFile(g, output); err != nil {
					return err
				}
				printSuccess("Wrote %d nodes", len(g.Nodes))
				printFile(output)
				return nil
			}
			if asJSON {
				return graph.WriteGraph(g, out)
			}

			fmt.Fprintln(out, nodeTable(g, c.cfg.Edit.Collection))
			printStats(len(g.Nodes), len(g.Edges), false)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the graph as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph as JSON to a file")
	return cmd
}

// nodeTable renders one row per node: id, path, kind, editable shape and
// the number of projected rows.
func nodeTable(g *graph.Graph, collection string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(g.Nodes))
	shapes := make([]edit.Shape, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		shapes[i] = edit.Classify(n.Path, collection)
		rows[i] = []string{
			n.ID,
			jsonpath.Format(n.Path),
			string(n.Kind),
			shapes[i].String(),
			strconv.Itoa(len(render.Lines(n, 0, 0))),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Path", "Kind", "Shape", "Rows").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(shapes) && shapes[row].Editable() {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
