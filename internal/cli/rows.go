package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/edit"
	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// rowsCommand creates the rows command, which prints one node's rows.
func (c *CLI) rowsCommand() *cobra.Command {
	var content bool

	cmd := &cobra.Command{
		Use:   "rows <path>",
		Short: "Print the projected rows of a node",
		Long: `Print the projected rows of the node at <path>, given in bracket notation.

With --content, print the node's normalized JSON content instead, which is
what the editor parses into fields.`,
		Example: `  jsongraph rows -d fruits.json '$["fruits"][0]'
  jsongraph rows -d fruits.json --content '$["fruits"][0]["nutrients"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := jsonpath.Parse(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			h, closeStore, err := c.openHandle(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := findNode(h.Graph(ctx), p)
			if err != nil {
				return err
			}

			if content {
				fmt.Fprintln(out, edit.Normalize(n.Rows))
				return nil
			}

			printInfo("%s %s", StyleTitle.Render(jsonpath.Format(n.Path)), StyleDim.Render(string(n.Kind)))
			for _, line := range render.Lines(n, 0, 0) {
				if line.Key != "" {
					printKeyValue(line.Key, line.Text)
				} else {
					fmt.Fprintln(out, StyleValue.Render(line.Text))
				}
			}
			if shape := edit.Classify(n.Path, c.cfg.Edit.Collection); shape.Editable() {
				printNextStep("Edit this "+shape.String(), fmt.Sprintf("%s edit '%s' --set key=value", appName, jsonpath.Format(n.Path)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&content, "content", false, "print normalized JSON content")
	return cmd
}

// findNode returns the node at p or a NOT_FOUND error.
func findNode(g *graph.Graph, p jsonpath.Path) (*graph.Node, error) {
	n, ok := g.NodeByPath(p)
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "no node at %s", jsonpath.Format(p))
	}
	return n, nil
}
