package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/document"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
)

// pathCommand creates the path command, which normalizes bracket notation
// and optionally resolves it against the document.
func (c *CLI) pathCommand() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "path <path>",
		Short: "Normalize a JSON path and show its pointer form",
		Example: `  jsongraph path '$["fruits"][0]'
  jsongraph path -d fruits.json --resolve '$["fruits"][0]["name"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := jsonpath.Parse(args[0])
			if err != nil {
				return err
			}

			printKeyValue("path", jsonpath.Format(p))
			printKeyValue("pointer", jsonpath.Pointer(p))
			printKeyValue("segments", fmt.Sprint(p.Len()))

			if !resolve {
				return nil
			}

			ctx := cmd.Context()
			h, closeStore, err := c.openHandle(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			v, err := h.Resolve(p)
			if err != nil {
				return err
			}
			text, err := document.Encode(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "print the value at the path")
	return cmd
}
