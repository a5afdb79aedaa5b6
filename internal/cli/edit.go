package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/edit"
	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
)

// editCommand creates the edit command, which saves field values on an
// editable node without the interactive modal.
func (c *CLI) editCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "edit <path>",
		Short: "Set fields on an editable node and save",
		Long: `Set fields on the node at <path> and save the document.

Only fruit records, their details and their nutrients are editable. Fruit
records accept name and color, details accept type and season, and nutrients
accept any of their existing keys. Members without a field are kept.`,
		Example: `  jsongraph edit -d fruits.json '$["fruits"][0]' --set name=Pear --set color=#00FF00
  jsongraph edit -d fruits.json '$["fruits"][0]["nutrients"]' --set calories=60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := jsonpath.Parse(args[0])
			if err != nil {
				return err
			}
			values, err := parseAssignments(sets)
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

			sess := edit.NewSession(c.cfg.Edit.Collection, c.Logger)
			sess.Open(n)
			if err := sess.BeginEdit(); err != nil {
				return err
			}
			for _, kv := range values {
				if err := sess.Set(kv[0], kv[1]); err != nil {
					return err
				}
			}

			note := sess.Save(ctx, h)
			if note.Level == edit.LevelError {
				printError("%s", note.Message)
				return note.Cause
			}
			printSuccess("%s", note.Message)
			for _, f := range sess.Fields().Fields {
				printDetail("%s: %s", f.Label, f.Value)
			}
			printDetail("revision %s", h.Meta().Revision)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment key=value (repeatable)")
	return cmd
}

// parseAssignments splits key=value flags in order. The value may contain
// further '=' characters.
func parseAssignments(sets []string) ([][2]string, error) {
	out := make([][2]string, 0, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "invalid assignment %q (want key=value)", s)
		}
		if err := errs.ValidateFieldKey(key); err != nil {
			return nil, err
		}
		out = append(out, [2]string{key, value})
	}
	return out, nil
}
