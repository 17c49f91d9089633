package cli

import (
	"fmt"

	"github.com/chazu/famdef/pkg/document"
	"github.com/chazu/famdef/pkg/family"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <document>",
		Short: "Decode and validate a family document",
		Long: `check decodes a document and runs the model validation. Errors and
warnings are listed; the command fails if any error is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			res := family.ValidateAll(f)
			out := cmd.OutOrStdout()
			for _, e := range res.Errors {
				fmt.Fprintln(out, e.Error())
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(out, w.Error())
			}
			fmt.Fprintf(out, "%s: %d parameters, %d profile points, %d dimensions, %d alignments\n",
				args[0], len(f.Parameters), len(f.Extrusion.ProfilePoints), len(f.Dimensions), len(f.Alignments))
			if !res.OK() {
				return fmt.Errorf("%s: %d validation errors", args[0], len(res.Errors))
			}
			return nil
		},
	}
}
