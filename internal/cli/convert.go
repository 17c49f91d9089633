package cli

import (
	"github.com/chazu/famdef/pkg/document"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a document between JSON and YAML",
		Long:  `convert reads <in> and writes <out>. Both formats follow the file extension.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := document.WriteFile(args[1], f); err != nil {
				return err
			}
			a.log.Info("convert.done",
				"in", args[0], "in_format", document.FormatFromPath(args[0]),
				"out", args[1], "out_format", document.FormatFromPath(args[1]))
			return nil
		},
	}
}
