package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/parcelas/internal/source"
)

func newTextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "text <file>",
		Short: "Print the text extracted from one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := source.DefaultRegistry().Read(args[0])
			if doc.ReadErr != nil {
				return doc.ReadErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
			return nil
		},
	}
}
