package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/parcelas/internal/buildinfo"
	"github.com/cleared-dev/parcelas/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "parcelas",
		Short:   "Extract tax installment plans from Receita Federal reports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ./"+config.FileName+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newTextCommand())

	return rootCmd
}
