// Package commands implements the kkb command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/kkb-dev/kkb/internal/buildinfo"
	"github.com/kkb-dev/kkb/internal/config"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	dataDir string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "kkb",
		Short:   "Double-entry household bookkeeping",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(".")
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "",
		"ledger data directory (default $"+config.EnvDataDir+" or the working directory)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAccountCommand(opts),
		newTxCommand(opts),
		newReportCommand(opts),
		newImportCommand(opts),
	)

	return rootCmd
}
