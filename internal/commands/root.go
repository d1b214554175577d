package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "balancete",
		Short:   "Balancete ingestion, validation and financial statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newIngestCommand(),
		newValidateCommand(),
		newDeparaCommand(),
		newRebuildCommand(),
		newExportCommand(),
		newHistoryCommand(),
		newServeCommand(),
		newWatchCommand(),
	)

	return rootCmd
}
