package commands

import (
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal net-worth tracker with automatic loan amortization",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.dataDir, "data-dir", defaultDataDir(), "data directory")
	flags.StringVar(&g.configPath, "config", "", "config file (default <data-dir>/fintrack.yaml)")
	flags.StringVar(&g.today, "today", "", "override today's date (YYYY-MM-DD)")
	flags.StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(g),
		newSyncCommand(g),
		newLoanCommand(g),
		newAssetCommand(g),
		newTransactionCommand(g),
		newRecurringCommand(g),
		newInvestCommand(g),
		newHistoryCommand(g),
		newBudgetCommand(g),
		newExportCommand(g),
		newImportCommand(g),
		newAdviseCommand(g),
		newLogCommand(g),
	)

	return rootCmd
}
