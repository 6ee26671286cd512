package commands

import (
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/engine"
)

func newSyncCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile loan balances, record today's snapshot and post due recurring items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(a *app) error {
				report, err := a.load()
				printReport(a, report)
				return err
			})
		},
	}
}

func printReport(a *app, r engine.Report) {
	a.printf("Load pass for %s\n", r.Date)
	for _, c := range r.Changes {
		a.printf("  loan     %-24s %s -> %s\n", c.Name, c.Old, c.New)
	}
	for _, t := range r.Posted {
		a.printf("  posted   %-24s %s on %s\n", t.Item, t.Amount, t.Date)
	}
	if r.Snapshot != nil {
		a.printf("  snapshot net worth %s (assets %s, liabilities %s)\n",
			r.Snapshot.NetWorth, r.Snapshot.TotalAssets, r.Snapshot.TotalLiabilities)
	}
	if r.Commit != "" {
		a.printf("  commit   %s\n", r.Commit)
	}
}
