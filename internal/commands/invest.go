package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/invest"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/notify"
	"github.com/fintrack-dev/fintrack/internal/runlog"
)

func newInvestCommand(g *globals) *cobra.Command {
	investCmd := &cobra.Command{
		Use:   "invest",
		Short: "Track stock holdings",
	}
	snapCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record and review holdings snapshots",
	}
	snapCmd.AddCommand(newInvestSnapshotAddCommand(g), newInvestSnapshotListCommand(g))
	investCmd.AddCommand(snapCmd)
	return investCmd
}

func newInvestSnapshotAddCommand(g *globals) *cobra.Command {
	var raw []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record today's holdings and carry their value into the STOCK asset",
		Example: `  fintrack invest snapshot add \
    --position "2330,TSMC,1000,500,600" \
    --position '0050,"Yuanta Taiwan 50",200,150,120'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			positions := make([]model.StockPosition, 0, len(raw))
			for _, s := range raw {
				p, err := invest.ParsePosition(s)
				if err != nil {
					return err
				}
				positions = append(positions, p)
			}

			return g.run(cmd, false, func(a *app) error {
				now := a.clock.Now()
				snap := invest.NewSnapshot(uuid.NewString(), now, positions)

				snaps, err := a.store.LoadStockSnapshots(a.ctx)
				if err != nil {
					return err
				}
				if err := a.store.SaveStockSnapshots(a.ctx, append(snaps, snap)); err != nil {
					return err
				}
				a.printf("Recorded %d position(s): market value %s, unrealized P/L %s\n",
					len(positions), snap.TotalMarketValue, snap.TotalUnrealizedPL)
				if err := a.audit(runlog.ComponentInvest, "snapshot", fmt.Sprintf("%d position(s)", len(positions)),
					snap.ID, snap.TotalMarketValue.String()); err != nil {
					return err
				}

				list, err := a.store.LoadAssets(a.ctx)
				if err != nil {
					return err
				}
				synced, asset, err := invest.SyncAsset(list, snap.TotalMarketValue, now, a.cfg.Currency, uuid.NewString)
				if err != nil {
					return err
				}
				if err := a.store.SaveAssets(a.ctx, synced); err != nil {
					return err
				}
				toaster := notify.NewToaster(a.out, a.cfg.Notify.Duration())
				if len(synced) > len(list) {
					toaster.Notify(fmt.Sprintf("Created asset %q with the holdings value", asset.Name), 1)
				} else {
					toaster.Notify(fmt.Sprintf("Synced asset %q to %s", asset.Name, asset.Amount), 1)
				}

				report, err := a.load()
				printReport(a, report)
				return err
			})
		},
	}

	cmd.Flags().StringArrayVar(&raw, "position", nil, `holding as "symbol,name,shares,cost,price" (repeatable)`)
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

func newInvestSnapshotListCommand(g *globals) *cobra.Command {
	var positions bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List holdings snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(a *app) error {
				snaps, err := a.store.LoadStockSnapshots(a.ctx)
				if err != nil {
					return err
				}
				if len(snaps) == 0 {
					a.printf("No holdings snapshots yet.\n")
					return nil
				}

				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DATE\tPOSITIONS\tMARKET VALUE\tUNREALIZED P/L")
				for _, s := range snaps {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Date, len(s.Positions), s.TotalMarketValue, s.TotalUnrealizedPL)
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				if !positions {
					return nil
				}
				latest, _ := invest.Latest(snaps)
				a.printf("\nHoldings on %s\n", latest.Date)
				tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SYMBOL\tNAME\tSHARES\tCOST\tPRICE\tVALUE\tP/L\tRETURN")
				for _, p := range latest.Positions {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s%%\n",
						p.Symbol, p.Name, p.Shares, p.Cost, p.CurrentPrice, p.MarketValue, p.UnrealizedPL, p.ReturnRate)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&positions, "positions", false, "also show the holdings of the latest snapshot")
	return cmd
}
