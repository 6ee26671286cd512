package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/runlog"
)

func newHistoryCommand(g *globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the daily net-worth history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, true, func(a *app) error {
				history, err := a.store.LoadHistory(a.ctx)
				if err != nil {
					return err
				}
				if limit > 0 && len(history) > limit {
					history = history[len(history)-limit:]
				}

				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(tw, "DATE\tASSETS\tLIABILITIES\tNET WORTH\t")
				for _, s := range history {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", s.Date, s.TotalAssets, s.TotalLiabilities, s.NetWorth)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "show the most recent N entries (0 for all)")
	return cmd
}

func newLogCommand(g *globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the audit log of automatic and manual changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(a *app) error {
				entries, err := runlog.Read(a.dataDir)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tCOMPONENT\tACTION\tDETAILS\tAMOUNT")
				for _, e := range runlog.Tail(entries, limit) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						e.Timestamp.Local().Format("2006-01-02 15:04"), e.Component, e.Action, e.Details, e.Amount)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "show the most recent N entries (0 for all)")
	return cmd
}
