package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
	"github.com/fintrack-dev/fintrack/internal/runlog"
)

func newTransactionCommand(g *globals) *cobra.Command {
	txCmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Record, list and delete transactions",
	}
	txCmd.AddCommand(
		newTransactionAddCommand(g),
		newTransactionListCommand(g),
		newTransactionDeleteCommand(g),
	)
	return txCmd
}

func newTransactionAddCommand(g *globals) *cobra.Command {
	var tx model.Transaction
	var amount, typ string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount: %w", err)
			}
			tx.Amount = amt
			tx.Type = model.EntryType(strings.ToUpper(typ))

			return g.run(cmd, false, func(a *app) error {
				if tx.Date == "" {
					tx.Date = period.Day(a.clock.Now())
				}
				saved, err := ledger.NewService(a.store).Add(a.ctx, tx)
				if err != nil {
					return err
				}
				a.printf("Recorded %s %q %s on %s (%s)\n", saved.Type, saved.Item, saved.Amount, saved.Date, saved.ID)
				return a.audit(runlog.ComponentManual, "add_transaction",
					fmt.Sprintf("%s %s on %s", saved.Type, saved.Item, saved.Date), saved.ID, saved.Amount.String())
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&tx.Item, "item", "", "description (required)")
	f.StringVar(&amount, "amount", "", "amount (required)")
	f.StringVar(&tx.Category, "category", "", "category (required)")
	f.StringVar(&typ, "type", string(model.EntryTypeExpense), "EXPENSE or INCOME")
	f.StringVar(&tx.Date, "date", "", "date YYYY-MM-DD (default today)")
	f.StringVar(&tx.Note, "note", "", "free-form note")
	f.StringVar(&tx.InvoiceID, "invoice", "", "invoice number")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newTransactionListCommand(g *globals) *cobra.Command {
	var month string
	var all bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" {
				if _, _, err := period.ParseKey(month); err != nil {
					return fmt.Errorf("--month: %w", err)
				}
			}
			return g.run(cmd, true, func(a *app) error {
				txns, err := a.store.LoadTransactions(a.ctx)
				if err != nil {
					return err
				}
				key := month
				if key == "" && !all {
					key = period.Key(a.clock.Now())
				}
				listed := ledger.Newest(ledger.InMonth(txns, key))
				income, expense := ledger.Sum(listed)
				if limit > 0 && len(listed) > limit {
					listed = listed[:limit]
				}

				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tITEM\tAMOUNT\tSOURCE")
				for _, t := range listed {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Type, t.Category, t.Item, t.Amount, t.Source)
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				scope := key
				if scope == "" {
					scope = "all time"
				}
				a.printf("\n%s: income %s, expense %s, net %s\n", scope, income, expense, income.Sub(expense))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month YYYY-MM (default current month)")
	cmd.Flags().BoolVar(&all, "all", false, "list every month")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n rows (totals still cover the whole range)")
	cmd.MarkFlagsMutuallyExclusive("month", "all")
	return cmd
}

func newTransactionDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(a *app) error {
				removed, err := ledger.NewService(a.store).Delete(a.ctx, args[0])
				if err != nil {
					return err
				}
				a.printf("Deleted %q %s on %s\n", removed.Item, removed.Amount, removed.Date)
				return a.audit(runlog.ComponentManual, "delete_transaction",
					fmt.Sprintf("%s %s on %s", removed.Type, removed.Item, removed.Date), removed.ID, removed.Amount.String())
			})
		},
	}
}
