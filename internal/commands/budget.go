package commands

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/budget"
)

func newBudgetCommand(g *globals) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Monthly spending limits",
	}
	budgetCmd.AddCommand(newBudgetStatusCommand(g), newBudgetSetCommand(g))
	return budgetCmd
}

func newBudgetStatusCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare this month's spending with the limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, true, func(a *app) error {
				txns, err := a.store.LoadTransactions(a.ctx)
				if err != nil {
					return err
				}
				budgets, err := a.store.LoadBudgets(a.ctx)
				if err != nil {
					return err
				}
				today := a.clock.Now()
				r := budget.Status(txns, budget.Sorted(budgets), today)

				a.printf("Budget %s: %s of %s (%s%%) %s\n\n", r.Month, r.TrackedSpend, r.TotalLimit, r.Percent, r.Level)
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CATEGORY\tSPENT\tLIMIT\tUSED\tSTATUS")
				for _, l := range r.Lines {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%s\n", l.Category, l.Spent, l.Limit, l.Percent, l.Level)
				}
				cats := make([]string, 0, len(r.Unbudgeted))
				for c := range r.Unbudgeted {
					cats = append(cats, c)
				}
				slices.Sort(cats)
				for _, c := range cats {
					fmt.Fprintf(tw, "%s\t%s\t-\t-\t\n", c, r.Unbudgeted[c])
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				if large := budget.LargeExpenses(txns, today, 5); len(large) > 0 {
					a.printf("\nLargest expenses, last 30 days:\n")
					for _, t := range large {
						a.printf("  %s  %-10s %-24s %s\n", t.Date, t.Category, t.Item, t.Amount)
					}
				}
				return nil
			})
		},
	}
}

func newBudgetSetCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Set a category's monthly limit (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := args[0]
			if category == budget.CategoryInvestment {
				return fmt.Errorf("%s cannot be budgeted", budget.CategoryInvestment)
			}
			limit, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("parsing limit: %w", err)
			}
			return g.run(cmd, false, func(a *app) error {
				budgets, err := a.store.LoadBudgets(a.ctx)
				if err != nil {
					return err
				}
				if err := a.store.SaveBudgets(a.ctx, budget.Set(budgets, category, limit)); err != nil {
					return err
				}
				if limit.IsPositive() {
					a.printf("Budget for %s set to %s\n", category, limit)
				} else {
					a.printf("Budget for %s removed\n", category)
				}
				return nil
			})
		},
	}
}
