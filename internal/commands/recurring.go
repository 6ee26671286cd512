package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/recurring"
	"github.com/fintrack-dev/fintrack/internal/runlog"
)

func newRecurringCommand(g *globals) *cobra.Command {
	recCmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage fixed monthly and yearly items",
	}
	recCmd.AddCommand(newRecurringListCommand(g), newRecurringAddCommand(g), newRecurringDeleteCommand(g))
	return recCmd
}

func newRecurringListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring items and their state this period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, true, func(a *app) error {
				items, err := a.store.LoadRecurringItems(a.ctx)
				if err != nil {
					return err
				}
				log, err := a.store.LoadExecutionLog(a.ctx)
				if err != nil {
					return err
				}
				today := a.clock.Now()

				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tAMOUNT\tSCHEDULE\tSTATE")
				for _, it := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						it.ID, it.Name, it.Type, it.Amount, schedule(it), recurring.StateOf(it, log, today))
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				income, expense := recurring.MonthlyEquivalent(items)
				a.printf("\nFixed per month: income %s, expense %s\n", income.Round(0), expense.Round(0))
				return nil
			})
		},
	}
}

func schedule(it model.RecurringItem) string {
	if it.Frequency == model.FrequencyYearly {
		return fmt.Sprintf("yearly %02d-%02d", it.MonthOfYear, it.DayOfMonth)
	}
	return fmt.Sprintf("monthly day %d", it.DayOfMonth)
}

func newRecurringAddCommand(g *globals) *cobra.Command {
	var item model.RecurringItem
	var amount, typ, freq string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount: %w", err)
			}
			item.ID = uuid.NewString()
			item.Amount = amt
			item.Type = model.EntryType(strings.ToUpper(typ))
			item.Frequency = model.Frequency(strings.ToUpper(freq))

			if verrs := recurring.Validate(item); len(verrs) > 0 {
				errs := make([]error, len(verrs))
				for i, v := range verrs {
					errs[i] = v
				}
				return errors.Join(errs...)
			}

			return g.run(cmd, false, func(a *app) error {
				items, err := a.store.LoadRecurringItems(a.ctx)
				if err != nil {
					return err
				}
				if err := a.store.SaveRecurringItems(a.ctx, append(items, item)); err != nil {
					return err
				}
				a.printf("Added recurring %s %q (%s)\n", item.Type, item.Name, item.ID)
				if err := a.audit(runlog.ComponentManual, "add_recurring", item.Name, item.ID, item.Amount.String()); err != nil {
					return err
				}

				report, err := a.load()
				printReport(a, report)
				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&item.Name, "name", "", "item name (required)")
	f.StringVar(&amount, "amount", "", "amount (required)")
	f.StringVar(&item.Category, "category", "", "category (required)")
	f.StringVar(&typ, "type", string(model.EntryTypeExpense), "EXPENSE or INCOME")
	f.StringVar(&freq, "frequency", string(model.FrequencyMonthly), "MONTHLY or YEARLY")
	f.IntVar(&item.DayOfMonth, "day", 1, "day of month (1-31)")
	f.IntVar(&item.MonthOfYear, "month", 0, "month of year for YEARLY items (1-12)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// newRecurringDeleteCommand removes a definition. Its execution log entries
// stay, so transactions it already posted are not posted again if the item is
// restored from a backup.
func newRecurringDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a recurring item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(a *app) error {
				items, err := a.store.LoadRecurringItems(a.ctx)
				if err != nil {
					return err
				}
				i := slices.IndexFunc(items, func(it model.RecurringItem) bool { return it.ID == args[0] })
				if i < 0 {
					return fmt.Errorf("recurring item %s not found", args[0])
				}
				removed := items[i]
				if err := a.store.SaveRecurringItems(a.ctx, slices.Delete(items, i, i+1)); err != nil {
					return err
				}
				a.printf("Deleted recurring %s %q\n", removed.Type, removed.Name)
				return a.audit(runlog.ComponentManual, "delete_recurring", removed.Name, removed.ID, removed.Amount.String())
			})
		},
	}
}
