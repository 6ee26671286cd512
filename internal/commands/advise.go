package commands

import (
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/advisor"
)

func newAdviseCommand(g *globals) *cobra.Command {
	adviseCmd := &cobra.Command{
		Use:   "advise",
		Short: "AI-assisted suggestions",
	}
	adviseCmd.AddCommand(newAdviseBudgetsCommand(g, nil))
	return adviseCmd
}

// newAdviseBudgetsCommand builds `advise budgets`. A nil caller means a
// Gemini client is created from the config.
func newAdviseBudgetsCommand(g *globals, caller advisor.Caller) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Suggest monthly limits from the last three months of spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, true, func(a *app) error {
				c := caller
				if c == nil {
					gem, err := advisor.NewGemini(a.ctx, a.cfg.AI.Key(), a.cfg.AI.Model)
					if err != nil {
						return err
					}
					c = gem
				}

				txns, err := a.store.LoadTransactions(a.ctx)
				if err != nil {
					return err
				}
				items, err := a.store.LoadRecurringItems(a.ctx)
				if err != nil {
					return err
				}
				current, err := a.store.LoadBudgets(a.ctx)
				if err != nil {
					return err
				}

				suggested, err := advisor.SuggestBudgets(a.ctx, c, txns, items, current, a.clock.Now())
				if err != nil {
					return err
				}
				if len(suggested) == 0 {
					a.printf("No suggestions.\n")
					return nil
				}
				for _, s := range suggested {
					a.printf("  %-16s %s\n", s.Category, s.Limit)
				}
				if !apply {
					a.printf("\nRun with --apply to save these limits.\n")
					return nil
				}
				if err := a.store.SaveBudgets(a.ctx, advisor.ApplySuggestions(current, suggested)); err != nil {
					return err
				}
				a.printf("\nSaved %d budget limit(s).\n", len(suggested))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "save the suggested limits")
	return cmd
}
