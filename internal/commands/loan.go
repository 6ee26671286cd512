package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/assets"
	"github.com/fintrack-dev/fintrack/internal/loan"
)

func newLoanCommand(g *globals) *cobra.Command {
	loanCmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan amortization",
	}
	loanCmd.AddCommand(newLoanShowCommand(g))
	return loanCmd
}

func newLoanShowCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show [asset-id]",
		Short: "Show the amortization state of a loan, or of every loan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, true, func(a *app) error {
				list, err := a.store.LoadAssets(a.ctx)
				if err != nil {
					return err
				}
				svc := assets.NewService(list)

				if len(args) == 0 {
					loans := svc.Loans()
					if len(loans) == 0 {
						a.printf("No auto-calculated loans.\n")
					}
					for i, l := range loans {
						if i > 0 {
							a.printf("\n")
						}
						showLoan(a, l.ID, svc)
					}
					return nil
				}

				if _, ok := svc.Get(args[0]); !ok {
					return fmt.Errorf("asset %q not found", args[0])
				}
				showLoan(a, args[0], svc)
				return nil
			})
		},
	}
}

func showLoan(a *app, id string, svc *assets.Service) {
	asset, _ := svc.Get(id)
	now := a.clock.Now()

	a.printf("%s (%s)\n", asset.Name, asset.ID)
	terms, ok := loan.Params(asset)
	if !ok {
		a.printf("  phase            %s\n", loan.PhaseManual)
		a.printf("  balance          %s\n", asset.Amount)
		return
	}

	a.printf("  phase            %s\n", terms.PhaseAt(now))
	a.printf("  start            %s\n", asset.StartDate)
	a.printf("  principal        %s\n", terms.Principal)
	a.printf("  rate             %.2f%%\n", terms.AnnualRate)
	a.printf("  term             %g years (%g interest-only)\n", terms.TermYears, terms.GraceYears)
	a.printf("  months elapsed   %d\n", loan.MonthsElapsed(terms.Start, now))
	a.printf("  balance          %s\n", loan.RemainingBalance(asset, now))
	a.printf("  monthly payment  %s\n", terms.PaymentAt(now))
}
