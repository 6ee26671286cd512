package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/assets"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
	"github.com/fintrack-dev/fintrack/internal/runlog"
)

func newAssetCommand(g *globals) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage the asset list",
	}
	assetCmd.AddCommand(
		newAssetListCommand(g),
		newAssetAddCommand(g),
		newAssetAddLoanCommand(g),
		newAssetUpdateCommand(g),
		newAssetDeleteCommand(g),
	)
	return assetCmd
}

func newAssetListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assets and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, true, func(a *app) error {
				list, err := a.store.LoadAssets(a.ctx)
				if err != nil {
					return err
				}
				svc := assets.NewService(list)

				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tAMOUNT\tUPDATED")
				for _, group := range svc.Breakdown() {
					for _, as := range group.Assets {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", as.ID, as.Name, as.Type, as.Amount, updated(as.LastUpdated))
					}
					fmt.Fprintf(tw, "\t\t%s total\t%s\t\n", group.Type, group.Total)
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				totals := svc.Totals()
				a.printf("\nAssets %s  Liabilities %s  Net worth %s %s\n",
					totals.Assets, totals.Liabilities, totals.NetWorth, a.cfg.Currency)
				return nil
			})
		},
	}
}

func updated(millis int64) string {
	if millis == 0 {
		return "-"
	}
	return period.Day(time.UnixMilli(millis))
}

func newAssetAddCommand(g *globals) *cobra.Command {
	var name, typ, amount string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an asset with a manually managed balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assetType := model.AssetType(strings.ToUpper(typ))
			if !assetType.Valid() {
				return fmt.Errorf("unknown asset type %q", typ)
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount: %w", err)
			}
			return g.run(cmd, false, func(a *app) error {
				return addAsset(a, model.Asset{
					ID:           uuid.NewString(),
					Name:         name,
					Type:         assetType,
					Amount:       amt,
					Currency:     a.cfg.Currency,
					ExchangeRate: decimal.NewFromInt(1),
					LastUpdated:  a.clock.Now().UnixMilli(),
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "asset name (required)")
	cmd.Flags().StringVar(&typ, "type", string(model.AssetTypeCash), "asset type")
	cmd.Flags().StringVar(&amount, "amount", "", "current value (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newAssetAddLoanCommand(g *globals) *cobra.Command {
	var name, principal, start string
	var rate, term, grace float64

	cmd := &cobra.Command{
		Use:   "add-loan",
		Short: "Add a debt whose balance is derived from its loan terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := decimal.NewFromString(principal)
			if err != nil {
				return fmt.Errorf("parsing principal: %w", err)
			}
			if !p.IsPositive() {
				return fmt.Errorf("principal must be positive")
			}
			if _, err := period.ParseDay(start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}

			flags := cmd.Flags()
			return g.run(cmd, false, func(a *app) error {
				asset := model.Asset{
					ID:             uuid.NewString(),
					Name:           name,
					Type:           model.AssetTypeDebt,
					Amount:         p,
					OriginalAmount: &p,
					Currency:       a.cfg.Currency,
					ExchangeRate:   decimal.NewFromInt(1),
					LastUpdated:    a.clock.Now().UnixMilli(),
					StartDate:      start,
				}
				// Unset flags stay absent so the loan defaults apply.
				if flags.Changed("rate") {
					asset.InterestRate = &rate
				}
				if flags.Changed("term") {
					asset.TermYears = &term
				}
				if flags.Changed("grace") {
					asset.InterestOnlyPeriod = &grace
				}
				return addAsset(a, asset)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "loan name (required)")
	cmd.Flags().StringVar(&principal, "principal", "", "original principal (required)")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD (required)")
	cmd.Flags().Float64Var(&rate, "rate", 2.0, "annual interest rate in percent")
	cmd.Flags().Float64Var(&term, "term", 20, "term in years, including the interest-only period")
	cmd.Flags().Float64Var(&grace, "grace", 0, "interest-only period in years")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// addAsset appends asset and runs a load pass so a new loan's balance is
// reconciled immediately.
func addAsset(a *app, asset model.Asset) error {
	list, err := a.store.LoadAssets(a.ctx)
	if err != nil {
		return err
	}
	if err := a.store.SaveAssets(a.ctx, append(list, asset)); err != nil {
		return err
	}
	a.printf("Added %s %q (%s)\n", asset.Type, asset.Name, asset.ID)
	if err := a.audit(runlog.ComponentManual, "add_asset", asset.Name, asset.ID, asset.Amount.String()); err != nil {
		return err
	}

	report, err := a.load()
	printReport(a, report)
	return err
}

func newAssetUpdateCommand(g *globals) *cobra.Command {
	var name, amount, principal, start string
	var rate, term, grace float64

	cmd := &cobra.Command{
		Use:   "update <asset-id>",
		Short: "Change an asset's name, value or loan terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return g.run(cmd, false, func(a *app) error {
				list, err := a.store.LoadAssets(a.ctx)
				if err != nil {
					return err
				}
				asset, ok := assets.NewService(list).Get(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", assets.ErrNotFound, args[0])
				}

				if flags.Changed("name") {
					asset.Name = name
				}
				if flags.Changed("amount") {
					amt, err := decimal.NewFromString(amount)
					if err != nil {
						return fmt.Errorf("parsing amount: %w", err)
					}
					asset.Amount = amt
				}
				if flags.Changed("principal") {
					p, err := decimal.NewFromString(principal)
					if err != nil {
						return fmt.Errorf("parsing principal: %w", err)
					}
					asset.OriginalAmount = &p
				}
				if flags.Changed("start") {
					if _, err := period.ParseDay(start); err != nil {
						return fmt.Errorf("--start: %w", err)
					}
					asset.StartDate = start
				}
				if flags.Changed("rate") {
					asset.InterestRate = &rate
				}
				if flags.Changed("term") {
					asset.TermYears = &term
				}
				if flags.Changed("grace") {
					asset.InterestOnlyPeriod = &grace
				}
				asset.LastUpdated = a.clock.Now().UnixMilli()

				updatedList, err := assets.Replace(list, asset)
				if err != nil {
					return err
				}
				if err := a.store.SaveAssets(a.ctx, updatedList); err != nil {
					return err
				}
				a.printf("Updated %s %q\n", asset.Type, asset.Name)
				if err := a.audit(runlog.ComponentManual, "update_asset", asset.Name, asset.ID, asset.Amount.String()); err != nil {
					return err
				}

				report, err := a.load()
				printReport(a, report)
				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new name")
	f.StringVar(&amount, "amount", "", "new value (loan balances are recomputed on the next pass)")
	f.StringVar(&principal, "principal", "", "loan principal")
	f.StringVar(&start, "start", "", "loan start date YYYY-MM-DD")
	f.Float64Var(&rate, "rate", 0, "annual interest rate in percent")
	f.Float64Var(&term, "term", 0, "term in years, including the interest-only period")
	f.Float64Var(&grace, "grace", 0, "interest-only period in years")

	return cmd
}

func newAssetDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <asset-id>",
		Short: "Remove an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(a *app) error {
				list, err := a.store.LoadAssets(a.ctx)
				if err != nil {
					return err
				}
				removed, _ := assets.NewService(list).Get(args[0])
				remaining, err := assets.Remove(list, args[0])
				if err != nil {
					return err
				}
				if err := a.store.SaveAssets(a.ctx, remaining); err != nil {
					return err
				}
				a.printf("Deleted %s %q\n", removed.Type, removed.Name)
				if err := a.audit(runlog.ComponentManual, "delete_asset", removed.Name, removed.ID, removed.Amount.String()); err != nil {
					return err
				}

				report, err := a.load()
				printReport(a, report)
				return err
			})
		},
	}
}
