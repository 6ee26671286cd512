package reconcile

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/clock"
	"github.com/fintrack-dev/fintrack/internal/loan"
	"github.com/fintrack-dev/fintrack/internal/logger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/notify"
)

// DefaultThreshold is the balance drift, in currency units, tolerated before
// a stored debt balance is rewritten.
var DefaultThreshold = decimal.NewFromInt(10)

// AssetStore loads and saves the asset list.
type AssetStore interface {
	LoadAssets(ctx context.Context) ([]model.Asset, error)
	SaveAssets(ctx context.Context, assets []model.Asset) error
}

// Change records one corrected debt balance.
type Change struct {
	AssetID string
	Name    string
	Old     decimal.Decimal
	New     decimal.Decimal
}

// Result is the outcome of one reconciliation.
type Result struct {
	Assets  []model.Asset
	Changes []Change
}

// Apply recomputes every auto-calculated debt at now and returns a new asset
// list in which balances that drifted by more than threshold are replaced and
// stamped with now. The input slice is not modified.
func Apply(assets []model.Asset, now time.Time, threshold decimal.Decimal) Result {
	out := slices.Clone(assets)
	var changes []Change
	for i, a := range out {
		if !a.AutoCalculated() {
			continue
		}
		balance := loan.RemainingBalance(a, now)
		if balance.Sub(a.Amount).Abs().LessThanOrEqual(threshold) {
			continue
		}
		changes = append(changes, Change{AssetID: a.ID, Name: a.Name, Old: a.Amount, New: balance})
		out[i].Amount = balance
		out[i].LastUpdated = now.UnixMilli()
	}
	return Result{Assets: out, Changes: changes}
}

// Scheduler runs Apply against persisted assets.
type Scheduler struct {
	store     AssetStore
	notifier  notify.Notifier
	clock     clock.Clock
	threshold decimal.Decimal
}

// NewScheduler creates a Scheduler.
func NewScheduler(store AssetStore, notifier notify.Notifier, clk clock.Clock, threshold decimal.Decimal) *Scheduler {
	return &Scheduler{store: store, notifier: notifier, clock: clk, threshold: threshold}
}

// Run reconciles at the clock's current time.
func (s *Scheduler) Run(ctx context.Context) (Result, error) {
	return s.RunAt(ctx, s.clock.Now())
}

// RunAt loads the asset list, corrects drifted debt balances as of now,
// saves the whole list in one write when anything changed, and emits one
// notification with the number of loans updated. On a save failure the
// returned Result holds the assets as loaded.
func (s *Scheduler) RunAt(ctx context.Context, now time.Time) (Result, error) {
	log := logger.FromContext(ctx).With().Str("component", "reconcile").Logger()

	assets, err := s.store.LoadAssets(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: %w", err)
	}

	res := Apply(assets, now, s.threshold)
	if len(res.Changes) == 0 {
		log.Debug().Int("assets", len(assets)).Msg("debt balances up to date")
		return res, nil
	}

	if err := s.store.SaveAssets(ctx, res.Assets); err != nil {
		log.Error().Err(err).Int("changes", len(res.Changes)).Msg("saving reconciled assets")
		return Result{Assets: assets}, fmt.Errorf("reconcile: %w", err)
	}

	for _, c := range res.Changes {
		log.Info().Str("asset_id", c.AssetID).Str("old", c.Old.String()).Str("new", c.New.String()).Msg("debt balance updated")
	}
	s.notifier.Notify(fmt.Sprintf("Auto-updated this month's remaining principal for %d loan(s)", len(res.Changes)), len(res.Changes))
	return res, nil
}
