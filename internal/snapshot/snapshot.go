package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack-dev/fintrack/internal/assets"
	"github.com/fintrack-dev/fintrack/internal/clock"
	"github.com/fintrack-dev/fintrack/internal/logger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
)

// DefaultMaxEntries caps the history at roughly one year of daily entries.
const DefaultMaxEntries = 365

// Build computes the snapshot of assets for today.
func Build(list []model.Asset, today time.Time) model.PortfolioSnapshot {
	totals := assets.NewService(list).Totals()
	return model.PortfolioSnapshot{
		Date:              period.Day(today),
		TotalAssets:       totals.Assets,
		TotalLiabilities:  totals.Liabilities,
		NetWorth:          totals.NetWorth,
		AssetDistribution: totals.Distribution,
	}
}

// TakeIfNeeded is Take with DefaultMaxEntries.
func TakeIfNeeded(list []model.Asset, history []model.PortfolioSnapshot, today time.Time) []model.PortfolioSnapshot {
	return Take(list, history, today, DefaultMaxEntries)
}

// Take returns history with today's snapshot appended. Any entry already
// dated today is replaced, and the oldest entries are evicted beyond limit.
// An empty asset list leaves history unchanged. The input is not modified.
func Take(list []model.Asset, history []model.PortfolioSnapshot, today time.Time, limit int) []model.PortfolioSnapshot {
	if len(list) == 0 {
		return history
	}
	if limit <= 0 {
		limit = DefaultMaxEntries
	}

	snap := Build(list, today)
	out := make([]model.PortfolioSnapshot, 0, len(history)+1)
	for _, s := range history {
		if s.Date != snap.Date {
			out = append(out, s)
		}
	}
	out = append(out, snap)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Store is the persistence the Recorder needs.
type Store interface {
	LoadAssets(ctx context.Context) ([]model.Asset, error)
	LoadHistory(ctx context.Context) ([]model.PortfolioSnapshot, error)
	SaveHistory(ctx context.Context, history []model.PortfolioSnapshot) error
}

// Recorder appends today's snapshot to the persisted history.
type Recorder struct {
	store      Store
	clock      clock.Clock
	maxEntries int
}

// NewRecorder creates a Recorder. A maxEntries of zero means DefaultMaxEntries.
func NewRecorder(store Store, clk clock.Clock, maxEntries int) *Recorder {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Recorder{store: store, clock: clk, maxEntries: maxEntries}
}

// Run records a snapshot dated by the clock.
func (r *Recorder) Run(ctx context.Context) (model.PortfolioSnapshot, bool, error) {
	return r.RunAt(ctx, r.clock.Now())
}

// RunAt records a snapshot of the persisted asset list dated today. Assets
// are read from the store so the snapshot reflects balances saved earlier in
// the pass. It returns the recorded snapshot, or false when none was taken.
func (r *Recorder) RunAt(ctx context.Context, today time.Time) (model.PortfolioSnapshot, bool, error) {
	log := logger.FromContext(ctx).With().Str("component", "snapshot").Logger()

	list, err := r.store.LoadAssets(ctx)
	if err != nil {
		return model.PortfolioSnapshot{}, false, fmt.Errorf("snapshot: %w", err)
	}
	if len(list) == 0 {
		log.Debug().Msg("no assets, skipping snapshot")
		return model.PortfolioSnapshot{}, false, nil
	}

	history, err := r.store.LoadHistory(ctx)
	if err != nil {
		return model.PortfolioSnapshot{}, false, fmt.Errorf("snapshot: %w", err)
	}

	next := Take(list, history, today, r.maxEntries)
	if err := r.store.SaveHistory(ctx, next); err != nil {
		log.Error().Err(err).Msg("saving portfolio history")
		return model.PortfolioSnapshot{}, false, fmt.Errorf("snapshot: %w", err)
	}

	snap := next[len(next)-1]
	log.Info().
		Str("date", snap.Date).
		Str("net_worth", snap.NetWorth.String()).
		Int("entries", len(next)).
		Msg("portfolio snapshot recorded")
	return snap, true, nil
}
