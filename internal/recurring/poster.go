package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack-dev/fintrack/internal/clock"
	"github.com/fintrack-dev/fintrack/internal/logger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/notify"
)

// Store is the persistence the Poster needs.
type Store interface {
	LoadRecurringItems(ctx context.Context) ([]model.RecurringItem, error)
	LoadExecutionLog(ctx context.Context) (model.ExecutionLog, error)
	SaveExecutionLog(ctx context.Context, log model.ExecutionLog) error
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
}

// Poster runs Reconcile against persisted definitions and records the result.
type Poster struct {
	store    Store
	notifier notify.Notifier
	clock    clock.Clock
	template Template
}

// NewPoster creates a Poster.
func NewPoster(store Store, notifier notify.Notifier, clk clock.Clock, tpl Template) *Poster {
	return &Poster{store: store, notifier: notifier, clock: clk, template: tpl}
}

// Run posts every due item once for the clock's current period.
func (p *Poster) Run(ctx context.Context) (Result, error) {
	return p.RunAt(ctx, p.clock.Now())
}

// RunAt posts every due item once for today's period.
//
// The transaction list is re-read right before merging so a transaction
// saved since the pass began is not dropped. Transactions are saved before
// the log; if that save fails the log is left alone so nothing is marked
// posted without its transaction.
func (p *Poster) RunAt(ctx context.Context, today time.Time) (Result, error) {
	log := logger.FromContext(ctx).With().Str("component", "recurring").Logger()

	items, err := p.store.LoadRecurringItems(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("recurring: %w", err)
	}
	if len(items) == 0 {
		return Result{}, nil
	}

	executed, err := p.store.LoadExecutionLog(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("recurring: %w", err)
	}

	res := p.template.Reconcile(items, executed, today)
	if len(res.NewTransactions) == 0 {
		log.Debug().Int("items", len(items)).Msg("nothing due")
		return res, nil
	}

	latest, err := p.store.LoadTransactions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("recurring: %w", err)
	}
	merged := append(latest, res.NewTransactions...)

	if err := p.store.SaveTransactions(ctx, merged); err != nil {
		log.Error().Err(err).Int("due", len(res.NewTransactions)).Msg("saving recurring transactions")
		return Result{}, fmt.Errorf("recurring: %w", err)
	}
	if err := p.store.SaveExecutionLog(ctx, res.UpdatedLog); err != nil {
		log.Error().Err(err).Msg("saving execution log; postings may repeat on next load")
		return res, fmt.Errorf("recurring: %w", err)
	}

	for _, t := range res.NewTransactions {
		log.Info().Str("transaction_id", t.ID).Str("date", t.Date).Str("item", t.Item).Msg("recurring item posted")
	}
	n := len(res.NewTransactions)
	p.notifier.Notify(fmt.Sprintf("Posted %d recurring item(s) due this month", n), n)
	return res, nil
}
