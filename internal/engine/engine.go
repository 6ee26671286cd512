// Package engine runs one application load: loan balances are reconciled
// first, the net-worth snapshot is taken from the reconciled assets, and
// recurring items are posted last.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/clock"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/gitops"
	"github.com/fintrack-dev/fintrack/internal/logger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/notify"
	"github.com/fintrack-dev/fintrack/internal/period"
	"github.com/fintrack-dev/fintrack/internal/reconcile"
	"github.com/fintrack-dev/fintrack/internal/recurring"
	"github.com/fintrack-dev/fintrack/internal/runlog"
	"github.com/fintrack-dev/fintrack/internal/snapshot"
)

// Store is the persistence a load pass needs.
type Store interface {
	reconcile.AssetStore
	recurring.Store
	snapshot.Store
}

// Options configures an Engine.
type Options struct {
	Threshold  decimal.Decimal
	MaxHistory int
	Template   recurring.Template

	// DataDir receives the run log. Empty disables it.
	DataDir string
	// AutoCommit commits DataDir after a pass when it is a git repository.
	AutoCommit bool
	Author     gitops.Author
}

// OptionsFromConfig maps cfg onto Options for dataDir.
func OptionsFromConfig(cfg *config.Config, dataDir string) Options {
	return Options{
		Threshold:  decimal.NewFromFloat(cfg.Reconcile.MaterialityThreshold),
		MaxHistory: cfg.Snapshot.MaxHistory,
		Template: recurring.Template{
			Prefix: cfg.Recurring.DescriptionPrefix,
			Note:   cfg.Recurring.Note,
			Source: model.Source(cfg.Recurring.Source),
			NewID:  uuid.NewString,
		},
		DataDir:    dataDir,
		AutoCommit: cfg.Git.AutoCommit,
		Author:     gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail},
	}
}

// Report summarizes one load pass.
type Report struct {
	Date     string
	Changes  []reconcile.Change
	Snapshot *model.PortfolioSnapshot
	Posted   []model.Transaction
	Commit   string
}

// Mutated reports whether the pass wrote anything.
func (r Report) Mutated() bool {
	return len(r.Changes) > 0 || r.Snapshot != nil || len(r.Posted) > 0
}

// Engine wires the automatic passes together.
type Engine struct {
	clock     clock.Clock
	opts      Options
	scheduler *reconcile.Scheduler
	recorder  *snapshot.Recorder
	poster    *recurring.Poster
}

// New creates an Engine.
func New(store Store, notifier notify.Notifier, clk clock.Clock, opts Options) *Engine {
	return &Engine{
		clock:     clk,
		opts:      opts,
		scheduler: reconcile.NewScheduler(store, notifier, clk, opts.Threshold),
		recorder:  snapshot.NewRecorder(store, clk, opts.MaxHistory),
		poster:    recurring.NewPoster(store, notifier, clk, opts.Template),
	}
}

// Load runs one pass. The clock is read once and every stage runs against
// that reading, so a pass spanning midnight stays on one date. Every stage is attempted and their errors are joined,
// except that no snapshot is taken when reconciliation failed, since the
// persisted balances would be stale.
func (e *Engine) Load(ctx context.Context) (Report, error) {
	now := e.clock.Now()
	log := logger.FromContext(ctx).With().Str("date", period.Day(now)).Logger()
	ctx = logger.WithContext(ctx, log)

	report := Report{Date: period.Day(now)}
	var errs []error

	rec, err := e.scheduler.RunAt(ctx, now)
	if err != nil {
		errs = append(errs, err)
	} else {
		report.Changes = rec.Changes

		snap, ok, err := e.recorder.RunAt(ctx, now)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			report.Snapshot = &snap
		}
	}

	posted, err := e.poster.RunAt(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}
	// Transactions are saved before the log, so a failed log save still
	// leaves postings on disk.
	report.Posted = posted.NewTransactions

	if report.Mutated() {
		if err := e.audit(report, now); err != nil {
			log.Warn().Err(err).Msg("writing run log")
			errs = append(errs, err)
		}
		hash, err := e.commit(ctx, report)
		if err != nil {
			log.Warn().Err(err).Msg("committing data dir")
			errs = append(errs, err)
		}
		report.Commit = hash
	}

	log.Info().
		Int("balances_updated", len(report.Changes)).
		Bool("snapshot", report.Snapshot != nil).
		Int("recurring_posted", len(report.Posted)).
		Msg("load pass complete")
	return report, errors.Join(errs...)
}

func (e *Engine) audit(r Report, now time.Time) error {
	if e.opts.DataDir == "" {
		return nil
	}
	var entries []runlog.Entry
	for _, c := range r.Changes {
		entries = append(entries, runlog.Entry{
			Timestamp: now,
			Component: runlog.ComponentReconcile,
			Action:    "update_balance",
			Details:   fmt.Sprintf("%s: %s -> %s", c.Name, c.Old, c.New),
			Ref:       c.AssetID,
			Amount:    c.New.String(),
		})
	}
	if r.Snapshot != nil {
		entries = append(entries, runlog.Entry{
			Timestamp: now,
			Component: runlog.ComponentSnapshot,
			Action:    "record",
			Details:   fmt.Sprintf("assets %s, liabilities %s", r.Snapshot.TotalAssets, r.Snapshot.TotalLiabilities),
			Ref:       r.Snapshot.Date,
			Amount:    r.Snapshot.NetWorth.String(),
		})
	}
	for _, t := range r.Posted {
		entries = append(entries, runlog.Entry{
			Timestamp: now,
			Component: runlog.ComponentRecurring,
			Action:    "post",
			Details:   fmt.Sprintf("%s on %s", t.Item, t.Date),
			Ref:       t.ID,
			Amount:    t.Amount.String(),
		})
	}
	return runlog.Append(e.opts.DataDir, entries)
}

func (e *Engine) commit(ctx context.Context, r Report) (string, error) {
	if !e.opts.AutoCommit || e.opts.DataDir == "" || !gitops.IsRepo(e.opts.DataDir) {
		return "", nil
	}
	return gitops.CommitAll(ctx, e.opts.DataDir, CommitMessage(r), e.opts.Author)
}

// CommitMessage describes the pass for the data directory's git history.
func CommitMessage(r Report) string {
	var parts []string
	if n := len(r.Changes); n > 0 {
		parts = append(parts, fmt.Sprintf("%d loan balance(s) updated", n))
	}
	if n := len(r.Posted); n > 0 {
		parts = append(parts, fmt.Sprintf("%d recurring item(s) posted", n))
	}
	if r.Snapshot != nil {
		parts = append(parts, "net worth "+r.Snapshot.NetWorth.String())
	}
	if len(parts) == 0 {
		return "sync " + r.Date
	}
	return fmt.Sprintf("sync %s: %s", r.Date, strings.Join(parts, ", "))
}
