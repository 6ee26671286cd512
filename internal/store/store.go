package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Storage keys.
const (
	KeyAssets       = "ft_assets"
	KeyTransactions = "ft_transactions"
	KeyRecurring    = "ft_recurring"
	KeyExecutionLog = "ft_recurring_executed"
	KeyHistory      = "ft_portfolio_history"
	KeyBudgets      = "ft_budgets"
	KeyStocks       = "ft_stock_snapshots"
)

// Keys lists every key the application owns, in export order.
var Keys = []string{
	KeyAssets,
	KeyTransactions,
	KeyRecurring,
	KeyExecutionLog,
	KeyHistory,
	KeyBudgets,
	KeyStocks,
}

// KV is a key-value backend holding one JSON document per key.
type KV interface {
	// Get returns the stored bytes, or nil with no error when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value of key. A write is all-or-nothing.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Store offers typed load/save operations over a KV backend.
type Store struct {
	kv KV
}

// New wraps a KV backend.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// KV returns the underlying backend.
func (s *Store) KV() KV {
	return s.kv
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

func load[T any](ctx context.Context, kv KV, key string, dst *T) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("loading %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func save[T any](ctx context.Context, kv KV, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// LoadAssets returns the asset list.
func (s *Store) LoadAssets(ctx context.Context) ([]model.Asset, error) {
	var v []model.Asset
	if err := load(ctx, s.kv, KeyAssets, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveAssets replaces the asset list.
func (s *Store) SaveAssets(ctx context.Context, v []model.Asset) error {
	return save(ctx, s.kv, KeyAssets, nonNil(v))
}

// LoadTransactions returns the transaction list.
func (s *Store) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	var v []model.Transaction
	if err := load(ctx, s.kv, KeyTransactions, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveTransactions replaces the transaction list.
func (s *Store) SaveTransactions(ctx context.Context, v []model.Transaction) error {
	return save(ctx, s.kv, KeyTransactions, nonNil(v))
}

// LoadRecurringItems returns the recurring definitions.
func (s *Store) LoadRecurringItems(ctx context.Context) ([]model.RecurringItem, error) {
	var v []model.RecurringItem
	if err := load(ctx, s.kv, KeyRecurring, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveRecurringItems replaces the recurring definitions.
func (s *Store) SaveRecurringItems(ctx context.Context, v []model.RecurringItem) error {
	return save(ctx, s.kv, KeyRecurring, nonNil(v))
}

// LoadExecutionLog returns the recurring execution log, never nil.
func (s *Store) LoadExecutionLog(ctx context.Context) (model.ExecutionLog, error) {
	v := model.ExecutionLog{}
	if err := load(ctx, s.kv, KeyExecutionLog, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = model.ExecutionLog{}
	}
	return v, nil
}

// SaveExecutionLog replaces the recurring execution log.
func (s *Store) SaveExecutionLog(ctx context.Context, v model.ExecutionLog) error {
	if v == nil {
		v = model.ExecutionLog{}
	}
	return save(ctx, s.kv, KeyExecutionLog, v)
}

// LoadHistory returns the portfolio snapshot series, oldest first.
func (s *Store) LoadHistory(ctx context.Context) ([]model.PortfolioSnapshot, error) {
	var v []model.PortfolioSnapshot
	if err := load(ctx, s.kv, KeyHistory, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveHistory replaces the portfolio snapshot series.
func (s *Store) SaveHistory(ctx context.Context, v []model.PortfolioSnapshot) error {
	return save(ctx, s.kv, KeyHistory, nonNil(v))
}

// LoadBudgets returns the budget limits.
func (s *Store) LoadBudgets(ctx context.Context) ([]model.BudgetConfig, error) {
	var v []model.BudgetConfig
	if err := load(ctx, s.kv, KeyBudgets, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveBudgets replaces the budget limits.
func (s *Store) SaveBudgets(ctx context.Context, v []model.BudgetConfig) error {
	return save(ctx, s.kv, KeyBudgets, nonNil(v))
}

// LoadStockSnapshots returns the investment snapshot log, oldest first.
func (s *Store) LoadStockSnapshots(ctx context.Context) ([]model.StockSnapshot, error) {
	var v []model.StockSnapshot
	if err := load(ctx, s.kv, KeyStocks, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveStockSnapshots replaces the investment snapshot log.
func (s *Store) SaveStockSnapshots(ctx context.Context, v []model.StockSnapshot) error {
	return save(ctx, s.kv, KeyStocks, nonNil(v))
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
