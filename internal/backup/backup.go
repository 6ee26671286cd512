package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

// Export returns every storage key as an indented JSON object. Absent keys
// are exported as empty values.
func Export(ctx context.Context, kv store.KV) ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(store.Keys))
	for _, key := range store.Keys {
		raw, err := kv.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", key, err)
		}
		if len(raw) == 0 {
			raw = emptyValue(key)
		}
		if !json.Valid(raw) {
			return nil, fmt.Errorf("exporting %s: stored value is not valid JSON", key)
		}
		doc[key] = raw
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return out, nil
}

func emptyValue(key string) json.RawMessage {
	if key == store.KeyExecutionLog {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(`[]`)
}

// Import writes every known key present in data. Keys missing from data (or
// null) are left untouched and unknown keys are ignored. Every value is
// decoded before anything is written, so a malformed backup changes nothing.
// It returns the keys written, in storage order.
func Import(ctx context.Context, kv store.KV, data []byte) ([]string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}

	var keys []string
	for _, key := range store.Keys {
		raw, ok := doc[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := check(key, raw); err != nil {
			return nil, fmt.Errorf("backup %s: %w", key, err)
		}
		keys = append(keys, key)
	}

	for i, key := range keys {
		if err := kv.Put(ctx, key, doc[key]); err != nil {
			return keys[:i], fmt.Errorf("importing %s: %w", key, err)
		}
	}
	return keys, nil
}

func check(key string, raw json.RawMessage) error {
	var v any
	switch key {
	case store.KeyAssets:
		v = &[]model.Asset{}
	case store.KeyTransactions:
		v = &[]model.Transaction{}
	case store.KeyRecurring:
		v = &[]model.RecurringItem{}
	case store.KeyExecutionLog:
		v = &model.ExecutionLog{}
	case store.KeyHistory:
		v = &[]model.PortfolioSnapshot{}
	case store.KeyBudgets:
		v = &[]model.BudgetConfig{}
	case store.KeyStocks:
		v = &[]model.StockSnapshot{}
	default:
		return fmt.Errorf("unknown key")
	}
	return json.Unmarshal(raw, v)
}
