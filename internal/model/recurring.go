package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Frequency controls how often a recurring item comes due.
type Frequency string

const (
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// RecurringItem is a fixed income or expense that is posted automatically
// once it comes due.
type RecurringItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        EntryType       `json:"type"`
	Frequency   Frequency       `json:"frequency"`
	DayOfMonth  int             `json:"dayOfMonth"`            // 1-31
	MonthOfYear int             `json:"monthOfYear,omitempty"` // 1-12, YEARLY only
}

// ExecutionLog maps a recurring item ID to the period keys ("YYYY-MM")
// already posted for it.
type ExecutionLog map[string][]string

// Has reports whether key was already recorded for itemID.
func (l ExecutionLog) Has(itemID, key string) bool {
	return slices.Contains(l[itemID], key)
}

// Record adds key for itemID unless it is already present.
func (l ExecutionLog) Record(itemID, key string) {
	if l.Has(itemID, key) {
		return
	}
	l[itemID] = append(l[itemID], key)
}

// Clone returns a deep copy.
func (l ExecutionLog) Clone() ExecutionLog {
	out := make(ExecutionLog, len(l))
	for id, keys := range l {
		out[id] = slices.Clone(keys)
	}
	return out
}
