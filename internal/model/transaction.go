package model

import (
	"github.com/shopspring/decimal"
)

// EntryType is the direction of a transaction or recurring item.
type EntryType string

const (
	EntryTypeExpense EntryType = "EXPENSE"
	EntryTypeIncome  EntryType = "INCOME"
)

// Source tags where a transaction came from.
type Source string

const (
	SourceManual        Source = "MANUAL"
	SourceAIVoice       Source = "AI_VOICE"
	SourceRecurringAuto Source = "RECURRING_AUTO"
)

// Transaction is one row of the ft_transactions list. Transactions are never
// edited after creation, only deleted.
type Transaction struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Item      string          `json:"item"`
	Note      string          `json:"note,omitempty"`
	Type      EntryType       `json:"type"`
	InvoiceID string          `json:"invoiceId,omitempty"`
	Source    Source          `json:"source,omitempty"`
}
