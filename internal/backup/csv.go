package backup

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
)

var csvHeader = []string{"id", "date", "type", "category", "item", "amount", "note", "source", "invoice_id"}

const (
	colID = iota
	colDate
	colType
	colCategory
	colItem
	colAmount
	colNote
	colSource
	colInvoice
	numFields
)

// WriteTransactionsCSV writes txns with a header row. Amounts are fixed to
// two decimal places.
func WriteTransactionsCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(marshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactionsCSV reads rows written by WriteTransactionsCSV.
func ReadTransactionsCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := unmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func marshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.Date
	row[colType] = string(t.Type)
	row[colCategory] = t.Category
	row[colItem] = t.Item
	row[colAmount] = t.Amount.StringFixed(2)
	row[colNote] = t.Note
	row[colSource] = string(t.Source)
	row[colInvoice] = t.InvoiceID
	return row
}

func unmarshalTransaction(rec []string) (model.Transaction, error) {
	if _, err := period.ParseDay(rec[colDate]); err != nil {
		return model.Transaction{}, err
	}
	amount, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}
	typ := model.EntryType(rec[colType])
	if typ != model.EntryTypeExpense && typ != model.EntryTypeIncome {
		return model.Transaction{}, fmt.Errorf("unknown type %q", rec[colType])
	}
	if rec[colID] == "" {
		return model.Transaction{}, fmt.Errorf("missing id")
	}
	return model.Transaction{
		ID:        rec[colID],
		Date:      rec[colDate],
		Type:      typ,
		Category:  rec[colCategory],
		Item:      rec[colItem],
		Amount:    amount,
		Note:      rec[colNote],
		Source:    model.Source(rec[colSource]),
		InvoiceID: rec[colInvoice],
	}, nil
}

// MergeTransactions appends the incoming transactions whose IDs are not
// already present. It returns the merged list and the number added.
func MergeTransactions(existing, incoming []model.Transaction) ([]model.Transaction, int) {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.ID] = true
	}
	merged := append([]model.Transaction(nil), existing...)
	added := 0
	for _, t := range incoming {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		merged = append(merged, t)
		added++
	}
	return merged, added
}
