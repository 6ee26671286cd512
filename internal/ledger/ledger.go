package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
)

// ErrNotFound is returned when a transaction ID is not in the list.
var ErrNotFound = errors.New("transaction not found")

// Store is the persistence the Service needs.
type Store interface {
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
}

// Service records and removes hand-entered transactions.
type Service struct {
	store Store
	newID func() string
}

// NewService creates a Service.
func NewService(store Store) *Service {
	return &Service{store: store, newID: uuid.NewString}
}

// Add validates t and appends it to the latest persisted list. A missing ID
// is generated and a missing source is MANUAL. It returns the stored
// transaction.
func (s *Service) Add(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if t.ID == "" {
		t.ID = s.newID()
	}
	if t.Source == "" {
		t.Source = model.SourceManual
	}
	if verrs := Validate(t); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return model.Transaction{}, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	latest, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	if slices.ContainsFunc(latest, func(x model.Transaction) bool { return x.ID == t.ID }) {
		return model.Transaction{}, fmt.Errorf("transaction %s already exists", t.ID)
	}
	if err := s.store.SaveTransactions(ctx, append(latest, t)); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// Delete removes the transaction id and returns it.
func (s *Service) Delete(ctx context.Context, id string) (model.Transaction, error) {
	list, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	i := slices.IndexFunc(list, func(t model.Transaction) bool { return t.ID == id })
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := list[i]
	if err := s.store.SaveTransactions(ctx, slices.Delete(list, i, i+1)); err != nil {
		return model.Transaction{}, err
	}
	return removed, nil
}

// ValidationError describes one invalid field of a transaction.
type ValidationError struct {
	TransactionID string
	Field         string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("transaction [%s] %s: %s", e.TransactionID, e.Field, e.Description)
}

// Validate checks t's fields. It returns nil when the transaction is valid.
func Validate(t model.Transaction) []ValidationError {
	var errs []ValidationError
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{TransactionID: t.ID, Field: field, Description: fmt.Sprintf(format, args...)})
	}

	if t.ID == "" {
		fail("id", "must not be empty")
	}
	if t.Item == "" {
		fail("item", "must not be empty")
	}
	if t.Category == "" {
		fail("category", "must not be empty")
	}
	if !t.Amount.IsPositive() {
		fail("amount", "must be positive, got %s", t.Amount)
	}
	if t.Type != model.EntryTypeExpense && t.Type != model.EntryTypeIncome {
		fail("type", "must be EXPENSE or INCOME, got %q", t.Type)
	}
	if _, err := period.ParseDay(t.Date); err != nil {
		fail("date", "%v", err)
	}
	return errs
}

// InMonth returns the transactions dated in the month key (YYYY-MM). An
// empty key matches every transaction.
func InMonth(txns []model.Transaction, key string) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if key == "" || strings.HasPrefix(t.Date, key+"-") {
			out = append(out, t)
		}
	}
	return out
}

// Newest returns a copy of txns ordered by date, newest first. Transactions
// sharing a date keep their recorded order reversed, so the latest entry
// comes first.
func Newest(txns []model.Transaction) []model.Transaction {
	out := slices.Clone(txns)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}

// Sum totals income and expense amounts.
func Sum(txns []model.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case model.EntryTypeIncome:
			income = income.Add(t.Amount)
		case model.EntryTypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
