package recurring

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 8, 0, 0, 0, time.UTC)
}

func monthly(id string, day int) model.RecurringItem {
	return model.RecurringItem{
		ID:         id,
		Name:       "Rent " + id,
		Amount:     decimal.NewFromInt(18000),
		Category:   "Housing",
		Type:       model.EntryTypeExpense,
		Frequency:  model.FrequencyMonthly,
		DayOfMonth: day,
	}
}

func yearly(id string, month, day int) model.RecurringItem {
	return model.RecurringItem{
		ID:          id,
		Name:        "Insurance " + id,
		Amount:      decimal.NewFromInt(24000),
		Category:    "Bills",
		Type:        model.EntryTypeExpense,
		Frequency:   model.FrequencyYearly,
		DayOfMonth:  day,
		MonthOfYear: month,
	}
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("txn-%d", n)
	}
}

func TestIsDue_Monthly(t *testing.T) {
	item := monthly("rent", 5)
	tests := []struct {
		today time.Time
		want  bool
	}{
		{date(2025, 3, 1), false},
		{date(2025, 3, 4), false},
		{date(2025, 3, 5), true},
		{date(2025, 3, 31), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDue(item, tt.today), tt.today.Format("2006-01-02"))
	}
}

func TestIsDue_Yearly(t *testing.T) {
	item := yearly("ins", 3, 10)
	tests := []struct {
		today time.Time
		want  bool
	}{
		{date(2025, 1, 20), false},
		{date(2025, 2, 28), false},
		{date(2025, 3, 9), false},
		{date(2025, 3, 10), true},
		{date(2025, 7, 1), true},
		{date(2025, 12, 31), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDue(item, tt.today), tt.today.Format("2006-01-02"))
	}
}

func TestIsDue_UnknownFrequency(t *testing.T) {
	item := monthly("x", 1)
	item.Frequency = "WEEKLY"
	assert.False(t, IsDue(item, date(2025, 3, 31)))
}

func TestReconcile_PostsDueItems(t *testing.T) {
	items := []model.RecurringItem{monthly("rent", 5), monthly("gym", 20)}
	tpl := DefaultTemplate
	tpl.NewID = seqIDs()

	res := tpl.Reconcile(items, model.ExecutionLog{}, date(2025, 3, 6))

	require.Len(t, res.NewTransactions, 1)
	txn := res.NewTransactions[0]
	assert.Equal(t, "txn-1", txn.ID)
	assert.Equal(t, "2025-03-05", txn.Date)
	assert.Equal(t, "[Recurring] Rent rent", txn.Item)
	assert.Equal(t, "Housing", txn.Category)
	assert.Equal(t, model.EntryTypeExpense, txn.Type)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(18000)))
	assert.Equal(t, "Auto-Executed", txn.Note)
	assert.Equal(t, model.SourceRecurringAuto, txn.Source)

	assert.Equal(t, []string{"2025-03"}, res.UpdatedLog["rent"])
	assert.NotContains(t, res.UpdatedLog, "gym")
}

func TestReconcile_IdempotentWithinMonth(t *testing.T) {
	items := []model.RecurringItem{monthly("rent", 5)}

	first := Reconcile(items, model.ExecutionLog{}, date(2025, 3, 6))
	require.Len(t, first.NewTransactions, 1)

	second := Reconcile(items, first.UpdatedLog, date(2025, 3, 28))
	assert.Empty(t, second.NewTransactions)
	assert.Equal(t, first.UpdatedLog, second.UpdatedLog)

	next := Reconcile(items, second.UpdatedLog, date(2025, 4, 5))
	require.Len(t, next.NewTransactions, 1)
	assert.Equal(t, "2025-04-05", next.NewTransactions[0].Date)
	assert.Equal(t, []string{"2025-03", "2025-04"}, next.UpdatedLog["rent"])
}

func TestReconcile_DoesNotModifyInputLog(t *testing.T) {
	log := model.ExecutionLog{"other": {"2025-01"}}
	res := Reconcile([]model.RecurringItem{monthly("rent", 1)}, log, date(2025, 3, 6))

	require.Len(t, res.NewTransactions, 1)
	assert.NotContains(t, log, "rent")
	assert.Equal(t, []string{"2025-01"}, res.UpdatedLog["other"])
}

func TestReconcile_ClampsShortMonth(t *testing.T) {
	items := []model.RecurringItem{monthly("rent", 31)}

	assert.Empty(t, Reconcile(items, model.ExecutionLog{}, date(2025, 2, 27)).NewTransactions)

	res := Reconcile(items, model.ExecutionLog{}, date(2025, 2, 28))
	require.Len(t, res.NewTransactions, 1)
	assert.Equal(t, "2025-02-28", res.NewTransactions[0].Date)

	res = Reconcile(items, model.ExecutionLog{}, date(2024, 2, 29))
	require.Len(t, res.NewTransactions, 1)
	assert.Equal(t, "2024-02-29", res.NewTransactions[0].Date)
}

func TestReconcile_YearlyPostsOncePerYear(t *testing.T) {
	items := []model.RecurringItem{yearly("ins", 3, 10)}

	first := Reconcile(items, model.ExecutionLog{}, date(2025, 3, 10))
	require.Len(t, first.NewTransactions, 1)
	assert.Equal(t, "2025-03-10", first.NewTransactions[0].Date)

	for _, m := range []time.Month{4, 8, 12} {
		res := Reconcile(items, first.UpdatedLog, date(2025, m, 15))
		assert.Empty(t, res.NewTransactions, "month %d", m)
	}

	nextYear := Reconcile(items, first.UpdatedLog, date(2026, 3, 10))
	require.Len(t, nextYear.NewTransactions, 1)
	assert.Equal(t, "2026-03-10", nextYear.NewTransactions[0].Date)
}

func TestReconcile_YearlyCatchUpLater(t *testing.T) {
	items := []model.RecurringItem{yearly("ins", 3, 10)}

	// First load of the year happens in June; the posting keeps the due date.
	res := Reconcile(items, model.ExecutionLog{}, date(2025, 6, 2))
	require.Len(t, res.NewTransactions, 1)
	assert.Equal(t, "2025-03-10", res.NewTransactions[0].Date)
	assert.Equal(t, []string{"2025-06"}, res.UpdatedLog["ins"])

	res = Reconcile(items, res.UpdatedLog, date(2025, 7, 2))
	assert.Empty(t, res.NewTransactions)
}

func TestReconcile_YearlyDefaultsToJanuary(t *testing.T) {
	item := yearly("ins", 0, 15)
	res := Reconcile([]model.RecurringItem{item}, model.ExecutionLog{}, date(2025, 1, 15))
	require.Len(t, res.NewTransactions, 1)
	assert.Equal(t, "2025-01-15", res.NewTransactions[0].Date)
}

func TestStateOf(t *testing.T) {
	item := monthly("rent", 5)
	log := model.ExecutionLog{}

	assert.Equal(t, StateNotDue, StateOf(item, log, date(2025, 3, 4)))
	assert.Equal(t, StateDueUnposted, StateOf(item, log, date(2025, 3, 5)))

	log.Record("rent", "2025-03")
	assert.Equal(t, StatePosted, StateOf(item, log, date(2025, 3, 5)))
	// Membership is checked before the date: a posting recorded early stays posted.
	assert.Equal(t, StatePosted, StateOf(item, log, date(2025, 3, 1)))
}

func TestTemplate_LegacySource(t *testing.T) {
	tpl := Template{Prefix: "[Fixed] ", Note: "Auto-Executed", Source: model.SourceManual, NewID: seqIDs()}
	res := tpl.Reconcile([]model.RecurringItem{monthly("rent", 1)}, model.ExecutionLog{}, date(2025, 3, 1))

	require.Len(t, res.NewTransactions, 1)
	assert.Equal(t, model.SourceManual, res.NewTransactions[0].Source)
	assert.Equal(t, "[Fixed] Rent rent", res.NewTransactions[0].Item)
}

func TestMonthlyEquivalent(t *testing.T) {
	salary := monthly("salary", 1)
	salary.Type = model.EntryTypeIncome
	salary.Amount = decimal.NewFromInt(60000)

	bonus := yearly("bonus", 2, 1)
	bonus.Type = model.EntryTypeIncome
	bonus.Amount = decimal.NewFromInt(120000)

	income, expense := MonthlyEquivalent([]model.RecurringItem{salary, bonus, monthly("rent", 5), yearly("ins", 3, 10)})
	assert.True(t, income.Equal(decimal.NewFromInt(70000)), "got %s", income)
	assert.True(t, expense.Equal(decimal.NewFromInt(20000)), "got %s", expense)
}
