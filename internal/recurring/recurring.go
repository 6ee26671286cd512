// Package recurring posts fixed incomes and expenses once per period.
//
// The execution log is the only de-duplication mechanism: a (item, period
// key) pair is recorded when the item is posted and checked before any date
// logic on later loads. Period keys are calendar months, so every trigger
// inside one month collapses into a single posting.
package recurring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
)

// State of an item for the current period.
type State string

const (
	StateNotDue      State = "NOT_DUE"
	StateDueUnposted State = "DUE_UNPOSTED"
	StatePosted      State = "POSTED"
)

// Template shapes the transactions synthesized for posted items.
type Template struct {
	Prefix string // prepended to the item name
	Note   string
	Source model.Source
	NewID  func() string
}

// DefaultTemplate tags postings as RECURRING_AUTO.
var DefaultTemplate = Template{
	Prefix: "[Recurring] ",
	Note:   "Auto-Executed",
	Source: model.SourceRecurringAuto,
	NewID:  uuid.NewString,
}

// Result is the outcome of one reconciliation. UpdatedLog is a copy; the
// input log is never modified.
type Result struct {
	NewTransactions []model.Transaction
	UpdatedLog      model.ExecutionLog
}

// Reconcile evaluates items against log at today using DefaultTemplate.
func Reconcile(items []model.RecurringItem, log model.ExecutionLog, today time.Time) Result {
	return DefaultTemplate.Reconcile(items, log, today)
}

// Reconcile synthesizes one transaction for every item that is due and not
// yet posted for today's period, recording the period key against the item.
func (tpl Template) Reconcile(items []model.RecurringItem, log model.ExecutionLog, today time.Time) Result {
	updated := log.Clone()
	key := period.Key(today)

	var txns []model.Transaction
	for _, item := range items {
		if StateOf(item, updated, today) != StateDueUnposted {
			continue
		}
		txns = append(txns, tpl.transaction(item, today))
		updated.Record(item.ID, key)
	}
	return Result{NewTransactions: txns, UpdatedLog: updated}
}

// StateOf classifies item for today's period. Log membership is checked
// first; a posted item is never re-evaluated against the date.
func StateOf(item model.RecurringItem, log model.ExecutionLog, today time.Time) State {
	if posted(item, log, today) {
		return StatePosted
	}
	if IsDue(item, today) {
		return StateDueUnposted
	}
	return StateNotDue
}

// posted reports whether item already has a log entry covering today's
// period. A monthly item's period is the current month. A yearly item's
// period is the rest of the year from its due month, so a yearly posting
// recorded in any month from the due month onward counts.
func posted(item model.RecurringItem, log model.ExecutionLog, today time.Time) bool {
	if log.Has(item.ID, period.Key(today)) {
		return true
	}
	if item.Frequency != model.FrequencyYearly {
		return false
	}
	due := dueMonth(item)
	for _, key := range log[item.ID] {
		year, month, err := period.ParseKey(key)
		if err != nil {
			continue
		}
		if year == today.Year() && month >= due {
			return true
		}
	}
	return false
}

// IsDue reports whether item has come due in today's period. Monthly items
// are due once today's day reaches DayOfMonth, clamped to the month's last
// day so that day 31 still comes due in February. Yearly items are due from
// DayOfMonth of MonthOfYear until the end of the year.
func IsDue(item model.RecurringItem, today time.Time) bool {
	year, month, day := today.Year(), int(today.Month()), today.Day()
	switch item.Frequency {
	case model.FrequencyMonthly:
		return day >= dueDay(item, year, month)
	case model.FrequencyYearly:
		target := dueMonth(item)
		return month > target || (month == target && day >= dueDay(item, year, target))
	default:
		return false
	}
}

func dueMonth(item model.RecurringItem) int {
	if item.MonthOfYear == 0 {
		return 1
	}
	return item.MonthOfYear
}

func dueDay(item model.RecurringItem, year, month int) int {
	return min(item.DayOfMonth, period.DaysIn(year, month))
}

func (tpl Template) transaction(item model.RecurringItem, today time.Time) model.Transaction {
	month := int(today.Month())
	if item.Frequency == model.FrequencyYearly {
		month = dueMonth(item)
	}
	newID := tpl.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return model.Transaction{
		ID:       newID(),
		Date:     period.ClampedDay(today.Year(), month, item.DayOfMonth),
		Amount:   item.Amount,
		Category: item.Category,
		Item:     tpl.Prefix + item.Name,
		Type:     item.Type,
		Note:     tpl.Note,
		Source:   tpl.Source,
	}
}

// MonthlyEquivalent sums fixed income and expense per month, counting a
// yearly item as a twelfth of its amount.
func MonthlyEquivalent(items []model.RecurringItem) (income, expense decimal.Decimal) {
	twelve := decimal.NewFromInt(12)
	income, expense = decimal.Zero, decimal.Zero
	for _, item := range items {
		amt := item.Amount
		if item.Frequency == model.FrequencyYearly {
			amt = amt.Div(twelve)
		}
		switch item.Type {
		case model.EntryTypeIncome:
			income = income.Add(amt)
		case model.EntryTypeExpense:
			expense = expense.Add(amt)
		}
	}
	return income, expense
}
