package budget

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
)

// Level grades spending against a limit.
type Level string

const (
	LevelOK      Level = "OK"
	LevelWarning Level = "WARNING" // above 80%
	LevelOver    Level = "OVER"    // above 100%
)

var (
	warnPercent = decimal.NewFromInt(80)
	overPercent = decimal.NewFromInt(100)
	hundred     = decimal.NewFromInt(100)
)

// LevelOf grades a percentage of the limit spent.
func LevelOf(percent decimal.Decimal) Level {
	switch {
	case percent.GreaterThan(overPercent):
		return LevelOver
	case percent.GreaterThan(warnPercent):
		return LevelWarning
	default:
		return LevelOK
	}
}

// Line is the status of one budgeted category.
type Line struct {
	Category string
	Limit    decimal.Decimal
	Spent    decimal.Decimal
	Percent  decimal.Decimal // rounded to one decimal place
	Level    Level
}

// Report is the spending status of one month.
type Report struct {
	Month string
	Lines []Line

	// Totals cover budgeted categories only.
	TrackedSpend decimal.Decimal
	TotalLimit   decimal.Decimal
	Percent      decimal.Decimal
	Level        Level

	// Unbudgeted holds this month's spend in categories without a limit.
	Unbudgeted map[string]decimal.Decimal
}

// Status reports spending from the first of today's month through today
// against every budget with a positive limit.
func Status(txns []model.Transaction, budgets []model.BudgetConfig, today time.Time) Report {
	spend := MonthSpend(txns, today)

	r := Report{
		Month:        period.Key(today),
		TrackedSpend: decimal.Zero,
		TotalLimit:   decimal.Zero,
		Percent:      decimal.Zero,
		Unbudgeted:   make(map[string]decimal.Decimal),
	}
	budgeted := make(map[string]bool, len(budgets))
	for _, b := range budgets {
		if !b.Limit.IsPositive() {
			continue
		}
		budgeted[b.Category] = true
		spent := spend[b.Category]
		pct := percentOf(spent, b.Limit)
		r.Lines = append(r.Lines, Line{
			Category: b.Category,
			Limit:    b.Limit,
			Spent:    spent,
			Percent:  pct,
			Level:    LevelOf(pct),
		})
		r.TrackedSpend = r.TrackedSpend.Add(spent)
		r.TotalLimit = r.TotalLimit.Add(b.Limit)
	}
	for cat, amt := range spend {
		if !budgeted[cat] {
			r.Unbudgeted[cat] = amt
		}
	}
	if r.TotalLimit.IsPositive() {
		r.Percent = percentOf(r.TrackedSpend, r.TotalLimit)
	}
	r.Level = LevelOf(r.Percent)
	return r
}

func percentOf(spent, limit decimal.Decimal) decimal.Decimal {
	return spent.Div(limit).Mul(hundred).Round(1)
}

// MonthSpend sums EXPENSE transactions by category from the first of
// today's month through today. Transactions with unparseable dates are
// ignored.
func MonthSpend(txns []model.Transaction, today time.Time) map[string]decimal.Decimal {
	return spendBetween(txns, period.StartOfMonth(today), today)
}

func spendBetween(txns []model.Transaction, from, to time.Time) map[string]decimal.Decimal {
	lo, hi := period.Day(from), period.Day(to)
	out := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Type != model.EntryTypeExpense {
			continue
		}
		if _, err := period.ParseDay(t.Date); err != nil {
			continue
		}
		if t.Date < lo || t.Date > hi {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// MonthlyAverages averages EXPENSE spend per category over the last months
// months up to today, rounded to whole units.
func MonthlyAverages(txns []model.Transaction, today time.Time, months int) map[string]decimal.Decimal {
	if months <= 0 {
		months = 1
	}
	totals := spendBetween(txns, today.AddDate(0, -months, 0), today)
	n := decimal.NewFromInt(int64(months))
	for cat, amt := range totals {
		totals[cat] = amt.Div(n).Round(0)
	}
	return totals
}

// LargeExpenses returns up to n of the largest expenses of the last 30 days,
// leaving out investments and recurring postings.
func LargeExpenses(txns []model.Transaction, today time.Time, n int) []model.Transaction {
	lo, hi := period.Day(today.AddDate(0, 0, -30)), period.Day(today)
	var out []model.Transaction
	for _, t := range txns {
		if t.Type != model.EntryTypeExpense || t.Category == CategoryInvestment {
			continue
		}
		if t.Source == model.SourceRecurringAuto || strings.Contains(t.Note, "Auto-Executed") {
			continue
		}
		if t.Date < lo || t.Date > hi {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return b.Amount.Cmp(a.Amount)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Set returns budgets with category's limit replaced. A non-positive limit
// removes the category. The input is not modified.
func Set(budgets []model.BudgetConfig, category string, limit decimal.Decimal) []model.BudgetConfig {
	out := make([]model.BudgetConfig, 0, len(budgets)+1)
	for _, b := range budgets {
		if b.Category != category {
			out = append(out, b)
		}
	}
	if limit.IsPositive() {
		out = append(out, model.BudgetConfig{Category: category, Limit: limit})
	}
	return out
}

// Sorted returns budgets ordered by category.
func Sorted(budgets []model.BudgetConfig) []model.BudgetConfig {
	out := slices.Clone(budgets)
	slices.SortFunc(out, func(a, b model.BudgetConfig) int { return cmp.Compare(a.Category, b.Category) })
	return out
}
