// Package loan derives the remaining principal of a debt asset from its loan
// parameters.
//
// Months elapsed are counted by calendar year and month only; the day of
// month of both the start date and the as-of date is ignored, so a loan that
// started on the 31st amortizes on the same schedule as one that started on
// the 1st of that month.
//
// Inputs are not validated. A negative rate or a zero term produces whatever
// the arithmetic produces.
package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
)

// Defaults applied when a loan parameter is absent.
const (
	DefaultInterestRate = 2.0 // annual percent
	DefaultTermYears    = 20.0
	DefaultGraceYears   = 0.0
)

// Terms are the resolved parameters of an auto-calculated loan.
type Terms struct {
	Principal  decimal.Decimal
	AnnualRate float64 // percent, e.g. 2.0
	TermYears  float64 // includes the grace period
	GraceYears float64
	Start      time.Time
}

// Params resolves an asset's loan parameters. ok is false when the asset is a
// manually managed balance (not a debt, or missing start date or principal),
// or when the start date cannot be parsed.
func Params(a model.Asset) (t Terms, ok bool) {
	if !a.AutoCalculated() {
		return Terms{}, false
	}
	start, err := period.ParseDay(a.StartDate)
	if err != nil {
		return Terms{}, false
	}
	return Terms{
		Principal:  *a.OriginalAmount,
		AnnualRate: orDefault(a.InterestRate, DefaultInterestRate),
		TermYears:  orDefault(a.TermYears, DefaultTermYears),
		GraceYears: orDefault(a.InterestOnlyPeriod, DefaultGraceYears),
		Start:      start,
	}, true
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// MonthsElapsed is the whole-month distance from start to asOf, by calendar
// year and month. Negative when start is in a later month than asOf.
func MonthsElapsed(start, asOf time.Time) int {
	return (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
}

// RemainingBalance returns the principal still owed on a at asOf. Assets that
// are not auto-calculated pass their stored Amount through unchanged.
func RemainingBalance(a model.Asset, asOf time.Time) decimal.Decimal {
	t, ok := Params(a)
	if !ok {
		return a.Amount
	}
	bal, ok := t.BalanceAt(asOf)
	if !ok {
		return a.Amount
	}
	return bal
}

// GraceMonths is the length of the interest-only phase in months.
func (t Terms) GraceMonths() float64 {
	return t.GraceYears * 12
}

// AmortizationMonths is the number of repayment months after the grace period.
func (t Terms) AmortizationMonths() float64 {
	return t.TermYears*12 - t.GraceMonths()
}

// MonthlyRate is the periodic rate as a fraction.
func (t Terms) MonthlyRate() float64 {
	return t.AnnualRate / 100 / 12
}

// BalanceAt returns the remaining principal at asOf, rounded to whole units.
// ok is false only when the arithmetic is not finite (nonsensical inputs such
// as a rate below -1200%).
func (t Terms) BalanceAt(asOf time.Time) (decimal.Decimal, bool) {
	elapsed := MonthsElapsed(t.Start, asOf)
	if elapsed < 0 {
		return t.Principal, true
	}

	grace := t.GraceMonths()
	if float64(elapsed) <= grace {
		return t.Principal, true
	}

	rate := t.MonthlyRate()
	total := t.AmortizationMonths()
	paid := float64(elapsed) - grace
	if paid >= total {
		return decimal.Zero, true
	}

	principal := t.Principal.InexactFloat64()
	var remaining float64
	if rate == 0 {
		remaining = principal * (1 - paid/total)
	} else {
		factorN := math.Pow(1+rate, total)
		factorP := math.Pow(1+rate, paid)
		remaining = principal * (factorN - factorP) / (factorN - 1)
	}
	return round(remaining)
}

func round(v float64) (decimal.Decimal, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v).Round(0), true
}
