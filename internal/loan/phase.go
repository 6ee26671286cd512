package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Phase is where a loan sits in its lifecycle at a given date.
type Phase string

const (
	PhaseManual    Phase = "MANUAL"
	PhaseFuture    Phase = "FUTURE"
	PhaseGrace     Phase = "GRACE"
	PhaseRepayment Phase = "REPAYMENT"
	PhasePaidOff   Phase = "PAID_OFF"
)

// PhaseAt classifies a at asOf using the same boundaries as RemainingBalance.
func PhaseAt(a model.Asset, asOf time.Time) Phase {
	t, ok := Params(a)
	if !ok {
		return PhaseManual
	}
	return t.PhaseAt(asOf)
}

// PhaseAt classifies the loan at asOf.
func (t Terms) PhaseAt(asOf time.Time) Phase {
	elapsed := float64(MonthsElapsed(t.Start, asOf))
	switch {
	case elapsed < 0:
		return PhaseFuture
	case elapsed <= t.GraceMonths():
		return PhaseGrace
	case elapsed-t.GraceMonths() >= t.AmortizationMonths():
		return PhasePaidOff
	default:
		return PhaseRepayment
	}
}

// InterestOnlyPayment is the monthly interest on the full principal.
func (t Terms) InterestOnlyPayment() decimal.Decimal {
	p, _ := round(t.Principal.InexactFloat64() * t.MonthlyRate())
	return p
}

// AmortizingPayment is the level monthly payment that retires the principal
// over the amortization months:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// or P/n at a zero rate.
func (t Terms) AmortizingPayment() decimal.Decimal {
	principal := t.Principal.InexactFloat64()
	n := t.AmortizationMonths()
	r := t.MonthlyRate()

	var v float64
	if r == 0 {
		v = principal / n
	} else {
		factor := math.Pow(1+r, n)
		v = principal * r * factor / (factor - 1)
	}
	p, _ := round(v)
	return p
}

// PaymentAt is the scheduled monthly payment in the phase the loan is in at
// asOf: interest only during grace, the level payment while repaying, and
// zero before the start or after payoff.
func (t Terms) PaymentAt(asOf time.Time) decimal.Decimal {
	switch t.PhaseAt(asOf) {
	case PhaseGrace:
		return t.InterestOnlyPayment()
	case PhaseRepayment:
		return t.AmortizingPayment()
	default:
		return decimal.Zero
	}
}
