package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseAt(t *testing.T) {
	a := debt(1000000, "2020-01-01", f64(2), f64(20), f64(2))

	tests := []struct {
		year  int
		month int
		want  Phase
	}{
		{2019, 12, PhaseFuture},
		{2020, 1, PhaseGrace},
		{2022, 1, PhaseGrace},
		{2022, 2, PhaseRepayment},
		{2039, 12, PhaseRepayment},
		{2040, 1, PhasePaidOff},
	}
	for _, tt := range tests {
		got := PhaseAt(a, date(tt.year, 1, 1).AddDate(0, tt.month-1, 0))
		assert.Equal(t, tt.want, got, "%04d-%02d", tt.year, tt.month)
	}
}

func TestPayments(t *testing.T) {
	terms, ok := Params(debt(1000000, "2021-10-01", nil, nil, nil))
	require.True(t, ok)

	assert.True(t, terms.AmortizingPayment().Equal(dec(5059)), "got %s", terms.AmortizingPayment())
	assert.True(t, terms.InterestOnlyPayment().Equal(dec(1667)), "got %s", terms.InterestOnlyPayment())
}

func TestPaymentAt(t *testing.T) {
	terms, ok := Params(debt(1200000, "2020-01-01", f64(0), f64(10), f64(1)))
	require.True(t, ok)

	assert.True(t, terms.PaymentAt(date(2019, 6, 1)).IsZero(), "before start")
	assert.True(t, terms.PaymentAt(date(2020, 6, 1)).IsZero(), "interest only at zero rate")
	assert.True(t, terms.PaymentAt(date(2021, 6, 1)).Equal(dec(11111)), "1,200,000 over 108 months")
	assert.True(t, terms.PaymentAt(date(2031, 1, 1)).IsZero(), "after payoff")
}
