package recurring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(monthly("rent", 5)))
	assert.Empty(t, Validate(yearly("ins", 12, 31)))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.RecurringItem)
		field  string
	}{
		{"missing name", func(i *model.RecurringItem) { i.Name = "" }, "name"},
		{"missing category", func(i *model.RecurringItem) { i.Category = "" }, "category"},
		{"zero amount", func(i *model.RecurringItem) { i.Amount = decimal.Zero }, "amount"},
		{"bad type", func(i *model.RecurringItem) { i.Type = "TRANSFER" }, "type"},
		{"day zero", func(i *model.RecurringItem) { i.DayOfMonth = 0 }, "dayOfMonth"},
		{"day 32", func(i *model.RecurringItem) { i.DayOfMonth = 32 }, "dayOfMonth"},
		{"month on monthly", func(i *model.RecurringItem) { i.MonthOfYear = 3 }, "monthOfYear"},
		{"bad frequency", func(i *model.RecurringItem) { i.Frequency = "WEEKLY" }, "frequency"},
	}
	for _, tt := range tests {
		item := monthly("rent", 5)
		tt.mutate(&item)
		errs := Validate(item)
		if assert.Len(t, errs, 1, tt.name) {
			assert.Equal(t, tt.field, errs[0].Field, tt.name)
			assert.Contains(t, errs[0].Error(), "rent", tt.name)
		}
	}
}

func TestValidate_YearlyNeedsMonth(t *testing.T) {
	item := yearly("ins", 0, 10)
	errs := Validate(item)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "monthOfYear", errs[0].Field)
	}

	item.MonthOfYear = 13
	assert.Len(t, Validate(item), 1)
}
