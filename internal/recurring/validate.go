package recurring

import (
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// ValidationError describes one invalid field of a recurring item.
type ValidationError struct {
	ItemID      string
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("recurring item [%s] %s: %s", e.ItemID, e.Field, e.Description)
}

// Validate checks item's fields. It returns nil when the item is valid.
func Validate(item model.RecurringItem) []ValidationError {
	var errs []ValidationError
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{ItemID: item.ID, Field: field, Description: fmt.Sprintf(format, args...)})
	}

	if item.ID == "" {
		fail("id", "must not be empty")
	}
	if item.Name == "" {
		fail("name", "must not be empty")
	}
	if item.Category == "" {
		fail("category", "must not be empty")
	}
	if !item.Amount.IsPositive() {
		fail("amount", "must be positive, got %s", item.Amount)
	}
	if item.Type != model.EntryTypeExpense && item.Type != model.EntryTypeIncome {
		fail("type", "must be EXPENSE or INCOME, got %q", item.Type)
	}
	if item.DayOfMonth < 1 || item.DayOfMonth > 31 {
		fail("dayOfMonth", "must be within 1..31, got %d", item.DayOfMonth)
	}

	switch item.Frequency {
	case model.FrequencyMonthly:
		if item.MonthOfYear != 0 {
			fail("monthOfYear", "only applies to YEARLY items")
		}
	case model.FrequencyYearly:
		if item.MonthOfYear < 1 || item.MonthOfYear > 12 {
			fail("monthOfYear", "must be within 1..12 for YEARLY items, got %d", item.MonthOfYear)
		}
	default:
		fail("frequency", "must be MONTHLY or YEARLY, got %q", item.Frequency)
	}

	return errs
}
