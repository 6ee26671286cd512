package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DayLayout is the storage format of calendar dates.
	DayLayout = "2006-01-02"
	// MonthLayout is the storage format of period keys.
	MonthLayout = "2006-01"
)

// Key returns the period key for t, like "2025-01".
func Key(t time.Time) string {
	return FormatKey(t.Year(), int(t.Month()))
}

// FormatKey returns a period key like "2025-01".
func FormatKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseKey parses "2025-01" into year and month.
func ParseKey(key string) (year, month int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid period key: %q", key)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in period key %q: %w", key, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in period key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in period key %q", key)
	}

	return year, month, nil
}

// Day formats t as "2025-01-15".
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a "2025-01-15" date at midnight UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDay formats year-month-day, pulling day back to the last day of the
// month when it overflows (31 in February becomes 28 or 29).
func ClampedDay(year, month, day int) string {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// StartOfMonth returns midnight on the first day of t's month, in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
