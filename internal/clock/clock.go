package clock

import "time"

// Clock supplies the current time to code that depends on "today".
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed time.Time

// Now implements Clock.
func (f Fixed) Now() time.Time { return time.Time(f) }

// Date returns a Fixed clock at midnight of the given day in loc.
func Date(year int, month time.Month, day int, loc *time.Location) Fixed {
	return Fixed(time.Date(year, month, day, 0, 0, 0, 0, loc))
}
