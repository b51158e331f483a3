package calendar

import (
	"fmt"
	"time"
)

// TradingCalendar answers whether a given instant falls on a trading day.
// A trading day is a weekday that is not in the configured holiday set.
// Holidays are injected configuration; there is no built-in country table.
type TradingCalendar struct {
	holidays map[string]struct{}
	loc      *time.Location
}

// New builds a calendar from YYYY-MM-DD holiday dates evaluated in loc.
// A nil loc defaults to UTC.
func New(holidays []string, loc *time.Location) (*TradingCalendar, error) {
	if loc == nil {
		loc = time.UTC
	}

	set := make(map[string]struct{}, len(holidays))
	for _, day := range holidays {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", day, err)
		}
		set[day] = struct{}{}
	}

	return &TradingCalendar{holidays: set, loc: loc}, nil
}

// Location returns the calendar's reference timezone.
func (c *TradingCalendar) Location() *time.Location {
	return c.loc
}

// IsTradingDay reports whether t falls on a weekday that is not a holiday,
// evaluated in the calendar's timezone.
func (c *TradingCalendar) IsTradingDay(t time.Time) bool {
	local := t.In(c.loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	_, holiday := c.holidays[local.Format("2006-01-02")]
	return !holiday
}

// DayWindow returns the [start, end) bounds of t's calendar day in the
// calendar's timezone.
func (c *TradingCalendar) DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(c.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	return start, start.AddDate(0, 0, 1)
}
