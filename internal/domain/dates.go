package domain

import "time"

// openingLookbackYears is how far back a written opening anchor defaults
// when no explicit date is given.
const openingLookbackYears = 2

// Day truncates t to its calendar day at midnight UTC. All entry dates are
// compared at day granularity.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day.
func Today() time.Time {
	return Day(time.Now())
}

// DayBefore returns the calendar day preceding t.
func DayBefore(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, -1)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// MinDay returns the earlier of two calendar days.
func MinDay(a, b time.Time) time.Time {
	a, b = Day(a), Day(b)
	if a.Before(b) {
		return a
	}
	return b
}

// DefaultOpeningDate resolves the write-time default date for an opening
// anchor: the day before the oldest entry, capped at the lookback horizon,
// or the bare horizon when the account has no entries. The read-time
// default for an empty account is Today instead; the two deliberately
// disagree.
func DefaultOpeningDate(oldestEntryDate *time.Time, today time.Time) time.Time {
	horizon := Day(today).AddDate(-openingLookbackYears, 0, 0)
	if oldestEntryDate == nil {
		return horizon
	}
	return MinDay(DayBefore(*oldestEntryDate), horizon)
}
