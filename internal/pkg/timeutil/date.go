package timeutil

import "time"

// Date builds a calendar date. Dates are carried as UTC midnight so they
// compare and round-trip through Postgres DATE columns unchanged.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the calendar date of t as observed in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// FirstOfMonth returns day 1 of date's month.
func FirstOfMonth(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), 1)
}

// LastOfMonth returns the last calendar day of date's month.
func LastOfMonth(date time.Time) time.Time {
	return Date(date.Year(), date.Month()+1, 1).AddDate(0, 0, -1)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
