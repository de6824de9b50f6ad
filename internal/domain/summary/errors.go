package summary

import "errors"

var (
	ErrSummaryNotFound = errors.New("attendance summary not found")
	// ErrNoShift means the day that triggered a recompute has no resolvable
	// shift, so the period summary is left as it was.
	ErrNoShift = errors.New("no shift resolved for the triggering date")
)
