package summary

import "time"

// AttendanceSummary aggregates one user's attendance over one pay period.
// Hour fields are whole hours (minutes floored); the Total*Minutes fields keep
// the exact sums they were floored from. Late and undertime stay in minutes.
type AttendanceSummary struct {
	ID               string
	UserID           string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	ActualHours      int
	OvertimeHours    int
	LateMinutes      int
	UndertimeMinutes int

	TotalActualMinutes   int
	TotalOvertimeMinutes int

	// AttendanceID is the attendance row whose change last triggered the
	// recompute.
	AttendanceID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Totals are the minute sums a summary is built from.
type Totals struct {
	ActualMinutes    int
	OvertimeMinutes  int
	LateMinutes      int
	UndertimeMinutes int

	// Holiday routing for overtime hours.
	RegularOTMinutes      int
	RegularHolidayMinutes int
	SpecialHolidayMinutes int
}
