package schedule

import (
	"time"

	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// CalendarHalf returns the 1st-15th or 16th-end-of-month period holding date.
func CalendarHalf(date time.Time) Period {
	first := timeutil.FirstOfMonth(date)
	if date.Day() < 16 {
		return Period{Start: first, End: first.AddDate(0, 0, 14)}
	}
	return Period{Start: first.AddDate(0, 0, 15), End: timeutil.LastOfMonth(date)}
}

// Contains reports whether date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	d := timeutil.DateOf(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days lists every date in the period in order.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// PeriodFor returns the pay period containing date: the range of an
// explicit schedule holding the date, else the calendar half.
func PeriodFor(date time.Time, schedules []Schedule) Period {
	for _, s := range schedules {
		if s.PeriodPolicy == PeriodScheduleExplicit && s.Period().Contains(date) {
			return s.Period()
		}
	}
	return CalendarHalf(date)
}

// PickSchedule selects the schedule governing date. Explicit schedules whose
// range holds the date win; otherwise the calendar-half schedule starting on
// the date's half. Input order is newest first and the first match wins.
func PickSchedule(schedules []Schedule, date time.Time) (Schedule, bool) {
	for _, s := range schedules {
		if s.PeriodPolicy == PeriodScheduleExplicit && s.Period().Contains(date) {
			return s, true
		}
	}
	half := CalendarHalf(date)
	for _, s := range schedules {
		if s.PeriodPolicy == PeriodCalendarHalves && s.PeriodStart.Equal(half.Start) {
			return s, true
		}
	}
	return Schedule{}, false
}
