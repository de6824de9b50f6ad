package schedule

import (
	"fmt"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

// DefaultExpectedHours applies when no shift covers a worked day.
const DefaultExpectedHours = 8

// Shift is a dated working window with an expected number of paid hours.
type Shift struct {
	ID            string
	Date          time.Time
	Start         timeutil.Clock
	End           timeutil.Clock
	ExpectedHours int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExpectedMinutes is the paid length of the shift.
func (s Shift) ExpectedMinutes() int {
	return s.ExpectedHours * 60
}

// PeriodPolicy decides how a schedule's pay period is bounded.
type PeriodPolicy string

const (
	// PeriodCalendarHalves splits every month into the 1st-15th and the 16th-end.
	PeriodCalendarHalves PeriodPolicy = "calendar_halves"
	// PeriodScheduleExplicit uses the start and end stored on the schedule.
	PeriodScheduleExplicit PeriodPolicy = "schedule_explicit"
)

func ParsePeriodPolicy(s string) (PeriodPolicy, error) {
	switch PeriodPolicy(s) {
	case PeriodCalendarHalves, PeriodScheduleExplicit:
		return PeriodPolicy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriodPolicy, s)
}

// Schedule assigns an ordered set of shifts to a user for one pay period.
type Schedule struct {
	ID           string
	UserID       string
	ShiftIDs     []string
	PeriodPolicy PeriodPolicy
	PeriodStart  time.Time
	PeriodEnd    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s Schedule) Period() Period {
	return Period{Start: s.PeriodStart, End: s.PeriodEnd}
}

func (s Schedule) HasShift(shiftID string) bool {
	for _, id := range s.ShiftIDs {
		if id == shiftID {
			return true
		}
	}
	return false
}
