package summary

import (
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/shopspring/decimal"
)

// BreakMinutes is deducted from every worked day.
const BreakMinutes = 60

// WorkedMinutes is the span between the punches less the break, never
// negative.
func WorkedMinutes(a attendance.Attendance) int {
	if !a.IsComplete() {
		return 0
	}
	return max(0, a.CheckOut.Minutes()-a.CheckIn.Minutes()-BreakMinutes)
}

// Summarize folds the complete records of one period into minute totals.
// shiftFor reports the shift governing a date; days without one expect the
// default eight hours and accrue no lateness. Overtime on a holiday is
// routed to that holiday's bucket, where the whole worked day counts.
func Summarize(records []attendance.Attendance, shiftFor func(date time.Time) (schedule.Shift, bool), holidays holiday.Calendar) summary.Totals {
	var t summary.Totals
	for _, a := range records {
		if !a.IsComplete() {
			continue
		}

		actual := WorkedMinutes(a)
		expected := schedule.DefaultExpectedHours * 60
		late := 0
		if shift, ok := shiftFor(a.Date); ok {
			expected = shift.ExpectedMinutes()
			late = max(0, a.CheckIn.Minutes()-shift.Start.Minutes())
		}
		over := max(0, actual-expected)

		t.ActualMinutes += actual
		t.OvertimeMinutes += over
		t.LateMinutes += late
		t.UndertimeMinutes += max(0, expected-actual)

		typ, isHoliday := holidays.TypeOn(a.Date)
		switch {
		case isHoliday && typ == holiday.TypeRegular:
			t.RegularHolidayMinutes += actual
		case isHoliday && typ == holiday.TypeSpecial:
			t.SpecialHolidayMinutes += actual
		default:
			t.RegularOTMinutes += over
		}
	}
	return t
}

// ToSummary converts minute totals into the stored shape; hour fields are
// floored.
func ToSummary(userID string, period schedule.Period, t summary.Totals, triggeredBy *string) summary.AttendanceSummary {
	return summary.AttendanceSummary{
		UserID:           userID,
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
		ActualHours:      t.ActualMinutes / 60,
		OvertimeHours:    t.OvertimeMinutes / 60,
		LateMinutes:      t.LateMinutes,
		UndertimeMinutes: t.UndertimeMinutes,

		TotalActualMinutes:   t.ActualMinutes,
		TotalOvertimeMinutes: t.OvertimeMinutes,
		AttendanceID:         triggeredBy,
	}
}

var sixty = decimal.NewFromInt(60)

func minutesToHours(m int) decimal.Decimal {
	return decimal.NewFromInt(int64(m)).DivRound(sixty, 2)
}

// DerivedHours builds the attendance-derived part of a period's overtime
// hours.
func DerivedHours(s summary.AttendanceSummary, t summary.Totals) overtime.OvertimeHours {
	return overtime.OvertimeHours{
		UserID:         s.UserID,
		SummaryID:      s.ID,
		PeriodStart:    s.PeriodStart,
		RegularOT:      minutesToHours(t.RegularOTMinutes),
		RegularHoliday: minutesToHours(t.RegularHolidayMinutes),
		SpecialHoliday: minutesToHours(t.SpecialHolidayMinutes),
		LateMinutes:    decimal.NewFromInt(int64(t.LateMinutes)),
		UndertimeHours: minutesToHours(t.UndertimeMinutes),
	}
}
