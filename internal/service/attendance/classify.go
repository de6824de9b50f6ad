package attendance

import (
	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

// Classify derives a day's status from its punches and shift window.
// Deviations are measured in whole minutes of the day; lateness wins over
// an early departure, which wins over overtime.
func Classify(checkIn, checkOut, shiftStart, shiftEnd timeutil.Clock) (attendance.Status, attendance.Metrics) {
	m := attendance.Metrics{
		LateMinutes:           max(0, checkIn.Minutes()-shiftStart.Minutes()),
		EarlyDepartureMinutes: max(0, shiftEnd.Minutes()-checkOut.Minutes()),
		OvertimeMinutes:       max(0, checkOut.Minutes()-shiftEnd.Minutes()),
	}

	switch {
	case m.LateMinutes >= attendance.LateThresholdMinutes:
		return attendance.StatusLate, m
	case m.EarlyDepartureMinutes >= attendance.UndertimeThresholdMinutes:
		return attendance.StatusUndertime, m
	case m.OvertimeMinutes >= attendance.OvertimeThresholdMinutes:
		return attendance.StatusOvertime, m
	default:
		return attendance.StatusPresent, m
	}
}
