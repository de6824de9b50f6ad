package overtime

import (
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

// Premium multipliers applied to the hourly rate.
var (
	RegularOTMultiplier      = decimal.RequireFromString("1.25")
	RegularHolidayMultiplier = decimal.RequireFromString("2.6")
	SpecialHolidayMultiplier = decimal.RequireFromString("1.3")
	RestDayMultiplier        = decimal.RequireFromString("1.69")
	NightDiffMultiplier      = decimal.RequireFromString("2.20")
)

var (
	// monthly rate to hourly: 26 working days of 8 hours
	hoursPerMonth   = decimal.NewFromInt(26 * 8)
	minutesPerMonth = decimal.NewFromInt(26 * 8 * 60)
)

// HourlyRate converts a monthly basic rate.
func HourlyRate(basicRate decimal.Decimal) decimal.Decimal {
	return basicRate.Div(hoursPerMonth)
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Compute prices one period's overtime hours. Every component is rounded to
// cents and Total is the sum of the rounded components.
func Compute(h overtime.OvertimeHours, rates overtime.Rates, policy overtime.TotalPolicy) overtime.TotalOvertime {
	hourly := HourlyRate(rates.BasicRate)

	t := overtime.TotalOvertime{
		OvertimeHoursID: h.ID,
		UserID:          h.UserID,
		PeriodStart:     h.PeriodStart,
		RegularOT:       money(hourly.Mul(RegularOTMultiplier).Mul(h.RegularOT)),
		RegularHoliday:  money(hourly.Mul(RegularHolidayMultiplier).Mul(h.RegularHoliday)),
		SpecialHoliday:  money(hourly.Mul(SpecialHolidayMultiplier).Mul(h.SpecialHoliday)),
		RestDay:         money(hourly.Mul(RestDayMultiplier).Mul(h.RestDay)),
		NightDiff:       money(hourly.Mul(NightDiffMultiplier).Mul(h.NightDiff)),
		Backwage:        money(rates.BackwageBase.Mul(h.Backwage)),
		Late:            money(rates.LateBase.Div(minutesPerMonth).Mul(h.LateMinutes)),
		Undertime:       money(hourly.Mul(h.UndertimeHours)),
	}

	t.Total = decimal.Sum(t.RegularOT, t.RegularHoliday, t.SpecialHoliday, t.RestDay, t.NightDiff, t.Backwage)
	if policy == overtime.TotalPremiumsAndDeductions {
		t.Total = t.Total.Add(t.Late).Add(t.Undertime)
	}
	return t
}
