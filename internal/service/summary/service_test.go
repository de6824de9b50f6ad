package summary

import (
	"context"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	holidaysvc "github.com/fresco-hris/payroll-backend/internal/service/holiday"
	schedulesvc "github.com/fresco-hris/payroll-backend/internal/service/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(s string) *timeutil.Clock {
	c, err := timeutil.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func day(d int, in, out string) attendance.Attendance {
	a := attendance.Attendance{UserID: "u1", Date: timeutil.Date(2024, 3, d)}
	if in != "" {
		a.CheckIn = clock(in)
	}
	if out != "" {
		a.CheckOut = clock(out)
	}
	return a
}

func TestSummarize(t *testing.T) {
	nineToSix := schedule.Shift{Start: *clock("09:00"), End: *clock("18:00"), ExpectedHours: 8}
	shiftFor := func(d time.Time) (schedule.Shift, bool) {
		if d.Day() == 6 {
			return schedule.Shift{}, false
		}
		return nineToSix, true
	}
	cal := holiday.NewCalendar([]holiday.Holiday{{Date: timeutil.Date(2024, 3, 8), Type: holiday.TypeRegular}})

	records := []attendance.Attendance{
		day(4, "09:00", "18:00"), // exact shift
		day(5, "09:20", "19:30"), // 20 late, 70 over
		day(6, "08:00", "17:00"), // no shift: default 480, no lateness
		day(7, "09:00", "09:00"), // incomplete
		day(7, "09:00", ""),      // incomplete
		day(8, "09:00", "20:00"), // regular holiday, 600 worked
		day(11, "09:00", "15:00"),
	}
	got := Summarize(records, shiftFor, cal)

	assert.Equal(t, summary.Totals{
		ActualMinutes:         480 + 550 + 480 + 600 + 300,
		OvertimeMinutes:       70 + 120,
		LateMinutes:           20,
		UndertimeMinutes:      180,
		RegularOTMinutes:      70,
		RegularHolidayMinutes: 600,
	}, got)
}

func TestWorkedMinutes_FloorsAtZero(t *testing.T) {
	assert.Equal(t, 0, WorkedMinutes(day(4, "09:00", "09:30")))
	assert.Equal(t, 0, WorkedMinutes(day(4, "09:00", "")))
}

func TestToSummary_KeepsExactMinutes(t *testing.T) {
	period := schedule.Period{Start: timeutil.Date(2024, 3, 16), End: timeutil.Date(2024, 3, 31)}
	s := ToSummary("u1", period, summary.Totals{ActualMinutes: 2410, OvertimeMinutes: 190, LateMinutes: 7}, nil)

	assert.Equal(t, 40, s.ActualHours)
	assert.Equal(t, 3, s.OvertimeHours)
	assert.Equal(t, 2410, s.TotalActualMinutes)
	assert.Equal(t, 190, s.TotalOvertimeMinutes)
	assert.Equal(t, 7, s.LateMinutes)
	assert.Equal(t, period.End, s.PeriodEnd)
}

func TestDerivedHours(t *testing.T) {
	s := summary.AttendanceSummary{ID: "s1", UserID: "u1", PeriodStart: timeutil.Date(2024, 3, 1)}
	h := DerivedHours(s, summary.Totals{RegularOTMinutes: 90, SpecialHolidayMinutes: 500, LateMinutes: 25, UndertimeMinutes: 10})

	assert.Equal(t, "s1", h.SummaryID)
	assert.True(t, decimal.RequireFromString("1.5").Equal(h.RegularOT))
	assert.True(t, decimal.RequireFromString("8.33").Equal(h.SpecialHoliday))
	assert.True(t, decimal.NewFromInt(25).Equal(h.LateMinutes))
	assert.True(t, decimal.RequireFromString("0.17").Equal(h.UndertimeHours))
	assert.True(t, h.RegularHoliday.IsZero())
}

type fixture struct {
	svc         summary.SummaryService
	store       *memory.Store
	schedules   *schedulesvc.ScheduleServiceImpl
	attendances attendance.AttendanceRepository
	hours       overtime.HoursRepository
	summaries   summary.SummaryRepository
	holidays    holiday.HolidayService
}

func newFixture() fixture {
	store := memory.NewStore()
	schedules := schedulesvc.NewScheduleService(store, memory.NewShiftRepository(store), memory.NewScheduleRepository(store), schedule.PeriodCalendarHalves)
	f := fixture{
		store:       store,
		schedules:   schedules,
		attendances: memory.NewAttendanceRepository(store),
		hours:       memory.NewOvertimeHoursRepository(store),
		summaries:   memory.NewSummaryRepository(store),
		holidays:    holidaysvc.NewHolidayService(memory.NewHolidayRepository(store)),
	}
	f.svc = NewSummaryService(store, f.summaries, f.attendances, f.hours, schedules, f.holidays)
	return f
}

// workFortnight schedules and records 09:00-19:00 on March 1st to 15th.
func (f fixture) workFortnight(t *testing.T) []attendance.Attendance {
	t.Helper()
	ctx := context.Background()
	var shiftIDs []string
	for d := 1; d <= 15; d++ {
		sh, err := f.schedules.CreateShift(ctx, schedule.CreateShiftRequest{
			Date: timeutil.Date(2024, 3, d).Format(timeutil.DateLayout), Start: "09:00", End: "18:00", ExpectedHours: 8,
		})
		require.NoError(t, err)
		shiftIDs = append(shiftIDs, sh.ID)
	}
	_, err := f.schedules.CreateSchedule(ctx, schedule.CreateScheduleRequest{UserID: "u1", ShiftIDs: shiftIDs})
	require.NoError(t, err)

	var rows []attendance.Attendance
	for d := 1; d <= 15; d++ {
		a, _, err := f.attendances.CreateIfAbsent(ctx, day(d, "09:00", "19:00"))
		require.NoError(t, err)
		rows = append(rows, a)
	}
	return rows
}

func TestSummaryService_Recompute_OneSummaryPerPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	rows := f.workFortnight(t)

	var last summary.AttendanceSummary
	for _, a := range rows {
		id := a.ID
		sm, err := f.svc.Recompute(ctx, "u1", a.Date, &id)
		require.NoError(t, err)
		last = sm
	}

	list, _, err := f.summaries.List(ctx, summary.SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, timeutil.Date(2024, 3, 1), last.PeriodStart)
	assert.Equal(t, timeutil.Date(2024, 3, 15), last.PeriodEnd)
	// 540 worked minutes per day, 60 over.
	assert.Equal(t, 15*540/60, last.ActualHours)
	assert.Equal(t, 15, last.OvertimeHours)
	assert.Equal(t, rows[14].ID, *last.AttendanceID)

	hours, err := f.hours.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, last.ID, hours[0].SummaryID)
	assert.True(t, decimal.NewFromInt(15).Equal(hours[0].RegularOT))
}

func TestSummaryService_Recompute_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.workFortnight(t)

	first, err := f.svc.Recompute(ctx, "u1", timeutil.Date(2024, 3, 3), nil)
	require.NoError(t, err)
	second, err := f.svc.Recompute(ctx, "u1", timeutil.Date(2024, 3, 9), nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ActualHours, second.ActualHours)
	assert.Equal(t, first.OvertimeHours, second.OvertimeHours)
	assert.Equal(t, first.LateMinutes, second.LateMinutes)
	assert.Equal(t, first.UndertimeMinutes, second.UndertimeMinutes)
	assert.Equal(t, 15*540, second.TotalActualMinutes)
	assert.Equal(t, 15*60, second.TotalOvertimeMinutes)
	assert.Equal(t, first.TotalActualMinutes, second.TotalActualMinutes)
	assert.Equal(t, first.TotalOvertimeMinutes, second.TotalOvertimeMinutes)

	stored, err := f.summaries.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 15*540, stored.TotalActualMinutes)
	assert.Equal(t, 15*60, stored.TotalOvertimeMinutes)
}

func TestSummaryService_Recompute_PreservesManualHours(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.workFortnight(t)

	_, err := f.svc.Recompute(ctx, "u1", timeutil.Date(2024, 3, 3), nil)
	require.NoError(t, err)
	hours, err := f.hours.ListByUser(ctx, "u1")
	require.NoError(t, err)
	_, err = f.hours.UpdateManual(ctx, hours[0].ID, decimal.NewFromInt(8), decimal.NewFromInt(2), decimal.NewFromInt(1))
	require.NoError(t, err)

	_, err = f.holidays.Create(ctx, holiday.HolidayRequest{Name: "EDSA Revolution", Date: "2024-03-04", Type: "special"})
	require.NoError(t, err)
	_, err = f.svc.Recompute(ctx, "u1", timeutil.Date(2024, 3, 3), nil)
	require.NoError(t, err)

	hours, err = f.hours.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.True(t, decimal.NewFromInt(8).Equal(hours[0].RestDay))
	assert.True(t, decimal.NewFromInt(1).Equal(hours[0].Backwage))
	assert.True(t, decimal.NewFromInt(9).Equal(hours[0].SpecialHoliday), "the whole holiday counts")
	assert.True(t, decimal.NewFromInt(14).Equal(hours[0].RegularOT))
}

func TestSummaryService_Recompute_NoShiftSkips(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, _, err := f.attendances.CreateIfAbsent(ctx, day(4, "09:00", "18:00"))
	require.NoError(t, err)

	_, err = f.svc.Recompute(ctx, "u1", timeutil.Date(2024, 3, 4), nil)
	assert.ErrorIs(t, err, summary.ErrNoShift)

	list, _, err := f.summaries.List(ctx, summary.SummaryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
