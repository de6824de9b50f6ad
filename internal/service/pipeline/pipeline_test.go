package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/tasks"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	attendancesvc "github.com/fresco-hris/payroll-backend/internal/service/attendance"
	holidaysvc "github.com/fresco-hris/payroll-backend/internal/service/holiday"
	overtimesvc "github.com/fresco-hris/payroll-backend/internal/service/overtime"
	payrollsvc "github.com/fresco-hris/payroll-backend/internal/service/payroll"
	schedulesvc "github.com/fresco-hris/payroll-backend/internal/service/schedule"
	summarysvc "github.com/fresco-hris/payroll-backend/internal/service/summary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*60*60)

type noopPublisher struct{}

func (noopPublisher) PublishPayslipIssued(context.Context, payroll.PayslipIssuedEvent) error {
	return nil
}

type harness struct {
	store     *memory.Store
	pipeline  *Pipeline
	locker    *tasks.MemoryLocker
	schedules *schedulesvc.ScheduleServiceImpl
	userID    string

	attendances attendance.AttendanceRepository
	summaries   summary.SummaryRepository
	totals      overtime.TotalRepository
	earnings    compensation.EarningsRepository
	deductions  compensation.DeductionsRepository
	bases       compensation.OvertimeBaseRepository
	salaries    payroll.SalaryRepository
	payrolls    payroll.PayrollRepository
	payslips    payroll.PayslipRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	h := &harness{
		store:       store,
		locker:      tasks.NewMemoryLocker(),
		attendances: memory.NewAttendanceRepository(store),
		summaries:   memory.NewSummaryRepository(store),
		totals:      memory.NewTotalOvertimeRepository(store),
		earnings:    memory.NewEarningsRepository(store),
		deductions:  memory.NewDeductionsRepository(store),
		bases:       memory.NewOvertimeBaseRepository(store),
		salaries:    memory.NewSalaryRepository(store),
		payrolls:    memory.NewPayrollRepository(store),
		payslips:    memory.NewPayslipRepository(store),
	}
	users := memory.NewUserRepository(store)
	hours := memory.NewOvertimeHoursRepository(store)
	deductions := h.deductions
	benefits := memory.NewBenefitRepository(store)

	h.schedules = schedulesvc.NewScheduleService(store, memory.NewShiftRepository(store), memory.NewScheduleRepository(store), schedule.PeriodCalendarHalves)
	attendanceService := attendancesvc.NewAttendanceService(h.attendances, h.schedules, manila)
	summaryService := summarysvc.NewSummaryService(store, h.summaries, h.attendances, hours, h.schedules,
		holidaysvc.NewHolidayService(memory.NewHolidayRepository(store)))
	overtimeService := overtimesvc.NewOvertimeService(store, hours, h.totals, h.earnings, deductions, h.bases, users, overtime.TotalPremiumsOnly)
	generator := payrollsvc.NewGeneratorService(payrollsvc.Sources{
		Totals: h.totals, Earnings: h.earnings, Deductions: deductions, Benefits: benefits,
	}, users, h.salaries, h.payrolls, h.payslips, noopPublisher{})

	h.pipeline = New(attendanceService, summaryService, overtimeService, generator, h.locker, tasks.NewMemoryTracker(), time.Minute)

	u, err := users.Create(context.Background(), user.User{Email: "ana@fresco.ph", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	h.userID = u.ID
	return h
}

// scheduleFirstHalf assigns 09:00-18:00 shifts on March 1st to 15th.
func (h *harness) scheduleFirstHalf(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	var ids []string
	for d := 1; d <= 15; d++ {
		sh, err := h.schedules.CreateShift(ctx, schedule.CreateShiftRequest{
			Date: timeutil.Date(2024, 3, d).Format(timeutil.DateLayout), Start: "09:00", End: "18:00", ExpectedHours: 8,
		})
		require.NoError(t, err)
		ids = append(ids, sh.ID)
	}
	_, err := h.schedules.CreateSchedule(ctx, schedule.CreateScheduleRequest{UserID: h.userID, ShiftIDs: ids})
	require.NoError(t, err)
}

func (h *harness) pay(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := h.earnings.Create(ctx, compensation.Earnings{UserID: h.userID, BasicRate: decimal.NewFromInt(26000)})
	require.NoError(t, err)
	_, err = h.bases.Create(ctx, compensation.OvertimeBase{UserID: h.userID, BackwageBase: decimal.NewFromInt(500)})
	require.NoError(t, err)
	_, err = h.deductions.Create(ctx, compensation.Deductions{UserID: h.userID})
	require.NoError(t, err)
}

func (h *harness) workDay(t *testing.T, day int) {
	t.Helper()
	ctx := context.Background()
	_, err := h.pipeline.IngestPunch(ctx, h.userID, time.Date(2024, 3, day, 9, 0, 0, 0, manila))
	require.NoError(t, err)
	_, err = h.pipeline.IngestPunch(ctx, h.userID, time.Date(2024, 3, day, 19, 0, 0, 0, manila))
	require.NoError(t, err)
}

func TestPipeline_FortnightToPayslip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.scheduleFirstHalf(t)
	h.pay(t)

	for d := 1; d <= 15; d++ {
		h.workDay(t, d)
	}

	summaries, _, err := h.summaries.List(ctx, summary.SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 15, summaries[0].OvertimeHours)

	totals, err := h.totals.LatestByUser(ctx, h.userID, 5)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	// 125/h * 1.25 * 15h
	assert.True(t, decimal.RequireFromString("2343.75").Equal(totals[0].Total), totals[0].Total.String())

	for range 2 {
		_, err := h.pipeline.RunPayrollSweeps(ctx)
		require.NoError(t, err)
	}

	salaries, err := h.salaries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, salaries, 1)
	assert.True(t, timeutil.Date(2024, 3, 31).Equal(salaries[0].PayDate), salaries[0].PayDate.String())

	payrolls, _, err := h.payrolls.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, payrolls, 1)
	assert.True(t, decimal.RequireFromString("28343.75").Equal(payrolls[0].NetPay), payrolls[0].NetPay.String())

	slips, _, err := h.payslips.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Len(t, slips, 1)
}

func TestPipeline_IngestPunch_NoShiftKeepsAttendanceOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.pay(t)

	h.workDay(t, 4)

	a, err := h.attendances.GetByUserAndDate(ctx, h.userID, timeutil.Date(2024, 3, 4))
	require.NoError(t, err)
	assert.True(t, a.IsComplete())
	assert.Equal(t, attendance.StatusPresent, a.Status)

	summaries, _, err := h.summaries.List(ctx, summary.SummaryFilter{})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestPipeline_SingleOrRepeatedPunchDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.scheduleFirstHalf(t)

	at := time.Date(2024, 3, 4, 9, 0, 0, 0, manila)
	first, err := h.pipeline.IngestPunch(ctx, h.userID, at)
	require.NoError(t, err)
	again, err := h.pipeline.IngestPunch(ctx, h.userID, at)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	summaries, _, err := h.summaries.List(ctx, summary.SummaryFilter{})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestPipeline_CompensationChangedPricesExistingHours(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.scheduleFirstHalf(t)
	h.workDay(t, 4)

	totals, err := h.totals.LatestByUser(ctx, h.userID, 1)
	require.NoError(t, err)
	assert.Empty(t, totals, "no earnings yet")

	h.pay(t)
	require.NoError(t, h.pipeline.CompensationChanged(ctx, h.userID))

	totals, err = h.totals.LatestByUser(ctx, h.userID, 1)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, decimal.RequireFromString("156.25").Equal(totals[0].Total), totals[0].Total.String())
}

func TestPipeline_CorrectAttendanceRecascades(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.scheduleFirstHalf(t)
	h.pay(t)
	h.workDay(t, 4)

	a, err := h.attendances.GetByUserAndDate(ctx, h.userID, timeutil.Date(2024, 3, 4))
	require.NoError(t, err)

	out := "18:00"
	corrected, err := h.pipeline.CorrectAttendance(ctx, attendance.UpdateAttendanceRequest{ID: a.ID, CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, "18:00:00", corrected.CheckOut.String())

	totals, err := h.totals.LatestByUser(ctx, h.userID, 1)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, totals[0].Total.IsZero(), totals[0].Total.String())
}

func TestPipeline_SweepLockHeld(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	release, err := h.locker.Acquire(ctx, lockSalarySweep, time.Minute)
	require.NoError(t, err)

	_, err = h.pipeline.RunSalarySweep(ctx)
	assert.ErrorIs(t, err, payroll.ErrSweepAlreadyRunning)

	_, err = h.pipeline.RunPayrollSweeps(ctx)
	assert.NoError(t, err)

	require.NoError(t, release(ctx))
	_, err = h.pipeline.RunSalarySweep(ctx)
	assert.NoError(t, err)
}

func TestPipeline_TriggerSalarySweep(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.scheduleFirstHalf(t)
	h.pay(t)
	h.workDay(t, 4)

	resp, err := h.pipeline.TriggerSalarySweep(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.TaskID)
	assert.Equal(t, "queued", resp.Status)

	h.pipeline.Wait()

	status, err := h.pipeline.TaskStatus(ctx, resp.TaskID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateSucceeded, status.State)

	var report payroll.SweepReport
	require.NoError(t, json.Unmarshal(status.Result, &report))
	assert.Equal(t, payroll.SweepReport{Processed: 1, Created: 1}, report)

	_, err = h.pipeline.TaskStatus(ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrTaskNotFound)
}

func TestPipeline_TriggerSalarySweep_FailsWhileLocked(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.locker.Acquire(ctx, lockSalarySweep, time.Minute)
	require.NoError(t, err)

	resp, err := h.pipeline.TriggerSalarySweep(ctx)
	require.NoError(t, err)
	h.pipeline.Wait()

	status, err := h.pipeline.TaskStatus(ctx, resp.TaskID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateFailed, status.State)
	assert.Contains(t, status.Error, "already running")
}
