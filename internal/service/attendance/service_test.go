package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	schedulesvc "github.com/fresco-hris/payroll-backend/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*3600)

func TestClassify(t *testing.T) {
	start, end := timeutil.NewClock(9, 0, 0), timeutil.NewClock(18, 0, 0)
	cases := []struct {
		name   string
		in     string
		out    string
		status attendance.Status
	}{
		{"early arrival on time departure", "08:30", "18:00", attendance.StatusPresent},
		{"fifteen minutes late", "09:15", "18:00", attendance.StatusLate},
		{"fourteen minutes late", "09:14", "18:00", attendance.StatusPresent},
		{"late beats undertime", "09:20", "16:00", attendance.StatusLate},
		{"left thirty minutes early", "09:00", "17:30", attendance.StatusUndertime},
		{"left twenty nine minutes early", "09:00", "17:31", attendance.StatusPresent},
		{"stayed thirty minutes", "09:00", "18:30", attendance.StatusOvertime},
		{"seconds are ignored", "09:14:59", "18:29:59", attendance.StatusPresent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := timeutil.ParseClock(tc.in)
			require.NoError(t, err)
			out, err := timeutil.ParseClock(tc.out)
			require.NoError(t, err)
			status, _ := Classify(in, out, start, end)
			assert.Equal(t, tc.status, status)
		})
	}

	_, m := Classify(timeutil.NewClock(8, 30, 0), end, start, end)
	assert.Equal(t, attendance.Metrics{}, m)
}

type fixture struct {
	svc       attendance.AttendanceService
	schedules *schedulesvc.ScheduleServiceImpl
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	schedules := schedulesvc.NewScheduleService(store, memory.NewShiftRepository(store), memory.NewScheduleRepository(store), schedule.PeriodCalendarHalves)
	return fixture{
		svc:       NewAttendanceService(memory.NewAttendanceRepository(store), schedules, manila),
		schedules: schedules,
	}
}

func (f fixture) scheduleShift(t *testing.T, userID, date string) {
	t.Helper()
	ctx := context.Background()
	sh, err := f.schedules.CreateShift(ctx, schedule.CreateShiftRequest{Date: date, Start: "09:00", End: "18:00", ExpectedHours: 8})
	require.NoError(t, err)
	_, err = f.schedules.CreateSchedule(ctx, schedule.CreateScheduleRequest{UserID: userID, ShiftIDs: []string{sh.ID}})
	require.NoError(t, err)
}

func at(date string, hour, minute int) time.Time {
	d, _ := timeutil.ParseDate(date)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, manila)
}

func TestAttendanceService_RecordPunch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.scheduleShift(t, "u1", "2024-03-04")

	first, changed, err := f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 9, 20))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, first.IsComplete(), "a single punch is not a complete day")
	assert.Equal(t, attendance.StatusPresent, first.Status)

	second, changed, err := f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 18, 0))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsComplete())
	assert.Equal(t, attendance.StatusLate, second.Status)

	_, changed, err = f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 12, 0))
	require.NoError(t, err)
	assert.False(t, changed, "punches before the stored check-out change nothing")
}

func TestAttendanceService_RecordPunch_UsesBusinessTimezone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// 2024-03-04 17:30 UTC is 01:30 on the 5th in Manila.
	a, _, err := f.svc.RecordPunch(ctx, "u1", time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, timeutil.Date(2024, 3, 5), a.Date)
	assert.Equal(t, timeutil.NewClock(1, 30, 0), *a.CheckIn)
}

func TestAttendanceService_RecordPunch_NoShiftKeepsStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 10, 0))
	require.NoError(t, err)
	a, changed, err := f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 15, 0))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, attendance.StatusPresent, a.Status)
}

func TestAttendanceService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.scheduleShift(t, "u1", "2024-03-04")

	_, _, err := f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 9, 0))
	require.NoError(t, err)
	a, _, err := f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 18, 0))
	require.NoError(t, err)
	require.Equal(t, attendance.StatusPresent, a.Status)

	out := "17:00"
	updated, err := f.svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: a.ID, CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusUndertime, updated.Status)

	early := "08:00"
	_, err = f.svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: a.ID, CheckOut: &early})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeIn)
}

func TestAttendanceService_AccessControl(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mine, _, err := f.svc.RecordPunch(ctx, "u1", at("2024-03-04", 9, 0))
	require.NoError(t, err)
	theirs, _, err := f.svc.RecordPunch(ctx, "u2", at("2024-03-04", 9, 0))
	require.NoError(t, err)

	employee := jwt.ContextWithClaims(ctx, jwt.Claims{UserID: "u1", Role: user.RoleEmployee})
	admin := jwt.ContextWithClaims(ctx, jwt.Claims{UserID: "a1", Role: user.RoleAdmin})

	_, err = f.svc.GetByID(employee, mine.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetByID(employee, theirs.ID)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
	_, err = f.svc.GetByID(admin, theirs.ID)
	assert.NoError(t, err)

	list, err := f.svc.ListMine(employee, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, list.Attendances, 1)
	assert.Equal(t, "u1", list.Attendances[0].UserID)

	all, err := f.svc.List(admin, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
}
