package schedule

import (
	"testing"

	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarHalf(t *testing.T) {
	cases := []struct {
		date       string
		start, end string
	}{
		{"2024-03-01", "2024-03-01", "2024-03-15"},
		{"2024-03-15", "2024-03-01", "2024-03-15"},
		{"2024-03-16", "2024-03-16", "2024-03-31"},
		{"2024-03-31", "2024-03-16", "2024-03-31"},
		{"2024-02-29", "2024-02-16", "2024-02-29"},
		{"2023-02-20", "2023-02-16", "2023-02-28"},
	}
	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			d, err := timeutil.ParseDate(tc.date)
			require.NoError(t, err)
			p := CalendarHalf(d)
			assert.Equal(t, tc.start, p.Start.Format(timeutil.DateLayout))
			assert.Equal(t, tc.end, p.End.Format(timeutil.DateLayout))
			assert.True(t, p.Contains(d))
		})
	}
}

func TestPeriod_Days(t *testing.T) {
	p := CalendarHalf(timeutil.Date(2024, 4, 20))
	days := p.Days()
	assert.Len(t, days, 15)
	assert.Equal(t, timeutil.Date(2024, 4, 16), days[0])
	assert.Equal(t, timeutil.Date(2024, 4, 30), days[14])
}

func TestPickSchedule(t *testing.T) {
	halfMarch := Schedule{ID: "half-new", PeriodPolicy: PeriodCalendarHalves, PeriodStart: timeutil.Date(2024, 3, 1), PeriodEnd: timeutil.Date(2024, 3, 15)}
	halfMarchOld := Schedule{ID: "half-old", PeriodPolicy: PeriodCalendarHalves, PeriodStart: timeutil.Date(2024, 3, 1), PeriodEnd: timeutil.Date(2024, 3, 15)}
	explicit := Schedule{ID: "explicit", PeriodPolicy: PeriodScheduleExplicit, PeriodStart: timeutil.Date(2024, 3, 10), PeriodEnd: timeutil.Date(2024, 3, 24)}

	t.Run("most recent calendar half wins", func(t *testing.T) {
		s, ok := PickSchedule([]Schedule{halfMarch, halfMarchOld}, timeutil.Date(2024, 3, 5))
		require.True(t, ok)
		assert.Equal(t, "half-new", s.ID)
	})

	t.Run("explicit range wins when it holds the date", func(t *testing.T) {
		s, ok := PickSchedule([]Schedule{halfMarch, explicit}, timeutil.Date(2024, 3, 12))
		require.True(t, ok)
		assert.Equal(t, "explicit", s.ID)
	})

	t.Run("no schedule for other half", func(t *testing.T) {
		_, ok := PickSchedule([]Schedule{halfMarch}, timeutil.Date(2024, 3, 16))
		assert.False(t, ok)
	})

	t.Run("period follows explicit schedule", func(t *testing.T) {
		p := PeriodFor(timeutil.Date(2024, 3, 20), []Schedule{halfMarch, explicit})
		assert.Equal(t, explicit.Period(), p)
		p = PeriodFor(timeutil.Date(2024, 3, 28), []Schedule{explicit})
		assert.Equal(t, CalendarHalf(timeutil.Date(2024, 3, 28)), p)
	})
}

func TestParsePeriodPolicy(t *testing.T) {
	p, err := ParsePeriodPolicy("schedule_explicit")
	require.NoError(t, err)
	assert.Equal(t, PeriodScheduleExplicit, p)
	_, err = ParsePeriodPolicy("monthly")
	assert.ErrorIs(t, err, ErrInvalidPeriodPolicy)
}

func TestCreateShiftRequest_Validate(t *testing.T) {
	ok := CreateShiftRequest{Date: "2024-03-04", Start: "08:00", End: "17:00", ExpectedHours: 8}
	require.NoError(t, ok.Validate())

	bad := CreateShiftRequest{Date: "2024-3-4", Start: "17:00", End: "08:00", ExpectedHours: 0}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "shift_end")
	assert.Contains(t, err.Error(), "expected_hours")
}

func TestCreateScheduleRequest_Validate(t *testing.T) {
	start, end := "2024-03-10", "2024-03-05"
	req := CreateScheduleRequest{UserID: "u1", PeriodPolicy: "schedule_explicit", PeriodStart: &start, PeriodEnd: &end}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period_end must not be before period_start")

	req = CreateScheduleRequest{UserID: "u1", ShiftIDs: []string{"s1"}}
	assert.NoError(t, req.Validate())
}
