// Package memory keeps every repository in process memory. It backs the
// service tests and the STORAGE_DRIVER=memory demo mode.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/google/uuid"
)

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

// Store holds all tables. Slices keep insertion order, which doubles as
// creation order for "latest" lookups.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users       []user.User
	employment  []user.EmploymentInfo
	tokens      map[string]refreshToken
	punches     []biometric.Punch
	shifts      []schedule.Shift
	schedules   []schedule.Schedule
	attendances []attendance.Attendance
	holidays    []holiday.Holiday
	summaries   []summary.AttendanceSummary
	hours       []overtime.OvertimeHours
	totals      []overtime.TotalOvertime
	earnings    []compensation.Earnings
	deductions  []compensation.Deductions
	otBases     []compensation.OvertimeBase
	benefits    []compensation.Benefit
	salaries    []payroll.Salary
	payrolls    []payroll.Payroll
	payslips    []payroll.Payslip
}

func NewStore() *Store {
	return &Store{now: time.Now, tokens: make(map[string]refreshToken)}
}

// SetClock fixes the timestamps the store stamps on rows.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WithinTransaction runs fn directly; the store is serialized per call.
func (s *Store) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// page slices items for 1-based page/limit; a zero limit returns everything.
func page[T any](items []T, pageNo, limit int) ([]T, int64) {
	total := int64(len(items))
	if limit <= 0 {
		return items, total
	}
	if pageNo < 1 {
		pageNo = 1
	}
	start := (pageNo - 1) * limit
	if start >= len(items) {
		return []T{}, total
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func parseDate(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", *s)
	return t, err == nil
}
