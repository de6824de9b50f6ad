package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

type punchRepository struct{ s *Store }

func NewPunchRepository(s *Store) biometric.PunchRepository { return &punchRepository{s: s} }

func (r *punchRepository) Create(_ context.Context, p biometric.Punch) (biometric.Punch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.newID()
	p.CreatedAt = r.s.now()
	r.s.punches = append(r.s.punches, p)
	return p, nil
}

func (r *punchRepository) List(_ context.Context, filter biometric.PunchFilter) ([]biometric.Punch, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	start, hasStart := parseDate(filter.StartDate)
	end, hasEnd := parseDate(filter.EndDate)
	var out []biometric.Punch
	for i := len(r.s.punches) - 1; i >= 0; i-- {
		p := r.s.punches[i]
		if filter.EmployeeNumber != nil && p.EmployeeNumber != *filter.EmployeeNumber {
			continue
		}
		day := timeutil.DateOf(p.Timestamp)
		if hasStart && day.Before(start) || hasEnd && day.After(end) {
			continue
		}
		out = append(out, p)
	}
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

type attendanceRepository struct{ s *Store }

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) CreateIfAbsent(_ context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.attendances {
		if existing.UserID == a.UserID && sameDay(existing.Date, a.Date) {
			return existing, false, nil
		}
	}
	a.ID = r.s.newID()
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	a.EmployeeName = nil
	r.s.attendances = append(r.s.attendances, a)
	return a, true, nil
}

func (r *attendanceRepository) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attendances {
		if a.ID == id {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) GetByUserAndDate(_ context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attendances {
		if a.UserID == userID && sameDay(a.Date, date) {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) AdvanceCheckOut(_ context.Context, id string, at timeutil.Clock) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.attendances {
		a := &r.s.attendances[i]
		if a.ID != id {
			continue
		}
		if a.CheckOut != nil && *a.CheckOut >= at {
			return false, nil
		}
		c := at
		a.CheckOut = &c
		a.UpdatedAt = r.s.now()
		return true, nil
	}
	return false, attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) UpdateStatus(_ context.Context, id string, status attendance.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.attendances {
		if r.s.attendances[i].ID == id {
			r.s.attendances[i].Status = status
			r.s.attendances[i].UpdatedAt = r.s.now()
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) Update(_ context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.attendances {
		if r.s.attendances[i].ID == a.ID {
			a.CreatedAt = r.s.attendances[i].CreatedAt
			a.UpdatedAt = r.s.now()
			r.s.attendances[i] = a
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	day, hasDay := parseDate(filter.Date)
	start, hasStart := parseDate(filter.StartDate)
	end, hasEnd := parseDate(filter.EndDate)
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		switch {
		case filter.UserID != nil && a.UserID != *filter.UserID,
			filter.Status != nil && *filter.Status != "" && string(a.Status) != *filter.Status,
			hasDay && !sameDay(a.Date, day),
			hasStart && a.Date.Before(start),
			hasEnd && a.Date.After(end):
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if filter.SortOrder == "asc" {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

func (r *attendanceRepository) ListByUserBetween(_ context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.s.attendances {
		if a.UserID == userID && !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
