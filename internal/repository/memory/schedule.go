package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
)

type shiftRepository struct{ s *Store }

func NewShiftRepository(s *Store) schedule.ShiftRepository { return &shiftRepository{s: s} }

func (r *shiftRepository) Create(_ context.Context, sh schedule.Shift) (schedule.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh.ID = r.s.newID()
	sh.CreatedAt = r.s.now()
	sh.UpdatedAt = sh.CreatedAt
	r.s.shifts = append(r.s.shifts, sh)
	return sh, nil
}

func (r *shiftRepository) GetByID(_ context.Context, id string) (schedule.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sh := range r.s.shifts {
		if sh.ID == id {
			return sh, nil
		}
	}
	return schedule.Shift{}, schedule.ErrShiftNotFound
}

func (r *shiftRepository) Update(_ context.Context, sh schedule.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.shifts {
		if r.s.shifts[i].ID == sh.ID {
			sh.CreatedAt = r.s.shifts[i].CreatedAt
			sh.UpdatedAt = r.s.now()
			r.s.shifts[i] = sh
			return nil
		}
	}
	return schedule.ErrShiftNotFound
}

func (r *shiftRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sc := range r.s.schedules {
		if sc.HasShift(id) {
			return schedule.ErrShiftInUse
		}
	}
	for i := range r.s.shifts {
		if r.s.shifts[i].ID == id {
			r.s.shifts = append(r.s.shifts[:i], r.s.shifts[i+1:]...)
			return nil
		}
	}
	return schedule.ErrShiftNotFound
}

func (r *shiftRepository) List(_ context.Context, filter schedule.ShiftFilter) ([]schedule.Shift, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	start, hasStart := parseDate(filter.StartDate)
	end, hasEnd := parseDate(filter.EndDate)
	var out []schedule.Shift
	for _, sh := range r.s.shifts {
		if hasStart && sh.Date.Before(start) || hasEnd && sh.Date.After(end) {
			continue
		}
		out = append(out, sh)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

func (r *shiftRepository) GetOnDate(_ context.Context, ids []string, date time.Time) (schedule.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		for _, sh := range r.s.shifts {
			if sh.ID == id && sameDay(sh.Date, date) {
				return sh, nil
			}
		}
	}
	return schedule.Shift{}, schedule.ErrShiftNotFound
}

type scheduleRepository struct{ s *Store }

func NewScheduleRepository(s *Store) schedule.ScheduleRepository {
	return &scheduleRepository{s: s}
}

func (r *scheduleRepository) Create(_ context.Context, sc schedule.Schedule) (schedule.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc.ID = r.s.newID()
	sc.CreatedAt = r.s.now()
	sc.UpdatedAt = sc.CreatedAt
	sc.ShiftIDs = append([]string(nil), sc.ShiftIDs...)
	r.s.schedules = append(r.s.schedules, sc)
	return sc, nil
}

func (r *scheduleRepository) GetByID(_ context.Context, id string) (schedule.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sc := range r.s.schedules {
		if sc.ID == id {
			sc.ShiftIDs = append([]string(nil), sc.ShiftIDs...)
			return sc, nil
		}
	}
	return schedule.Schedule{}, schedule.ErrScheduleNotFound
}

func (r *scheduleRepository) ListByUser(_ context.Context, userID string) ([]schedule.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []schedule.Schedule
	for i := len(r.s.schedules) - 1; i >= 0; i-- {
		sc := r.s.schedules[i]
		if sc.UserID == userID {
			sc.ShiftIDs = append([]string(nil), sc.ShiftIDs...)
			out = append(out, sc)
		}
	}
	return out, nil
}

func (r *scheduleRepository) AttachShifts(_ context.Context, scheduleID string, shiftIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.schedules {
		sc := &r.s.schedules[i]
		if sc.ID != scheduleID {
			continue
		}
		for _, id := range shiftIDs {
			if sc.HasShift(id) {
				return schedule.ErrShiftAlreadyAdded
			}
		}
		sc.ShiftIDs = append(sc.ShiftIDs, shiftIDs...)
		sc.UpdatedAt = r.s.now()
		return nil
	}
	return schedule.ErrScheduleNotFound
}

func (r *scheduleRepository) DetachShift(_ context.Context, scheduleID, shiftID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.schedules {
		sc := &r.s.schedules[i]
		if sc.ID != scheduleID {
			continue
		}
		for j, id := range sc.ShiftIDs {
			if id == shiftID {
				sc.ShiftIDs = append(sc.ShiftIDs[:j], sc.ShiftIDs[j+1:]...)
				sc.UpdatedAt = r.s.now()
				return nil
			}
		}
		return schedule.ErrShiftNotFound
	}
	return schedule.ErrScheduleNotFound
}

func (r *scheduleRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.schedules {
		if r.s.schedules[i].ID == id {
			r.s.schedules = append(r.s.schedules[:i], r.s.schedules[i+1:]...)
			return nil
		}
	}
	return schedule.ErrScheduleNotFound
}

type holidayRepository struct{ s *Store }

func NewHolidayRepository(s *Store) holiday.HolidayRepository { return &holidayRepository{s: s} }

func (r *holidayRepository) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.holidays {
		if existing.Type == h.Type && sameDay(existing.Date, h.Date) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
	}
	h.ID = r.s.newID()
	h.CreatedAt = r.s.now()
	h.UpdatedAt = h.CreatedAt
	r.s.holidays = append(r.s.holidays, h)
	return h, nil
}

func (r *holidayRepository) GetByID(_ context.Context, id string) (holiday.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (r *holidayRepository) Update(_ context.Context, h holiday.Holiday) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	idx := -1
	for i, existing := range r.s.holidays {
		if existing.ID == h.ID {
			idx = i
		} else if existing.Type == h.Type && sameDay(existing.Date, h.Date) {
			return holiday.ErrHolidayExists
		}
	}
	if idx < 0 {
		return holiday.ErrHolidayNotFound
	}
	h.CreatedAt = r.s.holidays[idx].CreatedAt
	h.UpdatedAt = r.s.now()
	r.s.holidays[idx] = h
	return nil
}

func (r *holidayRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.holidays {
		if r.s.holidays[i].ID == id {
			r.s.holidays = append(r.s.holidays[:i], r.s.holidays[i+1:]...)
			return nil
		}
	}
	return holiday.ErrHolidayNotFound
}

func (r *holidayRepository) ListBetween(_ context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []holiday.Holiday
	for _, h := range r.s.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
