package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/shopspring/decimal"
)

type summaryRepository struct{ s *Store }

func NewSummaryRepository(s *Store) summary.SummaryRepository { return &summaryRepository{s: s} }

func (r *summaryRepository) Upsert(_ context.Context, sm summary.AttendanceSummary) (summary.AttendanceSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.summaries {
		existing := r.s.summaries[i]
		if existing.UserID == sm.UserID && sameDay(existing.PeriodStart, sm.PeriodStart) {
			sm.ID = existing.ID
			sm.CreatedAt = existing.CreatedAt
			sm.UpdatedAt = r.s.now()
			r.s.summaries[i] = sm
			return sm, nil
		}
	}
	sm.ID = r.s.newID()
	sm.CreatedAt = r.s.now()
	sm.UpdatedAt = sm.CreatedAt
	r.s.summaries = append(r.s.summaries, sm)
	return sm, nil
}

func (r *summaryRepository) GetByID(_ context.Context, id string) (summary.AttendanceSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sm := range r.s.summaries {
		if sm.ID == id {
			return sm, nil
		}
	}
	return summary.AttendanceSummary{}, summary.ErrSummaryNotFound
}

func (r *summaryRepository) GetByUserAndPeriod(_ context.Context, userID string, periodStart time.Time) (summary.AttendanceSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sm := range r.s.summaries {
		if sm.UserID == userID && sameDay(sm.PeriodStart, periodStart) {
			return sm, nil
		}
	}
	return summary.AttendanceSummary{}, summary.ErrSummaryNotFound
}

func (r *summaryRepository) List(_ context.Context, filter summary.SummaryFilter) ([]summary.AttendanceSummary, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	start, hasStart := parseDate(filter.PeriodStart)
	var out []summary.AttendanceSummary
	for _, sm := range r.s.summaries {
		if filter.UserID != nil && sm.UserID != *filter.UserID || hasStart && !sameDay(sm.PeriodStart, start) {
			continue
		}
		out = append(out, sm)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

type hoursRepository struct{ s *Store }

func NewOvertimeHoursRepository(s *Store) overtime.HoursRepository { return &hoursRepository{s: s} }

func (r *hoursRepository) UpsertDerived(_ context.Context, h overtime.OvertimeHours) (overtime.OvertimeHours, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.hours {
		existing := r.s.hours[i]
		if existing.SummaryID == h.SummaryID {
			h.ID = existing.ID
			h.RestDay = existing.RestDay
			h.NightDiff = existing.NightDiff
			h.Backwage = existing.Backwage
			h.CreatedAt = existing.CreatedAt
			h.UpdatedAt = r.s.now()
			r.s.hours[i] = h
			return h, nil
		}
	}
	h.ID = r.s.newID()
	h.RestDay, h.NightDiff, h.Backwage = decimal.Zero, decimal.Zero, decimal.Zero
	h.CreatedAt = r.s.now()
	h.UpdatedAt = h.CreatedAt
	r.s.hours = append(r.s.hours, h)
	return h, nil
}

func (r *hoursRepository) GetByID(_ context.Context, id string) (overtime.OvertimeHours, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.hours {
		if h.ID == id {
			return h, nil
		}
	}
	return overtime.OvertimeHours{}, overtime.ErrOvertimeHoursNotFound
}

func (r *hoursRepository) UpdateManual(_ context.Context, id string, restDay, nightDiff, backwage decimal.Decimal) (overtime.OvertimeHours, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.hours {
		h := &r.s.hours[i]
		if h.ID == id {
			h.RestDay, h.NightDiff, h.Backwage = restDay, nightDiff, backwage
			h.UpdatedAt = r.s.now()
			return *h, nil
		}
	}
	return overtime.OvertimeHours{}, overtime.ErrOvertimeHoursNotFound
}

func (r *hoursRepository) ListByUser(_ context.Context, userID string) ([]overtime.OvertimeHours, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []overtime.OvertimeHours
	for _, h := range r.s.hours {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out, nil
}

func (r *hoursRepository) List(_ context.Context, filter overtime.OvertimeFilter) ([]overtime.OvertimeHours, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []overtime.OvertimeHours
	for _, h := range r.s.hours {
		if filter.UserID == nil || h.UserID == *filter.UserID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

type totalRepository struct{ s *Store }

func NewTotalOvertimeRepository(s *Store) overtime.TotalRepository { return &totalRepository{s: s} }

func (r *totalRepository) Upsert(_ context.Context, t overtime.TotalOvertime) (overtime.TotalOvertime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.totals {
		existing := r.s.totals[i]
		if existing.OvertimeHoursID == t.OvertimeHoursID {
			t.ID = existing.ID
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = r.s.now()
			r.s.totals[i] = t
			return t, nil
		}
	}
	t.ID = r.s.newID()
	t.CreatedAt = r.s.now()
	t.UpdatedAt = t.CreatedAt
	r.s.totals = append(r.s.totals, t)
	return t, nil
}

func (r *totalRepository) GetByID(_ context.Context, id string) (overtime.TotalOvertime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.totals {
		if t.ID == id {
			return t, nil
		}
	}
	return overtime.TotalOvertime{}, overtime.ErrTotalOvertimeNotFound
}

func (r *totalRepository) LatestByUser(_ context.Context, userID string, n int) ([]overtime.TotalOvertime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []overtime.TotalOvertime
	for _, t := range r.s.totals {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *totalRepository) List(_ context.Context, filter overtime.OvertimeFilter) ([]overtime.TotalOvertime, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []overtime.TotalOvertime
	for _, t := range r.s.totals {
		if filter.UserID == nil || t.UserID == *filter.UserID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}
