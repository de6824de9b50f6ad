package memory

import (
	"context"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
)

// latest returns the last element of items matching the user.
func latest[T any](items []T, match func(T) bool) (T, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		if match(items[i]) {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// newestFirst returns every element matching the user, newest first.
func newestFirst[T any](items []T, match func(T) bool) []T {
	var out []T
	for i := len(items) - 1; i >= 0; i-- {
		if match(items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

type earningsRepository struct{ s *Store }

func NewEarningsRepository(s *Store) compensation.EarningsRepository {
	return &earningsRepository{s: s}
}

func (r *earningsRepository) Create(_ context.Context, e compensation.Earnings) (compensation.Earnings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.newID()
	e.CreatedAt = r.s.now()
	r.s.earnings = append(r.s.earnings, e)
	return e, nil
}

func (r *earningsRepository) GetByID(_ context.Context, id string) (compensation.Earnings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := latest(r.s.earnings, func(e compensation.Earnings) bool { return e.ID == id }); ok {
		return e, nil
	}
	return compensation.Earnings{}, compensation.ErrEarningsNotFound
}

func (r *earningsRepository) Latest(_ context.Context, userID string) (compensation.Earnings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := latest(r.s.earnings, func(e compensation.Earnings) bool { return e.UserID == userID }); ok {
		return e, nil
	}
	return compensation.Earnings{}, compensation.ErrEarningsNotFound
}

func (r *earningsRepository) ListByUser(_ context.Context, userID string) ([]compensation.Earnings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return newestFirst(r.s.earnings, func(e compensation.Earnings) bool { return e.UserID == userID }), nil
}

type deductionsRepository struct{ s *Store }

func NewDeductionsRepository(s *Store) compensation.DeductionsRepository {
	return &deductionsRepository{s: s}
}

func (r *deductionsRepository) Create(_ context.Context, d compensation.Deductions) (compensation.Deductions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.newID()
	d.CreatedAt = r.s.now()
	r.s.deductions = append(r.s.deductions, d)
	return d, nil
}

func (r *deductionsRepository) GetByID(_ context.Context, id string) (compensation.Deductions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := latest(r.s.deductions, func(d compensation.Deductions) bool { return d.ID == id }); ok {
		return d, nil
	}
	return compensation.Deductions{}, compensation.ErrDeductionsNotFound
}

func (r *deductionsRepository) Latest(_ context.Context, userID string) (compensation.Deductions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := latest(r.s.deductions, func(d compensation.Deductions) bool { return d.UserID == userID }); ok {
		return d, nil
	}
	return compensation.Deductions{}, compensation.ErrDeductionsNotFound
}

func (r *deductionsRepository) ListByUser(_ context.Context, userID string) ([]compensation.Deductions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return newestFirst(r.s.deductions, func(d compensation.Deductions) bool { return d.UserID == userID }), nil
}

type overtimeBaseRepository struct{ s *Store }

func NewOvertimeBaseRepository(s *Store) compensation.OvertimeBaseRepository {
	return &overtimeBaseRepository{s: s}
}

func (r *overtimeBaseRepository) Create(_ context.Context, o compensation.OvertimeBase) (compensation.OvertimeBase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.newID()
	o.CreatedAt = r.s.now()
	r.s.otBases = append(r.s.otBases, o)
	return o, nil
}

func (r *overtimeBaseRepository) Latest(_ context.Context, userID string) (compensation.OvertimeBase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := latest(r.s.otBases, func(o compensation.OvertimeBase) bool { return o.UserID == userID }); ok {
		return o, nil
	}
	return compensation.OvertimeBase{}, compensation.ErrOvertimeBaseNotFound
}

func (r *overtimeBaseRepository) ListByUser(_ context.Context, userID string) ([]compensation.OvertimeBase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return newestFirst(r.s.otBases, func(o compensation.OvertimeBase) bool { return o.UserID == userID }), nil
}

type benefitRepository struct{ s *Store }

func NewBenefitRepository(s *Store) compensation.BenefitRepository {
	return &benefitRepository{s: s}
}

func (r *benefitRepository) Create(_ context.Context, b compensation.Benefit) (compensation.Benefit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.newID()
	b.CreatedAt = r.s.now()
	r.s.benefits = append(r.s.benefits, b)
	return b, nil
}

func (r *benefitRepository) GetByID(_ context.Context, id string) (compensation.Benefit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := latest(r.s.benefits, func(b compensation.Benefit) bool { return b.ID == id }); ok {
		return b, nil
	}
	return compensation.Benefit{}, compensation.ErrBenefitNotFound
}

func (r *benefitRepository) Latest(_ context.Context, userID string) (compensation.Benefits, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var bs compensation.Benefits
	for _, b := range r.s.benefits {
		if b.UserID == userID {
			bs.Set(b)
		}
	}
	return bs, nil
}

func (r *benefitRepository) ListByUser(_ context.Context, userID string) ([]compensation.Benefit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return newestFirst(r.s.benefits, func(b compensation.Benefit) bool { return b.UserID == userID }), nil
}
