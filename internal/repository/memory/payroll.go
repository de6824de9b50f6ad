package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
)

func payDateInRange(filter payroll.PayrollFilter, payDate time.Time) bool {
	if start, ok := parseDate(filter.StartDate); ok && payDate.Before(start) {
		return false
	}
	if end, ok := parseDate(filter.EndDate); ok && payDate.After(end) {
		return false
	}
	return true
}

type salaryRepository struct{ s *Store }

func NewSalaryRepository(s *Store) payroll.SalaryRepository { return &salaryRepository{s: s} }

func (r *salaryRepository) CreateIfAbsent(_ context.Context, sal payroll.Salary) (payroll.Salary, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.salaries {
		if existing.UserID == sal.UserID && sameDay(existing.PayDate, sal.PayDate) {
			return existing, false, nil
		}
	}
	sal.ID = r.s.newID()
	sal.CreatedAt = r.s.now()
	r.s.salaries = append(r.s.salaries, sal)
	return sal, true, nil
}

func (r *salaryRepository) ExistsForPayDate(_ context.Context, userID string, payDate time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.salaries {
		if existing.UserID == userID && sameDay(existing.PayDate, payDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *salaryRepository) GetByID(_ context.Context, id string) (payroll.Salary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sal := range r.s.salaries {
		if sal.ID == id {
			return sal, nil
		}
	}
	return payroll.Salary{}, payroll.ErrSalaryNotFound
}

func (r *salaryRepository) ListAll(context.Context) ([]payroll.Salary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]payroll.Salary(nil), r.s.salaries...), nil
}

func (r *salaryRepository) List(_ context.Context, filter payroll.PayrollFilter) ([]payroll.Salary, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []payroll.Salary
	for _, sal := range r.s.salaries {
		if filter.UserID != nil && sal.UserID != *filter.UserID || !payDateInRange(filter, sal.PayDate) {
			continue
		}
		out = append(out, sal)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PayDate.After(out[j].PayDate) })
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

type payrollRepository struct{ s *Store }

func NewPayrollRepository(s *Store) payroll.PayrollRepository { return &payrollRepository{s: s} }

func (r *payrollRepository) Upsert(_ context.Context, p payroll.Payroll) (payroll.Payroll, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.payrolls {
		existing := r.s.payrolls[i]
		if existing.SalaryID == p.SalaryID {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = r.s.now()
			r.s.payrolls[i] = p
			return p, false, nil
		}
	}
	p.ID = r.s.newID()
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	r.s.payrolls = append(r.s.payrolls, p)
	return p, true, nil
}

func (r *payrollRepository) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payrolls {
		if p.ID == id {
			return p, nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (r *payrollRepository) ListWithoutPayslip(context.Context) ([]payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range r.s.payrolls {
		issued := false
		for _, ps := range r.s.payslips {
			if ps.PayrollID == p.ID {
				issued = true
				break
			}
		}
		if !issued {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *payrollRepository) List(_ context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range r.s.payrolls {
		if filter.UserID != nil && p.UserID != *filter.UserID || !payDateInRange(filter, p.PayDate) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PayDate.After(out[j].PayDate) })
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

type payslipRepository struct{ s *Store }

func NewPayslipRepository(s *Store) payroll.PayslipRepository { return &payslipRepository{s: s} }

func (r *payslipRepository) withPayroll(ps payroll.Payslip) payroll.Payslip {
	for _, p := range r.s.payrolls {
		if p.ID == ps.PayrollID {
			pr := p
			ps.Payroll = &pr
		}
	}
	return ps
}

func (r *payslipRepository) CreateIfAbsent(_ context.Context, ps payroll.Payslip) (payroll.Payslip, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payslips {
		if existing.PayrollID == ps.PayrollID {
			return r.withPayroll(existing), false, nil
		}
	}
	ps.ID = r.s.newID()
	ps.CreatedAt = r.s.now()
	ps.Payroll = nil
	r.s.payslips = append(r.s.payslips, ps)
	return r.withPayroll(ps), true, nil
}

func (r *payslipRepository) GetByID(_ context.Context, id string) (payroll.Payslip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ps := range r.s.payslips {
		if ps.ID == id {
			return r.withPayroll(ps), nil
		}
	}
	return payroll.Payslip{}, payroll.ErrPayslipNotFound
}

func (r *payslipRepository) List(_ context.Context, filter payroll.PayrollFilter) ([]payroll.Payslip, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []payroll.Payslip
	for _, ps := range r.s.payslips {
		ps = r.withPayroll(ps)
		if filter.UserID != nil && ps.UserID != *filter.UserID ||
			filter.Approved != nil && ps.Approved != *filter.Approved {
			continue
		}
		if ps.Payroll != nil && !payDateInRange(filter, ps.Payroll.PayDate) {
			continue
		}
		out = append(out, ps)
	}
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

func (r *payslipRepository) Approve(_ context.Context, id, approverID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.payslips {
		ps := &r.s.payslips[i]
		if ps.ID != id {
			continue
		}
		if ps.Approved {
			return payroll.ErrPayslipAlreadyApproved
		}
		approver := approverID
		ps.Approved = true
		ps.ApprovedAt = &at
		ps.ApprovedBy = &approver
		return nil
	}
	return payroll.ErrPayslipNotFound
}

func (r *payslipRepository) MarkGenerated(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.payslips {
		if r.s.payslips[i].ID == id {
			r.s.payslips[i].GeneratedAt = &at
			return nil
		}
	}
	return payroll.ErrPayslipNotFound
}
