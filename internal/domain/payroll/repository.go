package payroll

import (
	"context"
	"time"
)

type SalaryRepository interface {
	// CreateIfAbsent inserts unless (user, pay date) exists; created is
	// false when a salary was already there.
	CreateIfAbsent(ctx context.Context, s Salary) (stored Salary, created bool, err error)
	ExistsForPayDate(ctx context.Context, userID string, payDate time.Time) (bool, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	ListAll(ctx context.Context) ([]Salary, error)
	List(ctx context.Context, filter PayrollFilter) ([]Salary, int64, error)
}

type PayrollRepository interface {
	// Upsert is keyed by SalaryID; created reports an insert.
	Upsert(ctx context.Context, p Payroll) (stored Payroll, created bool, err error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	ListWithoutPayslip(ctx context.Context) ([]Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
}

type PayslipRepository interface {
	// CreateIfAbsent inserts unless the payroll already has a payslip.
	CreateIfAbsent(ctx context.Context, p Payslip) (stored Payslip, created bool, err error)
	GetByID(ctx context.Context, id string) (Payslip, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payslip, int64, error)
	Approve(ctx context.Context, id, approverID string, at time.Time) error
	MarkGenerated(ctx context.Context, id string, at time.Time) error
}
