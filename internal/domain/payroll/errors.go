package payroll

import "errors"

var (
	ErrSalaryNotFound         = errors.New("salary not found")
	ErrPayrollNotFound        = errors.New("payroll not found")
	ErrPayslipNotFound        = errors.New("payslip not found")
	ErrPayslipAlreadyApproved = errors.New("payslip already approved")
	ErrPayslipNotApproved     = errors.New("payslip must be approved before it can be generated")
	ErrPayslipAccessDenied    = errors.New("payslip belongs to another user")
	ErrSweepAlreadyRunning    = errors.New("payroll sweep already running")
	ErrTaskNotFound           = errors.New("task not found")
)
