package payroll

import (
	"time"

	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // pay date lower bound
	EndDate   *string `json:"end_date,omitempty"`   // pay date upper bound
	Approved  *bool   `json:"approved,omitempty"`   // payslips only

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&errs, &f.Page, &f.Limit)
	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.OrNil()
}

type SalaryResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	PayDate      string  `json:"pay_date"`
	EarningsID   *string `json:"earnings_id"`
	DeductionsID *string `json:"deductions_id"`
	OvertimeID   *string `json:"overtime_id"`
	SSSID        *string `json:"sss_id"`
	PhilHealthID *string `json:"philhealth_id"`
	PagIBIGID    *string `json:"pagibig_id"`
}

type PayrollResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	SalaryID        string          `json:"salary_id"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	PayDate         string          `json:"pay_date"`
}

type PayslipResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	PayrollID   string           `json:"payroll_id"`
	Status      bool             `json:"status"`
	ApprovedAt  *string          `json:"approved_at"`
	GeneratedAt *string          `json:"generated_at"`
	IsProtected bool             `json:"is_protected"`
	Payroll     *PayrollResponse `json:"payroll,omitempty"`
}

type ListResponse[T any] struct {
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Items      []T   `json:"items"`
}

// TaskResponse is returned when a sweep is triggered asynchronously.
type TaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// PayslipIssuedEvent is published once per newly created payslip.
type PayslipIssuedEvent struct {
	PayslipID string          `json:"payslip_id"`
	PayrollID string          `json:"payroll_id"`
	UserID    string          `json:"user_id"`
	NetPay    decimal.Decimal `json:"net_pay"`
	PayDate   string          `json:"pay_date"`
	IssuedAt  time.Time       `json:"issued_at"`
}

// PayslipLine is one labeled amount on a rendered payslip.
type PayslipLine struct {
	Label  string
	Amount decimal.Decimal
}

// PayslipDocument is everything a rendered payslip shows.
type PayslipDocument struct {
	PayslipID      string
	EmployeeName   string
	EmployeeNumber int64
	Position       string
	PayDate        time.Time
	Earnings       []PayslipLine
	Deductions     []PayslipLine
	GrossPay       decimal.Decimal
	TotalDeduction decimal.Decimal
	NetPay         decimal.Decimal
	Approved       bool
}
