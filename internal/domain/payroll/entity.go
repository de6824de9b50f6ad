package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Salary binds a user's pay date to the compensation records that were in
// force when it was generated. At most one exists per (user, pay date).
type Salary struct {
	ID           string
	UserID       string
	PayDate      time.Time
	EarningsID   *string
	DeductionsID *string
	OvertimeID   *string
	SSSID        *string
	PhilHealthID *string
	PagIBIGID    *string
	CreatedAt    time.Time
}

// Payroll is the computed pay of one Salary. One per salary.
type Payroll struct {
	ID              string
	UserID          string
	SalaryID        string
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	PayDate         time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Payslip is the employee-facing document of one Payroll. One per payroll.
type Payslip struct {
	ID          string
	UserID      string
	PayrollID   string
	Approved    bool
	ApprovedAt  *time.Time
	ApprovedBy  *string
	GeneratedAt *time.Time
	IsProtected bool
	CreatedAt   time.Time

	// Join
	Payroll *Payroll
}

// SweepReport counts the outcome of one batch generation run.
type SweepReport struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Add folds another report into r.
func (r *SweepReport) Add(o SweepReport) {
	r.Processed += o.Processed
	r.Created += o.Created
	r.Updated += o.Updated
	r.Skipped += o.Skipped
	r.Failed += o.Failed
}
