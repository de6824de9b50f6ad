package compensation

import (
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

func requireUser(errs *validator.ValidationErrors, userID string) {
	if validator.IsEmpty(userID) {
		errs.Add("user_id", "user_id is required")
	}
}

func nonNegative(errs *validator.ValidationErrors, field string, v decimal.Decimal) {
	if validator.IsNegative(v) {
		errs.Add(field, field+" must not be negative")
	}
}

type EarningsRequest struct {
	UserID    string          `json:"user_id"`
	BasicRate decimal.Decimal `json:"basic_rate"`
	Allowance decimal.Decimal `json:"allowance"`
	TaxExempt decimal.Decimal `json:"ntax"`
}

func (r *EarningsRequest) Validate() error {
	var errs validator.ValidationErrors
	requireUser(&errs, r.UserID)
	nonNegative(&errs, "basic_rate", r.BasicRate)
	nonNegative(&errs, "allowance", r.Allowance)
	nonNegative(&errs, "ntax", r.TaxExempt)
	return errs.OrNil()
}

type EarningsResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	BasicRate decimal.Decimal `json:"basic_rate"`
	Allowance decimal.Decimal `json:"allowance"`
	TaxExempt decimal.Decimal `json:"ntax"`
	CreatedAt string          `json:"created_at"`
}

type DeductionsRequest struct {
	UserID         string          `json:"user_id"`
	WithholdingTax decimal.Decimal `json:"wtax"`
	Absences       decimal.Decimal `json:"nowork"`
	Loan           decimal.Decimal `json:"loan"`
	Charges        decimal.Decimal `json:"charges"`
	OtherLoan      decimal.Decimal `json:"msfcloan"`
	LateBase       decimal.Decimal `json:"late"`
}

func (r *DeductionsRequest) Validate() error {
	var errs validator.ValidationErrors
	requireUser(&errs, r.UserID)
	nonNegative(&errs, "wtax", r.WithholdingTax)
	nonNegative(&errs, "nowork", r.Absences)
	nonNegative(&errs, "loan", r.Loan)
	nonNegative(&errs, "charges", r.Charges)
	nonNegative(&errs, "msfcloan", r.OtherLoan)
	nonNegative(&errs, "late", r.LateBase)
	return errs.OrNil()
}

type DeductionsResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	WithholdingTax decimal.Decimal `json:"wtax"`
	Absences       decimal.Decimal `json:"nowork"`
	Loan           decimal.Decimal `json:"loan"`
	Charges        decimal.Decimal `json:"charges"`
	OtherLoan      decimal.Decimal `json:"msfcloan"`
	LateBase       decimal.Decimal `json:"late"`
	CreatedAt      string          `json:"created_at"`
}

type OvertimeBaseRequest struct {
	UserID       string          `json:"user_id"`
	BackwageBase decimal.Decimal `json:"backwage_base"`
}

func (r *OvertimeBaseRequest) Validate() error {
	var errs validator.ValidationErrors
	requireUser(&errs, r.UserID)
	nonNegative(&errs, "backwage_base", r.BackwageBase)
	return errs.OrNil()
}

type OvertimeBaseResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	BackwageBase decimal.Decimal `json:"backwage_base"`
	CreatedAt    string          `json:"created_at"`
}

// SSSRequest records SSS shares; PhilHealth and Pag-IBIG are computed.
type SSSRequest struct {
	UserID        string          `json:"user_id"`
	EmployeeShare decimal.Decimal `json:"total_employee"`
	EmployerShare decimal.Decimal `json:"total_employer"`
}

func (r *SSSRequest) Validate() error {
	var errs validator.ValidationErrors
	requireUser(&errs, r.UserID)
	nonNegative(&errs, "total_employee", r.EmployeeShare)
	nonNegative(&errs, "total_employer", r.EmployerShare)
	return errs.OrNil()
}

type BenefitResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Kind          string          `json:"kind"`
	EmployeeShare decimal.Decimal `json:"employee_share"`
	EmployerShare decimal.Decimal `json:"employer_share"`
	Total         decimal.Decimal `json:"total_contribution"`
	CreatedAt     string          `json:"created_at"`
}

// CompensationResponse is the current compensation picture of a user.
type CompensationResponse struct {
	UserID       string                `json:"user_id"`
	Earnings     *EarningsResponse     `json:"earnings,omitempty"`
	Deductions   *DeductionsResponse   `json:"deductions,omitempty"`
	OvertimeBase *OvertimeBaseResponse `json:"overtime_base,omitempty"`
	Benefits     []BenefitResponse     `json:"benefits"`
}
