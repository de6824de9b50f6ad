package compensation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Earnings are a user's recurring pay components. The newest record per
// user is the one in force.
type Earnings struct {
	ID        string
	UserID    string
	BasicRate decimal.Decimal
	Allowance decimal.Decimal
	TaxExempt decimal.Decimal
	CreatedAt time.Time
}

// Deductions are a user's recurring deductions. LateBase is the amount the
// late deduction is prorated from.
type Deductions struct {
	ID             string
	UserID         string
	WithholdingTax decimal.Decimal
	Absences       decimal.Decimal
	Loan           decimal.Decimal
	Charges        decimal.Decimal
	OtherLoan      decimal.Decimal
	LateBase       decimal.Decimal
	CreatedAt      time.Time
}

type OvertimeBase struct {
	ID           string
	UserID       string
	BackwageBase decimal.Decimal
	CreatedAt    time.Time
}

type BenefitKind string

const (
	BenefitSSS        BenefitKind = "sss"
	BenefitPhilHealth BenefitKind = "philhealth"
	BenefitPagIBIG    BenefitKind = "pagibig"
)

func ParseBenefitKind(s string) (BenefitKind, error) {
	switch BenefitKind(s) {
	case BenefitSSS, BenefitPhilHealth, BenefitPagIBIG:
		return BenefitKind(s), nil
	}
	return "", fmt.Errorf("invalid benefit kind %q", s)
}

// Benefit is a statutory contribution record.
type Benefit struct {
	ID            string
	UserID        string
	Kind          BenefitKind
	EmployeeShare decimal.Decimal
	EmployerShare decimal.Decimal
	Total         decimal.Decimal
	CreatedAt     time.Time
}

// Deductible is the amount withheld from the employee's pay: the employee
// share for SSS and Pag-IBIG, the whole contribution for PhilHealth.
func (b Benefit) Deductible() decimal.Decimal {
	if b.Kind == BenefitPhilHealth {
		return b.Total
	}
	return b.EmployeeShare
}

// Benefits groups the latest contribution per kind; absent kinds are nil.
type Benefits struct {
	SSS        *Benefit
	PhilHealth *Benefit
	PagIBIG    *Benefit
}

// Set stores b under its kind.
func (bs *Benefits) Set(b Benefit) {
	switch b.Kind {
	case BenefitSSS:
		bs.SSS = &b
	case BenefitPhilHealth:
		bs.PhilHealth = &b
	case BenefitPagIBIG:
		bs.PagIBIG = &b
	}
}
