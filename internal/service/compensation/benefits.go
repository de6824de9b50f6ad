package compensation

import (
	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/shopspring/decimal"
)

var (
	PhilHealthRate = decimal.RequireFromString("0.05")
	PagIBIGShare   = decimal.NewFromInt(200)
)

var two = decimal.NewFromInt(2)

// ComputePhilHealth is 5% of the basic rate, split evenly between employee
// and employer. Payroll deducts the whole contribution.
func ComputePhilHealth(userID string, basicRate decimal.Decimal) compensation.Benefit {
	total := basicRate.Mul(PhilHealthRate).Round(2)
	employee := total.DivRound(two, 2)
	return compensation.Benefit{
		UserID:        userID,
		Kind:          compensation.BenefitPhilHealth,
		EmployeeShare: employee,
		EmployerShare: total.Sub(employee),
		Total:         total,
	}
}

// ComputePagIBIG is a fixed contribution from each side.
func ComputePagIBIG(userID string) compensation.Benefit {
	return compensation.Benefit{
		UserID:        userID,
		Kind:          compensation.BenefitPagIBIG,
		EmployeeShare: PagIBIGShare,
		EmployerShare: PagIBIGShare,
		Total:         PagIBIGShare.Add(PagIBIGShare),
	}
}
