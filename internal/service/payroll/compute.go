package payroll

import (
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// PayDate is the day a period starting on periodStart is paid: the 15th of
// the following month for periods starting on the 28th or later, else the
// last day of the start month.
func PayDate(periodStart time.Time) time.Time {
	start := timeutil.DateOf(periodStart)
	if start.Day() >= 28 {
		return timeutil.FirstOfMonth(start).AddDate(0, 1, 14)
	}
	return timeutil.LastOfMonth(start)
}

// Inputs are the records a salary points at. Nil records count as zero.
type Inputs struct {
	Overtime   *overtime.TotalOvertime
	Earnings   *compensation.Earnings
	Deductions *compensation.Deductions
	Benefits   compensation.Benefits
}

// Amounts is the result of ComputePayroll.
type Amounts struct {
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// ComputePayroll derives gross pay, total deductions and net pay. Net pay
// is exactly gross minus deductions.
func ComputePayroll(in Inputs) Amounts {
	gross := decimal.Zero
	deductions := decimal.Zero

	if in.Overtime != nil {
		gross = gross.Add(in.Overtime.Total)
		deductions = deductions.Add(in.Overtime.Late).Add(in.Overtime.Undertime)
	}
	if e := in.Earnings; e != nil {
		gross = decimal.Sum(gross, e.BasicRate, e.Allowance, e.TaxExempt)
	}
	if d := in.Deductions; d != nil {
		deductions = decimal.Sum(deductions, d.WithholdingTax, d.Absences, d.Loan, d.Charges, d.OtherLoan)
	}
	for _, b := range []*compensation.Benefit{in.Benefits.SSS, in.Benefits.PhilHealth, in.Benefits.PagIBIG} {
		if b != nil {
			deductions = deductions.Add(b.Deductible())
		}
	}

	return Amounts{
		GrossPay:        gross,
		TotalDeductions: deductions,
		NetPay:          gross.Sub(deductions),
	}
}

// Document lays out a payslip for rendering.
func Document(ps payroll.Payslip, p payroll.Payroll, in Inputs) payroll.PayslipDocument {
	doc := payroll.PayslipDocument{
		PayslipID:      ps.ID,
		PayDate:        p.PayDate,
		GrossPay:       p.GrossPay,
		TotalDeduction: p.TotalDeductions,
		NetPay:         p.NetPay,
		Approved:       ps.Approved,
	}

	if e := in.Earnings; e != nil {
		doc.Earnings = append(doc.Earnings,
			payroll.PayslipLine{Label: "Basic Rate", Amount: e.BasicRate},
			payroll.PayslipLine{Label: "Allowance", Amount: e.Allowance},
			payroll.PayslipLine{Label: "Non-taxable", Amount: e.TaxExempt},
		)
	}
	if ot := in.Overtime; ot != nil {
		doc.Earnings = append(doc.Earnings, payroll.PayslipLine{Label: "Overtime", Amount: ot.Total})
	}

	if b := in.Benefits.SSS; b != nil {
		doc.Deductions = append(doc.Deductions, payroll.PayslipLine{Label: "SSS", Amount: b.Deductible()})
	}
	if b := in.Benefits.PhilHealth; b != nil {
		doc.Deductions = append(doc.Deductions, payroll.PayslipLine{Label: "PhilHealth", Amount: b.Deductible()})
	}
	if b := in.Benefits.PagIBIG; b != nil {
		doc.Deductions = append(doc.Deductions, payroll.PayslipLine{Label: "Pag-IBIG", Amount: b.Deductible()})
	}
	if d := in.Deductions; d != nil {
		doc.Deductions = append(doc.Deductions,
			payroll.PayslipLine{Label: "Withholding Tax", Amount: d.WithholdingTax},
			payroll.PayslipLine{Label: "Absences", Amount: d.Absences},
			payroll.PayslipLine{Label: "Loan", Amount: d.Loan},
			payroll.PayslipLine{Label: "Charges", Amount: d.Charges},
			payroll.PayslipLine{Label: "Other Loan", Amount: d.OtherLoan},
		)
	}
	if ot := in.Overtime; ot != nil {
		doc.Deductions = append(doc.Deductions,
			payroll.PayslipLine{Label: "Late", Amount: ot.Late},
			payroll.PayslipLine{Label: "Undertime", Amount: ot.Undertime},
		)
	}
	return doc
}
