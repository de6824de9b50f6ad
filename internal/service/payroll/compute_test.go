package payroll

import (
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPayDate(t *testing.T) {
	cases := []struct {
		start time.Time
		want  time.Time
	}{
		{timeutil.Date(2024, 3, 1), timeutil.Date(2024, 3, 31)},
		{timeutil.Date(2024, 3, 16), timeutil.Date(2024, 3, 31)},
		{timeutil.Date(2024, 2, 16), timeutil.Date(2024, 2, 29)},
		{timeutil.Date(2024, 2, 28), timeutil.Date(2024, 3, 15)},
		{timeutil.Date(2024, 1, 31), timeutil.Date(2024, 2, 15)},
		{timeutil.Date(2024, 12, 29), timeutil.Date(2025, 1, 15)},
		{timeutil.Date(2024, 4, 27), timeutil.Date(2024, 4, 30)},
	}
	for _, tc := range cases {
		t.Run(tc.start.Format(timeutil.DateLayout), func(t *testing.T) {
			assert.Equal(t, tc.want, PayDate(tc.start))
		})
	}
}

func TestComputePayroll(t *testing.T) {
	in := Inputs{
		Overtime:   &overtime.TotalOvertime{Total: d("312.50"), Late: d("10.25"), Undertime: d("5")},
		Earnings:   &compensation.Earnings{BasicRate: d("26000"), Allowance: d("1000"), TaxExempt: d("500")},
		Deductions: &compensation.Deductions{WithholdingTax: d("1000"), Absences: d("0.10"), Loan: d("200"), Charges: d("0.20"), OtherLoan: d("50")},
		Benefits: compensation.Benefits{
			SSS:        &compensation.Benefit{Kind: compensation.BenefitSSS, EmployeeShare: d("900"), EmployerShare: d("1900")},
			PhilHealth: &compensation.Benefit{Kind: compensation.BenefitPhilHealth, EmployeeShare: d("650"), Total: d("1300")},
			PagIBIG:    &compensation.Benefit{Kind: compensation.BenefitPagIBIG, EmployeeShare: d("200"), EmployerShare: d("200")},
		},
	}

	got := ComputePayroll(in)

	assert.True(t, d("27812.50").Equal(got.GrossPay), got.GrossPay.String())
	assert.True(t, d("3665.55").Equal(got.TotalDeductions), got.TotalDeductions.String())
	assert.True(t, d("24146.95").Equal(got.NetPay), got.NetPay.String())
}

func TestComputePayroll_MissingInputsCountAsZero(t *testing.T) {
	got := ComputePayroll(Inputs{})
	assert.True(t, got.GrossPay.IsZero())
	assert.True(t, got.TotalDeductions.IsZero())
	assert.True(t, got.NetPay.IsZero())

	got = ComputePayroll(Inputs{Deductions: &compensation.Deductions{Loan: d("300")}})
	assert.True(t, d("-300").Equal(got.NetPay))
}

func TestComputePayroll_NetIsExact(t *testing.T) {
	amounts := []string{"0.1", "0.2", "0.3", "1234.567", "99999.99", "0.01"}
	for i, a := range amounts {
		b := amounts[(i+1)%len(amounts)]
		in := Inputs{
			Earnings:   &compensation.Earnings{BasicRate: d(a), Allowance: d(b), TaxExempt: d(a)},
			Deductions: &compensation.Deductions{WithholdingTax: d(b), Charges: d(a)},
		}
		first := ComputePayroll(in)
		again := ComputePayroll(in)

		assert.True(t, first.GrossPay.Sub(first.TotalDeductions).Equal(first.NetPay))
		assert.True(t, first.NetPay.Equal(again.NetPay))
		assert.True(t, first.NetPay.Add(first.TotalDeductions).Equal(first.GrossPay))
	}
}

func TestDocument(t *testing.T) {
	ps := payroll.Payslip{ID: "ps1", Approved: true}
	p := payroll.Payroll{GrossPay: d("100"), TotalDeductions: d("40"), NetPay: d("60"), PayDate: timeutil.Date(2024, 3, 31)}
	in := Inputs{
		Overtime: &overtime.TotalOvertime{Total: d("12.5"), Late: d("1"), Undertime: d("2")},
		Benefits: compensation.Benefits{PagIBIG: &compensation.Benefit{Kind: compensation.BenefitPagIBIG, EmployeeShare: d("200")}},
	}

	doc := Document(ps, p, in)

	assert.Equal(t, "ps1", doc.PayslipID)
	assert.True(t, doc.Approved)
	assert.Equal(t, []string{"Overtime"}, labels(doc.Earnings))
	assert.Equal(t, []string{"Pag-IBIG", "Late", "Undertime"}, labels(doc.Deductions))
	assert.True(t, d("60").Equal(doc.NetPay))
}

func labels(lines []payroll.PayslipLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Label)
	}
	return out
}
