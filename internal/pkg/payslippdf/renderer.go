// Package payslippdf renders payslips as A4 PDF documents.
package payslippdf

import (
	"fmt"
	"io"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type Renderer struct {
	company string
	now     func() time.Time
}

func NewRenderer(company string) *Renderer {
	return &Renderer{company: company, now: time.Now}
}

func (r *Renderer) Render(w io.Writer, doc payroll.PayslipDocument) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+doc.PayslipID, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, r.company)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, "Payslip for pay date "+doc.PayDate.Format("January 2, 2006"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, "Employee:")
	pdf.Cell(0, 8, doc.EmployeeName)
	pdf.Ln(7)
	pdf.Cell(40, 8, "Employee No.:")
	pdf.Cell(0, 8, fmt.Sprintf("%d", doc.EmployeeNumber))
	pdf.Ln(7)
	pdf.Cell(40, 8, "Position:")
	pdf.Cell(0, 8, doc.Position)
	pdf.Ln(12)

	section(pdf, "Earnings", doc.Earnings)
	totalRow(pdf, "Gross Pay", doc.GrossPay)
	pdf.Ln(6)

	section(pdf, "Deductions", doc.Deductions)
	totalRow(pdf, "Total Deductions", doc.TotalDeduction)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "NET PAY", "TB", 0, "L", false, 0, "")
	pdf.CellFormat(60, 10, money(doc.NetPay), "TB", 1, "R", false, 0, "")

	if !doc.Approved {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 8, "DRAFT - pending approval")
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 10, "Generated on "+r.now().Format("02 January 2006 15:04:05"))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render payslip pdf: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, title string, lines []payroll.PayslipLine) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(180, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, line := range lines {
		pdf.CellFormat(120, 7, line.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, money(line.Amount), "", 1, "R", false, 0, "")
	}
}

func totalRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 8, label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, money(amount), "T", 1, "R", false, 0, "")
}

// money formats with two decimals and thousands separators.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	out := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	if neg {
		return "PHP -" + string(out) + frac
	}
	return "PHP " + string(out) + frac
}
