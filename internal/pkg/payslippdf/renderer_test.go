package payslippdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer("Fresco Bakery")
	var buf bytes.Buffer

	doc := payroll.PayslipDocument{
		PayslipID:      "ps-1",
		EmployeeName:   "Maria Santos",
		EmployeeNumber: 1042,
		Position:       "Baker",
		PayDate:        time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		Earnings: []payroll.PayslipLine{
			{Label: "Basic Pay", Amount: decimal.NewFromInt(10400)},
			{Label: "Overtime", Amount: decimal.RequireFromString("312.50")},
		},
		Deductions: []payroll.PayslipLine{
			{Label: "SSS", Amount: decimal.NewFromInt(450)},
		},
		GrossPay:       decimal.RequireFromString("10712.50"),
		TotalDeduction: decimal.NewFromInt(450),
		NetPay:         decimal.RequireFromString("10262.50"),
	}

	require.NoError(t, r.Render(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "PHP 0.00", money(decimal.Zero))
	assert.Equal(t, "PHP 999.50", money(decimal.RequireFromString("999.5")))
	assert.Equal(t, "PHP 1,000.00", money(decimal.NewFromInt(1000)))
	assert.Equal(t, "PHP 1,234,567.89", money(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "PHP -12,000.00", money(decimal.NewFromInt(-12000)))
}
