package payroll

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/fresco-hris/payroll-backend/internal/domain/auth"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	docs []payroll.PayslipDocument
}

func (r *fakeRenderer) Render(w io.Writer, doc payroll.PayslipDocument) error {
	r.docs = append(r.docs, doc)
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

type payslipFixture struct {
	*env
	svc      payroll.PayrollService
	renderer *fakeRenderer
	owner    string
	other    string
	slipID   string
}

func newPayslipFixture(t *testing.T) payslipFixture {
	t.Helper()
	ctx := context.Background()
	e := newEnv()
	owner := e.user(t, "ana@fresco.ph", true)
	other := e.user(t, "ben@fresco.ph", true)
	e.paid(t, owner)
	e.overtime(t, owner, timeutil.Date(2024, 3, 16), "100")

	_, err := memory.NewEmploymentInfoRepository(e.store).Create(ctx, user.EmploymentInfo{
		UserID: owner, EmployeeNumber: 1042, FirstName: "Ana", LastName: "Reyes", Position: "Baker",
	})
	require.NoError(t, err)

	_, err = e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)
	_, err = e.gen.GeneratePayrolls(ctx)
	require.NoError(t, err)
	_, err = e.gen.GeneratePayslips(ctx)
	require.NoError(t, err)

	slips, _, err := e.payslips.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, slips, 1)

	renderer := &fakeRenderer{}
	svc := NewPayrollService(e.sources, e.salaries, e.payrolls, e.payslips, memory.NewEmploymentInfoRepository(e.store), renderer)
	return payslipFixture{env: e, svc: svc, renderer: renderer, owner: owner, other: other, slipID: slips[0].ID}
}

func as(userID string, role user.Role) context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{UserID: userID, Role: role})
}

func TestPayrollService_GetPayslip_Access(t *testing.T) {
	f := newPayslipFixture(t)

	own, err := f.svc.GetPayslip(as(f.owner, user.RoleEmployee), f.slipID)
	require.NoError(t, err)
	require.NotNil(t, own.Payroll)
	assert.True(t, d("23985").Equal(own.Payroll.NetPay))

	_, err = f.svc.GetPayslip(as(f.other, user.RoleEmployee), f.slipID)
	assert.ErrorIs(t, err, payroll.ErrPayslipAccessDenied)

	_, err = f.svc.GetPayslip(as("admin-1", user.RoleAdmin), f.slipID)
	assert.NoError(t, err)

	_, err = f.svc.GetPayslip(context.Background(), f.slipID)
	assert.ErrorIs(t, err, auth.ErrMissingClaims)
}

func TestPayrollService_ListMyPayslips_IgnoresUserFilter(t *testing.T) {
	f := newPayslipFixture(t)

	mine, err := f.svc.ListMyPayslips(as(f.other, user.RoleEmployee), payroll.PayrollFilter{UserID: &f.owner})
	require.NoError(t, err)
	assert.Zero(t, mine.TotalCount)
	assert.Empty(t, mine.Items)

	mine, err = f.svc.ListMyPayslips(as(f.owner, user.RoleEmployee), payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.TotalCount)
	assert.Equal(t, 1, mine.Page)
	assert.Equal(t, 20, mine.Limit)
	assert.Equal(t, 1, mine.TotalPages)
}

func TestPayrollService_ApproveAndRender(t *testing.T) {
	f := newPayslipFixture(t)
	admin := as("admin-1", user.RoleAdmin)

	var buf bytes.Buffer
	err := f.svc.RenderPayslip(as(f.owner, user.RoleEmployee), f.slipID, &buf)
	assert.ErrorIs(t, err, payroll.ErrPayslipNotApproved)
	assert.Empty(t, f.renderer.docs)

	approved, err := f.svc.ApprovePayslip(admin, f.slipID)
	require.NoError(t, err)
	assert.True(t, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = f.svc.ApprovePayslip(admin, f.slipID)
	assert.ErrorIs(t, err, payroll.ErrPayslipAlreadyApproved)

	require.NoError(t, f.svc.RenderPayslip(as(f.owner, user.RoleEmployee), f.slipID, &buf))
	assert.Equal(t, "%PDF-fake", buf.String())
	require.Len(t, f.renderer.docs, 1)
	doc := f.renderer.docs[0]
	assert.Equal(t, "Ana Reyes", doc.EmployeeName)
	assert.EqualValues(t, 1042, doc.EmployeeNumber)
	assert.True(t, d("27600").Equal(doc.GrossPay))
	assert.Equal(t, []string{"Basic Rate", "Allowance", "Non-taxable", "Overtime"}, labels(doc.Earnings))

	got, err := f.svc.GetPayslip(admin, f.slipID)
	require.NoError(t, err)
	assert.NotNil(t, got.GeneratedAt)

	err = f.svc.RenderPayslip(as(f.other, user.RoleEmployee), f.slipID, &buf)
	assert.ErrorIs(t, err, payroll.ErrPayslipAccessDenied)
}

func TestPayrollService_SalaryAndPayrollReads(t *testing.T) {
	f := newPayslipFixture(t)
	ctx := context.Background()

	salaries, err := f.svc.ListSalaries(ctx, payroll.PayrollFilter{UserID: &f.owner})
	require.NoError(t, err)
	require.Len(t, salaries.Items, 1)
	assert.Equal(t, "2024-03-31", salaries.Items[0].PayDate)

	sal, err := f.svc.GetSalary(ctx, salaries.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, f.owner, sal.UserID)

	payrolls, err := f.svc.ListPayrolls(ctx, payroll.PayrollFilter{EndDate: ptr("2024-03-30")})
	require.NoError(t, err)
	assert.Empty(t, payrolls.Items)

	payrolls, err = f.svc.ListPayrolls(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, payrolls.Items, 1)
	p, err := f.svc.GetPayroll(ctx, payrolls.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, sal.ID, p.SalaryID)

	_, err = f.svc.GetSalary(ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrSalaryNotFound)

	_, err = f.svc.ListPayrolls(ctx, payroll.PayrollFilter{StartDate: ptr("31/03/2024")})
	assert.Error(t, err)
}
