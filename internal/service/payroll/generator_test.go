package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []payroll.PayslipIssuedEvent
	err    error
}

func (p *recordingPublisher) PublishPayslipIssued(_ context.Context, evt payroll.PayslipIssuedEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

type env struct {
	store     *memory.Store
	sources   Sources
	users     user.UserRepository
	salaries  payroll.SalaryRepository
	payrolls  payroll.PayrollRepository
	payslips  payroll.PayslipRepository
	publisher *recordingPublisher
	gen       payroll.GeneratorService
}

func newEnv() *env {
	store := memory.NewStore()
	e := &env{
		store: store,
		sources: Sources{
			Totals:     memory.NewTotalOvertimeRepository(store),
			Earnings:   memory.NewEarningsRepository(store),
			Deductions: memory.NewDeductionsRepository(store),
			Benefits:   memory.NewBenefitRepository(store),
		},
		users:     memory.NewUserRepository(store),
		salaries:  memory.NewSalaryRepository(store),
		payrolls:  memory.NewPayrollRepository(store),
		payslips:  memory.NewPayslipRepository(store),
		publisher: &recordingPublisher{},
	}
	e.gen = NewGeneratorService(e.sources, e.users, e.salaries, e.payrolls, e.payslips, e.publisher)
	return e
}

func (e *env) user(t *testing.T, email string, active bool) string {
	t.Helper()
	u, err := e.users.Create(context.Background(), user.User{Email: email, Role: user.RoleEmployee, IsActive: active})
	require.NoError(t, err)
	return u.ID
}

// paid gives the user a full compensation profile.
func (e *env) paid(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.sources.Earnings.Create(ctx, compensation.Earnings{UserID: userID, BasicRate: d("26000"), Allowance: d("1000"), TaxExempt: d("500")})
	require.NoError(t, err)
	_, err = e.sources.Deductions.Create(ctx, compensation.Deductions{UserID: userID, WithholdingTax: d("1000"), Loan: d("200")})
	require.NoError(t, err)
	for _, b := range []compensation.Benefit{
		{UserID: userID, Kind: compensation.BenefitSSS, EmployeeShare: d("900"), EmployerShare: d("1900"), Total: d("2800")},
		{UserID: userID, Kind: compensation.BenefitPhilHealth, EmployeeShare: d("650"), EmployerShare: d("650"), Total: d("1300")},
		{UserID: userID, Kind: compensation.BenefitPagIBIG, EmployeeShare: d("200"), EmployerShare: d("200"), Total: d("400")},
	} {
		_, err = e.sources.Benefits.Create(ctx, b)
		require.NoError(t, err)
	}
}

func (e *env) overtime(t *testing.T, userID string, periodStart time.Time, total string) overtime.TotalOvertime {
	t.Helper()
	row, err := e.sources.Totals.Upsert(context.Background(), overtime.TotalOvertime{
		OvertimeHoursID: userID + periodStart.Format(timeutil.DateLayout),
		UserID:          userID,
		PeriodStart:     periodStart,
		Total:           d(total),
		Late:            d("10"),
		Undertime:       d("5"),
	})
	require.NoError(t, err)
	return row
}

func TestGenerateSalaries_IdempotentAcrossRuns(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	u := e.user(t, "ana@fresco.ph", true)
	e.paid(t, u)
	e.overtime(t, u, timeutil.Date(2024, 2, 16), "50")
	latest := e.overtime(t, u, timeutil.Date(2024, 3, 16), "100")

	report, err := e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.SweepReport{Processed: 1, Created: 2}, report)

	report, err = e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.SweepReport{Processed: 1, Skipped: 2}, report)

	rows, err := e.salaries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	march, _, err := e.salaries.List(ctx, payroll.PayrollFilter{StartDate: ptr("2024-03-01")})
	require.NoError(t, err)
	require.Len(t, march, 1)
	assert.Equal(t, timeutil.Date(2024, 3, 31), march[0].PayDate)
	assert.Equal(t, latest.ID, *march[0].OvertimeID)
	assert.NotNil(t, march[0].EarningsID)
	assert.NotNil(t, march[0].DeductionsID)
	assert.NotNil(t, march[0].SSSID)
	assert.NotNil(t, march[0].PhilHealthID)
	assert.NotNil(t, march[0].PagIBIGID)
}

func TestGenerateSalaries_OnlyTwoLatestPeriods(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	u := e.user(t, "ana@fresco.ph", true)
	e.paid(t, u)
	e.overtime(t, u, timeutil.Date(2024, 1, 16), "1")
	e.overtime(t, u, timeutil.Date(2024, 2, 16), "2")
	e.overtime(t, u, timeutil.Date(2024, 3, 16), "3")

	_, err := e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)

	exists, err := e.salaries.ExistsForPayDate(ctx, u, timeutil.Date(2024, 1, 31))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerateSalaries_SamePayDateKeepsOneSalary(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	u := e.user(t, "ana@fresco.ph", true)
	e.paid(t, u)
	e.overtime(t, u, timeutil.Date(2024, 3, 1), "1")
	second := e.overtime(t, u, timeutil.Date(2024, 3, 16), "2")

	report, err := e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Skipped)

	rows, err := e.salaries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, *rows[0].OvertimeID)
}

func TestGenerateSalaries_SkipsInactiveAndUsersWithoutOvertime(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	inactive := e.user(t, "old@fresco.ph", false)
	e.overtime(t, inactive, timeutil.Date(2024, 3, 16), "1")
	e.user(t, "new@fresco.ph", true)

	report, err := e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.SweepReport{Processed: 1}, report)
}

func TestGeneratePayrolls_ComputesAndUpserts(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	u := e.user(t, "ana@fresco.ph", true)
	e.paid(t, u)
	e.overtime(t, u, timeutil.Date(2024, 3, 16), "100")

	_, err := e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)

	report, err := e.gen.GeneratePayrolls(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.SweepReport{Processed: 1, Created: 1}, report)

	report, err = e.gen.GeneratePayrolls(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.SweepReport{Processed: 1, Updated: 1}, report)

	rows, _, err := e.payrolls.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	p := rows[0]
	// 100 + 26000 + 1000 + 500
	assert.True(t, d("27600").Equal(p.GrossPay), p.GrossPay.String())
	// 10 + 5 + 1000 + 200 + 900 + 1300 + 200
	assert.True(t, d("3615").Equal(p.TotalDeductions), p.TotalDeductions.String())
	assert.True(t, d("23985").Equal(p.NetPay), p.NetPay.String())
	assert.Equal(t, timeutil.Date(2024, 3, 31), p.PayDate)
	assert.Equal(t, u, p.UserID)
}

func TestGeneratePayslips_OncePerPayrollAndPublishes(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	u := e.user(t, "ana@fresco.ph", true)
	e.paid(t, u)
	e.overtime(t, u, timeutil.Date(2024, 3, 16), "100")
	_, err := e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)
	_, err = e.gen.GeneratePayrolls(ctx)
	require.NoError(t, err)

	report, err := e.gen.GeneratePayslips(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.SweepReport{Processed: 1, Created: 1}, report)

	report, err = e.gen.GeneratePayslips(ctx)
	require.NoError(t, err)
	assert.Equal(t, payroll.SweepReport{}, report)

	slips, _, err := e.payslips.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.False(t, slips[0].Approved)
	assert.True(t, slips[0].IsProtected)
	assert.Nil(t, slips[0].GeneratedAt)

	require.Len(t, e.publisher.events, 1)
	evt := e.publisher.events[0]
	assert.Equal(t, slips[0].ID, evt.PayslipID)
	assert.Equal(t, u, evt.UserID)
	assert.Equal(t, "2024-03-31", evt.PayDate)
	assert.True(t, d("23985").Equal(evt.NetPay))
}

func TestGeneratePayslips_PublishFailureKeepsPayslip(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.publisher.err = errors.New("broker down")
	u := e.user(t, "ana@fresco.ph", true)
	e.overtime(t, u, timeutil.Date(2024, 3, 16), "100")
	_, err := e.gen.GenerateSalaries(ctx)
	require.NoError(t, err)
	_, err = e.gen.GeneratePayrolls(ctx)
	require.NoError(t, err)

	report, err := e.gen.GeneratePayslips(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	slips, _, err := e.payslips.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Len(t, slips, 1)
}

func ptr[T any](v T) *T { return &v }
