package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createTestUser(t *testing.T, ctx context.Context, db *database.DB, email string) user.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         user.RoleEmployee,
		IsActive:     true,
	})
	require.NoError(t, err)
	return created
}

// ===== USER REPOSITORY TESTS =====

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	employment := postgresql.NewEmploymentInfoRepository(db)

	u := createTestUser(t, ctx, db, "maria@fresco.ph")

	_, err := users.Create(ctx, user.User{Email: "maria@fresco.ph", PasswordHash: "x", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	got, err := users.GetByEmail(ctx, "MARIA@fresco.ph")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, got.EmploymentInfo)

	_, err = employment.Create(ctx, user.EmploymentInfo{
		UserID: u.ID, EmployeeNumber: 1042, FirstName: "Maria", LastName: "Santos",
		Position: "Baker", Address: "Quezon City", HireDate: timeutil.Date(2022, 1, 3),
	})
	require.NoError(t, err)

	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EmploymentInfo)
	assert.Equal(t, int64(1042), got.EmploymentInfo.EmployeeNumber)

	info, err := employment.GetByEmployeeNumber(ctx, 1042)
	require.NoError(t, err)
	assert.Equal(t, u.ID, info.UserID)

	_, err = users.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRefreshTokenRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	tokens := postgresql.NewRefreshTokenRepository(db)
	u := createTestUser(t, ctx, db, "tokens@fresco.ph")

	require.NoError(t, tokens.Create(ctx, u.ID, "refresh-abc", time.Now().Add(time.Hour).Unix()))

	userID, revoked, err := tokens.IsRevoked(ctx, "refresh-abc")
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.False(t, revoked)

	require.NoError(t, tokens.Revoke(ctx, "refresh-abc"))
	_, revoked, err = tokens.IsRevoked(ctx, "refresh-abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	_, revoked, err = tokens.IsRevoked(ctx, "never-issued")
	require.NoError(t, err)
	assert.True(t, revoked)
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_CreateIfAbsentAndAdvance(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	u := createTestUser(t, ctx, db, "punch@fresco.ph")

	nine := timeutil.NewClock(9, 0, 0)
	first, created, err := repo.CreateIfAbsent(ctx, attendance.Attendance{
		UserID: u.ID, Date: timeutil.Date(2024, 3, 4), CheckIn: &nine, CheckOut: &nine, Status: attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.CreateIfAbsent(ctx, attendance.Attendance{
		UserID: u.ID, Date: timeutil.Date(2024, 3, 4), Status: attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	advanced, err := repo.AdvanceCheckOut(ctx, first.ID, timeutil.NewClock(18, 30, 0))
	require.NoError(t, err)
	assert.True(t, advanced)

	advanced, err = repo.AdvanceCheckOut(ctx, first.ID, timeutil.NewClock(12, 0, 0))
	require.NoError(t, err)
	assert.False(t, advanced, "an earlier punch never moves check-out back")

	stored, err := repo.GetByUserAndDate(ctx, u.ID, timeutil.Date(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", stored.CheckIn.String())
	assert.Equal(t, "18:30:00", stored.CheckOut.String())
}

// ===== OVERTIME REPOSITORY TESTS =====

func TestHoursRepository_UpsertDerivedKeepsManualColumns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, db, "hours@fresco.ph")

	sm, err := postgresql.NewSummaryRepository(db).Upsert(ctx, summary.AttendanceSummary{
		UserID: u.ID, PeriodStart: timeutil.Date(2024, 3, 1), PeriodEnd: timeutil.Date(2024, 3, 15),
		ActualHours: 9, OvertimeHours: 1,
	})
	require.NoError(t, err)

	hours := postgresql.NewOvertimeHoursRepository(db)
	h, err := hours.UpsertDerived(ctx, overtime.OvertimeHours{
		UserID: u.ID, SummaryID: sm.ID, PeriodStart: sm.PeriodStart, RegularOT: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	_, err = hours.UpdateManual(ctx, h.ID, decimal.NewFromInt(4), decimal.NewFromInt(2), decimal.Zero)
	require.NoError(t, err)

	again, err := hours.UpsertDerived(ctx, overtime.OvertimeHours{
		UserID: u.ID, SummaryID: sm.ID, PeriodStart: sm.PeriodStart, RegularOT: decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.Equal(t, h.ID, again.ID)
	assert.True(t, decimal.NewFromInt(3).Equal(again.RegularOT))
	assert.True(t, decimal.NewFromInt(4).Equal(again.RestDay))
	assert.True(t, decimal.NewFromInt(2).Equal(again.NightDiff))
}

// ===== PAYROLL REPOSITORY TESTS =====

func TestSalaryAndPayrollRepositories_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, db, "pay@fresco.ph")

	earnings, err := postgresql.NewEarningsRepository(db).Create(ctx, compensation.Earnings{
		UserID: u.ID, BasicRate: decimal.NewFromInt(26000),
	})
	require.NoError(t, err)

	salaries := postgresql.NewSalaryRepository(db)
	payDate := timeutil.Date(2024, 3, 31)
	first, created, err := salaries.CreateIfAbsent(ctx, payroll.Salary{UserID: u.ID, PayDate: payDate, EarningsID: &earnings.ID})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := salaries.CreateIfAbsent(ctx, payroll.Salary{UserID: u.ID, PayDate: payDate})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	payrolls := postgresql.NewPayrollRepository(db)
	p, created, err := payrolls.Upsert(ctx, payroll.Payroll{
		UserID: u.ID, SalaryID: first.ID, PayDate: payDate,
		GrossPay: decimal.NewFromInt(26000), TotalDeductions: decimal.Zero, NetPay: decimal.NewFromInt(26000),
	})
	require.NoError(t, err)
	assert.True(t, created)

	updated, created, err := payrolls.Upsert(ctx, payroll.Payroll{
		UserID: u.ID, SalaryID: first.ID, PayDate: payDate,
		GrossPay: decimal.NewFromInt(27000), TotalDeductions: decimal.NewFromInt(500), NetPay: decimal.NewFromInt(26500),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, updated.ID)

	payslips := postgresql.NewPayslipRepository(db)
	ps, created, err := payslips.CreateIfAbsent(ctx, payroll.Payslip{UserID: u.ID, PayrollID: p.ID, IsProtected: true})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, ps.Payroll)
	assert.True(t, decimal.NewFromInt(26500).Equal(ps.Payroll.NetPay))

	require.NoError(t, payslips.Approve(ctx, ps.ID, u.ID, time.Now()))
	assert.ErrorIs(t, payslips.Approve(ctx, ps.ID, u.ID, time.Now()), payroll.ErrPayslipAlreadyApproved)

	pending, err := payrolls.ListWithoutPayslip(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

// ===== COMPENSATION REPOSITORY TESTS =====

func TestCompensationRepositories_LatestWithinOneTransaction(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, db, "comp@fresco.ph")

	earningsRepo := postgresql.NewEarningsRepository(db)
	deductionsRepo := postgresql.NewDeductionsRepository(db)

	var newestEarnings compensation.Earnings
	var newestDeductions compensation.Deductions
	err := postgresql.NewTransactor(db).WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, rate := range []int64{20000, 24000, 26000} {
			e, err := earningsRepo.Create(txCtx, compensation.Earnings{UserID: u.ID, BasicRate: decimal.NewFromInt(rate)})
			if err != nil {
				return err
			}
			newestEarnings = e
		}
		for _, loan := range []int64{100, 300} {
			d, err := deductionsRepo.Create(txCtx, compensation.Deductions{UserID: u.ID, Loan: decimal.NewFromInt(loan)})
			if err != nil {
				return err
			}
			newestDeductions = d
		}
		return nil
	})
	require.NoError(t, err)

	for range 3 {
		e, err := earningsRepo.Latest(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, newestEarnings.ID, e.ID)
		assert.True(t, decimal.NewFromInt(26000).Equal(e.BasicRate))

		d, err := deductionsRepo.Latest(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, newestDeductions.ID, d.ID)
	}

	all, err := earningsRepo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newestEarnings.ID, all[0].ID)
}
