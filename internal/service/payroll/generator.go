package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

// salaryPeriods is how many of the latest overtime periods each salary
// sweep looks at per user.
const salaryPeriods = 2

// Sources groups the repositories a salary's referenced records live in.
type Sources struct {
	Totals     overtime.TotalRepository
	Earnings   compensation.EarningsRepository
	Deductions compensation.DeductionsRepository
	Benefits   compensation.BenefitRepository
}

// inputs resolves the records a salary references. A reference that no
// longer resolves is treated as absent.
func (src Sources) inputs(ctx context.Context, sal payroll.Salary) (Inputs, error) {
	var in Inputs

	if sal.OvertimeID != nil {
		t, err := src.Totals.GetByID(ctx, *sal.OvertimeID)
		switch {
		case err == nil:
			in.Overtime = &t
		case !errors.Is(err, overtime.ErrTotalOvertimeNotFound):
			return Inputs{}, fmt.Errorf("failed to load total overtime: %w", err)
		}
	}
	if sal.EarningsID != nil {
		e, err := src.Earnings.GetByID(ctx, *sal.EarningsID)
		switch {
		case err == nil:
			in.Earnings = &e
		case !errors.Is(err, compensation.ErrEarningsNotFound):
			return Inputs{}, fmt.Errorf("failed to load earnings: %w", err)
		}
	}
	if sal.DeductionsID != nil {
		d, err := src.Deductions.GetByID(ctx, *sal.DeductionsID)
		switch {
		case err == nil:
			in.Deductions = &d
		case !errors.Is(err, compensation.ErrDeductionsNotFound):
			return Inputs{}, fmt.Errorf("failed to load deductions: %w", err)
		}
	}
	for _, id := range []*string{sal.SSSID, sal.PhilHealthID, sal.PagIBIGID} {
		if id == nil {
			continue
		}
		b, err := src.Benefits.GetByID(ctx, *id)
		switch {
		case err == nil:
			in.Benefits.Set(b)
		case !errors.Is(err, compensation.ErrBenefitNotFound):
			return Inputs{}, fmt.Errorf("failed to load benefit contribution: %w", err)
		}
	}
	return in, nil
}

type GeneratorServiceImpl struct {
	Sources
	users     user.UserRepository
	salaries  payroll.SalaryRepository
	payrolls  payroll.PayrollRepository
	payslips  payroll.PayslipRepository
	publisher payroll.EventPublisher
	now       func() time.Time
}

func NewGeneratorService(
	sources Sources,
	userRepository user.UserRepository,
	salaryRepository payroll.SalaryRepository,
	payrollRepository payroll.PayrollRepository,
	payslipRepository payroll.PayslipRepository,
	publisher payroll.EventPublisher,
) payroll.GeneratorService {
	return &GeneratorServiceImpl{
		Sources:   sources,
		users:     userRepository,
		salaries:  salaryRepository,
		payrolls:  payrollRepository,
		payslips:  payslipRepository,
		publisher: publisher,
		now:       time.Now,
	}
}

// ========== SALARIES ==========

// GenerateSalaries creates a salary for each of the latest overtime periods
// of every active user whose pay date has none yet.
func (g *GeneratorServiceImpl) GenerateSalaries(ctx context.Context) (payroll.SweepReport, error) {
	userIDs, err := g.users.ListActiveIDs(ctx)
	if err != nil {
		return payroll.SweepReport{}, fmt.Errorf("failed to list active users: %w", err)
	}

	var report payroll.SweepReport
	for _, userID := range userIDs {
		report.Processed++
		r, err := g.salariesForUser(ctx, userID)
		if err != nil {
			report.Failed++
			slog.Error("salary generation failed", "user_id", userID, "error", err)
			continue
		}
		report.Add(r)
	}

	slog.Info("salary sweep finished",
		"processed", report.Processed,
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

func (g *GeneratorServiceImpl) salariesForUser(ctx context.Context, userID string) (payroll.SweepReport, error) {
	var report payroll.SweepReport

	totals, err := g.Totals.LatestByUser(ctx, userID, salaryPeriods)
	if err != nil {
		return report, fmt.Errorf("failed to load total overtimes: %w", err)
	}
	if len(totals) == 0 {
		return report, nil
	}

	refs, err := g.currentRefs(ctx, userID)
	if err != nil {
		return report, err
	}

	for _, t := range totals {
		payDate := PayDate(t.PeriodStart)

		exists, err := g.salaries.ExistsForPayDate(ctx, userID, payDate)
		if err != nil {
			return report, fmt.Errorf("failed to check salary: %w", err)
		}
		if exists {
			report.Skipped++
			continue
		}

		sal := refs
		sal.PayDate = payDate
		overtimeID := t.ID
		sal.OvertimeID = &overtimeID

		_, created, err := g.salaries.CreateIfAbsent(ctx, sal)
		if err != nil {
			return report, fmt.Errorf("failed to create salary: %w", err)
		}
		if !created {
			report.Skipped++
			continue
		}
		report.Created++
		slog.Info("salary created",
			"user_id", userID,
			"pay_date", payDate.Format(timeutil.DateLayout),
			"period_start", t.PeriodStart.Format(timeutil.DateLayout),
		)
	}
	return report, nil
}

// currentRefs points a new salary at the user's latest compensation
// records.
func (g *GeneratorServiceImpl) currentRefs(ctx context.Context, userID string) (payroll.Salary, error) {
	sal := payroll.Salary{UserID: userID}

	earnings, err := g.Earnings.Latest(ctx, userID)
	switch {
	case err == nil:
		sal.EarningsID = &earnings.ID
	case errors.Is(err, compensation.ErrEarningsNotFound):
		slog.Warn("no earnings for user, salary references none", "user_id", userID)
	default:
		return sal, fmt.Errorf("failed to load earnings: %w", err)
	}

	deductions, err := g.Deductions.Latest(ctx, userID)
	switch {
	case err == nil:
		sal.DeductionsID = &deductions.ID
	case !errors.Is(err, compensation.ErrDeductionsNotFound):
		return sal, fmt.Errorf("failed to load deductions: %w", err)
	}

	benefits, err := g.Benefits.Latest(ctx, userID)
	if err != nil {
		return sal, fmt.Errorf("failed to load benefits: %w", err)
	}
	if benefits.SSS != nil {
		sal.SSSID = &benefits.SSS.ID
	}
	if benefits.PhilHealth != nil {
		sal.PhilHealthID = &benefits.PhilHealth.ID
	}
	if benefits.PagIBIG != nil {
		sal.PagIBIGID = &benefits.PagIBIG.ID
	}
	return sal, nil
}

// ========== PAYROLLS ==========

// GeneratePayrolls computes and upserts the payroll of every salary.
func (g *GeneratorServiceImpl) GeneratePayrolls(ctx context.Context) (payroll.SweepReport, error) {
	salaries, err := g.salaries.ListAll(ctx)
	if err != nil {
		return payroll.SweepReport{}, fmt.Errorf("failed to list salaries: %w", err)
	}

	var report payroll.SweepReport
	for _, sal := range salaries {
		report.Processed++

		in, err := g.inputs(ctx, sal)
		if err != nil {
			report.Failed++
			slog.Error("payroll inputs unavailable", "salary_id", sal.ID, "user_id", sal.UserID, "error", err)
			continue
		}
		amounts := ComputePayroll(in)

		_, created, err := g.payrolls.Upsert(ctx, payroll.Payroll{
			UserID:          sal.UserID,
			SalaryID:        sal.ID,
			GrossPay:        amounts.GrossPay,
			TotalDeductions: amounts.TotalDeductions,
			NetPay:          amounts.NetPay,
			PayDate:         sal.PayDate,
		})
		if err != nil {
			report.Failed++
			slog.Error("payroll upsert failed", "salary_id", sal.ID, "user_id", sal.UserID, "error", err)
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	slog.Info("payroll sweep finished",
		"processed", report.Processed,
		"created", report.Created,
		"updated", report.Updated,
		"failed", report.Failed,
	)
	return report, nil
}

// ========== PAYSLIPS ==========

// GeneratePayslips issues one unapproved payslip per payroll lacking one and
// announces it. A failed announcement does not undo the payslip.
func (g *GeneratorServiceImpl) GeneratePayslips(ctx context.Context) (payroll.SweepReport, error) {
	pending, err := g.payrolls.ListWithoutPayslip(ctx)
	if err != nil {
		return payroll.SweepReport{}, fmt.Errorf("failed to list payrolls without payslip: %w", err)
	}

	var report payroll.SweepReport
	for _, p := range pending {
		report.Processed++

		ps, created, err := g.payslips.CreateIfAbsent(ctx, payroll.Payslip{
			UserID:      p.UserID,
			PayrollID:   p.ID,
			Approved:    false,
			IsProtected: true,
		})
		if err != nil {
			report.Failed++
			slog.Error("payslip creation failed", "payroll_id", p.ID, "user_id", p.UserID, "error", err)
			continue
		}
		if !created {
			report.Skipped++
			continue
		}
		report.Created++

		evt := payroll.PayslipIssuedEvent{
			PayslipID: ps.ID,
			PayrollID: p.ID,
			UserID:    p.UserID,
			NetPay:    p.NetPay,
			PayDate:   p.PayDate.Format(timeutil.DateLayout),
			IssuedAt:  g.now().UTC(),
		}
		if err := g.publisher.PublishPayslipIssued(ctx, evt); err != nil {
			slog.Error("failed to publish payslip issued event", "payslip_id", ps.ID, "error", err)
		}
	}

	slog.Info("payslip sweep finished",
		"processed", report.Processed,
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}
