package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fresco-hris/payroll-backend/internal/config"
	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/auth"
	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	"github.com/fresco-hris/payroll-backend/internal/repository/postgresql"
)

type repositories struct {
	tx database.Transactor

	users         user.UserRepository
	employment    user.EmploymentInfoRepository
	refreshTokens auth.RefreshTokenRepository
	punches       biometric.PunchRepository
	attendances   attendance.AttendanceRepository
	shifts        schedule.ShiftRepository
	schedules     schedule.ScheduleRepository
	holidays      holiday.HolidayRepository
	summaries     summary.SummaryRepository
	hours         overtime.HoursRepository
	totals        overtime.TotalRepository
	earnings      compensation.EarningsRepository
	deductions    compensation.DeductionsRepository
	bases         compensation.OvertimeBaseRepository
	benefits      compensation.BenefitRepository
	salaries      payroll.SalaryRepository
	payrolls      payroll.PayrollRepository
	payslips      payroll.PayslipRepository

	close func()
}

// openRepositories builds the repository set for the configured driver.
func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			tx:            store,
			users:         memory.NewUserRepository(store),
			employment:    memory.NewEmploymentInfoRepository(store),
			refreshTokens: memory.NewRefreshTokenRepository(store),
			punches:       memory.NewPunchRepository(store),
			attendances:   memory.NewAttendanceRepository(store),
			shifts:        memory.NewShiftRepository(store),
			schedules:     memory.NewScheduleRepository(store),
			holidays:      memory.NewHolidayRepository(store),
			summaries:     memory.NewSummaryRepository(store),
			hours:         memory.NewOvertimeHoursRepository(store),
			totals:        memory.NewTotalOvertimeRepository(store),
			earnings:      memory.NewEarningsRepository(store),
			deductions:    memory.NewDeductionsRepository(store),
			bases:         memory.NewOvertimeBaseRepository(store),
			benefits:      memory.NewBenefitRepository(store),
			salaries:      memory.NewSalaryRepository(store),
			payrolls:      memory.NewPayrollRepository(store),
			payslips:      memory.NewPayslipRepository(store),
			close:         func() {},
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return &repositories{
			tx:            postgresql.NewTransactor(db),
			users:         postgresql.NewUserRepository(db),
			employment:    postgresql.NewEmploymentInfoRepository(db),
			refreshTokens: postgresql.NewRefreshTokenRepository(db),
			punches:       postgresql.NewPunchRepository(db),
			attendances:   postgresql.NewAttendanceRepository(db),
			shifts:        postgresql.NewShiftRepository(db),
			schedules:     postgresql.NewScheduleRepository(db),
			holidays:      postgresql.NewHolidayRepository(db),
			summaries:     postgresql.NewSummaryRepository(db),
			hours:         postgresql.NewOvertimeHoursRepository(db),
			totals:        postgresql.NewTotalOvertimeRepository(db),
			earnings:      postgresql.NewEarningsRepository(db),
			deductions:    postgresql.NewDeductionsRepository(db),
			bases:         postgresql.NewOvertimeBaseRepository(db),
			benefits:      postgresql.NewBenefitRepository(db),
			salaries:      postgresql.NewSalaryRepository(db),
			payrolls:      postgresql.NewPayrollRepository(db),
			payslips:      postgresql.NewPayslipRepository(db),
			close:         db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
