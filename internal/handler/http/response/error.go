package response

import (
	"errors"
	"log/slog"
	"net/http"

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
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmploymentInfoNotFound):
		NotFound(w, "Employment info not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrEmployeeNumberExists):
		Conflict(w, "Employee number already registered")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User is inactive")
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, err.Error())

	// Biometric feed errors
	case errors.Is(err, biometric.ErrUnknownEmployee):
		NotFound(w, "No user registered for employee number")
	case errors.Is(err, biometric.ErrPunchNotFound):
		NotFound(w, "Punch not found")
	case errors.Is(err, biometric.ErrInvalidWorkbook), errors.Is(err, biometric.ErrMissingColumns):
		BadRequest(w, err.Error(), nil)

	// Attendance errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		BadRequest(w, err.Error(), nil)

	// Schedule errors
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrInvalidPeriodPolicy):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, schedule.ErrShiftInUse):
		Conflict(w, "Shift is attached to a schedule")
	case errors.Is(err, schedule.ErrShiftAlreadyAdded):
		Conflict(w, "Shift already attached to schedule")

	// Holiday errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, err.Error())

	// Summary and overtime errors
	case errors.Is(err, summary.ErrSummaryNotFound):
		NotFound(w, "Attendance summary not found")
	case errors.Is(err, overtime.ErrOvertimeHoursNotFound):
		NotFound(w, "Overtime hours not found")
	case errors.Is(err, overtime.ErrTotalOvertimeNotFound):
		NotFound(w, "Total overtime not found")

	// Compensation errors
	case errors.Is(err, compensation.ErrEarningsNotFound):
		NotFound(w, "Earnings not found")
	case errors.Is(err, compensation.ErrDeductionsNotFound):
		NotFound(w, "Deductions not found")
	case errors.Is(err, compensation.ErrOvertimeBaseNotFound):
		NotFound(w, "Overtime base not found")
	case errors.Is(err, compensation.ErrBenefitNotFound):
		NotFound(w, "Benefit contribution not found")

	// Payroll errors
	case errors.Is(err, payroll.ErrSalaryNotFound):
		NotFound(w, "Salary not found")
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, payroll.ErrPayslipAccessDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, payroll.ErrPayslipAlreadyApproved),
		errors.Is(err, payroll.ErrSweepAlreadyRunning):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPayslipNotApproved):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
