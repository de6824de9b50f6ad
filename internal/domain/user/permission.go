package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Biometric feed
	PermissionPunchCreate  Permission = "punch.create"
	PermissionPunchViewAll Permission = "punch.view_all"
	PermissionPunchImport  Permission = "punch.import"

	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Scheduling
	PermissionScheduleViewOwn Permission = "schedule.view_own"
	PermissionScheduleManage  Permission = "schedule.manage"
	PermissionHolidayManage   Permission = "holiday.manage"

	// Compensation
	PermissionCompensationView   Permission = "compensation.view"
	PermissionCompensationManage Permission = "compensation.manage"

	// Payroll
	PermissionPayslipViewOwn Permission = "payslip.view_own"
	PermissionPayrollViewAll Permission = "payroll.view_all"
	PermissionPayrollApprove Permission = "payroll.approve"
	PermissionPayrollRun     Permission = "payroll.run"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionViewOwnProfile,
		PermissionPunchCreate,
		PermissionPunchViewAll,
		PermissionPunchImport,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionScheduleViewOwn,
		PermissionScheduleManage,
		PermissionHolidayManage,
		PermissionCompensationView,
		PermissionCompensationManage,
		PermissionPayslipViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollApprove,
		PermissionPayrollRun,
		PermissionUserManage,
	},
	RoleAdmin: {
		// Admin runs payroll but cannot manage other users
		PermissionViewOwnProfile,
		PermissionPunchCreate,
		PermissionPunchViewAll,
		PermissionPunchImport,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionScheduleViewOwn,
		PermissionScheduleManage,
		PermissionHolidayManage,
		PermissionCompensationView,
		PermissionCompensationManage,
		PermissionPayslipViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollApprove,
		PermissionPayrollRun,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionScheduleViewOwn,
		PermissionPayslipViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
