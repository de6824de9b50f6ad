package http

import (
	"log/slog"
	"os"

	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/middleware"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// RouterOptions carries the deployment knobs of the HTTP surface.
type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level

	// Device feed throttling per client.
	PunchRatePerSecond float64
	PunchBurst         int

	// Accounts lets authentication reject deactivated users. Optional.
	Accounts middleware.AccountLookup
}

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Biometric    BiometricHandler
	Attendance   AttendanceHandler
	Schedule     ScheduleHandler
	Holiday      HolidayHandler
	Summary      SummaryHandler
	Overtime     OvertimeHandler
	Compensation CompensationHandler
	Payroll      PayrollHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fresco-payroll"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	punchLimit := middleware.RateLimitByClient(rate.Limit(opts.PunchRatePerSecond), opts.PunchBurst)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(opts.Accounts))

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/me", h.User.Me)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleOwner, user.RoleAdmin))
					r.Get("/", h.User.List)
					r.Get("/{id}", h.User.Get)
				})

				// Owner only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Post("/", h.User.Create)
					r.Put("/{id}", h.User.Update)
					r.Delete("/{id}", h.User.Deactivate)
				})
			})

			r.Route("/biometrics", func(r chi.Router) {
				r.With(punchLimit, middleware.RequirePermission(user.PermissionPunchCreate)).Post("/punches", h.Biometric.RecordPunch)
				r.With(middleware.RequirePermission(user.PermissionPunchViewAll)).Get("/punches", h.Biometric.List)
				r.With(middleware.RequirePermission(user.PermissionPunchImport)).Post("/import", h.Biometric.Import)
			})

			r.Route("/attendances", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/me", h.Attendance.GetMyAttendance)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/{id}", h.Attendance.Get)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Put("/{id}", h.Attendance.Update)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
				r.Get("/", h.Schedule.ListShifts)
				r.Post("/", h.Schedule.CreateShift)
				r.Get("/{id}", h.Schedule.GetShift)
				r.Put("/{id}", h.Schedule.UpdateShift)
				r.Delete("/{id}", h.Schedule.DeleteShift)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionScheduleViewOwn)).Get("/me", h.Schedule.GetMySchedules)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Get("/", h.Schedule.ListSchedules)
					r.Post("/", h.Schedule.CreateSchedule)
					r.Get("/{id}", h.Schedule.GetSchedule)
					r.Delete("/{id}", h.Schedule.DeleteSchedule)
					r.Post("/{id}/shifts", h.Schedule.AttachShifts)
					r.Delete("/{id}/shifts/{shiftID}", h.Schedule.DetachShift)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Holiday.List)
				r.Get("/{id}", h.Holiday.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
					r.Post("/", h.Holiday.Create)
					r.Put("/{id}", h.Holiday.Update)
					r.Delete("/{id}", h.Holiday.Delete)
				})
			})

			r.Route("/attendance-summaries", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
				r.Get("/", h.Summary.List)
				r.Get("/{id}", h.Summary.Get)
			})

			r.Route("/overtime-hours", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
				r.Get("/", h.Overtime.ListHours)
				r.Get("/{id}", h.Overtime.GetHours)
				r.With(middleware.RequirePermission(user.PermissionCompensationManage)).Patch("/{id}", h.Overtime.UpdateHours)
			})

			r.Route("/total-overtimes", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
				r.Get("/", h.Overtime.ListTotals)
				r.Get("/{id}", h.Overtime.GetTotal)
				r.With(middleware.RequirePermission(user.PermissionPayrollRun)).Post("/recompute", h.Overtime.Recompute)
			})

			// Compensation
			r.Group(func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionCompensationView)).Get("/compensation/{userID}", h.Compensation.GetCurrent)

				r.Route("/earnings", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionCompensationView)).Get("/", h.Compensation.ListEarnings)
					r.With(middleware.RequirePermission(user.PermissionCompensationManage)).Post("/", h.Compensation.CreateEarnings)
				})
				r.Route("/deductions", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionCompensationView)).Get("/", h.Compensation.ListDeductions)
					r.With(middleware.RequirePermission(user.PermissionCompensationManage)).Post("/", h.Compensation.CreateDeductions)
				})
				r.With(middleware.RequirePermission(user.PermissionCompensationManage)).Post("/overtime-bases", h.Compensation.CreateOvertimeBase)
				r.Route("/benefits", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionCompensationView)).Get("/", h.Compensation.ListBenefits)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionCompensationManage))
						r.Post("/sss", h.Compensation.CreateSSS)
						r.Post("/refresh", h.Compensation.RefreshBenefits)
					})
				})
			})

			// Payroll
			r.Group(func(r chi.Router) {
				r.Route("/salaries", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
					r.Get("/", h.Payroll.ListSalaries)
					r.Get("/{id}", h.Payroll.GetSalary)
				})
				r.Route("/payrolls", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
					r.Get("/", h.Payroll.ListPayrolls)
					r.Get("/{id}", h.Payroll.GetPayroll)
				})
				r.Route("/payslips", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayslipViewOwn)).Get("/me", h.Payroll.ListMyPayslips)
					r.With(middleware.RequirePermission(user.PermissionPayslipViewOwn)).Get("/{id}", h.Payroll.GetPayslip)
					r.With(middleware.RequirePermission(user.PermissionPayslipViewOwn)).Get("/{id}/pdf", h.Payroll.DownloadPayslip)
					r.With(middleware.RequirePermission(user.PermissionPayrollViewAll)).Get("/", h.Payroll.ListPayslips)
					r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).Post("/{id}/approve", h.Payroll.ApprovePayslip)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollRun))
					r.Post("/payroll/sweeps/salary", h.Payroll.TriggerSalarySweep)
					r.Get("/tasks/{id}", h.Payroll.GetTask)
				})
			})
		})
	})
	return r
}
