package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/payslippdf"
	"github.com/fresco-hris/payroll-backend/internal/pkg/storage"
	"github.com/fresco-hris/payroll-backend/internal/pkg/tasks"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	attendanceService "github.com/fresco-hris/payroll-backend/internal/service/attendance"
	authService "github.com/fresco-hris/payroll-backend/internal/service/auth"
	biometricService "github.com/fresco-hris/payroll-backend/internal/service/biometric"
	compensationService "github.com/fresco-hris/payroll-backend/internal/service/compensation"
	holidayService "github.com/fresco-hris/payroll-backend/internal/service/holiday"
	overtimeService "github.com/fresco-hris/payroll-backend/internal/service/overtime"
	payrollService "github.com/fresco-hris/payroll-backend/internal/service/payroll"
	"github.com/fresco-hris/payroll-backend/internal/service/pipeline"
	scheduleService "github.com/fresco-hris/payroll-backend/internal/service/schedule"
	summaryService "github.com/fresco-hris/payroll-backend/internal/service/summary"
	userService "github.com/fresco-hris/payroll-backend/internal/service/user"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestPassword = "password123"
)

type noopPublisher struct{}

func (noopPublisher) PublishPayslipIssued(context.Context, payroll.PayslipIssuedEvent) error {
	return nil
}

type testApp struct {
	store    *memory.Store
	jwt      *jwt.JWTService
	pipeline *pipeline.Pipeline
	router   *chi.Mux
	handlers Handlers
	users    user.UserRepository
	// archiveDir receives uploaded punch workbooks.
	archiveDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := memory.NewStore()
	loc := time.UTC

	users := memory.NewUserRepository(store)
	employment := memory.NewEmploymentInfoRepository(store)
	attendances := memory.NewAttendanceRepository(store)
	summaries := memory.NewSummaryRepository(store)
	hours := memory.NewOvertimeHoursRepository(store)
	totals := memory.NewTotalOvertimeRepository(store)
	earnings := memory.NewEarningsRepository(store)
	deductions := memory.NewDeductionsRepository(store)
	bases := memory.NewOvertimeBaseRepository(store)
	benefits := memory.NewBenefitRepository(store)
	salaries := memory.NewSalaryRepository(store)
	payrolls := memory.NewPayrollRepository(store)
	payslips := memory.NewPayslipRepository(store)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour, false)

	userSvc := userService.NewUserService(store, users, employment)
	authSvc := authService.NewAuthService(store, users, jwtSvc, memory.NewRefreshTokenRepository(store))
	scheduleSvc := scheduleService.NewScheduleService(store, memory.NewShiftRepository(store), memory.NewScheduleRepository(store), schedule.PeriodCalendarHalves)
	holidaySvc := holidayService.NewHolidayService(memory.NewHolidayRepository(store))
	attendanceSvc := attendanceService.NewAttendanceService(attendances, scheduleSvc, loc)
	summarySvc := summaryService.NewSummaryService(store, summaries, attendances, hours, scheduleSvc, holidaySvc)
	overtimeSvc := overtimeService.NewOvertimeService(store, hours, totals, earnings, deductions, bases, users, overtime.TotalPremiumsOnly)
	sources := payrollService.Sources{Totals: totals, Earnings: earnings, Deductions: deductions, Benefits: benefits}
	generator := payrollService.NewGeneratorService(sources, users, salaries, payrolls, payslips, noopPublisher{})
	payrollSvc := payrollService.NewPayrollService(sources, salaries, payrolls, payslips, employment, payslippdf.NewRenderer("Fresco Bakery"))

	pipe := pipeline.New(attendanceSvc, summarySvc, overtimeSvc, generator, tasks.NewMemoryLocker(), tasks.NewMemoryTracker(), time.Minute)
	t.Cleanup(pipe.Wait)

	compensationSvc := compensationService.NewCompensationService(store, earnings, deductions, bases, benefits, users, pipe)
	biometricSvc := biometricService.NewBiometricService(memory.NewPunchRepository(store), userSvc, pipe, loc)

	archiveDir := t.TempDir()
	archive, err := storage.NewLocalStorage(archiveDir)
	require.NoError(t, err)

	handlers := Handlers{
		Auth:         NewAuthHandler(jwtSvc, authSvc),
		User:         NewUserHandler(userSvc),
		Biometric:    NewBiometricHandler(biometricSvc, archive),
		Attendance:   NewAttendanceHandler(attendanceSvc, pipe),
		Schedule:     NewScheduleHandler(scheduleSvc),
		Holiday:      NewHolidayHandler(holidaySvc),
		Summary:      NewSummaryHandler(summarySvc),
		Overtime:     NewOvertimeHandler(overtimeSvc),
		Compensation: NewCompensationHandler(compensationSvc),
		Payroll:      NewPayrollHandler(payrollSvc, pipe),
	}
	opts := RouterOptions{
		Env:                "test",
		Version:            "test",
		AllowedOrigins:     []string{"http://localhost:3000"},
		LogLevel:           slog.LevelError,
		PunchRatePerSecond: 1000,
		PunchBurst:         1000,
		Accounts:           users,
	}

	return &testApp{
		store:      store,
		jwt:        jwtSvc,
		pipeline:   pipe,
		router:     NewRouter(opts, jwtSvc, handlers),
		handlers:   handlers,
		users:      users,
		archiveDir: archiveDir,
	}
}

// seedUser stores an active user whose password is handlerTestPassword.
func (a *testApp) seedUser(t *testing.T, email string, role user.Role) user.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := a.users.Create(context.Background(), user.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func (a *testApp) token(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := a.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return token
}

// do sends a request through the full router. body may be nil.
func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func dataOf(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", resp)
	return data
}
