package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/config"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	appHTTP "github.com/fresco-hris/payroll-backend/internal/handler/http"
	"github.com/fresco-hris/payroll-backend/internal/pkg/cron"
	"github.com/fresco-hris/payroll-backend/internal/pkg/events"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/payslippdf"
	"github.com/fresco-hris/payroll-backend/internal/pkg/storage"
	"github.com/fresco-hris/payroll-backend/internal/pkg/tasks"
	attendanceService "github.com/fresco-hris/payroll-backend/internal/service/attendance"
	serviceAuth "github.com/fresco-hris/payroll-backend/internal/service/auth"
	biometricService "github.com/fresco-hris/payroll-backend/internal/service/biometric"
	compensationService "github.com/fresco-hris/payroll-backend/internal/service/compensation"
	holidayService "github.com/fresco-hris/payroll-backend/internal/service/holiday"
	overtimeService "github.com/fresco-hris/payroll-backend/internal/service/overtime"
	payrollService "github.com/fresco-hris/payroll-backend/internal/service/payroll"
	"github.com/fresco-hris/payroll-backend/internal/service/pipeline"
	scheduleService "github.com/fresco-hris/payroll-backend/internal/service/schedule"
	summaryService "github.com/fresco-hris/payroll-backend/internal/service/summary"
	userService "github.com/fresco-hris/payroll-backend/internal/service/user"
	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "fresco-payroll"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	periodPolicy, _ := schedule.ParsePeriodPolicy(cfg.Payroll.PeriodPolicy)
	totalPolicy, _ := overtime.ParseTotalPolicy(cfg.Payroll.OvertimeTotalPolicy)
	loc := cfg.Location()

	// Sweep locks and task statuses live in Redis when configured so that
	// several API replicas never run the same sweep twice.
	var (
		locker  tasks.Locker  = tasks.NewMemoryLocker()
		tracker tasks.Tracker = tasks.NewMemoryTracker()
	)
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		locker = tasks.NewRedisLocker(rdb)
		tracker = tasks.NewRedisTracker(rdb, cfg.Payroll.TaskStatusTTL)
		slog.Info("Using redis for sweep locks", "addr", cfg.Redis.Addr)
	}

	var publisher interface {
		payroll.EventPublisher
		Close() error
	} = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers), cfg.Kafka.PayslipTopic)
		slog.Info("Publishing payslip events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.PayslipTopic)
	}
	defer publisher.Close()

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL(), cfg.IsProduction())
	userSvc := userService.NewUserService(repos.tx, repos.users, repos.employment)
	authSvc := serviceAuth.NewAuthService(repos.tx, repos.users, JWTService, repos.refreshTokens)
	scheduleSvc := scheduleService.NewScheduleService(repos.tx, repos.shifts, repos.schedules, periodPolicy)
	holidaySvc := holidayService.NewHolidayService(repos.holidays)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendances, scheduleSvc, loc)
	summarySvc := summaryService.NewSummaryService(repos.tx, repos.summaries, repos.attendances, repos.hours, scheduleSvc, holidaySvc)
	overtimeSvc := overtimeService.NewOvertimeService(repos.tx, repos.hours, repos.totals, repos.earnings, repos.deductions, repos.bases, repos.users, totalPolicy)

	sources := payrollService.Sources{
		Totals:     repos.totals,
		Earnings:   repos.earnings,
		Deductions: repos.deductions,
		Benefits:   repos.benefits,
	}
	generator := payrollService.NewGeneratorService(sources, repos.users, repos.salaries, repos.payrolls, repos.payslips, publisher)
	payrollSvc := payrollService.NewPayrollService(sources, repos.salaries, repos.payrolls, repos.payslips, repos.employment, payslippdf.NewRenderer(cfg.Payroll.CompanyName))

	pipe := pipeline.New(attendanceSvc, summarySvc, overtimeSvc, generator, locker, tracker, cfg.Payroll.SweepLockTTL)
	compensationSvc := compensationService.NewCompensationService(repos.tx, repos.earnings, repos.deductions, repos.bases, repos.benefits, repos.users, pipe)
	biometricSvc := biometricService.NewBiometricService(repos.punches, userSvc, pipe, loc)

	// Scheduler
	scheduler := cron.NewScheduler(loc)
	jobs := []struct {
		name string
		spec string
		fn   func(ctx context.Context) error
	}{
		{"recompute_total_overtime", cfg.Payroll.OvertimeCron, overtimeSvc.RecomputeAll},
		{"generate_salary_entries", cfg.Payroll.SalaryCron, sweepJob(pipe.RunSalarySweep)},
		{"generate_payroll_entries", cfg.Payroll.PayrollCron, sweepJob(pipe.RunPayrollSweep)},
		{"generate_payslip_entries", cfg.Payroll.PayslipCron, sweepJob(pipe.RunPayslipSweep)},
	}
	for _, job := range jobs {
		if err := scheduler.AddJob(job.name, job.spec, job.fn); err != nil {
			return err
		}
	}
	if cfg.Payroll.SweepRunOnStartup {
		scheduler.RunOnce(ctx)
	}
	scheduler.Start()
	defer scheduler.Stop()

	var archive storage.FileStorage
	if cfg.Storage.ImportArchiveDir != "" {
		local, err := storage.NewLocalStorage(cfg.Storage.ImportArchiveDir)
		if err != nil {
			return fmt.Errorf("open import archive: %w", err)
		}
		archive = local
	}

	// HTTP
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Env:                cfg.App.Env,
		Version:            version,
		AllowedOrigins:     cfg.App.AllowedOrigins,
		LogLevel:           cfg.SlogLevel(),
		PunchRatePerSecond: cfg.Ingestion.RatePerSecond,
		PunchBurst:         cfg.Ingestion.Burst,
		Accounts:           repos.users,
	}, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		Biometric:    appHTTP.NewBiometricHandler(biometricSvc, archive),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, pipe),
		Schedule:     appHTTP.NewScheduleHandler(scheduleSvc),
		Holiday:      appHTTP.NewHolidayHandler(holidaySvc),
		Summary:      appHTTP.NewSummaryHandler(summarySvc),
		Overtime:     appHTTP.NewOvertimeHandler(overtimeSvc),
		Compensation: appHTTP.NewCompensationHandler(compensationSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc, pipe),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	pipe.Wait()
	return nil
}

// sweepJob adapts a pipeline sweep to a cron job. A sweep already running
// elsewhere is not a failure.
func sweepJob(run func(context.Context) (payroll.SweepReport, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		report, err := run(ctx)
		if errors.Is(err, payroll.ErrSweepAlreadyRunning) {
			slog.Info("Sweep skipped, lock held elsewhere")
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("Sweep finished",
			"processed", report.Processed,
			"created", report.Created,
			"updated", report.Updated,
			"skipped", report.Skipped,
			"failed", report.Failed,
		)
		return nil
	}
}
