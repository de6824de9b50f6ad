// Package pipeline chains the payroll derivations explicitly: a changed
// attendance row is summarized, the summary's overtime hours are priced, and
// the periodic sweeps turn priced overtime into salaries, payrolls and
// payslips.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/pkg/tasks"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	lockSalarySweep  = "payroll:sweep:salary"
	lockPayrollSweep = "payroll:sweep:payroll"
	lockPayslipSweep = "payroll:sweep:payslip"

	taskSalarySweep = "salary_sweep"

	DefaultLockTTL = 15 * time.Minute
)

type Pipeline struct {
	attendance attendance.AttendanceService
	summaries  summary.SummaryService
	overtime   overtime.OvertimeService
	generator  payroll.GeneratorService

	locker  tasks.Locker
	tracker tasks.Tracker
	lockTTL time.Duration

	group singleflight.Group
	wg    sync.WaitGroup
	now   func() time.Time
}

func New(
	attendanceService attendance.AttendanceService,
	summaryService summary.SummaryService,
	overtimeService overtime.OvertimeService,
	generator payroll.GeneratorService,
	locker tasks.Locker,
	tracker tasks.Tracker,
	lockTTL time.Duration,
) *Pipeline {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Pipeline{
		attendance: attendanceService,
		summaries:  summaryService,
		overtime:   overtimeService,
		generator:  generator,
		locker:     locker,
		tracker:    tracker,
		lockTTL:    lockTTL,
		now:        time.Now,
	}
}

// ========== ATTENDANCE CASCADE ==========

// IngestPunch folds a punch into attendance and, when the row changed and
// spans a real interval, recomputes the period summary and overtime.
func (p *Pipeline) IngestPunch(ctx context.Context, userID string, at time.Time) (string, error) {
	a, changed, err := p.attendance.RecordPunch(ctx, userID, at)
	if err != nil {
		return "", err
	}
	if !changed || !a.IsComplete() {
		return a.ID, nil
	}
	if err := p.cascade(ctx, a); err != nil {
		return a.ID, err
	}
	return a.ID, nil
}

// CorrectAttendance applies an admin correction and reruns the cascade.
func (p *Pipeline) CorrectAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.Attendance, error) {
	a, err := p.attendance.Update(ctx, req)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := p.cascade(ctx, a); err != nil {
		return a, err
	}
	return a, nil
}

// CompensationChanged reprices the user's overtime.
func (p *Pipeline) CompensationChanged(ctx context.Context, userID string) error {
	if _, err := p.overtime.RecomputeForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to recompute overtime: %w", err)
	}
	return nil
}

func (p *Pipeline) cascade(ctx context.Context, a attendance.Attendance) error {
	id := a.ID
	if _, err := p.summaries.Recompute(ctx, a.UserID, a.Date, &id); err != nil {
		if errors.Is(err, summary.ErrNoShift) {
			return nil
		}
		return fmt.Errorf("failed to recompute summary: %w", err)
	}
	if _, err := p.overtime.RecomputeForUser(ctx, a.UserID); err != nil {
		return fmt.Errorf("failed to recompute overtime: %w", err)
	}
	slog.Debug("attendance cascade finished",
		"user_id", a.UserID,
		"date", a.Date.Format(timeutil.DateLayout),
	)
	return nil
}

// ========== SWEEPS ==========

func (p *Pipeline) locked(ctx context.Context, key string, fn func(context.Context) (payroll.SweepReport, error)) (payroll.SweepReport, error) {
	release, err := p.locker.Acquire(ctx, key, p.lockTTL)
	if errors.Is(err, tasks.ErrLockHeld) {
		return payroll.SweepReport{}, payroll.ErrSweepAlreadyRunning
	}
	if err != nil {
		return payroll.SweepReport{}, fmt.Errorf("failed to acquire %s: %w", key, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release sweep lock", "lock", key, "error", err)
		}
	}()
	return fn(ctx)
}

func (p *Pipeline) RunSalarySweep(ctx context.Context) (payroll.SweepReport, error) {
	return p.locked(ctx, lockSalarySweep, p.generator.GenerateSalaries)
}

func (p *Pipeline) RunPayrollSweep(ctx context.Context) (payroll.SweepReport, error) {
	return p.locked(ctx, lockPayrollSweep, p.generator.GeneratePayrolls)
}

func (p *Pipeline) RunPayslipSweep(ctx context.Context) (payroll.SweepReport, error) {
	return p.locked(ctx, lockPayslipSweep, p.generator.GeneratePayslips)
}

// RunPayrollSweeps runs the salary, payroll and payslip sweeps in order. A
// sweep already running elsewhere is skipped; the sweeps are idempotent so
// the next run converges.
func (p *Pipeline) RunPayrollSweeps(ctx context.Context) (payroll.SweepReport, error) {
	var total payroll.SweepReport
	for _, step := range []struct {
		name string
		run  func(context.Context) (payroll.SweepReport, error)
	}{
		{"salary", p.RunSalarySweep},
		{"payroll", p.RunPayrollSweep},
		{"payslip", p.RunPayslipSweep},
	} {
		report, err := step.run(ctx)
		if errors.Is(err, payroll.ErrSweepAlreadyRunning) {
			slog.Info("sweep already running, skipped", "sweep", step.name)
			continue
		}
		if err != nil {
			return total, fmt.Errorf("%s sweep: %w", step.name, err)
		}
		total.Add(report)
	}
	return total, nil
}

// ========== ON-DEMAND TRIGGER ==========

// TriggerSalarySweep queues a salary sweep and returns its task id at once.
// Triggers arriving while a sweep is in flight share its result.
func (p *Pipeline) TriggerSalarySweep(ctx context.Context) (payroll.TaskResponse, error) {
	status := tasks.Status{
		ID:        uuid.NewString(),
		Name:      taskSalarySweep,
		State:     tasks.StateQueued,
		UpdatedAt: p.now().UTC(),
	}
	if err := p.tracker.Save(ctx, status); err != nil {
		return payroll.TaskResponse{}, fmt.Errorf("failed to queue task: %w", err)
	}

	bg := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runTask(bg, status)
	}()

	return payroll.TaskResponse{TaskID: status.ID, Status: string(status.State)}, nil
}

func (p *Pipeline) runTask(ctx context.Context, status tasks.Status) {
	p.save(ctx, status, tasks.StateRunning, nil, nil)

	v, err, _ := p.group.Do(taskSalarySweep, func() (interface{}, error) {
		return p.RunSalarySweep(ctx)
	})
	if err != nil {
		slog.Error("salary sweep task failed", "task_id", status.ID, "error", err)
		p.save(ctx, status, tasks.StateFailed, nil, err)
		return
	}
	report := v.(payroll.SweepReport)
	p.save(ctx, status, tasks.StateSucceeded, &report, nil)
}

func (p *Pipeline) save(ctx context.Context, status tasks.Status, state tasks.State, report *payroll.SweepReport, runErr error) {
	status.State = state
	status.UpdatedAt = p.now().UTC()
	if report != nil {
		if raw, err := json.Marshal(report); err == nil {
			status.Result = raw
		}
	}
	if runErr != nil {
		status.Error = runErr.Error()
	}
	if err := p.tracker.Save(ctx, status); err != nil {
		slog.Error("failed to save task status", "task_id", status.ID, "state", state, "error", err)
	}
}

// TaskStatus reads a triggered task's status.
func (p *Pipeline) TaskStatus(ctx context.Context, id string) (tasks.Status, error) {
	status, err := p.tracker.Get(ctx, id)
	if errors.Is(err, tasks.ErrTaskNotFound) {
		return tasks.Status{}, payroll.ErrTaskNotFound
	}
	return status, err
}

// Wait blocks until every triggered task has finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
