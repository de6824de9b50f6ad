package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

// HolidayCalendar loads the holidays of a date range.
type HolidayCalendar interface {
	CalendarBetween(ctx context.Context, start, end time.Time) (holiday.Calendar, error)
}

type SummaryServiceImpl struct {
	tx database.Transactor
	summary.SummaryRepository
	attendances attendance.AttendanceRepository
	hours       overtime.HoursRepository
	resolver    schedule.ShiftResolver
	holidays    HolidayCalendar
}

func NewSummaryService(
	tx database.Transactor,
	summaryRepository summary.SummaryRepository,
	attendanceRepository attendance.AttendanceRepository,
	hoursRepository overtime.HoursRepository,
	resolver schedule.ShiftResolver,
	holidays HolidayCalendar,
) summary.SummaryService {
	return &SummaryServiceImpl{
		tx:                tx,
		SummaryRepository: summaryRepository,
		attendances:       attendanceRepository,
		hours:             hoursRepository,
		resolver:          resolver,
		holidays:          holidays,
	}
}

func isMissingShift(err error) bool {
	return errors.Is(err, schedule.ErrScheduleNotFound) || errors.Is(err, schedule.ErrShiftNotFound)
}

// Recompute implements summary.SummaryService.
func (s *SummaryServiceImpl) Recompute(ctx context.Context, userID string, date time.Time, triggeredBy *string) (summary.AttendanceSummary, error) {
	date = timeutil.DateOf(date)

	if _, err := s.resolver.ResolveShift(ctx, userID, date); err != nil {
		if isMissingShift(err) {
			slog.Warn("no shift for triggering date, summary skipped",
				"user_id", userID,
				"date", date.Format(timeutil.DateLayout),
				"reason", err.Error(),
			)
			return summary.AttendanceSummary{}, summary.ErrNoShift
		}
		return summary.AttendanceSummary{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	period, err := s.resolver.PeriodFor(ctx, userID, date)
	if err != nil {
		return summary.AttendanceSummary{}, fmt.Errorf("failed to resolve pay period: %w", err)
	}

	records, err := s.attendances.ListByUserBetween(ctx, userID, period.Start, period.End)
	if err != nil {
		return summary.AttendanceSummary{}, fmt.Errorf("failed to load attendances: %w", err)
	}

	shifts := make(map[string]schedule.Shift, len(records))
	for _, a := range records {
		if !a.IsComplete() {
			continue
		}
		sh, err := s.resolver.ResolveShift(ctx, userID, a.Date)
		if err != nil {
			if isMissingShift(err) {
				continue
			}
			return summary.AttendanceSummary{}, fmt.Errorf("failed to resolve shift: %w", err)
		}
		shifts[a.Date.Format(timeutil.DateLayout)] = sh
	}

	calendar, err := s.holidays.CalendarBetween(ctx, period.Start, period.End)
	if err != nil {
		return summary.AttendanceSummary{}, err
	}

	totals := Summarize(records, func(d time.Time) (schedule.Shift, bool) {
		sh, ok := shifts[d.Format(timeutil.DateLayout)]
		return sh, ok
	}, calendar)

	var stored summary.AttendanceSummary
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		stored, err = s.SummaryRepository.Upsert(txCtx, ToSummary(userID, period, totals, triggeredBy))
		if err != nil {
			return fmt.Errorf("failed to upsert attendance summary: %w", err)
		}
		if _, err := s.hours.UpsertDerived(txCtx, DerivedHours(stored, totals)); err != nil {
			return fmt.Errorf("failed to upsert overtime hours: %w", err)
		}
		return nil
	})
	if err != nil {
		return summary.AttendanceSummary{}, err
	}

	slog.Info("attendance summary recomputed",
		"user_id", userID,
		"period_start", period.Start.Format(timeutil.DateLayout),
		"actual_hours", stored.ActualHours,
		"overtime_hours", stored.OvertimeHours,
	)
	return stored, nil
}

// GetByID implements summary.SummaryService.
func (s *SummaryServiceImpl) GetByID(ctx context.Context, id string) (summary.SummaryResponse, error) {
	sm, err := s.SummaryRepository.GetByID(ctx, id)
	if err != nil {
		return summary.SummaryResponse{}, err
	}
	return mapSummaryToResponse(sm), nil
}

// List implements summary.SummaryService.
func (s *SummaryServiceImpl) List(ctx context.Context, filter summary.SummaryFilter) (summary.ListSummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return summary.ListSummaryResponse{}, err
	}

	items, total, err := s.SummaryRepository.List(ctx, filter)
	if err != nil {
		return summary.ListSummaryResponse{}, fmt.Errorf("failed to list attendance summaries: %w", err)
	}

	responses := make([]summary.SummaryResponse, 0, len(items))
	for _, sm := range items {
		responses = append(responses, mapSummaryToResponse(sm))
	}
	return summary.ListSummaryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Summaries:  responses,
	}, nil
}

func mapSummaryToResponse(sm summary.AttendanceSummary) summary.SummaryResponse {
	return summary.SummaryResponse{
		ID:               sm.ID,
		UserID:           sm.UserID,
		PeriodStart:      sm.PeriodStart.Format(timeutil.DateLayout),
		PeriodEnd:        sm.PeriodEnd.Format(timeutil.DateLayout),
		ActualHours:      sm.ActualHours,
		OvertimeHours:    sm.OvertimeHours,
		LateMinutes:      sm.LateMinutes,
		UndertimeMinutes: sm.UndertimeMinutes,

		TotalActualMinutes:   sm.TotalActualMinutes,
		TotalOvertimeMinutes: sm.TotalOvertimeMinutes,
		AttendanceID:         sm.AttendanceID,
	}
}
