package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

type OvertimeServiceImpl struct {
	tx database.Transactor
	overtime.HoursRepository
	totals     overtime.TotalRepository
	earnings   compensation.EarningsRepository
	deductions compensation.DeductionsRepository
	bases      compensation.OvertimeBaseRepository
	users      user.UserRepository
	policy     overtime.TotalPolicy
}

func NewOvertimeService(
	tx database.Transactor,
	hoursRepository overtime.HoursRepository,
	totalRepository overtime.TotalRepository,
	earningsRepository compensation.EarningsRepository,
	deductionsRepository compensation.DeductionsRepository,
	overtimeBaseRepository compensation.OvertimeBaseRepository,
	userRepository user.UserRepository,
	policy overtime.TotalPolicy,
) overtime.OvertimeService {
	if policy == "" {
		policy = overtime.TotalPremiumsOnly
	}
	return &OvertimeServiceImpl{
		tx:              tx,
		HoursRepository: hoursRepository,
		totals:          totalRepository,
		earnings:        earningsRepository,
		deductions:      deductionsRepository,
		bases:           overtimeBaseRepository,
		users:           userRepository,
		policy:          policy,
	}
}

// rates loads the user's current pay basis. ok is false when earnings or
// the overtime base are missing.
func (s *OvertimeServiceImpl) rates(ctx context.Context, userID string) (overtime.Rates, bool, error) {
	earnings, err := s.earnings.Latest(ctx, userID)
	if errors.Is(err, compensation.ErrEarningsNotFound) {
		slog.Warn("no earnings for user, overtime skipped", "user_id", userID)
		return overtime.Rates{}, false, nil
	}
	if err != nil {
		return overtime.Rates{}, false, fmt.Errorf("failed to load earnings: %w", err)
	}

	base, err := s.bases.Latest(ctx, userID)
	if errors.Is(err, compensation.ErrOvertimeBaseNotFound) {
		slog.Warn("no overtime base for user, overtime skipped", "user_id", userID)
		return overtime.Rates{}, false, nil
	}
	if err != nil {
		return overtime.Rates{}, false, fmt.Errorf("failed to load overtime base: %w", err)
	}

	deductions, err := s.deductions.Latest(ctx, userID)
	if errors.Is(err, compensation.ErrDeductionsNotFound) {
		slog.Warn("no deductions for user, overtime skipped", "user_id", userID)
		return overtime.Rates{}, false, nil
	}
	if err != nil {
		return overtime.Rates{}, false, fmt.Errorf("failed to load deductions: %w", err)
	}

	return overtime.Rates{
		BasicRate:    earnings.BasicRate,
		BackwageBase: base.BackwageBase,
		LateBase:     deductions.LateBase,
	}, true, nil
}

// RecomputeForUser prices every overtime hours row of the user and returns
// how many totals were written.
func (s *OvertimeServiceImpl) RecomputeForUser(ctx context.Context, userID string) (int, error) {
	rates, ok, err := s.rates(ctx, userID)
	if err != nil || !ok {
		return 0, err
	}

	rows, err := s.HoursRepository.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list overtime hours: %w", err)
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, h := range rows {
			if _, err := s.totals.Upsert(txCtx, Compute(h, rates, s.policy)); err != nil {
				return fmt.Errorf("failed to upsert total overtime: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// RecomputeAll runs RecomputeForUser for every active user. A failing user
// is logged and does not stop the others.
func (s *OvertimeServiceImpl) RecomputeAll(ctx context.Context) error {
	ids, err := s.users.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	var updated, failed int
	for _, id := range ids {
		n, err := s.RecomputeForUser(ctx, id)
		if err != nil {
			failed++
			slog.Error("overtime recompute failed", "user_id", id, "error", err)
			continue
		}
		updated += n
	}

	slog.Info("overtime recomputed for active users",
		"users", len(ids),
		"totals", updated,
		"failed", failed,
	)
	return nil
}

// GetHours implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) GetHours(ctx context.Context, id string) (overtime.OvertimeHoursResponse, error) {
	h, err := s.HoursRepository.GetByID(ctx, id)
	if err != nil {
		return overtime.OvertimeHoursResponse{}, err
	}
	return mapHoursToResponse(h), nil
}

// ListHours implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ListHours(ctx context.Context, filter overtime.OvertimeFilter) (overtime.ListOvertimeHoursResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListOvertimeHoursResponse{}, err
	}

	rows, total, err := s.HoursRepository.List(ctx, filter)
	if err != nil {
		return overtime.ListOvertimeHoursResponse{}, fmt.Errorf("failed to list overtime hours: %w", err)
	}

	items := make([]overtime.OvertimeHoursResponse, 0, len(rows))
	for _, h := range rows {
		items = append(items, mapHoursToResponse(h))
	}
	return overtime.ListOvertimeHoursResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Items:      items,
	}, nil
}

// UpdateHours stores the admin-entered fields and reprices the user's
// overtime.
func (s *OvertimeServiceImpl) UpdateHours(ctx context.Context, req overtime.UpdateOvertimeHoursRequest) (overtime.OvertimeHoursResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeHoursResponse{}, err
	}

	current, err := s.HoursRepository.GetByID(ctx, req.ID)
	if err != nil {
		return overtime.OvertimeHoursResponse{}, err
	}

	restDay, nightDiff, backwage := current.RestDay, current.NightDiff, current.Backwage
	if req.RestDay != nil {
		restDay = *req.RestDay
	}
	if req.NightDiff != nil {
		nightDiff = *req.NightDiff
	}
	if req.Backwage != nil {
		backwage = *req.Backwage
	}

	updated, err := s.HoursRepository.UpdateManual(ctx, req.ID, restDay, nightDiff, backwage)
	if err != nil {
		return overtime.OvertimeHoursResponse{}, fmt.Errorf("failed to update overtime hours: %w", err)
	}

	if _, err := s.RecomputeForUser(ctx, updated.UserID); err != nil {
		return overtime.OvertimeHoursResponse{}, err
	}
	return mapHoursToResponse(updated), nil
}

// GetTotal implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) GetTotal(ctx context.Context, id string) (overtime.TotalOvertimeResponse, error) {
	t, err := s.totals.GetByID(ctx, id)
	if err != nil {
		return overtime.TotalOvertimeResponse{}, err
	}
	return mapTotalToResponse(t), nil
}

// ListTotals implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ListTotals(ctx context.Context, filter overtime.OvertimeFilter) (overtime.ListTotalOvertimeResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListTotalOvertimeResponse{}, err
	}

	rows, total, err := s.totals.List(ctx, filter)
	if err != nil {
		return overtime.ListTotalOvertimeResponse{}, fmt.Errorf("failed to list total overtimes: %w", err)
	}

	items := make([]overtime.TotalOvertimeResponse, 0, len(rows))
	for _, t := range rows {
		items = append(items, mapTotalToResponse(t))
	}
	return overtime.ListTotalOvertimeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Items:      items,
	}, nil
}

func mapHoursToResponse(h overtime.OvertimeHours) overtime.OvertimeHoursResponse {
	return overtime.OvertimeHoursResponse{
		ID:             h.ID,
		UserID:         h.UserID,
		SummaryID:      h.SummaryID,
		PeriodStart:    h.PeriodStart.Format(timeutil.DateLayout),
		RegularOT:      h.RegularOT,
		RegularHoliday: h.RegularHoliday,
		SpecialHoliday: h.SpecialHoliday,
		RestDay:        h.RestDay,
		NightDiff:      h.NightDiff,
		Backwage:       h.Backwage,
		LateMinutes:    h.LateMinutes,
		UndertimeHours: h.UndertimeHours,
	}
}

func mapTotalToResponse(t overtime.TotalOvertime) overtime.TotalOvertimeResponse {
	return overtime.TotalOvertimeResponse{
		ID:              t.ID,
		OvertimeHoursID: t.OvertimeHoursID,
		UserID:          t.UserID,
		PeriodStart:     t.PeriodStart.Format(timeutil.DateLayout),
		RegularOT:       t.RegularOT,
		RegularHoliday:  t.RegularHoliday,
		SpecialHoliday:  t.SpecialHoliday,
		RestDay:         t.RestDay,
		NightDiff:       t.NightDiff,
		Backwage:        t.Backwage,
		Late:            t.Late,
		Undertime:       t.Undertime,
		Total:           t.Total,
	}
}
