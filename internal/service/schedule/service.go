package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/pkg/utils"
)

type ScheduleServiceImpl struct {
	tx database.Transactor
	schedule.ShiftRepository
	schedule.ScheduleRepository
	// defaultPolicy applies when a create request names no policy.
	defaultPolicy schedule.PeriodPolicy
}

func NewScheduleService(tx database.Transactor, shiftRepository schedule.ShiftRepository, scheduleRepository schedule.ScheduleRepository, defaultPolicy schedule.PeriodPolicy) *ScheduleServiceImpl {
	if defaultPolicy == "" {
		defaultPolicy = schedule.PeriodCalendarHalves
	}
	return &ScheduleServiceImpl{
		tx:                 tx,
		ShiftRepository:    shiftRepository,
		ScheduleRepository: scheduleRepository,
		defaultPolicy:      defaultPolicy,
	}
}

var (
	_ schedule.ScheduleService = (*ScheduleServiceImpl)(nil)
	_ schedule.ShiftResolver   = (*ScheduleServiceImpl)(nil)
)

// CreateShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateShift(ctx context.Context, req schedule.CreateShiftRequest) (schedule.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ShiftResponse{}, err
	}

	shift, err := s.ShiftRepository.Create(ctx, shiftFromRequest(req))
	if err != nil {
		return schedule.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return mapShiftToResponse(shift), nil
}

// GetShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetShift(ctx context.Context, id string) (schedule.ShiftResponse, error) {
	shift, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return schedule.ShiftResponse{}, err
	}
	return mapShiftToResponse(shift), nil
}

// ListShifts implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListShifts(ctx context.Context, filter schedule.ShiftFilter) (schedule.ListShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ListShiftResponse{}, err
	}

	shifts, total, err := s.ShiftRepository.List(ctx, filter)
	if err != nil {
		return schedule.ListShiftResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]schedule.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, mapShiftToResponse(sh))
	}
	totalPages, _ := utils.Paging(total, filter.Page, filter.Limit)

	return schedule.ListShiftResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Shifts:     responses,
	}, nil
}

// UpdateShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) UpdateShift(ctx context.Context, req schedule.UpdateShiftRequest) (schedule.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ShiftResponse{}, err
	}

	existing, err := s.ShiftRepository.GetByID(ctx, req.ID)
	if err != nil {
		return schedule.ShiftResponse{}, err
	}

	updated := shiftFromRequest(req.CreateShiftRequest)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.ShiftRepository.Update(ctx, updated); err != nil {
		return schedule.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}
	return mapShiftToResponse(updated), nil
}

// DeleteShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteShift(ctx context.Context, id string) error {
	return s.ShiftRepository.Delete(ctx, id)
}

// CreateSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateSchedule(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	policy := s.defaultPolicy
	if req.PeriodPolicy != "" {
		policy = schedule.PeriodPolicy(req.PeriodPolicy)
	}

	var created schedule.Schedule
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		shiftIDs := dedupe(req.ShiftIDs)
		shifts, err := s.loadShifts(txCtx, shiftIDs)
		if err != nil {
			return err
		}

		period, err := periodForRequest(req, policy, shifts)
		if err != nil {
			return err
		}

		created, err = s.ScheduleRepository.Create(txCtx, schedule.Schedule{
			UserID:       req.UserID,
			ShiftIDs:     shiftIDs,
			PeriodPolicy: policy,
			PeriodStart:  period.Start,
			PeriodEnd:    period.End,
		})
		if err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	return s.GetSchedule(ctx, created.ID)
}

// periodForRequest bounds a new schedule. Explicit schedules carry their
// own range; calendar-half schedules snap to the half holding the supplied
// start or, failing that, the earliest attached shift.
func periodForRequest(req schedule.CreateScheduleRequest, policy schedule.PeriodPolicy, shifts []schedule.Shift) (schedule.Period, error) {
	if policy == schedule.PeriodScheduleExplicit {
		start, _ := timeutil.ParseDate(*req.PeriodStart)
		end, _ := timeutil.ParseDate(*req.PeriodEnd)
		return schedule.Period{Start: start, End: end}, nil
	}

	if req.PeriodStart != nil && *req.PeriodStart != "" {
		start, _ := timeutil.ParseDate(*req.PeriodStart)
		return schedule.CalendarHalf(start), nil
	}
	if len(shifts) == 0 {
		return schedule.Period{}, fmt.Errorf("calendar-half schedule needs period_start or a shift: %w", schedule.ErrShiftNotFound)
	}
	earliest := shifts[0].Date
	for _, sh := range shifts[1:] {
		if sh.Date.Before(earliest) {
			earliest = sh.Date
		}
	}
	return schedule.CalendarHalf(earliest), nil
}

// GetSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetSchedule(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	sc, err := s.ScheduleRepository.GetByID(ctx, id)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return s.mapScheduleToResponse(ctx, sc)
}

// ListByUser implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListByUser(ctx context.Context, userID string) ([]schedule.ScheduleResponse, error) {
	schedules, err := s.ScheduleRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	responses := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		resp, err := s.mapScheduleToResponse(ctx, sc)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// AttachShifts implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) AttachShifts(ctx context.Context, req schedule.AttachShiftsRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.ScheduleRepository.GetByID(txCtx, req.ScheduleID); err != nil {
			return err
		}
		ids := dedupe(req.ShiftIDs)
		if _, err := s.loadShifts(txCtx, ids); err != nil {
			return err
		}
		return s.ScheduleRepository.AttachShifts(txCtx, req.ScheduleID, ids)
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return s.GetSchedule(ctx, req.ScheduleID)
}

// DetachShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DetachShift(ctx context.Context, scheduleID, shiftID string) (schedule.ScheduleResponse, error) {
	if err := s.ScheduleRepository.DetachShift(ctx, scheduleID, shiftID); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return s.GetSchedule(ctx, scheduleID)
}

// DeleteSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteSchedule(ctx context.Context, id string) error {
	return s.ScheduleRepository.Delete(ctx, id)
}

// ResolveShift implements schedule.ShiftResolver.
func (s *ScheduleServiceImpl) ResolveShift(ctx context.Context, userID string, date time.Time) (schedule.Shift, error) {
	date = timeutil.DateOf(date)

	schedules, err := s.ScheduleRepository.ListByUser(ctx, userID)
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("failed to list schedules: %w", err)
	}
	sc, ok := schedule.PickSchedule(schedules, date)
	if !ok {
		return schedule.Shift{}, schedule.ErrScheduleNotFound
	}
	return s.ShiftRepository.GetOnDate(ctx, sc.ShiftIDs, date)
}

// PeriodFor implements schedule.ShiftResolver.
func (s *ScheduleServiceImpl) PeriodFor(ctx context.Context, userID string, date time.Time) (schedule.Period, error) {
	schedules, err := s.ScheduleRepository.ListByUser(ctx, userID)
	if err != nil {
		return schedule.Period{}, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedule.PeriodFor(timeutil.DateOf(date), schedules), nil
}

func (s *ScheduleServiceImpl) loadShifts(ctx context.Context, ids []string) ([]schedule.Shift, error) {
	shifts := make([]schedule.Shift, 0, len(ids))
	for _, id := range ids {
		sh, err := s.ShiftRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, nil
}

func (s *ScheduleServiceImpl) mapScheduleToResponse(ctx context.Context, sc schedule.Schedule) (schedule.ScheduleResponse, error) {
	shifts, err := s.loadShifts(ctx, sc.ShiftIDs)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	resp := schedule.ScheduleResponse{
		ID:           sc.ID,
		UserID:       sc.UserID,
		PeriodPolicy: string(sc.PeriodPolicy),
		PeriodStart:  sc.PeriodStart.Format(timeutil.DateLayout),
		PeriodEnd:    sc.PeriodEnd.Format(timeutil.DateLayout),
		Shifts:       make([]schedule.ShiftResponse, 0, len(shifts)),
	}
	for _, sh := range shifts {
		resp.Shifts = append(resp.Shifts, mapShiftToResponse(sh))
	}
	return resp, nil
}

func shiftFromRequest(req schedule.CreateShiftRequest) schedule.Shift {
	date, _ := timeutil.ParseDate(req.Date)
	start, _ := timeutil.ParseClock(req.Start)
	end, _ := timeutil.ParseClock(req.End)
	return schedule.Shift{Date: date, Start: start, End: end, ExpectedHours: req.ExpectedHours}
}

func mapShiftToResponse(sh schedule.Shift) schedule.ShiftResponse {
	return schedule.ShiftResponse{
		ID:            sh.ID,
		Date:          sh.Date.Format(timeutil.DateLayout),
		Start:         sh.Start.String(),
		End:           sh.End.String(),
		ExpectedHours: sh.ExpectedHours,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
