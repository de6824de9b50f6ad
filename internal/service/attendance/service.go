package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	resolver schedule.ShiftResolver
	// loc is the business timezone punches are converted into.
	loc *time.Location
}

func NewAttendanceService(attendanceRepository attendance.AttendanceRepository, resolver schedule.ShiftResolver, loc *time.Location) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		resolver:             resolver,
		loc:                  loc,
	}
}

// RecordPunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordPunch(ctx context.Context, userID string, at time.Time) (attendance.Attendance, bool, error) {
	local := at.In(a.loc)
	date := timeutil.DateOf(local)
	clock := timeutil.ClockOf(local)

	in, out := clock, clock
	stored, created, err := a.AttendanceRepository.CreateIfAbsent(ctx, attendance.Attendance{
		UserID:   userID,
		Date:     date,
		CheckIn:  &in,
		CheckOut: &out,
		Status:   attendance.StatusPresent,
	})
	if err != nil {
		return attendance.Attendance{}, false, fmt.Errorf("failed to get or create attendance: %w", err)
	}
	if created {
		return stored, true, nil
	}

	if stored.CheckOut != nil && clock <= *stored.CheckOut {
		return stored, false, nil
	}
	advanced, err := a.AttendanceRepository.AdvanceCheckOut(ctx, stored.ID, clock)
	if err != nil {
		return attendance.Attendance{}, false, fmt.Errorf("failed to update check-out: %w", err)
	}
	if !advanced {
		// A concurrent punch already moved check-out past this one.
		return stored, false, nil
	}

	stored.CheckOut = &out
	if stored.CheckIn == nil {
		stored.CheckIn = &in
	}
	stored, err = a.Reclassify(ctx, stored)
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	return stored, true, nil
}

// Reclassify implements attendance.AttendanceService. Incomplete rows and
// rows without a resolvable shift keep their status.
func (a *AttendanceServiceImpl) Reclassify(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if !att.IsComplete() {
		return att, nil
	}

	shift, err := a.resolver.ResolveShift(ctx, att.UserID, att.Date)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) || errors.Is(err, schedule.ErrShiftNotFound) {
			slog.Warn("no shift for attendance, status kept",
				"user_id", att.UserID,
				"date", att.Date.Format(timeutil.DateLayout),
				"reason", err.Error(),
			)
			return att, nil
		}
		return att, fmt.Errorf("failed to resolve shift: %w", err)
	}

	status, _ := Classify(*att.CheckIn, *att.CheckOut, shift.Start, shift.End)
	if status == att.Status {
		return att, nil
	}
	if err := a.AttendanceRepository.UpdateStatus(ctx, att.ID, status); err != nil {
		return att, fmt.Errorf("failed to update attendance status: %w", err)
	}
	att.Status = status
	return att, nil
}

// Update implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	existing, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if req.CheckIn != nil {
		c, _ := timeutil.ParseClock(*req.CheckIn)
		existing.CheckIn = &c
	}
	if req.CheckOut != nil {
		c, _ := timeutil.ParseClock(*req.CheckOut)
		existing.CheckOut = &c
	}
	if existing.CheckIn != nil && existing.CheckOut != nil && *existing.CheckOut < *existing.CheckIn {
		return attendance.Attendance{}, attendance.ErrCheckOutBeforeIn
	}

	if err := a.AttendanceRepository.Update(ctx, existing); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return a.Reclassify(ctx, existing)
}

// GetByID implements attendance.AttendanceService. Callers without the
// view-all permission only see their own rows.
func (a *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if att.UserID != claims.UserID && !claims.Can(user.PermissionAttendanceViewAll) {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}
	return mapAttendanceToResponse(att), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return a.list(ctx, filter)
}

// ListMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.UserID = &claims.UserID
	return a.list(ctx, filter)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}
	totalPages, showing := utils.Paging(total, filter.Page, filter.Limit)

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

func clockPtrToString(c *timeutil.Clock) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           att.ID,
		UserID:       att.UserID,
		EmployeeName: att.EmployeeName,
		Date:         att.Date.Format(timeutil.DateLayout),
		CheckIn:      clockPtrToString(att.CheckIn),
		CheckOut:     clockPtrToString(att.CheckOut),
		Status:       string(att.Status),
		IsComplete:   att.IsComplete(),
		CreatedAt:    att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    att.UpdatedAt.Format(time.RFC3339),
	}
}
