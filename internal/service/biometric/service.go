package biometric

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/punchimport"
	"github.com/fresco-hris/payroll-backend/internal/pkg/utils"
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
)

// UserResolver maps a device employee number to an active user.
type UserResolver interface {
	ResolveByEmployeeNumber(ctx context.Context, employeeNumber int64) (user.User, error)
}

type BiometricServiceImpl struct {
	biometric.PunchRepository
	users UserResolver
	sink  biometric.PunchSink
	loc   *time.Location
}

func NewBiometricService(
	punchRepository biometric.PunchRepository,
	users UserResolver,
	sink biometric.PunchSink,
	loc *time.Location,
) biometric.BiometricService {
	if loc == nil {
		loc = time.UTC
	}
	return &BiometricServiceImpl{
		PunchRepository: punchRepository,
		users:           users,
		sink:            sink,
		loc:             loc,
	}
}

// RecordPunch stores a device punch and forwards it to attendance when the
// employee number belongs to an active user.
func (s *BiometricServiceImpl) RecordPunch(ctx context.Context, req biometric.PunchRequest) (biometric.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return biometric.PunchResponse{}, err
	}
	at, _ := validator.IsValidDateTime(req.Timestamp)

	return s.record(ctx, req.EmployeeNumber, at, biometric.SourceDevice)
}

func (s *BiometricServiceImpl) record(ctx context.Context, employeeNumber int64, at time.Time, source string) (biometric.PunchResponse, error) {
	punch, err := s.PunchRepository.Create(ctx, biometric.Punch{
		EmployeeNumber: employeeNumber,
		Timestamp:      at,
		Source:         source,
	})
	if err != nil {
		return biometric.PunchResponse{}, fmt.Errorf("failed to store punch: %w", err)
	}
	resp := mapPunchToResponse(punch)

	u, err := s.users.ResolveByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrUserInactive) {
			slog.Warn("punch from unknown employee, attendance skipped",
				"employee_number", employeeNumber,
				"timestamp", at.Format(time.RFC3339),
				"reason", err.Error(),
			)
			return resp, nil
		}
		return biometric.PunchResponse{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	attendanceID, err := s.sink.IngestPunch(ctx, u.ID, at)
	if err != nil {
		return biometric.PunchResponse{}, fmt.Errorf("failed to apply punch: %w", err)
	}
	resp.Resolved = true
	resp.AttendanceID = &attendanceID
	return resp, nil
}

// ImportPunches records every parsable row of a device export in file
// order. Row failures are reported without stopping the import.
func (s *BiometricServiceImpl) ImportPunches(ctx context.Context, workbook io.Reader) (biometric.ImportResponse, error) {
	rows, rowErrs, err := punchimport.Parse(workbook, s.loc)
	if err != nil {
		return biometric.ImportResponse{}, err
	}

	resp := biometric.ImportResponse{Rejected: len(rowErrs), Errors: rowErrs}
	for _, row := range rows {
		punch, err := s.record(ctx, row.EmployeeNumber, row.Timestamp, biometric.SourceImport)
		if err != nil {
			resp.Rejected++
			resp.Errors = append(resp.Errors, biometric.ImportRowError{Row: row.Line, Message: err.Error()})
			continue
		}
		if punch.Resolved {
			resp.Accepted++
		} else {
			resp.Unresolved++
		}
	}

	slog.Info("punch workbook imported",
		"accepted", resp.Accepted,
		"unresolved", resp.Unresolved,
		"rejected", resp.Rejected,
	)
	return resp, nil
}

// List implements biometric.BiometricService.
func (s *BiometricServiceImpl) List(ctx context.Context, filter biometric.PunchFilter) (biometric.ListPunchResponse, error) {
	if err := filter.Validate(); err != nil {
		return biometric.ListPunchResponse{}, err
	}

	punches, total, err := s.PunchRepository.List(ctx, filter)
	if err != nil {
		return biometric.ListPunchResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	items := make([]biometric.PunchResponse, 0, len(punches))
	for _, p := range punches {
		items = append(items, mapPunchToResponse(p))
	}
	totalPages, _ := utils.Paging(total, filter.Page, filter.Limit)
	return biometric.ListPunchResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Punches:    items,
	}, nil
}

func mapPunchToResponse(p biometric.Punch) biometric.PunchResponse {
	return biometric.PunchResponse{
		ID:             p.ID,
		EmployeeNumber: p.EmployeeNumber,
		Timestamp:      p.Timestamp.Format(time.RFC3339),
		Source:         p.Source,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
