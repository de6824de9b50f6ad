package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error

	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	GetSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	ListByUser(ctx context.Context, userID string) ([]ScheduleResponse, error)
	AttachShifts(ctx context.Context, req AttachShiftsRequest) (ScheduleResponse, error)
	DetachShift(ctx context.Context, scheduleID, shiftID string) (ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, id string) error
}

// ShiftResolver finds the shift governing a user's working day.
type ShiftResolver interface {
	ResolveShift(ctx context.Context, userID string, date time.Time) (Shift, error)
	// PeriodFor returns the pay period holding date for the user.
	PeriodFor(ctx context.Context, userID string, date time.Time) (Period, error)
}
