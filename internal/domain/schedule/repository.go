package schedule

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	Update(ctx context.Context, shift Shift) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ShiftFilter) ([]Shift, int64, error)
	// GetOnDate returns the shift dated exactly on date among ids.
	GetOnDate(ctx context.Context, ids []string, date time.Time) (Shift, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, s Schedule) (Schedule, error)
	GetByID(ctx context.Context, id string) (Schedule, error)
	// ListByUser returns the user's schedules, newest first.
	ListByUser(ctx context.Context, userID string) ([]Schedule, error)
	AttachShifts(ctx context.Context, scheduleID string, shiftIDs []string) error
	DetachShift(ctx context.Context, scheduleID, shiftID string) error
	Delete(ctx context.Context, id string) error
}
