package attendance

import (
	"context"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

type AttendanceRepository interface {
	// CreateIfAbsent inserts the row unless (user, date) already exists and
	// returns the stored row either way; created reports which happened.
	CreateIfAbsent(ctx context.Context, a Attendance) (stored Attendance, created bool, err error)

	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// AdvanceCheckOut moves check-out to at only when at is later than the
	// stored value, in one conditional write. updated is false when the row
	// already had a later or equal check-out.
	AdvanceCheckOut(ctx context.Context, id string, at timeutil.Clock) (updated bool, err error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	Update(ctx context.Context, a Attendance) error
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByUserBetween returns the user's rows with start <= date <= end.
	ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]Attendance, error)
}
