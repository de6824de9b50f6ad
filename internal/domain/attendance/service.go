package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// RecordPunch folds one punch into the user's attendance for the punch's
	// local date. changed is false when the punch altered nothing.
	RecordPunch(ctx context.Context, userID string, at time.Time) (a Attendance, changed bool, err error)
	// Reclassify recomputes the status of a stored row.
	Reclassify(ctx context.Context, a Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListMine(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Update(ctx context.Context, req UpdateAttendanceRequest) (Attendance, error)
}
