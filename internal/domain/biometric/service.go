package biometric

import (
	"context"
	"io"
	"time"
)

type BiometricService interface {
	RecordPunch(ctx context.Context, req PunchRequest) (PunchResponse, error)
	// ImportPunches records every row of a device export workbook.
	ImportPunches(ctx context.Context, workbook io.Reader) (ImportResponse, error)
	List(ctx context.Context, filter PunchFilter) (ListPunchResponse, error)
}

// PunchSink receives punches that resolved to a user and returns the
// attendance row they landed on.
type PunchSink interface {
	IngestPunch(ctx context.Context, userID string, at time.Time) (attendanceID string, err error)
}
