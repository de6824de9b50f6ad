package summary

import (
	"context"
	"time"
)

type SummaryRepository interface {
	// Upsert is keyed by (user, period start).
	Upsert(ctx context.Context, s AttendanceSummary) (AttendanceSummary, error)
	GetByID(ctx context.Context, id string) (AttendanceSummary, error)
	GetByUserAndPeriod(ctx context.Context, userID string, periodStart time.Time) (AttendanceSummary, error)
	List(ctx context.Context, filter SummaryFilter) ([]AttendanceSummary, int64, error)
}
