package summary

import (
	"context"
	"time"
)

type SummaryService interface {
	// Recompute rebuilds the summary of the pay period holding date from
	// scratch and refreshes the period's derived overtime hours.
	Recompute(ctx context.Context, userID string, date time.Time, triggeredBy *string) (AttendanceSummary, error)
	GetByID(ctx context.Context, id string) (SummaryResponse, error)
	List(ctx context.Context, filter SummaryFilter) (ListSummaryResponse, error)
}
