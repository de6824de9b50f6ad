package overtime

import (
	"context"

	"github.com/shopspring/decimal"
)

type HoursRepository interface {
	// UpsertDerived writes the attendance-derived columns keyed by summary
	// and leaves the administrator-entered columns untouched.
	UpsertDerived(ctx context.Context, h OvertimeHours) (OvertimeHours, error)
	GetByID(ctx context.Context, id string) (OvertimeHours, error)
	UpdateManual(ctx context.Context, id string, restDay, nightDiff, backwage decimal.Decimal) (OvertimeHours, error)
	ListByUser(ctx context.Context, userID string) ([]OvertimeHours, error)
	List(ctx context.Context, filter OvertimeFilter) ([]OvertimeHours, int64, error)
}

type TotalRepository interface {
	// Upsert is keyed by OvertimeHoursID.
	Upsert(ctx context.Context, t TotalOvertime) (TotalOvertime, error)
	GetByID(ctx context.Context, id string) (TotalOvertime, error)
	// LatestByUser returns up to n rows ordered by period start, newest first.
	LatestByUser(ctx context.Context, userID string, n int) ([]TotalOvertime, error)
	List(ctx context.Context, filter OvertimeFilter) ([]TotalOvertime, int64, error)
}
