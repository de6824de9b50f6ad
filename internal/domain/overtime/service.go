package overtime

import "context"

type OvertimeService interface {
	// RecomputeForUser refreshes every TotalOvertime of the user from the
	// latest compensation records.
	RecomputeForUser(ctx context.Context, userID string) (int, error)
	// RecomputeAll runs RecomputeForUser for every active user.
	RecomputeAll(ctx context.Context) error

	GetHours(ctx context.Context, id string) (OvertimeHoursResponse, error)
	ListHours(ctx context.Context, filter OvertimeFilter) (ListOvertimeHoursResponse, error)
	UpdateHours(ctx context.Context, req UpdateOvertimeHoursRequest) (OvertimeHoursResponse, error)
	GetTotal(ctx context.Context, id string) (TotalOvertimeResponse, error)
	ListTotals(ctx context.Context, filter OvertimeFilter) (ListTotalOvertimeResponse, error)
}
