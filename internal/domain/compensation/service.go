package compensation

import "context"

type CompensationService interface {
	CreateEarnings(ctx context.Context, req EarningsRequest) (EarningsResponse, error)
	CreateDeductions(ctx context.Context, req DeductionsRequest) (DeductionsResponse, error)
	CreateOvertimeBase(ctx context.Context, req OvertimeBaseRequest) (OvertimeBaseResponse, error)
	CreateSSS(ctx context.Context, req SSSRequest) (BenefitResponse, error)
	// RefreshBenefits recomputes the PhilHealth and Pag-IBIG contributions
	// from the user's latest earnings.
	RefreshBenefits(ctx context.Context, userID string) ([]BenefitResponse, error)
	GetCurrent(ctx context.Context, userID string) (CompensationResponse, error)
	ListEarnings(ctx context.Context, userID string) ([]EarningsResponse, error)
	ListDeductions(ctx context.Context, userID string) ([]DeductionsResponse, error)
	ListBenefits(ctx context.Context, userID string) ([]BenefitResponse, error)
}

// ChangeNotifier is told when a user's pay basis changes so derived
// overtime can be repriced.
type ChangeNotifier interface {
	CompensationChanged(ctx context.Context, userID string) error
}
