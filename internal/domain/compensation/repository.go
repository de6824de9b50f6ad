package compensation

import "context"

type EarningsRepository interface {
	Create(ctx context.Context, e Earnings) (Earnings, error)
	GetByID(ctx context.Context, id string) (Earnings, error)
	Latest(ctx context.Context, userID string) (Earnings, error)
	ListByUser(ctx context.Context, userID string) ([]Earnings, error)
}

type DeductionsRepository interface {
	Create(ctx context.Context, d Deductions) (Deductions, error)
	GetByID(ctx context.Context, id string) (Deductions, error)
	Latest(ctx context.Context, userID string) (Deductions, error)
	ListByUser(ctx context.Context, userID string) ([]Deductions, error)
}

type OvertimeBaseRepository interface {
	Create(ctx context.Context, o OvertimeBase) (OvertimeBase, error)
	Latest(ctx context.Context, userID string) (OvertimeBase, error)
	ListByUser(ctx context.Context, userID string) ([]OvertimeBase, error)
}

type BenefitRepository interface {
	Create(ctx context.Context, b Benefit) (Benefit, error)
	GetByID(ctx context.Context, id string) (Benefit, error)
	// Latest returns the newest contribution of each kind for the user.
	Latest(ctx context.Context, userID string) (Benefits, error)
	ListByUser(ctx context.Context, userID string) ([]Benefit, error)
}
