package biometric

import "context"

type PunchRepository interface {
	Create(ctx context.Context, punch Punch) (Punch, error)
	List(ctx context.Context, filter PunchFilter) ([]Punch, int64, error)
}
