package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) error
	// ListBetween returns holidays with start <= date <= end, by date.
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
}
