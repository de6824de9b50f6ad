package holiday

import (
	"context"
	"time"
)

type HolidayService interface {
	Create(ctx context.Context, req HolidayRequest) (HolidayResponse, error)
	GetByID(ctx context.Context, id string) (HolidayResponse, error)
	Update(ctx context.Context, req HolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)
	// CalendarBetween loads the holidays in a range for overtime routing.
	CalendarBetween(ctx context.Context, start, end time.Time) (Calendar, error)
}
