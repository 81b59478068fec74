package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
}
