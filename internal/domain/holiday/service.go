package holiday

import (
	"context"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
)

type HolidayService interface {
	CreateHoliday(ctx context.Context, actor auth.Actor, req CreateHolidayRequest) (HolidayResponse, error)
	ListHolidays(ctx context.Context, year int) ([]HolidayResponse, error)
}
