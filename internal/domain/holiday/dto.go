package holiday

import (
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date string `json:"date" validate:"required"`
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CreateHolidayRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	errs := validator.Struct(r)
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

type HolidayResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID,
		Date:      h.Date.Format(validator.DateLayout),
		Name:      h.Name,
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
	}
}
