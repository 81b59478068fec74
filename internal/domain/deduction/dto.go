package deduction

import (
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateDeductionRequest struct {
	DeductionType        string           `json:"deduction_type" validate:"required,oneof=LOAN ADVANCE FINE ADJUSTMENT OTHER"`
	Amount               decimal.Decimal  `json:"amount"`
	Description          string           `json:"description" validate:"max=500"`
	FromDate             string           `json:"from_date" validate:"required"`
	ToDate               string           `json:"to_date" validate:"required"`
	NumberOfInstallments *int             `json:"number_of_installments,omitempty" validate:"omitempty,min=1,max=120"`
	MonthlyInstallment   *decimal.Decimal `json:"monthly_installment,omitempty"`

	fromDate time.Time
	toDate   time.Time
}

func (r *CreateDeductionRequest) Validate() error {
	r.DeductionType = strings.ToUpper(strings.TrimSpace(r.DeductionType))
	errs := validator.Struct(r)

	if r.Amount.Sign() <= 0 {
		errs.Add("amount", "amount must be greater than 0")
	}
	if r.MonthlyInstallment != nil {
		if r.NumberOfInstallments == nil {
			errs.Add("monthly_installment", "monthly_installment requires number_of_installments")
		}
		if r.MonthlyInstallment.Sign() <= 0 {
			errs.Add("monthly_installment", "monthly_installment must be greater than 0")
		}
	}

	var okFrom, okTo bool
	if r.FromDate != "" {
		if r.fromDate, okFrom = validator.IsValidDate(r.FromDate); !okFrom {
			errs.Add("from_date", "from_date must be in YYYY-MM-DD format")
		}
	}
	if r.ToDate != "" {
		if r.toDate, okTo = validator.IsValidDate(r.ToDate); !okTo {
			errs.Add("to_date", "to_date must be in YYYY-MM-DD format")
		}
	}
	if okFrom && okTo && r.toDate.Before(r.fromDate) {
		errs.Add("to_date", ErrInvalidDateRange.Error())
	}

	return errs.Err()
}

// ToDeduction must be called after a successful Validate.
func (r CreateDeductionRequest) ToDeduction(employeeID string) Deduction {
	return Deduction{
		EmployeeID:           employeeID,
		Type:                 Type(r.DeductionType),
		Amount:               r.Amount,
		Description:          strings.TrimSpace(r.Description),
		FromDate:             r.fromDate,
		ToDate:               r.toDate,
		NumberOfInstallments: r.NumberOfInstallments,
		MonthlyInstallment:   r.MonthlyInstallment,
		IsActive:             true,
	}
}

type DeductionResponse struct {
	ID                   string           `json:"id"`
	EmployeeID           string           `json:"employee_id"`
	DeductionType        string           `json:"deduction_type"`
	Amount               decimal.Decimal  `json:"amount"`
	Description          string           `json:"description,omitempty"`
	FromDate             string           `json:"from_date"`
	ToDate               string           `json:"to_date"`
	NumberOfInstallments *int             `json:"number_of_installments,omitempty"`
	MonthlyInstallment   *decimal.Decimal `json:"monthly_installment,omitempty"`
	InstallmentsPaid     int              `json:"installments_paid"`
	PaidInstallments     []int            `json:"paid_installments"`
	IsActive             bool             `json:"is_active"`
	CreatedAt            string           `json:"created_at"`
}

func NewDeductionResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:                   d.ID,
		EmployeeID:           d.EmployeeID,
		DeductionType:        string(d.Type),
		Amount:               d.Amount,
		Description:          d.Description,
		FromDate:             d.FromDate.Format(validator.DateLayout),
		ToDate:               d.ToDate.Format(validator.DateLayout),
		NumberOfInstallments: d.NumberOfInstallments,
		MonthlyInstallment:   d.MonthlyInstallment,
		InstallmentsPaid:     d.InstallmentsPaid,
		PaidInstallments:     paidInstallments(d.PaidInstallments),
		IsActive:             d.IsActive,
		CreatedAt:            d.CreatedAt.Format(time.RFC3339),
	}
}

func paidInstallments(numbers []int) []int {
	if numbers == nil {
		return []int{}
	}
	return numbers
}
