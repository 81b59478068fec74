package deduction

import (
	"context"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
)

type DeductionService interface {
	CreateDeduction(ctx context.Context, actor auth.Actor, employeeID string, req CreateDeductionRequest) (DeductionResponse, error)
	ListDeductions(ctx context.Context, actor auth.Actor, employeeID string, activeOnly bool) ([]DeductionResponse, error)
	DeactivateDeduction(ctx context.Context, actor auth.Actor, id string) error
}
