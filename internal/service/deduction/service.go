package deduction

import (
	"context"
	"log/slog"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
)

type DeductionServiceImpl struct {
	deductionRepo deduction.DeductionRepository
	employeeRepo  employee.EmployeeRepository
}

func NewDeductionService(deductionRepo deduction.DeductionRepository, employeeRepo employee.EmployeeRepository) deduction.DeductionService {
	return &DeductionServiceImpl{
		deductionRepo: deductionRepo,
		employeeRepo:  employeeRepo,
	}
}

// CreateDeduction implements deduction.DeductionService.
func (s *DeductionServiceImpl) CreateDeduction(ctx context.Context, actor auth.Actor, employeeID string, req deduction.CreateDeductionRequest) (deduction.DeductionResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return deduction.DeductionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return deduction.DeductionResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return deduction.DeductionResponse{}, err
	}

	created, err := s.deductionRepo.Create(ctx, req.ToDeduction(employeeID))
	if err != nil {
		return deduction.DeductionResponse{}, err
	}

	slog.Info("deduction created",
		"deduction_id", created.ID,
		"employee_id", employeeID,
		"type", created.Type,
		"amount", created.Amount.StringFixed(2),
	)
	return deduction.NewDeductionResponse(created), nil
}

// ListDeductions implements deduction.DeductionService.
func (s *DeductionServiceImpl) ListDeductions(ctx context.Context, actor auth.Actor, employeeID string, activeOnly bool) ([]deduction.DeductionResponse, error) {
	if !actor.CanAccessEmployee(employeeID) {
		return nil, auth.ErrForbidden
	}

	deductions, err := s.deductionRepo.ListByEmployee(ctx, employeeID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]deduction.DeductionResponse, 0, len(deductions))
	for _, d := range deductions {
		responses = append(responses, deduction.NewDeductionResponse(d))
	}
	return responses, nil
}

// DeactivateDeduction implements deduction.DeductionService.
func (s *DeductionServiceImpl) DeactivateDeduction(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}

	d, err := s.deductionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !d.IsActive {
		return deduction.ErrAlreadyInactive
	}
	return s.deductionRepo.Deactivate(ctx, id)
}
