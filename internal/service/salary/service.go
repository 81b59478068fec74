package salary

import (
	"context"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
)

type SalaryServiceImpl struct {
	structureRepo salary.StructureRepository
	employeeRepo  employee.EmployeeRepository
}

func NewSalaryService(structureRepo salary.StructureRepository, employeeRepo employee.EmployeeRepository) salary.SalaryService {
	return &SalaryServiceImpl{
		structureRepo: structureRepo,
		employeeRepo:  employeeRepo,
	}
}

// GetStructure implements salary.SalaryService.
func (s *SalaryServiceImpl) GetStructure(ctx context.Context, actor auth.Actor, employeeID string) (salary.StructureResponse, error) {
	if !actor.CanAccessEmployee(employeeID) {
		return salary.StructureResponse{}, auth.ErrForbidden
	}

	st, err := s.structureRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return salary.StructureResponse{}, err
	}
	return salary.NewStructureResponse(st), nil
}

// SaveStructure implements salary.SalaryService. An existing structure is
// overwritten in place.
func (s *SalaryServiceImpl) SaveStructure(ctx context.Context, actor auth.Actor, employeeID string, req salary.UpsertStructureRequest) (salary.StructureResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return salary.StructureResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return salary.StructureResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return salary.StructureResponse{}, err
	}

	st, err := s.structureRepo.Upsert(ctx, req.ToStructure(employeeID))
	if err != nil {
		return salary.StructureResponse{}, err
	}
	return salary.NewStructureResponse(st), nil
}
