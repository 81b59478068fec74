package employee

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	departmentRepo employee.DepartmentRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	departmentRepo employee.DepartmentRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, actor auth.Actor, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.DepartmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	joined, _ := validator.IsValidDate(req.DateOfJoining)
	newEmployee := employee.Employee{
		EmployeeCode:      req.EmployeeCode,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Gender:            employee.Gender(req.Gender),
		Address:           req.Address,
		DepartmentID:      req.DepartmentID,
		Designation:       req.Designation,
		DateOfJoining:     joined,
		Status:            employee.StatusActive,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		IFSCCode:          req.IFSCCode,
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, _ := validator.IsValidDate(*req.DateOfBirth)
		newEmployee.DateOfBirth = &dob
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode, "by", actor.UserID)
	return employee.NewEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, actor auth.Actor, id string) (employee.EmployeeResponse, error) {
	if !actor.CanAccessEmployee(id) {
		return employee.EmployeeResponse{}, auth.ErrForbidden
	}

	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, actor auth.Actor, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.DepartmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	updated, err := s.employeeRepo.Update(ctx, req.Apply(current))
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// ChangeStatus implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ChangeStatus(ctx context.Context, actor auth.Actor, id string, req employee.ChangeStatusRequest) (employee.EmployeeResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	status := employee.Status(req.Status)
	if current.Status == status {
		return employee.EmployeeResponse{}, employee.ErrStatusUnchanged
	}

	if err := s.employeeRepo.UpdateStatus(ctx, id, status); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to change status of employee %s: %w", id, err)
	}

	slog.Info("employee status changed",
		"employee_id", id,
		"from", current.Status,
		"to", status,
		"by", actor.UserID,
	)

	current.Status = status
	current.UpdatedAt = time.Now()
	return employee.NewEmployeeResponse(current), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, actor auth.Actor, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// CreateDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateDepartment(ctx context.Context, actor auth.Actor, req employee.CreateDepartmentRequest) (employee.DepartmentResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return employee.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.DepartmentResponse{}, err
	}

	d, err := s.departmentRepo.Create(ctx, employee.Department{Name: req.Name, Description: req.Description})
	if err != nil {
		return employee.DepartmentResponse{}, err
	}
	return employee.NewDepartmentResponse(d), nil
}

// ListDepartments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListDepartments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, employee.NewDepartmentResponse(d))
	}
	return responses, nil
}
