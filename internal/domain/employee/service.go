package employee

import (
	"context"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
)

// EmployeeService defines business logic for the employee directory.
// Writes require an admin actor; employees may read their own record.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, actor auth.Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, actor auth.Actor, id string) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, actor auth.Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	// ChangeStatus is the soft alternative to deletion.
	ChangeStatus(ctx context.Context, actor auth.Actor, id string, req ChangeStatusRequest) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, actor auth.Actor, filter EmployeeFilter) (ListEmployeeResponse, error)

	CreateDepartment(ctx context.Context, actor auth.Actor, req CreateDepartmentRequest) (DepartmentResponse, error)
	ListDepartments(ctx context.Context) ([]DepartmentResponse, error)
}
