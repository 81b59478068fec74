package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	// ListActive returns every employee with status active, ordered by code.
	ListActive(ctx context.Context) ([]Employee, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
}
