package memory

import (
	"context"
	"strings"

	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
)

type employeeRepository struct{ s *Store }

func (s *Store) Employees() employee.EmployeeRepository { return employeeRepository{s} }

func (r employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(e); err != nil {
		return employee.Employee{}, err
	}
	e.ID = newID()
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt
	r.s.employees[e.ID] = e
	return r.withDepartment(e), nil
}

func (r employeeRepository) checkUnique(e employee.Employee) error {
	for _, existing := range r.s.employees {
		if existing.ID == e.ID {
			continue
		}
		if strings.EqualFold(existing.EmployeeCode, e.EmployeeCode) {
			return employee.ErrEmployeeCodeExists
		}
		if strings.EqualFold(existing.Email, e.Email) {
			return employee.ErrEmailExists
		}
	}
	if e.DepartmentID != nil {
		if _, ok := r.s.departments[*e.DepartmentID]; !ok {
			return employee.ErrDepartmentNotFound
		}
	}
	return nil
}

// withDepartment must be called with s.mu held.
func (r employeeRepository) withDepartment(e employee.Employee) employee.Employee {
	e.DepartmentName = nil
	if e.DepartmentID != nil {
		if d, ok := r.s.departments[*e.DepartmentID]; ok {
			name := d.Name
			e.DepartmentName = &name
		}
	}
	return e
}

func (r employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.withDepartment(e), nil
}

func (r employeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.employees {
		if strings.EqualFold(e.EmployeeCode, code) {
			return r.withDepartment(e), nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.employees[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if err := r.checkUnique(e); err != nil {
		return employee.Employee{}, err
	}
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = now()
	r.s.employees[e.ID] = e
	return r.withDepartment(e), nil
}

func (r employeeRepository) UpdateStatus(ctx context.Context, id string, status employee.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Status = status
	e.UpdatedAt = now()
	r.s.employees[id] = e
	return nil
}

func (r employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sortedValues(r.s.employees, func(a, b employee.Employee) bool { return a.EmployeeCode < b.EmployeeCode })

	var matched []employee.Employee
	for _, e := range all {
		if filter.Search != nil && *filter.Search != "" {
			needle := strings.ToLower(*filter.Search)
			hay := strings.ToLower(e.EmployeeCode + " " + e.FullName() + " " + e.Email)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		matched = append(matched, r.withDepartment(e))
	}
	return page(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var active []employee.Employee
	for _, e := range sortedValues(r.s.employees, func(a, b employee.Employee) bool { return a.EmployeeCode < b.EmployeeCode }) {
		if e.IsActive() {
			active = append(active, r.withDepartment(e))
		}
	}
	return active, nil
}

type departmentRepository struct{ s *Store }

func (s *Store) Departments() employee.DepartmentRepository { return departmentRepository{s} }

func (r departmentRepository) Create(ctx context.Context, d employee.Department) (employee.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.departments {
		if strings.EqualFold(existing.Name, d.Name) {
			return employee.Department{}, employee.ErrDepartmentNameExists
		}
	}
	d.ID = newID()
	d.CreatedAt = now()
	r.s.departments[d.ID] = d
	return d, nil
}

func (r departmentRepository) GetByID(ctx context.Context, id string) (employee.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.departments[id]
	if !ok {
		return employee.Department{}, employee.ErrDepartmentNotFound
	}
	return d, nil
}

func (r departmentRepository) List(ctx context.Context) ([]employee.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sortedValues(r.s.departments, func(a, b employee.Department) bool { return a.Name < b.Name }), nil
}
