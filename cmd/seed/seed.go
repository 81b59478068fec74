package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	serviceAuth "github.com/gate-garments/hrms-backend-go/internal/service/auth"
	"github.com/shopspring/decimal"
)

type repositories struct {
	tx          database.Transactor
	users       user.UserRepository
	employees   employee.EmployeeRepository
	departments employee.DepartmentRepository
	structures  salary.StructureRepository
}

type credentials struct {
	AdminPassword    string
	EmployeePassword string
}

var demoDepartments = []struct{ name, description string }{
	{"Cutting", "Fabric spreading and cutting"},
	{"Stitching", "Sewing lines"},
	{"Finishing", "Checking, ironing and packing"},
	{"Human Resources", "Personnel and payroll"},
}

// seed creates the demo admin, departments and employee EMP001 with a
// salary structure. Rows that already exist are left untouched.
func seed(ctx context.Context, repos repositories, creds credentials) error {
	return repos.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := seedUser(ctx, repos.users, "admin", "admin@gategarments.com", user.RoleAdmin, nil, creds.AdminPassword); err != nil {
			return err
		}

		deptIDs, err := seedDepartments(ctx, repos.departments)
		if err != nil {
			return err
		}

		emp, err := seedEmployee(ctx, repos.employees, deptIDs["Stitching"])
		if err != nil {
			return err
		}

		if _, err := repos.structures.GetByEmployeeID(ctx, emp.ID); errors.Is(err, salary.ErrStructureNotFound) {
			if _, err := repos.structures.Upsert(ctx, demoStructure(emp.ID)); err != nil {
				return fmt.Errorf("seed salary structure: %w", err)
			}
			slog.Info("seeded salary structure", "employee_code", emp.EmployeeCode)
		} else if err != nil {
			return fmt.Errorf("load salary structure: %w", err)
		}

		return seedUser(ctx, repos.users, "emp001", emp.Email, user.RoleEmployee, &emp.ID, creds.EmployeePassword)
	})
}

func seedUser(ctx context.Context, repo user.UserRepository, username, email string, role user.Role, employeeID *string, password string) error {
	if _, err := repo.GetByUsername(ctx, username); err == nil {
		slog.Info("user exists, skipping", "username", username)
		return nil
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("load user %s: %w", username, err)
	}

	hash, err := serviceAuth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := repo.Create(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		EmployeeID:   employeeID,
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("seed user %s: %w", username, err)
	}
	slog.Info("seeded user", "username", username, "role", role)
	return nil
}

func seedDepartments(ctx context.Context, repo employee.DepartmentRepository) (map[string]string, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	ids := make(map[string]string, len(existing))
	for _, d := range existing {
		ids[d.Name] = d.ID
	}

	for _, d := range demoDepartments {
		if _, ok := ids[d.name]; ok {
			continue
		}
		description := d.description
		created, err := repo.Create(ctx, employee.Department{Name: d.name, Description: &description})
		if err != nil {
			return nil, fmt.Errorf("seed department %s: %w", d.name, err)
		}
		ids[created.Name] = created.ID
		slog.Info("seeded department", "name", created.Name)
	}
	return ids, nil
}

func seedEmployee(ctx context.Context, repo employee.EmployeeRepository, departmentID string) (employee.Employee, error) {
	if emp, err := repo.GetByCode(ctx, "EMP001"); err == nil {
		return emp, nil
	} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.Employee{}, fmt.Errorf("load EMP001: %w", err)
	}

	emp, err := repo.Create(ctx, employee.Employee{
		EmployeeCode:  "EMP001",
		FirstName:     "Priya",
		LastName:      "Sharma",
		Email:         "priya.sharma@gategarments.com",
		PhoneNumber:   "9876543210",
		Gender:        employee.GenderFemale,
		DepartmentID:  &departmentID,
		Designation:   "Senior Tailor",
		DateOfJoining: time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status:        employee.StatusActive,
	})
	if err != nil {
		return employee.Employee{}, fmt.Errorf("seed EMP001: %w", err)
	}
	slog.Info("seeded employee", "employee_code", emp.EmployeeCode)
	return emp, nil
}

func demoStructure(employeeID string) salary.Structure {
	return salary.Structure{
		EmployeeID: employeeID,
		Earnings: salary.Earnings{
			Basic:      decimal.NewFromInt(25000),
			HRA:        decimal.NewFromInt(5000),
			DA:         decimal.NewFromInt(3000),
			Conveyance: decimal.NewFromInt(1500),
			Medical:    decimal.NewFromInt(1000),
		},
		Deductions: salary.Deductions{
			PF:        decimal.NewFromInt(2250),
			ESI:       decimal.NewFromInt(800),
			IncomeTax: decimal.NewFromInt(2000),
		},
	}
}
