package employee

import (
	"context"
	"testing"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
	"github.com/gate-garments/hrms-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = auth.Actor{UserID: "admin-1", Role: user.RoleAdmin}

func newTestEmployeeService() employee.EmployeeService {
	store := memory.NewStore()
	return NewEmployeeService(store.Employees(), store.Departments())
}

func validCreateRequest(code string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployeeCode:  code,
		FirstName:     "Lakshmi",
		LastName:      "Rao",
		Email:         code + "@GateGarments.test",
		PhoneNumber:   "+91 98765 43210",
		Gender:        "F",
		Designation:   "Machine Operator",
		DateOfJoining: "2024-06-01",
	}
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, admin, employee.CreateDepartmentRequest{Name: "Stitching"})
	require.NoError(t, err)

	req := validCreateRequest("emp001")
	req.DepartmentID = &dept.ID
	resp, err := svc.CreateEmployee(ctx, admin, req)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "EMP001", resp.EmployeeCode)
	assert.Equal(t, "emp001@gategarments.test", resp.Email)
	assert.Equal(t, "Lakshmi Rao", resp.FullName)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "2024-06-01", resp.DateOfJoining)
	require.NotNil(t, resp.DepartmentName)
	assert.Equal(t, "Stitching", *resp.DepartmentName)
}

func TestEmployeeService_CreateEmployee_Duplicates(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()

	_, err := svc.CreateEmployee(ctx, admin, validCreateRequest("EMP001"))
	require.NoError(t, err)

	_, err = svc.CreateEmployee(ctx, admin, validCreateRequest("EMP001"))
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	req := validCreateRequest("EMP002")
	req.Email = "emp001@gategarments.test"
	_, err = svc.CreateEmployee(ctx, admin, req)
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeService_CreateEmployee_Validation(t *testing.T) {
	svc := newTestEmployeeService()

	req := validCreateRequest("X1")
	req.Gender = "Q"
	req.DateOfJoining = "01/06/2024"
	_, err := svc.CreateEmployee(context.Background(), admin, req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_code")
	assert.Contains(t, fields, "gender")
	assert.Contains(t, fields, "date_of_joining")
}

func TestEmployeeService_CreateEmployee_UnknownDepartment(t *testing.T) {
	svc := newTestEmployeeService()

	req := validCreateRequest("EMP001")
	missing := "0190f5e2-6b1c-7a3e-9c2d-3f4a5b6c7d8e"
	req.DepartmentID = &missing
	_, err := svc.CreateEmployee(context.Background(), admin, req)

	assert.ErrorIs(t, err, employee.ErrDepartmentNotFound)
}

func TestEmployeeService_RequiresAdmin(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()
	employeeID := "emp-1"
	actor := auth.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &employeeID}

	_, err := svc.CreateEmployee(ctx, actor, validCreateRequest("EMP001"))
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.ListEmployees(ctx, actor, employee.EmployeeFilter{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.ChangeStatus(ctx, actor, employeeID, employee.ChangeStatusRequest{Status: "retired"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestEmployeeService_GetEmployee_Self(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()

	own, err := svc.CreateEmployee(ctx, admin, validCreateRequest("EMP001"))
	require.NoError(t, err)
	other, err := svc.CreateEmployee(ctx, admin, validCreateRequest("EMP002"))
	require.NoError(t, err)

	actor := auth.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &own.ID}

	resp, err := svc.GetEmployee(ctx, actor, own.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", resp.EmployeeCode)

	_, err = svc.GetEmployee(ctx, actor, other.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.GetEmployee(ctx, admin, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_UpdateEmployee(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, admin, validCreateRequest("EMP001"))
	require.NoError(t, err)

	designation := "Line Supervisor"
	bank := "State Bank"
	resp, err := svc.UpdateEmployee(ctx, admin, created.ID, employee.UpdateEmployeeRequest{
		Designation: &designation,
		BankName:    &bank,
	})

	require.NoError(t, err)
	assert.Equal(t, "Line Supervisor", resp.Designation)
	require.NotNil(t, resp.BankName)
	assert.Equal(t, "State Bank", *resp.BankName)
	assert.Equal(t, "Lakshmi", resp.FirstName)
}

func TestEmployeeService_ChangeStatus(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, admin, validCreateRequest("EMP001"))
	require.NoError(t, err)

	resp, err := svc.ChangeStatus(ctx, admin, created.ID, employee.ChangeStatusRequest{Status: "Suspended"})
	require.NoError(t, err)
	assert.Equal(t, "suspended", resp.Status)

	_, err = svc.ChangeStatus(ctx, admin, created.ID, employee.ChangeStatusRequest{Status: "suspended"})
	assert.ErrorIs(t, err, employee.ErrStatusUnchanged)

	_, err = svc.ChangeStatus(ctx, admin, created.ID, employee.ChangeStatusRequest{Status: "fired"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	stored, err := svc.GetEmployee(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", stored.Status)
}

func TestEmployeeService_ListEmployees(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()

	for _, code := range []string{"EMP001", "EMP002", "EMP003"} {
		_, err := svc.CreateEmployee(ctx, admin, validCreateRequest(code))
		require.NoError(t, err)
	}

	resp, err := svc.ListEmployees(ctx, admin, employee.EmployeeFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Employees, 2)

	_, err = svc.ListEmployees(ctx, admin, employee.EmployeeFilter{Limit: 500})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestEmployeeService_Departments(t *testing.T) {
	svc := newTestEmployeeService()
	ctx := context.Background()

	_, err := svc.CreateDepartment(ctx, admin, employee.CreateDepartmentRequest{Name: "Cutting"})
	require.NoError(t, err)
	_, err = svc.CreateDepartment(ctx, admin, employee.CreateDepartmentRequest{Name: "Cutting"})
	assert.ErrorIs(t, err, employee.ErrDepartmentNameExists)

	departments, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "Cutting", departments[0].Name)
}
