package deduction

import (
	"context"
	"testing"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
	"github.com/gate-garments/hrms-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = auth.Actor{UserID: "admin-1", Role: user.RoleAdmin}

func newTestDeductionService(t *testing.T) (deduction.DeductionService, employee.Employee) {
	t.Helper()
	store := memory.NewStore()
	e, err := store.Employees().Create(context.Background(), employee.Employee{
		EmployeeCode: "EMP001",
		FirstName:    "Farida",
		Email:        "farida@gategarments.test",
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)
	return NewDeductionService(store.Deductions(), store.Employees()), e
}

func loanRequest() deduction.CreateDeductionRequest {
	installments := 6
	return deduction.CreateDeductionRequest{
		DeductionType:        "loan",
		Amount:               decimal.NewFromInt(12000),
		Description:          "festival advance",
		FromDate:             "2025-01-01",
		ToDate:               "2025-06-30",
		NumberOfInstallments: &installments,
	}
}

func TestDeductionService_CreateDeduction(t *testing.T) {
	svc, e := newTestDeductionService(t)

	resp, err := svc.CreateDeduction(context.Background(), admin, e.ID, loanRequest())

	require.NoError(t, err)
	assert.Equal(t, "LOAN", resp.DeductionType)
	assert.True(t, resp.IsActive)
	assert.Equal(t, 0, resp.InstallmentsPaid)
	assert.Equal(t, "2025-01-01", resp.FromDate)
	require.NotNil(t, resp.NumberOfInstallments)
	assert.Equal(t, 6, *resp.NumberOfInstallments)
}

func TestDeductionService_CreateDeduction_Validation(t *testing.T) {
	svc, e := newTestDeductionService(t)
	monthly := decimal.NewFromInt(500)

	_, err := svc.CreateDeduction(context.Background(), admin, e.ID, deduction.CreateDeductionRequest{
		DeductionType:      "bonus",
		Amount:             decimal.Zero,
		FromDate:           "2025-03-01",
		ToDate:             "2025-02-01",
		MonthlyInstallment: &monthly,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "deduction_type")
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "to_date")
	assert.Contains(t, fields, "monthly_installment")
}

func TestDeductionService_CreateDeduction_Errors(t *testing.T) {
	svc, e := newTestDeductionService(t)
	ctx := context.Background()

	_, err := svc.CreateDeduction(ctx, admin, "missing", loanRequest())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	self := auth.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &e.ID}
	_, err = svc.CreateDeduction(ctx, self, e.ID, loanRequest())
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestDeductionService_DeactivateDeduction(t *testing.T) {
	svc, e := newTestDeductionService(t)
	ctx := context.Background()

	created, err := svc.CreateDeduction(ctx, admin, e.ID, loanRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateDeduction(ctx, admin, created.ID))
	assert.ErrorIs(t, svc.DeactivateDeduction(ctx, admin, created.ID), deduction.ErrAlreadyInactive)
	assert.ErrorIs(t, svc.DeactivateDeduction(ctx, admin, "missing"), deduction.ErrDeductionNotFound)

	active, err := svc.ListDeductions(ctx, admin, e.ID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListDeductions(ctx, admin, e.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
}

func TestDeductionService_ListDeductions_Access(t *testing.T) {
	svc, e := newTestDeductionService(t)
	ctx := context.Background()

	_, err := svc.CreateDeduction(ctx, admin, e.ID, loanRequest())
	require.NoError(t, err)

	self := auth.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &e.ID}
	own, err := svc.ListDeductions(ctx, self, e.ID, false)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	other := "emp-2"
	stranger := auth.Actor{UserID: "user-2", Role: user.RoleEmployee, EmployeeID: &other}
	_, err = svc.ListDeductions(ctx, stranger, e.ID, false)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}
