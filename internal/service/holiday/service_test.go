package holiday

import (
	"context"
	"testing"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/holiday"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
	"github.com/gate-garments/hrms-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = auth.Actor{UserID: "admin-1", Role: user.RoleAdmin}

func TestHolidayService_CreateAndList(t *testing.T) {
	svc := NewHolidayService(memory.NewStore().Holidays())
	ctx := context.Background()

	for _, req := range []holiday.CreateHolidayRequest{
		{Date: "2025-10-02", Name: "Gandhi Jayanti"},
		{Date: "2025-01-26", Name: "Republic Day"},
		{Date: "2026-01-26", Name: "Republic Day"},
	} {
		_, err := svc.CreateHoliday(ctx, admin, req)
		require.NoError(t, err)
	}

	holidays, err := svc.ListHolidays(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "2025-01-26", holidays[0].Date)
	assert.Equal(t, "Gandhi Jayanti", holidays[1].Name)
}

func TestHolidayService_CreateHoliday_Errors(t *testing.T) {
	svc := NewHolidayService(memory.NewStore().Holidays())
	ctx := context.Background()

	_, err := svc.CreateHoliday(ctx, admin, holiday.CreateHolidayRequest{Date: "2025-08-15", Name: "Independence Day"})
	require.NoError(t, err)

	_, err = svc.CreateHoliday(ctx, admin, holiday.CreateHolidayRequest{Date: "2025-08-15", Name: "Duplicate"})
	assert.ErrorIs(t, err, holiday.ErrHolidayExists)

	_, err = svc.CreateHoliday(ctx, admin, holiday.CreateHolidayRequest{Date: "15/08/2025"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
	assert.Contains(t, verrs.ToMap(), "name")

	employeeID := "emp-1"
	actor := auth.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &employeeID}
	_, err = svc.CreateHoliday(ctx, actor, holiday.CreateHolidayRequest{Date: "2025-11-01", Name: "Diwali"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}
