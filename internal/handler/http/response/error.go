package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/holiday"
	"github.com/gate-garments/hrms-backend-go/internal/domain/leave"
	"github.com/gate-garments/hrms-backend-go/internal/domain/payroll"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/storage"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountDisabled):
		Forbidden(w, "Account is disabled")
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "You are not allowed to perform this operation")
	case errors.Is(err, auth.ErrNoEmployeeProfile):
		Forbidden(w, "User has no employee profile")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already registered")
	case errors.Is(err, employee.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")
	case errors.Is(err, employee.ErrStatusUnchanged):
		Conflict(w, "Employee already has this status")

	// Salary and deduction ledger errors
	case errors.Is(err, salary.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, salary.ErrNegativeComponent):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, deduction.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")
	case errors.Is(err, deduction.ErrAlreadyInactive):
		Conflict(w, "Deduction is already inactive")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, "A holiday is already registered on this date")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrFutureDate):
		UnprocessableEntity(w, "Attendance cannot be marked for a future date")
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrPeriodClosed):
		Conflict(w, "Attendance date falls in an approved or paid payroll period")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyDecided):
		Conflict(w, "Leave request has already been decided")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "An open leave request already covers these dates")
	case errors.Is(err, leave.ErrInvalidDecision):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrSlipNotFound):
		NotFound(w, "Salary slip not found")
	case errors.Is(err, payroll.ErrPeriodLocked):
		Conflict(w, "Payroll period is approved or paid and cannot be reprocessed")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
