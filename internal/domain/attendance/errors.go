package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrFutureDate         = errors.New("attendance cannot be marked for a future date")
	ErrPeriodClosed       = errors.New("attendance date falls in an approved or paid payroll period")
	ErrInvalidDateRange   = errors.New("end_date must not be before start_date")
)
