package payroll

import "errors"

var (
	ErrInvalidPeriod          = errors.New("invalid payroll period")
	ErrPeriodNotFound         = errors.New("payroll period not found")
	ErrPeriodLocked           = errors.New("payroll period is approved or paid and cannot be reprocessed")
	ErrInvalidTransition      = errors.New("invalid payroll period transition")
	ErrPayrollRecordNotFound  = errors.New("payroll record not found")
	ErrSlipNotFound           = errors.New("salary slip not found")
	ErrMissingSalaryStructure = errors.New("employee has no salary structure")
	ErrMalformedStructure     = errors.New("salary structure is malformed")
)
