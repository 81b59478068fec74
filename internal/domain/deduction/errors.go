package deduction

import "errors"

var (
	ErrDeductionNotFound = errors.New("deduction not found")
	ErrInvalidDateRange  = errors.New("to_date must not be before from_date")
	ErrAlreadyInactive   = errors.New("deduction is already inactive")
)
