package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidEmployeeCode = errors.New("invalid employee code format")
	ErrInvalidStatus       = errors.New("invalid employment status")
	ErrStatusUnchanged     = errors.New("employee already has this status")

	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentNameExists = errors.New("department name already exists")
)
