package employee

import (
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode      string  `json:"employee_code" validate:"required"`
	FirstName         string  `json:"first_name" validate:"required,max=100"`
	LastName          string  `json:"last_name" validate:"max=100"`
	Email             string  `json:"email" validate:"required,email"`
	PhoneNumber       string  `json:"phone_number"`
	Gender            string  `json:"gender" validate:"required,oneof=M F O"`
	DateOfBirth       *string `json:"date_of_birth,omitempty"`
	Address           *string `json:"address,omitempty"`
	DepartmentID      *string `json:"department_id,omitempty"`
	Designation       string  `json:"designation" validate:"required,max=100"`
	DateOfJoining     string  `json:"date_of_joining" validate:"required"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	IFSCCode          *string `json:"ifsc_code,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.EmployeeCode = strings.ToUpper(strings.TrimSpace(r.EmployeeCode))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	errs := validator.Struct(r)

	if r.EmployeeCode != "" && !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code must look like EMP001")
	}
	if r.PhoneNumber != "" && !validator.IsValidPhoneNumber(r.PhoneNumber) {
		errs.Add("phone_number", "phone_number must be 10-15 digits")
	}
	if r.DateOfJoining != "" {
		if _, ok := validator.IsValidDate(r.DateOfJoining); !ok {
			errs.Add("date_of_joining", "date_of_joining must be in YYYY-MM-DD format")
		}
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		}
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}

	return errs.Err()
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Email             *string `json:"email,omitempty"`
	PhoneNumber       *string `json:"phone_number,omitempty"`
	Address           *string `json:"address,omitempty"`
	DepartmentID      *string `json:"department_id,omitempty"`
	Designation       *string `json:"designation,omitempty"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	IFSCCode          *string `json:"ifsc_code,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name must not be empty")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.PhoneNumber != nil && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs.Add("phone_number", "phone_number must be 10-15 digits")
	}
	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}
	if r.Designation != nil && validator.IsEmpty(*r.Designation) {
		errs.Add("designation", "designation must not be empty")
	}

	return errs.Err()
}

// Apply copies the non-nil fields onto e.
func (r UpdateEmployeeRequest) Apply(e Employee) Employee {
	if r.FirstName != nil {
		e.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		e.LastName = *r.LastName
	}
	if r.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.PhoneNumber != nil {
		e.PhoneNumber = *r.PhoneNumber
	}
	if r.Address != nil {
		e.Address = r.Address
	}
	if r.DepartmentID != nil {
		e.DepartmentID = r.DepartmentID
	}
	if r.Designation != nil {
		e.Designation = *r.Designation
	}
	if r.BankName != nil {
		e.BankName = r.BankName
	}
	if r.BankAccountNumber != nil {
		e.BankAccountNumber = r.BankAccountNumber
	}
	if r.IFSCCode != nil {
		e.IFSCCode = r.IFSCCode
	}
	return e
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended retired"`
}

func (r *ChangeStatusRequest) Validate() error {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	return validator.Struct(r).Err()
}

type EmployeeFilter struct {
	Search       *string
	DepartmentID *string
	Status       *string

	Page  int
	Limit int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: active, inactive, suspended, retired")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID                string  `json:"id"`
	EmployeeCode      string  `json:"employee_code"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	PhoneNumber       string  `json:"phone_number"`
	Gender            string  `json:"gender"`
	DateOfBirth       *string `json:"date_of_birth,omitempty"`
	Address           *string `json:"address,omitempty"`
	DepartmentID      *string `json:"department_id,omitempty"`
	DepartmentName    *string `json:"department_name,omitempty"`
	Designation       string  `json:"designation"`
	DateOfJoining     string  `json:"date_of_joining"`
	Status            string  `json:"status"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	IFSCCode          *string `json:"ifsc_code,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                e.ID,
		EmployeeCode:      e.EmployeeCode,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		FullName:          e.FullName(),
		Email:             e.Email,
		PhoneNumber:       e.PhoneNumber,
		Gender:            string(e.Gender),
		Address:           e.Address,
		DepartmentID:      e.DepartmentID,
		DepartmentName:    e.DepartmentName,
		Designation:       e.Designation,
		DateOfJoining:     e.DateOfJoining.Format(validator.DateLayout),
		Status:            string(e.Status),
		BankName:          e.BankName,
		BankAccountNumber: e.BankAccountNumber,
		IFSCCode:          e.IFSCCode,
		CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         e.UpdatedAt.Format(time.RFC3339),
	}
	if e.DateOfBirth != nil {
		dob := e.DateOfBirth.Format(validator.DateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r).Err()
}

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}
