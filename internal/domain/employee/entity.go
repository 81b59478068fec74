package employee

import "time"

type Employee struct {
	ID                string
	EmployeeCode      string
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	Gender            Gender
	DateOfBirth       *time.Time
	Address           *string
	DepartmentID      *string
	DepartmentName    *string
	Designation       string
	DateOfJoining     time.Time
	Status            Status
	BankName          *string
	BankAccountNumber *string
	IFSCCode          *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Status is the employment status. Employees are never hard deleted,
// they move between statuses instead.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusRetired   Status = "retired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusRetired:
		return true
	}
	return false
}

type Department struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
}
