package attendance

import "time"

type Status string

const (
	StatusPresent        Status = "P"
	StatusAbsent         Status = "A"
	StatusOnLeave        Status = "L"
	StatusHalfDay        Status = "H"
	StatusWorkFromHome   Status = "WFH"
	StatusMaternityLeave Status = "ML"
	StatusPaternityLeave Status = "PL"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusOnLeave, StatusHalfDay,
		StatusWorkFromHome, StatusMaternityLeave, StatusPaternityLeave:
		return true
	}
	return false
}

// IsLeave groups every leave variant under one bucket.
func (s Status) IsLeave() bool {
	return s == StatusOnLeave || s == StatusMaternityLeave || s == StatusPaternityLeave
}

// Record is the attendance of one employee on one calendar date.
// (EmployeeID, Date) is unique.
type Record struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Status       Status
	CheckInTime  *string
	CheckOutTime *string
	Remarks      string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined for listings
	EmployeeCode *string
	EmployeeName *string
}
