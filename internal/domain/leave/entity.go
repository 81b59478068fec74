package leave

import "time"

type Type string

const (
	TypeSick      Type = "SL"
	TypeCasual    Type = "CL"
	TypeEarned    Type = "EL"
	TypeUnpaid    Type = "UL"
	TypeMaternity Type = "ML"
	TypePaternity Type = "PL"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeSick, TypeCasual, TypeEarned, TypeUnpaid, TypeMaternity, TypePaternity:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status returns the terminal status the decision leads to.
func (d Decision) Status() (Status, bool) {
	switch d {
	case DecisionApprove:
		return StatusApproved, true
	case DecisionReject:
		return StatusRejected, true
	}
	return "", false
}

type Leave struct {
	ID           string
	EmployeeID   string
	Type         Type
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       Status
	ApprovedBy   *string
	ApprovalDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined for listings
	EmployeeCode *string
	EmployeeName *string
}

// NumberOfDays is the inclusive length of the date range.
func (l Leave) NumberOfDays() int {
	start := time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(l.EndDate.Year(), l.EndDate.Month(), l.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

func (l Leave) IsDecided() bool {
	return l.Status != StatusPending
}

// Decide moves a pending leave into its terminal state.
func (l Leave) Decide(d Decision, approverID string, at time.Time) (Leave, error) {
	if l.IsDecided() {
		return l, ErrLeaveAlreadyDecided
	}
	status, ok := d.Status()
	if !ok {
		return l, ErrInvalidDecision
	}
	l.Status = status
	l.ApprovedBy = &approverID
	l.ApprovalDate = &at
	return l, nil
}
