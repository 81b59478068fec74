package leave

import (
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	LeaveType  string `json:"leave_type" validate:"required,oneof=SL CL EL UL ML PL"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	Reason     string `json:"reason" validate:"required,max=1000"`

	start time.Time
	end   time.Time
}

func (r *CreateLeaveRequest) Validate() error {
	r.LeaveType = strings.ToUpper(strings.TrimSpace(r.LeaveType))
	r.Reason = strings.TrimSpace(r.Reason)
	errs := validator.Struct(r)

	var okStart, okEnd bool
	if r.StartDate != "" {
		if r.start, okStart = validator.IsValidDate(r.StartDate); !okStart {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != "" {
		if r.end, okEnd = validator.IsValidDate(r.EndDate); !okEnd {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if okStart && okEnd && r.end.Before(r.start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}

	return errs.Err()
}

// ToLeave must be called after a successful Validate.
func (r CreateLeaveRequest) ToLeave(employeeID string) Leave {
	return Leave{
		EmployeeID: employeeID,
		Type:       Type(r.LeaveType),
		StartDate:  r.start,
		EndDate:    r.end,
		Reason:     r.Reason,
		Status:     StatusPending,
	}
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

func (r *DecisionRequest) Validate() error {
	r.Decision = strings.ToLower(strings.TrimSpace(r.Decision))
	return validator.Struct(r).Err()
}

type LeaveFilter struct {
	EmployeeID *string
	Status     *string
	LeaveType  *string

	Page  int
	Limit int
}

func (f *LeaveFilter) Validate() error {
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
	if f.Status != nil {
		switch Status(*f.Status) {
		case StatusPending, StatusApproved, StatusRejected:
		default:
			errs.Add("status", "status must be one of: pending, approved, rejected")
		}
	}
	if f.LeaveType != nil && !Type(*f.LeaveType).IsValid() {
		errs.Add("leave_type", "leave_type must be one of: SL, CL, EL, UL, ML, PL")
	}

	return errs.Err()
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	NumberOfDays int     `json:"number_of_days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovalDate *string `json:"approval_date,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func NewLeaveResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeCode: l.EmployeeCode,
		EmployeeName: l.EmployeeName,
		LeaveType:    string(l.Type),
		StartDate:    l.StartDate.Format(validator.DateLayout),
		EndDate:      l.EndDate.Format(validator.DateLayout),
		NumberOfDays: l.NumberOfDays(),
		Reason:       l.Reason,
		Status:       string(l.Status),
		ApprovedBy:   l.ApprovedBy,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if l.ApprovalDate != nil {
		at := l.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &at
	}
	return resp
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Leaves     []LeaveResponse `json:"leaves"`
}
