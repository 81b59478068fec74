package attendance

import (
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

const statusChoices = "P, A, L, H, WFH, ML, PL"

type MarkAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	Date         string  `json:"date" validate:"required"`
	Status       string  `json:"status" validate:"required"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Remarks      string  `json:"remarks" validate:"max=500"`

	date time.Time
}

func (r *MarkAttendanceRequest) Validate() error {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	errs := validator.Struct(r)
	validateEntry(&errs, "", r.Status, r.CheckInTime, r.CheckOutTime)

	if r.Date != "" {
		d, ok := validator.IsValidDate(r.Date)
		if !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
		r.date = d
	}

	return errs.Err()
}

// ParsedDate is valid after Validate succeeded.
func (r MarkAttendanceRequest) ParsedDate() time.Time {
	return r.date
}

func (r MarkAttendanceRequest) ToRecord() Record {
	return Record{
		EmployeeID:   r.EmployeeID,
		Date:         r.date,
		Status:       Status(r.Status),
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Remarks:      strings.TrimSpace(r.Remarks),
	}
}

type BulkEntry struct {
	EmployeeID   string  `json:"employee_id"`
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Remarks      string  `json:"remarks"`
}

type BulkMarkRequest struct {
	Date    string      `json:"date" validate:"required"`
	Entries []BulkEntry `json:"entries" validate:"required,min=1,max=1000"`
}

func (r *BulkMarkRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

// Request expands entry i into a single mark request for the bulk date.
func (r BulkMarkRequest) Request(i int) MarkAttendanceRequest {
	e := r.Entries[i]
	return MarkAttendanceRequest{
		EmployeeID:   e.EmployeeID,
		Date:         r.Date,
		Status:       e.Status,
		CheckInTime:  e.CheckInTime,
		CheckOutTime: e.CheckOutTime,
		Remarks:      e.Remarks,
	}
}

func validateEntry(errs *validator.ValidationErrors, prefix, status string, checkIn, checkOut *string) {
	if status != "" && !Status(status).IsValid() {
		errs.Add(prefix+"status", "status must be one of: "+statusChoices)
	}
	var in, out time.Time
	var okIn, okOut bool
	if checkIn != nil && *checkIn != "" {
		if in, okIn = validator.IsValidTime(*checkIn); !okIn {
			errs.Add(prefix+"check_in_time", "check_in_time must be in HH:MM format")
		}
	}
	if checkOut != nil && *checkOut != "" {
		if out, okOut = validator.IsValidTime(*checkOut); !okOut {
			errs.Add(prefix+"check_out_time", "check_out_time must be in HH:MM format")
		}
	}
	if okIn && okOut && out.Before(in) {
		errs.Add(prefix+"check_out_time", "check_out_time must not be before check_in_time")
	}
}

type BulkMarkError struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type BulkMarkResponse struct {
	Date         string          `json:"date"`
	SuccessCount int             `json:"success_count"`
	ErrorCount   int             `json:"error_count"`
	Errors       []BulkMarkError `json:"errors,omitempty"`
}

type AttendanceFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string

	Page  int
	Limit int
}

func (f *AttendanceFilter) Validate() error {
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
		f.Limit = 31
	}
	if f.Limit > 500 {
		errs.Add("limit", "limit must not exceed 500")
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: "+statusChoices)
	}

	var start, end time.Time
	var okStart, okEnd bool
	if f.StartDate != nil && *f.StartDate != "" {
		if start, okStart = validator.IsValidDate(*f.StartDate); !okStart {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if end, okEnd = validator.IsValidDate(*f.EndDate); !okEnd {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Remarks      string  `json:"remarks,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewAttendanceResponse(r Record) AttendanceResponse {
	return AttendanceResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeCode: r.EmployeeCode,
		EmployeeName: r.EmployeeName,
		Date:         r.Date.Format(validator.DateLayout),
		Status:       string(r.Status),
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Remarks:      r.Remarks,
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

type ListAttendanceResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Records    []AttendanceResponse `json:"records"`
}

type SummaryResponse struct {
	EmployeeID   string `json:"employee_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Present      int    `json:"present_days"`
	Absent       int    `json:"absent_days"`
	Leave        int    `json:"leave_days"`
	HalfDay      int    `json:"half_days"`
	WorkFromHome int    `json:"wfh_days"`
}
