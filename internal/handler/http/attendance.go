package http

import (
	"net/http"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/handler/http/response"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	BulkMark(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Mark implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req attendance.MarkAttendanceRequest
	if !decodeOrReject(w, r, "MarkAttendance", &req) {
		return
	}

	resp, err := h.attendanceService.MarkAttendance(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance marked successfully", resp)
}

// BulkMark implements AttendanceHandler.
func (h *AttendanceHandlerImpl) BulkMark(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req attendance.BulkMarkRequest
	if !decodeOrReject(w, r, "BulkMarkAttendance", &req) {
		return
	}

	resp, err := h.attendanceService.BulkMark(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bulk attendance processed", resp)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	filter := attendance.AttendanceFilter{
		EmployeeID: optionalQuery(r, "employee_id"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Status:     optionalQuery(r, "status"),
		Page:       positiveQueryInt(r, "page"),
		Limit:      positiveQueryInt(r, "limit"),
	}

	resp, err := h.attendanceService.ListAttendance(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Records, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: resp.TotalPages,
	})
}

// Summary implements AttendanceHandler. The range defaults to the current
// month up to today; employees default to themselves.
func (h *AttendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" && actor.EmployeeID != nil {
		employeeID = *actor.EmployeeID
	}

	var errs validator.ValidationErrors
	if employeeID == "" {
		errs.Add("employee_id", "employee_id is required")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := today
	if v := r.URL.Query().Get("start_date"); v != "" {
		parsed, ok := validator.IsValidDate(v)
		if !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
		start = parsed
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		parsed, ok := validator.IsValidDate(v)
		if !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
		end = parsed
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.GetSummary(r.Context(), actor, employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
