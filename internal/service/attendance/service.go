package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	periodGuard    attendance.PeriodGuard
	leaveSource    attendance.LeaveSource
	now            func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock overrides the clock used to reject future dates.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) {
		s.now = now
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	periodGuard attendance.PeriodGuard,
	leaveSource attendance.LeaveSource,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		periodGuard:    periodGuard,
		leaveSource:    leaveSource,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, actor auth.Actor, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.checkDate(ctx, req.ParsedDate()); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := s.mark(ctx, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(rec), nil
}

// BulkMark implements attendance.AttendanceService. Entries fail
// independently; the date itself is checked once.
func (s *AttendanceServiceImpl) BulkMark(ctx context.Context, actor auth.Actor, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return attendance.BulkMarkResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.BulkMarkResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)
	if err := s.checkDate(ctx, date); err != nil {
		return attendance.BulkMarkResponse{}, err
	}

	resp := attendance.BulkMarkResponse{Date: req.Date}
	for i := range req.Entries {
		entry := req.Request(i)
		err := entry.Validate()
		if err == nil {
			_, err = s.mark(ctx, entry)
		}
		if err != nil {
			resp.ErrorCount++
			resp.Errors = append(resp.Errors, attendance.BulkMarkError{
				EmployeeID: entry.EmployeeID,
				Error:      err.Error(),
			})
			continue
		}
		resp.SuccessCount++
	}

	slog.Info("bulk attendance marked",
		"date", req.Date,
		"success", resp.SuccessCount,
		"failed", resp.ErrorCount,
		"by", actor.UserID,
	)
	return resp, nil
}

// checkDate rejects future dates and dates inside a locked payroll period.
func (s *AttendanceServiceImpl) checkDate(ctx context.Context, date time.Time) error {
	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return attendance.ErrFutureDate
	}

	locked, err := s.periodGuard.IsDateLocked(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to check payroll period: %w", err)
	}
	if locked {
		return attendance.ErrPeriodClosed
	}
	return nil
}

func (s *AttendanceServiceImpl) mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.Record, error) {
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.Record{}, err
	}
	return s.attendanceRepo.Upsert(ctx, req.ToRecord())
}

// ListAttendance implements attendance.AttendanceService. Employees only
// see their own records.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, actor auth.Actor, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if !actor.IsAdmin() {
		if actor.EmployeeID == nil {
			return attendance.ListAttendanceResponse{}, auth.ErrNoEmployeeProfile
		}
		filter.EmployeeID = actor.EmployeeID
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}

	return attendance.ListAttendanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, actor auth.Actor, employeeID string, start, end time.Time) (attendance.SummaryResponse, error) {
	if !actor.CanAccessEmployee(employeeID) {
		return attendance.SummaryResponse{}, auth.ErrForbidden
	}
	if end.Before(start) {
		return attendance.SummaryResponse{}, attendance.ErrInvalidDateRange
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.SummaryResponse{}, err
	}

	summary, err := s.Aggregate(ctx, employeeID, start, end)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return attendance.SummaryResponse{
		EmployeeID:   employeeID,
		StartDate:    start.Format(validator.DateLayout),
		EndDate:      end.Format(validator.DateLayout),
		Present:      summary.Present,
		Absent:       summary.Absent,
		Leave:        summary.Leave,
		HalfDay:      summary.HalfDay,
		WorkFromHome: summary.WorkFromHome,
	}, nil
}

// Aggregate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Aggregate(ctx context.Context, employeeID string, start, end time.Time) (attendance.Summary, error) {
	records, err := s.attendanceRepo.ListByEmployeeBetween(ctx, employeeID, start, end)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	var spans []attendance.LeaveSpan
	if s.leaveSource != nil {
		spans, err = s.leaveSource.ApprovedSpans(ctx, employeeID, start, end)
		if err != nil {
			return attendance.Summary{}, fmt.Errorf("failed to load approved leaves: %w", err)
		}
	}

	return attendance.Aggregate(records, spans, start, end), nil
}
