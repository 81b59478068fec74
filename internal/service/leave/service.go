package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/leave"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leaveRepo    leave.LeaveRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewLeaveService(leaveRepo leave.LeaveRepository, employeeRepo employee.EmployeeRepository) leave.LeaveService {
	return &LeaveServiceImpl{
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// CreateLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeave(ctx context.Context, actor auth.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	employeeID, err := s.resolveApplicant(actor, req.EmployeeID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return leave.LeaveResponse{}, err
	}

	newLeave := req.ToLeave(employeeID)
	overlap, err := s.leaveRepo.HasOverlap(ctx, employeeID, newLeave.StartDate, newLeave.EndDate)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if overlap {
		return leave.LeaveResponse{}, leave.ErrOverlappingLeave
	}

	created, err := s.leaveRepo.Create(ctx, newLeave)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("leave requested",
		"leave_id", created.ID,
		"employee_id", employeeID,
		"type", created.Type,
		"days", created.NumberOfDays(),
	)
	return leave.NewLeaveResponse(created), nil
}

// resolveApplicant picks the employee a request is filed for. Employees
// may only file for themselves.
func (s *LeaveServiceImpl) resolveApplicant(actor auth.Actor, requested string) (string, error) {
	if actor.IsAdmin() {
		if requested != "" {
			return requested, nil
		}
		if actor.EmployeeID != nil {
			return *actor.EmployeeID, nil
		}
		return "", validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}}
	}

	if actor.EmployeeID == nil {
		return "", auth.ErrNoEmployeeProfile
	}
	if requested != "" && requested != *actor.EmployeeID {
		return "", auth.ErrForbidden
	}
	return *actor.EmployeeID, nil
}

// GetLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeave(ctx context.Context, actor auth.Actor, id string) (leave.LeaveResponse, error) {
	l, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !actor.CanAccessEmployee(l.EmployeeID) {
		return leave.LeaveResponse{}, auth.ErrForbidden
	}
	return leave.NewLeaveResponse(l), nil
}

// ListLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaves(ctx context.Context, actor auth.Actor, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if !actor.IsAdmin() {
		if actor.EmployeeID == nil {
			return leave.ListLeaveResponse{}, auth.ErrNoEmployeeProfile
		}
		filter.EmployeeID = actor.EmployeeID
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	leaves, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, leave.NewLeaveResponse(l))
	}

	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Leaves:     responses,
	}, nil
}

// ApproveLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveLeave(ctx context.Context, actor auth.Actor, id string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	current, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	decided, err := current.Decide(leave.Decision(req.Decision), actor.UserID, s.now().UTC())
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	saved, err := s.leaveRepo.Decide(ctx, decided)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("leave decided",
		"leave_id", saved.ID,
		"employee_id", saved.EmployeeID,
		"status", saved.Status,
		"by", actor.UserID,
	)
	return leave.NewLeaveResponse(saved), nil
}

// ApprovedLeaveSource exposes approved leaves to attendance aggregation.
type ApprovedLeaveSource struct {
	Repo leave.LeaveRepository
}

func (a ApprovedLeaveSource) ApprovedSpans(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.LeaveSpan, error) {
	leaves, err := a.Repo.ListApprovedBetween(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	spans := make([]attendance.LeaveSpan, 0, len(leaves))
	for _, l := range leaves {
		spans = append(spans, attendance.LeaveSpan{Start: l.StartDate, End: l.EndDate})
	}
	return spans, nil
}
