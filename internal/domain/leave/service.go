package leave

import (
	"context"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
)

type LeaveService interface {
	// CreateLeave files a request. Employees file for themselves, admins
	// for anyone.
	CreateLeave(ctx context.Context, actor auth.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetLeave(ctx context.Context, actor auth.Actor, id string) (LeaveResponse, error)
	ListLeaves(ctx context.Context, actor auth.Actor, filter LeaveFilter) (ListLeaveResponse, error)
	// ApproveLeave records the one and only decision on a pending leave.
	ApproveLeave(ctx context.Context, actor auth.Actor, id string, req DecisionRequest) (LeaveResponse, error)
}
