package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)
	// Decide applies the decision only while the row is still pending and
	// returns ErrLeaveAlreadyDecided otherwise.
	Decide(ctx context.Context, l Leave) (Leave, error)
	// HasOverlap reports a pending or approved leave of the employee
	// intersecting [start, end].
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	ListApprovedBetween(ctx context.Context, employeeID string, start, end time.Time) ([]Leave, error)
}
