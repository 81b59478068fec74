package attendance

import (
	"context"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
)

type AttendanceService interface {
	// MarkAttendance upserts one (employee, date) record.
	MarkAttendance(ctx context.Context, actor auth.Actor, req MarkAttendanceRequest) (AttendanceResponse, error)
	// BulkMark marks many employees for one date and reports per-entry failures.
	BulkMark(ctx context.Context, actor auth.Actor, req BulkMarkRequest) (BulkMarkResponse, error)
	ListAttendance(ctx context.Context, actor auth.Actor, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetSummary(ctx context.Context, actor auth.Actor, employeeID string, start, end time.Time) (SummaryResponse, error)
	// Aggregate is the internal form used by payroll.
	Aggregate(ctx context.Context, employeeID string, start, end time.Time) (Summary, error)
}
