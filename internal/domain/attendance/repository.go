package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert inserts or overwrites the record keyed by (employee, date).
	Upsert(ctx context.Context, r Record) (Record, error)
	ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Record, int64, error)
}

// PeriodGuard reports whether a date belongs to a payroll period that no
// longer accepts attendance changes.
type PeriodGuard interface {
	IsDateLocked(ctx context.Context, date time.Time) (bool, error)
}

// LeaveSource supplies approved leave spans overlapping a range.
type LeaveSource interface {
	ApprovedSpans(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveSpan, error)
}
