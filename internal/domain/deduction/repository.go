package deduction

import (
	"context"
	"time"
)

type DeductionRepository interface {
	Create(ctx context.Context, d Deduction) (Deduction, error)
	GetByID(ctx context.Context, id string) (Deduction, error)
	ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]Deduction, error)
	// ListActiveInRange returns active deductions of the employee whose
	// validity overlaps [start, end].
	ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]Deduction, error)
	Deactivate(ctx context.Context, id string) error
	// MarkInstallmentPaid adds number to the paid installments and
	// deactivates the entry once every installment is paid.
	MarkInstallmentPaid(ctx context.Context, id string, number int) error
}
