package payroll

import (
	"context"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
)

type PeriodRepository interface {
	// GetOrCreate returns the period for (year, month), inserting a draft
	// when none exists.
	GetOrCreate(ctx context.Context, year, month int) (Period, error)
	GetByID(ctx context.Context, id string) (Period, error)
	// GetForShare reads the period and, inside a transaction, keeps its row
	// share-locked until commit so status changes wait for the writer.
	GetForShare(ctx context.Context, id string) (Period, error)
	List(ctx context.Context) ([]Period, error)
	// Save persists p only while the stored status still equals from.
	// A concurrent change yields ErrInvalidTransition.
	Save(ctx context.Context, p Period, from PeriodStatus) (Period, error)
	// Lock serializes processing of (year, month) across processes.
	// The returned func releases the lock.
	Lock(ctx context.Context, year, month int) (func(), error)
	IsDateLocked(ctx context.Context, date time.Time) (bool, error)
}

type RecordFilter struct {
	PeriodID   *string
	EmployeeID *string
}

type RecordRepository interface {
	// Upsert inserts or overwrites the record keyed by (employee, period).
	Upsert(ctx context.Context, r Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID, periodID string) (Record, error)
	List(ctx context.Context, filter RecordFilter) ([]Record, error)
	// ReplaceAppliedDeductions stores the ledger entries a record consumed.
	ReplaceAppliedDeductions(ctx context.Context, recordID string, applied []deduction.Applied) error
	ListAppliedDeductionsByPeriod(ctx context.Context, periodID string) ([]deduction.Applied, error)
}

type SlipRepository interface {
	// Ensure inserts a slip for the record unless one exists, and returns
	// the stored slip either way.
	Ensure(ctx context.Context, recordID, slipNumber string) (Slip, error)
	GetByID(ctx context.Context, id string) (Slip, error)
	GetByRecordID(ctx context.Context, recordID string) (Slip, error)
	MarkGenerated(ctx context.Context, id, path string, at time.Time) error
	// ListPending returns up to limit slips without a stored PDF whose
	// period is approved or paid.
	ListPending(ctx context.Context, limit int) ([]Slip, error)
}
