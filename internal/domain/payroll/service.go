package payroll

import (
	"context"
	"io"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
)

type PayrollService interface {
	// ProcessPayroll computes records and slips for every active employee.
	// Safe to repeat until the period is approved.
	ProcessPayroll(ctx context.Context, actor auth.Actor, year, month int) (RunSummary, error)
	ApprovePeriod(ctx context.Context, actor auth.Actor, periodID string) (PeriodResponse, error)
	MarkPeriodPaid(ctx context.Context, actor auth.Actor, periodID string, req MarkPaidRequest) (PeriodResponse, error)
	ListPeriods(ctx context.Context, actor auth.Actor) ([]PeriodResponse, error)
	GetPeriod(ctx context.Context, actor auth.Actor, periodID string) (PeriodResponse, error)

	GetPayrollRecord(ctx context.Context, actor auth.Actor, employeeID, periodID string) (RecordResponse, error)
	ListPayrollRecords(ctx context.Context, actor auth.Actor, filter RecordFilter) ([]RecordResponse, error)

	GetSlip(ctx context.Context, actor auth.Actor, slipID string) (SlipResponse, error)
	// OpenSlipPDF renders the slip on first use and streams the stored file.
	OpenSlipPDF(ctx context.Context, actor auth.Actor, slipID string) (io.ReadCloser, string, error)
	// GeneratePendingSlips stores PDFs for unrendered slips of approved or
	// paid periods and reports how many were written. Run by the scheduler.
	GeneratePendingSlips(ctx context.Context) (int, error)
}
