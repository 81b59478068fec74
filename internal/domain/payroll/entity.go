package payroll

import (
	"fmt"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

type PeriodStatus string

const (
	PeriodStatusDraft     PeriodStatus = "draft"
	PeriodStatusProcessed PeriodStatus = "processed"
	PeriodStatusApproved  PeriodStatus = "approved"
	PeriodStatusPaid      PeriodStatus = "paid"
)

// Period is one calendar month of payroll, unique by (Year, Month).
type Period struct {
	ID          string
	Year        int
	Month       int
	Status      PeriodStatus
	ProcessedAt *time.Time
	ProcessedBy *string
	ApprovedAt  *time.Time
	ApprovedBy  *string
	PaymentDate *time.Time
	PaidBy      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Label formats the period as YYYY-MM.
func (p Period) Label() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p Period) Range() (time.Time, time.Time) {
	return MonthRange(p.Year, p.Month)
}

// IsLocked reports whether records of the period are frozen.
func (p Period) IsLocked() bool {
	return p.Status == PeriodStatusApproved || p.Status == PeriodStatusPaid
}

// Record is the computed payroll of one employee for one period. Components
// are copied from the salary structure at processing time; the totals are
// derived by Recompute and never set directly.
type Record struct {
	ID          string
	EmployeeID  string
	PeriodID    string
	WorkingDays int
	PresentDays int
	AbsentDays  int
	LeaveDays   int
	HalfDays    int
	WFHDays     int

	Earnings   salary.Earnings
	Deductions salary.Deductions

	LedgerDeductions decimal.Decimal
	DeductionsDetail map[string]decimal.Decimal

	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for listings
	EmployeeCode *string
	EmployeeName *string
	PeriodYear   *int
	PeriodMonth  *int
}

// Recompute derives gross, total deductions and net from the components.
func (r Record) Recompute() Record {
	r.GrossSalary = r.Earnings.Total()
	r.TotalDeductions = r.Deductions.Total().Add(r.LedgerDeductions)
	r.NetSalary = r.GrossSalary.Sub(r.TotalDeductions)
	return r
}

// Slip is the write-once statement issued for a record.
type Slip struct {
	ID            string
	RecordID      string
	SlipNumber    string
	PDFGenerated  bool
	PDFPath       *string
	GeneratedDate *time.Time
	CreatedAt     time.Time
}

// SlipNumber builds the stable slip number SLIP-<YYYY-MM>-<employeeCode>.
func SlipNumber(p Period, employeeCode string) string {
	return "SLIP-" + p.Label() + "-" + employeeCode
}

const SkipReasonMissingSalaryStructure = "missing_salary_structure"

type SkippedEmployee struct {
	EmployeeID   string
	EmployeeCode string
	Reason       string
}

type FailedEmployee struct {
	EmployeeID   string
	EmployeeCode string
	Err          error
}

// RunSummary is the outcome of one processing run.
type RunSummary struct {
	Period    Period
	Processed int
	Skipped   []SkippedEmployee
	Failed    []FailedEmployee
}
