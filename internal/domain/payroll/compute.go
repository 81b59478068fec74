package payroll

import (
	"fmt"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// StandardWorkingDays is the fixed working-day count of a month.
const StandardWorkingDays = 22

type WorkingDaysMode string

const (
	WorkingDaysFixed    WorkingDaysMode = "fixed"
	WorkingDaysCalendar WorkingDaysMode = "calendar"
)

// ValidatePeriod accepts months 1-12 of four-digit years.
func ValidatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d is out of range", ErrInvalidPeriod, month)
	}
	if year < 1900 || year > 9999 {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalidPeriod, year)
	}
	return nil
}

// MonthRange returns the first and last day of the month, inclusive.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// CalendarWorkingDays counts Monday-Friday dates in [start, end] that are not holidays.
func CalendarWorkingDays(start, end time.Time, holidays []time.Time) int {
	off := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		off[h.Format(time.DateOnly)] = struct{}{}
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if _, ok := off[d.Format(time.DateOnly)]; ok {
			continue
		}
		days++
	}
	return days
}

// RecordInput is everything needed to compute one employee's record.
type RecordInput struct {
	EmployeeID  string
	Period      Period
	Structure   salary.Structure
	Attendance  attendance.Summary
	WorkingDays int
	Deductions  []deduction.Deduction
}

// BuildRecord snapshots the structure and the applicable ledger deductions
// into a recomputed record. It is a pure function of its input.
func BuildRecord(in RecordInput) (Record, []deduction.Applied, error) {
	if err := in.Structure.Check(); err != nil {
		return Record{}, nil, fmt.Errorf("%w: %v", ErrMalformedStructure, err)
	}

	start, end := in.Period.Range()
	var applied []deduction.Applied
	ledger := decimal.Zero
	detail := make(map[string]decimal.Decimal)
	for _, d := range in.Deductions {
		a, ok := d.ForPeriod(start, end)
		if !ok {
			continue
		}
		applied = append(applied, a)
		ledger = ledger.Add(a.Amount)
		detail[a.Label()] = detail[a.Label()].Add(a.Amount)
	}

	rec := Record{
		EmployeeID:       in.EmployeeID,
		PeriodID:         in.Period.ID,
		WorkingDays:      in.WorkingDays,
		PresentDays:      in.Attendance.Present,
		AbsentDays:       in.Attendance.Absent,
		LeaveDays:        in.Attendance.Leave,
		HalfDays:         in.Attendance.HalfDay,
		WFHDays:          in.Attendance.WorkFromHome,
		Earnings:         in.Structure.Earnings,
		Deductions:       in.Structure.Deductions,
		LedgerDeductions: ledger,
		DeductionsDetail: detail,
	}
	return rec.Recompute(), applied, nil
}
