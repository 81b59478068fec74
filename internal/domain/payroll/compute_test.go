package payroll

import (
	"errors"
	"testing"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func e001Structure() salary.Structure {
	return salary.Structure{
		EmployeeID: "e001",
		Earnings: salary.Earnings{
			Basic:      dec("25000"),
			HRA:        dec("5000"),
			DA:         dec("3000"),
			Conveyance: dec("1500"),
			Medical:    dec("1000"),
		},
		Deductions: salary.Deductions{
			PF:        dec("2250"),
			ESI:       dec("800"),
			IncomeTax: dec("2000"),
		},
	}
}

func TestBuildRecord_E001January2025(t *testing.T) {
	// Setup
	period := Period{ID: "p-2025-01", Year: 2025, Month: 1, Status: PeriodStatusDraft}
	in := RecordInput{
		EmployeeID:  "e001",
		Period:      period,
		Structure:   e001Structure(),
		Attendance:  attendance.Summary{Present: 20, Absent: 2},
		WorkingDays: StandardWorkingDays,
	}

	// Act
	rec, applied, err := BuildRecord(in)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, "35500.00", rec.GrossSalary.StringFixed(2))
	assert.Equal(t, "5050.00", rec.TotalDeductions.StringFixed(2))
	assert.Equal(t, "30450.00", rec.NetSalary.StringFixed(2))
	assert.Equal(t, 22, rec.WorkingDays)
	assert.Equal(t, 20, rec.PresentDays)
	assert.Equal(t, 2, rec.AbsentDays)
	assert.Equal(t, "p-2025-01", rec.PeriodID)
}

func TestBuildRecord_FoldsLedgerDeductions(t *testing.T) {
	// Setup
	installments := 3
	period := Period{ID: "p", Year: 2025, Month: 2}
	in := RecordInput{
		EmployeeID: "e001",
		Period:     period,
		Structure:  e001Structure(),
		Deductions: []deduction.Deduction{
			{
				ID:                   "loan",
				Type:                 deduction.TypeLoan,
				Amount:               dec("3000"),
				Description:          "bicycle",
				FromDate:             date("2025-01-01"),
				ToDate:               date("2025-12-31"),
				NumberOfInstallments: &installments,
				IsActive:             true,
			},
			{
				ID:       "fine",
				Type:     deduction.TypeFine,
				Amount:   dec("150"),
				FromDate: date("2025-02-14"),
				ToDate:   date("2025-02-14"),
				IsActive: true,
			},
			{
				ID:       "old-fine",
				Type:     deduction.TypeFine,
				Amount:   dec("999"),
				FromDate: date("2025-01-10"),
				ToDate:   date("2025-03-10"),
				IsActive: true,
			},
		},
	}

	// Act
	rec, applied, err := BuildRecord(in)

	// Assert
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, 2, applied[0].InstallmentNumber)
	assert.Equal(t, "1150.00", rec.LedgerDeductions.StringFixed(2))
	assert.Equal(t, "6200.00", rec.TotalDeductions.StringFixed(2))
	assert.Equal(t, "29300.00", rec.NetSalary.StringFixed(2))
	assert.Equal(t, "1000.00", rec.DeductionsDetail["LOAN: bicycle"].StringFixed(2))
	assert.Equal(t, "150.00", rec.DeductionsDetail["FINE"].StringFixed(2))
}

func TestBuildRecord_MalformedStructure(t *testing.T) {
	// Setup
	s := e001Structure()
	s.Deductions.ESI = dec("-1")

	// Act
	_, _, err := BuildRecord(RecordInput{EmployeeID: "e001", Period: Period{Year: 2025, Month: 1}, Structure: s})

	// Assert
	assert.True(t, errors.Is(err, ErrMalformedStructure))
}

func TestRecord_Recompute_HoldsInvariant(t *testing.T) {
	rec := Record{
		Earnings:         salary.Earnings{Basic: dec("1000.10"), HRA: dec("200.20"), OtherAllowances: dec("0.05")},
		Deductions:       salary.Deductions{PF: dec("120.01"), OtherDeductions: dec("3.33")},
		LedgerDeductions: dec("50"),
		GrossSalary:      dec("1"),
		NetSalary:        dec("999999"),
	}

	rec = rec.Recompute()

	assert.True(t, rec.GrossSalary.Equal(dec("1200.35")))
	assert.True(t, rec.TotalDeductions.Equal(dec("173.34")))
	assert.True(t, rec.NetSalary.Equal(rec.GrossSalary.Sub(rec.TotalDeductions)))
}

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{"january", 2025, 1, false},
		{"december", 2025, 12, false},
		{"month zero", 2025, 0, true},
		{"month thirteen", 2025, 13, true},
		{"two digit year", 25, 1, true},
		{"five digit year", 10000, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.year, tt.month)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, 12)
	assert.Equal(t, date("2024-12-01"), start)
	assert.Equal(t, date("2024-12-31"), end)

	start, end = MonthRange(2024, 2)
	assert.Equal(t, date("2024-02-01"), start)
	assert.Equal(t, date("2024-02-29"), end)
}

func TestCalendarWorkingDays(t *testing.T) {
	start, end := MonthRange(2025, 1)

	// January 2025 has 23 weekdays.
	assert.Equal(t, 23, CalendarWorkingDays(start, end, nil))

	holidays := []time.Time{
		date("2025-01-01"), // Wednesday
		date("2025-01-26"), // Sunday, already off
	}
	assert.Equal(t, 22, CalendarWorkingDays(start, end, holidays))
}

func TestSlipNumber(t *testing.T) {
	p := Period{Year: 2025, Month: 3}
	assert.Equal(t, "SLIP-2025-03-EMP001", SlipNumber(p, "EMP001"))
}
