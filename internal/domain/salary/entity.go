package salary

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Earnings are the standing earning components of a pay template.
type Earnings struct {
	Basic           decimal.Decimal
	HRA             decimal.Decimal
	DA              decimal.Decimal
	Conveyance      decimal.Decimal
	Medical         decimal.Decimal
	OtherAllowances decimal.Decimal
}

func (e Earnings) Total() decimal.Decimal {
	return decimal.Sum(e.Basic, e.HRA, e.DA, e.Conveyance, e.Medical, e.OtherAllowances)
}

// Deductions are the standing deductions (PF, ESI, income tax) of a pay template.
type Deductions struct {
	PF              decimal.Decimal
	ESI             decimal.Decimal
	IncomeTax       decimal.Decimal
	OtherDeductions decimal.Decimal
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.PF, d.ESI, d.IncomeTax, d.OtherDeductions)
}

// Structure is the single compensation template of an employee. Saving a
// new structure overwrites the previous one; payroll records keep their own
// snapshot.
type Structure struct {
	ID         string
	EmployeeID string
	Earnings   Earnings
	Deductions Deductions
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Check returns ErrNegativeComponent naming the first negative amount.
func (s Structure) Check() error {
	components := []struct {
		name  string
		value decimal.Decimal
	}{
		{"basic_salary", s.Earnings.Basic},
		{"hra", s.Earnings.HRA},
		{"da", s.Earnings.DA},
		{"conveyance_allowance", s.Earnings.Conveyance},
		{"medical_allowance", s.Earnings.Medical},
		{"other_allowances", s.Earnings.OtherAllowances},
		{"pf_deduction", s.Deductions.PF},
		{"esi_deduction", s.Deductions.ESI},
		{"income_tax", s.Deductions.IncomeTax},
		{"other_deductions", s.Deductions.OtherDeductions},
	}
	for _, c := range components {
		if c.value.IsNegative() {
			return fmt.Errorf("%w: %s is %s", ErrNegativeComponent, c.name, c.value.StringFixed(2))
		}
	}
	return nil
}
