package deduction

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeLoan       Type = "LOAN"
	TypeAdvance    Type = "ADVANCE"
	TypeFine       Type = "FINE"
	TypeAdjustment Type = "ADJUSTMENT"
	TypeOther      Type = "OTHER"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeLoan, TypeAdvance, TypeFine, TypeAdjustment, TypeOther:
		return true
	}
	return false
}

// Deduction is a ledger entry layered on top of the salary structure. A
// deduction without installments is taken once, in the month of FromDate.
type Deduction struct {
	ID                   string
	EmployeeID           string
	Type                 Type
	Amount               decimal.Decimal
	Description          string
	FromDate             time.Time
	ToDate               time.Time
	NumberOfInstallments *int
	MonthlyInstallment   *decimal.Decimal
	// PaidInstallments lists the installment numbers settled by a paid
	// period, ascending. InstallmentsPaid is its length.
	PaidInstallments []int
	InstallmentsPaid int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (d Deduction) IsInstallment() bool {
	return d.NumberOfInstallments != nil && *d.NumberOfInstallments > 0
}

// Installments returns the total number of installments, 1 for one-off entries.
func (d Deduction) Installments() int {
	if d.IsInstallment() {
		return *d.NumberOfInstallments
	}
	return 1
}

// IsInstallmentPaid reports whether installment number was settled.
func (d Deduction) IsInstallmentPaid(number int) bool {
	return slices.Contains(d.PaidInstallments, number)
}

// MarkInstallmentPaid records number as settled and deactivates d once
// every installment is paid. Marking an installment twice is a no-op.
func (d Deduction) MarkInstallmentPaid(number int) Deduction {
	if !d.IsInstallmentPaid(number) {
		d.PaidInstallments = append(slices.Clone(d.PaidInstallments), number)
		slices.Sort(d.PaidInstallments)
	}
	d.InstallmentsPaid = len(d.PaidInstallments)
	if d.InstallmentsPaid >= d.Installments() {
		d.IsActive = false
	}
	return d
}

func (d Deduction) installmentSize() decimal.Decimal {
	if d.MonthlyInstallment != nil && d.MonthlyInstallment.IsPositive() {
		return *d.MonthlyInstallment
	}
	return d.Amount.DivRound(decimal.NewFromInt(int64(d.Installments())), 2)
}

// Applied is a deduction amount taken in one payroll period.
type Applied struct {
	DeductionID       string
	Type              Type
	Description       string
	Amount            decimal.Decimal
	InstallmentNumber int
}

// Label is the key used in the record's deduction breakdown.
func (a Applied) Label() string {
	if a.Description != "" {
		return string(a.Type) + ": " + a.Description
	}
	return string(a.Type)
}

// ForPeriod returns the amount of d that falls into the month starting at
// periodStart. The k-th month after FromDate takes installment k+1 unless
// that installment was already paid; the last installment is capped at the
// remaining balance.
func (d Deduction) ForPeriod(periodStart, periodEnd time.Time) (Applied, bool) {
	if !d.IsActive || d.Amount.Sign() <= 0 {
		return Applied{}, false
	}
	if d.FromDate.After(periodEnd) || d.ToDate.Before(periodStart) {
		return Applied{}, false
	}

	offset := monthsBetween(d.FromDate, periodStart)
	if offset < 0 {
		return Applied{}, false
	}
	number := offset + 1
	if number > d.Installments() || d.IsInstallmentPaid(number) {
		return Applied{}, false
	}

	size := d.installmentSize()
	remaining := d.Amount.Sub(size.Mul(decimal.NewFromInt(int64(number - 1))))
	if remaining.Sign() <= 0 {
		return Applied{}, false
	}
	amount := size
	if number == d.Installments() || remaining.LessThan(size) {
		amount = remaining
	}

	return Applied{
		DeductionID:       d.ID,
		Type:              d.Type,
		Description:       d.Description,
		Amount:            amount,
		InstallmentNumber: number,
	}, true
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
