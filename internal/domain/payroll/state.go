package payroll

import (
	"fmt"
	"time"
)

// CheckProcessable rejects reprocessing once a period has been approved.
// Draft and Processed periods may be run again to correct records.
func (p Period) CheckProcessable() error {
	if p.IsLocked() {
		return fmt.Errorf("%w: %s is %s", ErrPeriodLocked, p.Label(), p.Status)
	}
	return nil
}

// MarkProcessed stamps a successful run.
func (p Period) MarkProcessed(by string, at time.Time) (Period, error) {
	if err := p.CheckProcessable(); err != nil {
		return p, err
	}
	p.Status = PeriodStatusProcessed
	p.ProcessedAt = &at
	p.ProcessedBy = &by
	return p, nil
}

func (p Period) Approve(by string, at time.Time) (Period, error) {
	if p.Status != PeriodStatusProcessed {
		return p, transitionError(p.Status, PeriodStatusApproved)
	}
	p.Status = PeriodStatusApproved
	p.ApprovedAt = &at
	p.ApprovedBy = &by
	return p, nil
}

func (p Period) MarkPaid(by string, paymentDate time.Time) (Period, error) {
	if p.Status != PeriodStatusApproved {
		return p, transitionError(p.Status, PeriodStatusPaid)
	}
	p.Status = PeriodStatusPaid
	p.PaymentDate = &paymentDate
	p.PaidBy = &by
	return p, nil
}

func transitionError(from, to PeriodStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
