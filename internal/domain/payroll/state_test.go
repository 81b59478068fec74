package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_FullLifecycle(t *testing.T) {
	now := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	p := Period{Year: 2025, Month: 1, Status: PeriodStatusDraft}

	p, err := p.MarkProcessed("admin", now)
	require.NoError(t, err)
	assert.Equal(t, PeriodStatusProcessed, p.Status)
	require.NotNil(t, p.ProcessedBy)
	assert.Equal(t, "admin", *p.ProcessedBy)

	// reprocessing a processed period is a correction
	p, err = p.MarkProcessed("admin", now.Add(time.Hour))
	require.NoError(t, err)

	p, err = p.Approve("approver", now)
	require.NoError(t, err)
	assert.Equal(t, PeriodStatusApproved, p.Status)

	paidOn := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	p, err = p.MarkPaid("cashier", paidOn)
	require.NoError(t, err)
	assert.Equal(t, PeriodStatusPaid, p.Status)
	assert.Equal(t, paidOn, *p.PaymentDate)
}

func TestPeriod_LockedAfterApproval(t *testing.T) {
	for _, status := range []PeriodStatus{PeriodStatusApproved, PeriodStatusPaid} {
		p := Period{Year: 2025, Month: 1, Status: status}
		_, err := p.MarkProcessed("admin", time.Now())
		assert.ErrorIs(t, err, ErrPeriodLocked)
		assert.ErrorIs(t, p.CheckProcessable(), ErrPeriodLocked)
	}
}

func TestPeriod_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from PeriodStatus
		act  func(Period) (Period, error)
	}{
		{"approve draft", PeriodStatusDraft, func(p Period) (Period, error) { return p.Approve("a", time.Now()) }},
		{"approve approved", PeriodStatusApproved, func(p Period) (Period, error) { return p.Approve("a", time.Now()) }},
		{"approve paid", PeriodStatusPaid, func(p Period) (Period, error) { return p.Approve("a", time.Now()) }},
		{"pay draft", PeriodStatusDraft, func(p Period) (Period, error) { return p.MarkPaid("a", time.Now()) }},
		{"pay processed", PeriodStatusProcessed, func(p Period) (Period, error) { return p.MarkPaid("a", time.Now()) }},
		{"pay paid", PeriodStatusPaid, func(p Period) (Period, error) { return p.MarkPaid("a", time.Now()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Period{Year: 2025, Month: 1, Status: tt.from}
			got, err := tt.act(p)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, got.Status)
		})
	}
}
