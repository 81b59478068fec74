package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/payroll"
)

type periodRepository struct{ s *Store }

func (s *Store) Periods() payroll.PeriodRepository { return periodRepository{s} }

func (r periodRepository) GetOrCreate(ctx context.Context, year, month int) (payroll.Period, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.periods {
		if p.Year == year && p.Month == month {
			return p, nil
		}
	}
	p := payroll.Period{
		ID:        newID(),
		Year:      year,
		Month:     month,
		Status:    payroll.PeriodStatusDraft,
		CreatedAt: now(),
	}
	p.UpdatedAt = p.CreatedAt
	r.s.periods[p.ID] = p
	return p, nil
}

func (r periodRepository) GetByID(ctx context.Context, id string) (payroll.Period, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

// GetForShare reads the period under the store lock; writes through Save
// are already serialized by it.
func (r periodRepository) GetForShare(ctx context.Context, id string) (payroll.Period, error) {
	return r.GetByID(ctx, id)
}

func (r periodRepository) List(ctx context.Context) ([]payroll.Period, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sortedValues(r.s.periods, func(a, b payroll.Period) bool {
		return a.Year*100+a.Month > b.Year*100+b.Month
	}), nil
}

func (r periodRepository) Save(ctx context.Context, p payroll.Period, from payroll.PeriodStatus) (payroll.Period, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.periods[p.ID]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	if stored.Status != from {
		return payroll.Period{}, payroll.ErrInvalidTransition
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = now()
	r.s.periods[p.ID] = p
	return p, nil
}

func (r periodRepository) Lock(ctx context.Context, year, month int) (func(), error) {
	r.s.lockMu.Lock()
	m, ok := r.s.locks[year*100+month]
	if !ok {
		m = &sync.Mutex{}
		r.s.locks[year*100+month] = m
	}
	r.s.lockMu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

func (r periodRepository) IsDateLocked(ctx context.Context, date time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.periods {
		if p.Year == date.Year() && p.Month == int(date.Month()) {
			return p.IsLocked(), nil
		}
	}
	return false, nil
}

type recordRepository struct{ s *Store }

func (s *Store) Records() payroll.RecordRepository { return recordRepository{s} }

// decorate must be called with s.mu held.
func (r recordRepository) decorate(rec payroll.Record) payroll.Record {
	rec.EmployeeCode, rec.EmployeeName = r.s.employeeLabel(rec.EmployeeID)
	if p, ok := r.s.periods[rec.PeriodID]; ok {
		year, month := p.Year, p.Month
		rec.PeriodYear, rec.PeriodMonth = &year, &month
	}
	return rec
}

func (r recordRepository) Upsert(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec.ID = ""
	rec.CreatedAt = now()
	for _, old := range r.s.records {
		if old.EmployeeID == rec.EmployeeID && old.PeriodID == rec.PeriodID {
			rec.ID = old.ID
			rec.CreatedAt = old.CreatedAt
			break
		}
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	rec.UpdatedAt = now()
	rec.EmployeeCode, rec.EmployeeName, rec.PeriodYear, rec.PeriodMonth = nil, nil, nil, nil
	r.s.records[rec.ID] = rec
	return r.decorate(rec), nil
}

func (r recordRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrPayrollRecordNotFound
	}
	return r.decorate(rec), nil
}

func (r recordRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID, periodID string) (payroll.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.records {
		if rec.EmployeeID == employeeID && rec.PeriodID == periodID {
			return r.decorate(rec), nil
		}
	}
	return payroll.Record{}, payroll.ErrPayrollRecordNotFound
}

func (r recordRepository) List(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []payroll.Record
	for _, rec := range r.s.records {
		if filter.PeriodID != nil && rec.PeriodID != *filter.PeriodID {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, r.decorate(rec))
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(records []payroll.Record) {
	key := func(rec payroll.Record) (int, string) {
		period, code := 0, ""
		if rec.PeriodYear != nil && rec.PeriodMonth != nil {
			period = *rec.PeriodYear*100 + *rec.PeriodMonth
		}
		if rec.EmployeeCode != nil {
			code = *rec.EmployeeCode
		}
		return period, code
	}
	sort.Slice(records, func(i, j int) bool {
		pi, ci := key(records[i])
		pj, cj := key(records[j])
		if pi != pj {
			return pi > pj
		}
		return ci < cj
	})
}

func (r recordRepository) ReplaceAppliedDeductions(ctx context.Context, recordID string, applied []deduction.Applied) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.applied[recordID] = append([]deduction.Applied(nil), applied...)
	return nil
}

func (r recordRepository) ListAppliedDeductionsByPeriod(ctx context.Context, periodID string) ([]deduction.Applied, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []deduction.Applied
	for recordID, applied := range r.s.applied {
		if rec, ok := r.s.records[recordID]; ok && rec.PeriodID == periodID {
			out = append(out, applied...)
		}
	}
	return out, nil
}

type slipRepository struct{ s *Store }

func (s *Store) Slips() payroll.SlipRepository { return slipRepository{s} }

func (r slipRepository) Ensure(ctx context.Context, recordID, slipNumber string) (payroll.Slip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, s := range r.s.slips {
		if s.RecordID == recordID {
			return s, nil
		}
	}
	s := payroll.Slip{
		ID:         newID(),
		RecordID:   recordID,
		SlipNumber: slipNumber,
		CreatedAt:  now(),
	}
	r.s.slips[s.ID] = s
	return s, nil
}

func (r slipRepository) GetByID(ctx context.Context, id string) (payroll.Slip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	s, ok := r.s.slips[id]
	if !ok {
		return payroll.Slip{}, payroll.ErrSlipNotFound
	}
	return s, nil
}

func (r slipRepository) GetByRecordID(ctx context.Context, recordID string) (payroll.Slip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, s := range r.s.slips {
		if s.RecordID == recordID {
			return s, nil
		}
	}
	return payroll.Slip{}, payroll.ErrSlipNotFound
}

func (r slipRepository) MarkGenerated(ctx context.Context, id, path string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s, ok := r.s.slips[id]
	if !ok {
		return payroll.ErrSlipNotFound
	}
	s.PDFGenerated = true
	s.PDFPath = &path
	s.GeneratedDate = &at
	r.s.slips[id] = s
	return nil
}

func (r slipRepository) ListPending(ctx context.Context, limit int) ([]payroll.Slip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []payroll.Slip
	for _, s := range r.s.slips {
		if s.PDFGenerated {
			continue
		}
		rec, ok := r.s.records[s.RecordID]
		if !ok {
			continue
		}
		if p, ok := r.s.periods[rec.PeriodID]; ok && p.IsLocked() {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlipNumber < out[j].SlipNumber })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
