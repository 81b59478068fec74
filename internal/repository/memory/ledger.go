package memory

import (
	"context"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/holiday"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
)

type structureRepository struct{ s *Store }

func (s *Store) Structures() salary.StructureRepository { return structureRepository{s} }

func (r structureRepository) GetByEmployeeID(ctx context.Context, employeeID string) (salary.Structure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.structures[employeeID]
	if !ok {
		return salary.Structure{}, salary.ErrStructureNotFound
	}
	return st, nil
}

func (r structureRepository) Upsert(ctx context.Context, st salary.Structure) (salary.Structure, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if old, ok := r.s.structures[st.EmployeeID]; ok {
		st.ID = old.ID
		st.CreatedAt = old.CreatedAt
	} else {
		st.ID = newID()
		st.CreatedAt = now()
	}
	st.UpdatedAt = now()
	r.s.structures[st.EmployeeID] = st
	return st, nil
}

type deductionRepository struct{ s *Store }

func (s *Store) Deductions() deduction.DeductionRepository { return deductionRepository{s} }

func byCreation(a, b deduction.Deduction) bool {
	if a.FromDate.Equal(b.FromDate) {
		return a.ID < b.ID
	}
	return a.FromDate.Before(b.FromDate)
}

func (r deductionRepository) Create(ctx context.Context, d deduction.Deduction) (deduction.Deduction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d.ID = newID()
	d.CreatedAt = now()
	d.UpdatedAt = d.CreatedAt
	r.s.deductions[d.ID] = d
	return d, nil
}

func (r deductionRepository) GetByID(ctx context.Context, id string) (deduction.Deduction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.deductions[id]
	if !ok {
		return deduction.Deduction{}, deduction.ErrDeductionNotFound
	}
	return d, nil
}

func (r deductionRepository) ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]deduction.Deduction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []deduction.Deduction
	for _, d := range sortedValues(r.s.deductions, byCreation) {
		if d.EmployeeID == employeeID && (!activeOnly || d.IsActive) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r deductionRepository) ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]deduction.Deduction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []deduction.Deduction
	for _, d := range sortedValues(r.s.deductions, byCreation) {
		if d.EmployeeID != employeeID || !d.IsActive {
			continue
		}
		if d.FromDate.After(end) || d.ToDate.Before(start) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r deductionRepository) Deactivate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.deductions[id]
	if !ok {
		return deduction.ErrDeductionNotFound
	}
	d.IsActive = false
	d.UpdatedAt = now()
	r.s.deductions[id] = d
	return nil
}

func (r deductionRepository) MarkInstallmentPaid(ctx context.Context, id string, number int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.deductions[id]
	if !ok {
		return deduction.ErrDeductionNotFound
	}
	d = d.MarkInstallmentPaid(number)
	d.UpdatedAt = now()
	r.s.deductions[id] = d
	return nil
}

type holidayRepository struct{ s *Store }

func (s *Store) Holidays() holiday.HolidayRepository { return holidayRepository{s} }

func (r holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := dateKey(h.Date)
	if _, ok := r.s.holidays[key]; ok {
		return holiday.Holiday{}, holiday.ErrHolidayExists
	}
	h.ID = newID()
	h.CreatedAt = now()
	r.s.holidays[key] = h
	return h, nil
}

func (r holidayRepository) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []holiday.Holiday
	for _, h := range sortedValues(r.s.holidays, func(a, b holiday.Holiday) bool { return a.Date.Before(b.Date) }) {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}
