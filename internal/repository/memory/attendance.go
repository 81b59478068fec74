package memory

import (
	"context"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/leave"
)

type attendanceRepository struct{ s *Store }

func (s *Store) Attendance() attendance.AttendanceRepository { return attendanceRepository{s} }

func attendanceKey(employeeID string, date time.Time) string {
	return employeeID + "|" + dateKey(date)
}

func byDate(a, b attendance.Record) bool {
	if a.Date.Equal(b.Date) {
		return a.EmployeeID < b.EmployeeID
	}
	return a.Date.Before(b.Date)
}

func (r attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := attendanceKey(rec.EmployeeID, rec.Date)
	if old, ok := r.s.attendance[key]; ok {
		rec.ID = old.ID
		rec.CreatedAt = old.CreatedAt
	} else {
		rec.ID = newID()
		rec.CreatedAt = now()
	}
	rec.UpdatedAt = now()
	rec.EmployeeCode, rec.EmployeeName = nil, nil
	r.s.attendance[key] = rec

	rec.EmployeeCode, rec.EmployeeName = r.s.employeeLabel(rec.EmployeeID)
	return rec, nil
}

func (r attendanceRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []attendance.Record
	for _, rec := range sortedValues(r.s.attendance, byDate) {
		if rec.EmployeeID != employeeID || rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		rec.EmployeeCode, rec.EmployeeName = r.s.employeeLabel(rec.EmployeeID)
		out = append(out, rec)
	}
	return out, nil
}

func (r attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var start, end time.Time
	if filter.StartDate != nil {
		start, _ = time.Parse(time.DateOnly, *filter.StartDate)
	}
	if filter.EndDate != nil {
		end, _ = time.Parse(time.DateOnly, *filter.EndDate)
	}

	all := sortedValues(r.s.attendance, func(a, b attendance.Record) bool { return byDate(b, a) })
	var matched []attendance.Record
	for _, rec := range all {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if !start.IsZero() && rec.Date.Before(start) {
			continue
		}
		if !end.IsZero() && rec.Date.After(end) {
			continue
		}
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		rec.EmployeeCode, rec.EmployeeName = r.s.employeeLabel(rec.EmployeeID)
		matched = append(matched, rec)
	}
	return page(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

type leaveRepository struct{ s *Store }

func (s *Store) Leaves() leave.LeaveRepository { return leaveRepository{s} }

func (r leaveRepository) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l.ID = newID()
	l.CreatedAt = now()
	l.UpdatedAt = l.CreatedAt
	r.s.leaves[l.ID] = l
	l.EmployeeCode, l.EmployeeName = r.s.employeeLabel(l.EmployeeID)
	return l, nil
}

func (r leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	l.EmployeeCode, l.EmployeeName = r.s.employeeLabel(l.EmployeeID)
	return l, nil
}

func (r leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sortedValues(r.s.leaves, func(a, b leave.Leave) bool { return a.StartDate.After(b.StartDate) })
	var matched []leave.Leave
	for _, l := range all {
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(l.Status) != *filter.Status {
			continue
		}
		if filter.LeaveType != nil && string(l.Type) != *filter.LeaveType {
			continue
		}
		l.EmployeeCode, l.EmployeeName = r.s.employeeLabel(l.EmployeeID)
		matched = append(matched, l)
	}
	return page(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r leaveRepository) Decide(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.leaves[l.ID]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	if stored.Status != leave.StatusPending {
		return leave.Leave{}, leave.ErrLeaveAlreadyDecided
	}
	stored.Status = l.Status
	stored.ApprovedBy = l.ApprovedBy
	stored.ApprovalDate = l.ApprovalDate
	stored.UpdatedAt = now()
	r.s.leaves[l.ID] = stored

	stored.EmployeeCode, stored.EmployeeName = r.s.employeeLabel(stored.EmployeeID)
	return stored, nil
}

func (r leaveRepository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, l := range r.s.leaves {
		if l.EmployeeID != employeeID || l.Status == leave.StatusRejected {
			continue
		}
		if !l.StartDate.After(end) && !l.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r leaveRepository) ListApprovedBetween(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.Leave
	for _, l := range sortedValues(r.s.leaves, func(a, b leave.Leave) bool { return a.StartDate.Before(b.StartDate) }) {
		if l.EmployeeID != employeeID || l.Status != leave.StatusApproved {
			continue
		}
		if l.StartDate.After(end) || l.EndDate.Before(start) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
