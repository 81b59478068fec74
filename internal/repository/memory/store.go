// Package memory holds map-backed repositories sharing one Store. They back
// the service and handler tests and the single-binary demo mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/holiday"
	"github.com/gate-garments/hrms-backend-go/internal/domain/leave"
	"github.com/gate-garments/hrms-backend-go/internal/domain/payroll"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// Store is the shared state of every in-memory repository.
type Store struct {
	mu sync.RWMutex

	users       map[string]user.User
	employees   map[string]employee.Employee
	departments map[string]employee.Department
	structures  map[string]salary.Structure // by employee id
	deductions  map[string]deduction.Deduction
	holidays    map[string]holiday.Holiday
	attendance  map[string]attendance.Record // by employee id + date
	leaves      map[string]leave.Leave
	periods     map[string]payroll.Period
	records     map[string]payroll.Record
	applied     map[string][]deduction.Applied // by record id
	slips       map[string]payroll.Slip

	lockMu sync.Mutex
	locks  map[int]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		employees:   make(map[string]employee.Employee),
		departments: make(map[string]employee.Department),
		structures:  make(map[string]salary.Structure),
		deductions:  make(map[string]deduction.Deduction),
		holidays:    make(map[string]holiday.Holiday),
		attendance:  make(map[string]attendance.Record),
		leaves:      make(map[string]leave.Leave),
		periods:     make(map[string]payroll.Period),
		records:     make(map[string]payroll.Record),
		applied:     make(map[string][]deduction.Applied),
		slips:       make(map[string]payroll.Slip),
		locks:       make(map[int]*sync.Mutex),
	}
}

// Transactor runs fn directly; the store has no rollback.
type Transactor struct{}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func now() time.Time {
	return time.Now().UTC()
}

func dateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// page slices items for a 1-based page; a zero limit returns everything.
func page[T any](items []T, pageNum, limit int) []T {
	if limit <= 0 {
		return items
	}
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedValues[T any](m map[string]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// employeeLabel must be called with s.mu held.
func (s *Store) employeeLabel(id string) (*string, *string) {
	e, ok := s.employees[id]
	if !ok {
		return nil, nil
	}
	code, name := e.EmployeeCode, e.FullName()
	return &code, &name
}
