package payroll

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/holiday"
	"github.com/gate-garments/hrms-backend-go/internal/domain/payroll"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/storage"
	"github.com/gate-garments/hrms-backend-go/internal/repository/memory"
	attendanceService "github.com/gate-garments/hrms-backend-go/internal/service/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/service/file"
	leaveService "github.com/gate-garments/hrms-backend-go/internal/service/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = auth.Actor{UserID: "admin-1", Role: user.RoleAdmin}

type fixture struct {
	store *memory.Store
	svc   payroll.PayrollService
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	return newFixtureWith(t, cfg, nil)
}

func newFixtureWith(t *testing.T, cfg Config, structures salary.StructureRepository) *fixture {
	t.Helper()
	return buildFixture(t, cfg, structures, nil)
}

func buildFixture(t *testing.T, cfg Config, structures salary.StructureRepository, wrap func(Aggregator) Aggregator) *fixture {
	t.Helper()
	store := memory.NewStore()
	if structures == nil {
		structures = store.Structures()
	}

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	att := attendanceService.NewAttendanceService(
		store.Attendance(),
		store.Employees(),
		store.Periods(),
		leaveService.ApprovedLeaveSource{Repo: store.Leaves()},
	)
	var agg Aggregator = att
	if wrap != nil {
		agg = wrap(att)
	}

	svc := NewPayrollService(
		memory.Transactor{},
		store.Periods(),
		store.Records(),
		store.Slips(),
		store.Employees(),
		structures,
		store.Deductions(),
		store.Holidays(),
		agg,
		file.NewFileService(local),
		cfg,
	)
	return &fixture{store: store, svc: svc}
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func date(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func (f *fixture) addEmployee(t *testing.T, code string, status employee.Status) employee.Employee {
	t.Helper()
	e, err := f.store.Employees().Create(context.Background(), employee.Employee{
		EmployeeCode:  code,
		FirstName:     "Worker",
		LastName:      code,
		Email:         code + "@gategarments.test",
		PhoneNumber:   "9876543210",
		Gender:        employee.GenderFemale,
		Designation:   "Tailor",
		DateOfJoining: date("2023-04-01"),
		Status:        status,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) addStructure(t *testing.T, employeeID string) {
	t.Helper()
	_, err := f.store.Structures().Upsert(context.Background(), salary.Structure{
		EmployeeID: employeeID,
		Earnings: salary.Earnings{
			Basic:      d("25000"),
			HRA:        d("5000"),
			DA:         d("3000"),
			Conveyance: d("1500"),
			Medical:    d("1000"),
		},
		Deductions: salary.Deductions{
			PF:        d("2250"),
			ESI:       d("800"),
			IncomeTax: d("2000"),
		},
	})
	require.NoError(t, err)
}

func (f *fixture) addAttendance(t *testing.T, employeeID string, from time.Time, days int, status attendance.Status) {
	t.Helper()
	for i := 0; i < days; i++ {
		_, err := f.store.Attendance().Upsert(context.Background(), attendance.Record{
			EmployeeID: employeeID,
			Date:       from.AddDate(0, 0, i),
			Status:     status,
		})
		require.NoError(t, err)
	}
}

func TestPayrollService_ProcessPayroll_ComputesRecord(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)
	f.addAttendance(t, e.ID, date("2025-01-01"), 20, attendance.StatusPresent)
	f.addAttendance(t, e.ID, date("2025-01-21"), 2, attendance.StatusAbsent)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Empty(t, summary.Skipped)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, payroll.PeriodStatusProcessed, summary.Period.Status)
	require.NotNil(t, summary.Period.ProcessedBy)
	assert.Equal(t, admin.UserID, *summary.Period.ProcessedBy)

	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, "35500.00", rec.GrossSalary.StringFixed(2))
	assert.Equal(t, "5050.00", rec.TotalDeductions.StringFixed(2))
	assert.Equal(t, "30450.00", rec.NetSalary.StringFixed(2))
	assert.Equal(t, 22, rec.WorkingDays)
	assert.Equal(t, 20, rec.PresentDays)
	assert.Equal(t, 2, rec.AbsentDays)
}

func TestPayrollService_ProcessPayroll_Rerun(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	first, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	second, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, first.Period.ID, second.Period.ID)

	records, err := f.svc.ListPayrollRecords(context.Background(), admin, payroll.RecordFilter{PeriodID: &first.Period.ID})
	require.NoError(t, err)
	require.Len(t, records, 1)

	slip, err := f.store.Slips().GetByRecordID(context.Background(), records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "SLIP-2025-01-E001", slip.SlipNumber)
}

func TestPayrollService_ProcessPayroll_RerunPicksUpCorrections(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	first, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	_, err = f.store.Structures().Upsert(context.Background(), salary.Structure{
		EmployeeID: e.ID,
		Earnings:   salary.Earnings{Basic: d("30000")},
	})
	require.NoError(t, err)

	_, err = f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, first.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, "30000.00", rec.GrossSalary.StringFixed(2))
	assert.Equal(t, "30000.00", rec.NetSalary.StringFixed(2))
}

func TestPayrollService_ProcessPayroll_OnlyActiveEmployees(t *testing.T) {
	f := newFixture(t, Config{})
	active := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, active.ID)
	for _, st := range []employee.Status{employee.StatusInactive, employee.StatusSuspended, employee.StatusRetired} {
		e := f.addEmployee(t, "E"+string(st[:3]), st)
		f.addStructure(t, e.ID)
	}

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	records, err := f.svc.ListPayrollRecords(context.Background(), admin, payroll.RecordFilter{PeriodID: &summary.Period.ID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, active.ID, records[0].EmployeeID)
}

func TestPayrollService_ProcessPayroll_SkipsMissingStructure(t *testing.T) {
	f := newFixture(t, Config{})
	withStructure := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, withStructure.ID)
	without := f.addEmployee(t, "E002", employee.StatusActive)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, without.ID, summary.Skipped[0].EmployeeID)
	assert.Equal(t, "E002", summary.Skipped[0].EmployeeCode)
	assert.Equal(t, payroll.SkipReasonMissingSalaryStructure, summary.Skipped[0].Reason)
	assert.Empty(t, summary.Failed)
}

func TestPayrollService_ProcessPayroll_MalformedStructureFails(t *testing.T) {
	f := newFixture(t, Config{})
	good := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, good.ID)
	bad := f.addEmployee(t, "E002", employee.StatusActive)
	_, err := f.store.Structures().Upsert(context.Background(), salary.Structure{
		EmployeeID: bad.ID,
		Earnings:   salary.Earnings{Basic: d("-1")},
	})
	require.NoError(t, err)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, bad.ID, summary.Failed[0].EmployeeID)
	assert.ErrorIs(t, summary.Failed[0].Err, payroll.ErrMalformedStructure)
	assert.Equal(t, payroll.PeriodStatusProcessed, summary.Period.Status)
}

type flakyStructures struct {
	salary.StructureRepository
	failFor string
}

func (r flakyStructures) GetByEmployeeID(ctx context.Context, employeeID string) (salary.Structure, error) {
	if employeeID == r.failFor {
		return salary.Structure{}, errors.New("connection reset")
	}
	return r.StructureRepository.GetByEmployeeID(ctx, employeeID)
}

func TestPayrollService_ProcessPayroll_ContinuesAfterFailure(t *testing.T) {
	wrapped := &flakyStructures{}
	f := newFixtureWith(t, Config{BatchSize: 2, Workers: 2}, wrapped)
	wrapped.StructureRepository = f.store.Structures()

	var ids []string
	for _, code := range []string{"E001", "E002", "E003", "E004", "E005"} {
		e := f.addEmployee(t, code, employee.StatusActive)
		f.addStructure(t, e.ID)
		ids = append(ids, e.ID)
	}
	wrapped.failFor = ids[2]

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Processed)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "E003", summary.Failed[0].EmployeeCode)
	assert.EqualError(t, summary.Failed[0].Err, "connection reset")
}

func TestPayrollService_ProcessPayroll_InvalidPeriod(t *testing.T) {
	f := newFixture(t, Config{})

	tests := []struct {
		name  string
		year  int
		month int
	}{
		{"month zero", 2025, 0},
		{"month thirteen", 2025, 13},
		{"short year", 25, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ProcessPayroll(context.Background(), admin, tt.year, tt.month)
			assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
		})
	}
}

func TestPayrollService_ProcessPayroll_RequiresAdmin(t *testing.T) {
	f := newFixture(t, Config{})
	employeeID := "emp-1"
	actor := auth.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &employeeID}

	_, err := f.svc.ProcessPayroll(context.Background(), actor, 2025, 1)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	periods, err := f.svc.ListPeriods(context.Background(), admin)
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestPayrollService_ProcessPayroll_LockedPeriod(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	_, err = f.svc.ApprovePeriod(context.Background(), admin, summary.Period.ID)
	require.NoError(t, err)

	before, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
	require.NoError(t, err)

	_, err = f.store.Structures().Upsert(context.Background(), salary.Structure{
		EmployeeID: e.ID,
		Earnings:   salary.Earnings{Basic: d("99999")},
	})
	require.NoError(t, err)

	_, err = f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	assert.ErrorIs(t, err, payroll.ErrPeriodLocked)

	after, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPayrollService_ProcessPayroll_CalendarWorkingDays(t *testing.T) {
	f := newFixture(t, Config{WorkingDaysMode: payroll.WorkingDaysCalendar})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)
	_, err := f.store.Holidays().Create(context.Background(), holiday.Holiday{Date: date("2025-02-26"), Name: "Maha Shivaratri"})
	require.NoError(t, err)
	_, err = f.store.Holidays().Create(context.Background(), holiday.Holiday{Date: date("2025-02-23"), Name: "Sunday event"})
	require.NoError(t, err)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 2)
	require.NoError(t, err)

	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
	require.NoError(t, err)
	// 20 weekdays, the Sunday holiday does not count
	assert.Equal(t, 19, rec.WorkingDays)
}

func TestPayrollService_ProcessPayroll_ConcurrentRuns(t *testing.T) {
	f := newFixture(t, Config{Workers: 4})
	for _, code := range []string{"E001", "E002", "E003"} {
		e := f.addEmployee(t, code, employee.StatusActive)
		f.addStructure(t, e.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.ProcessPayroll(context.Background(), admin, 2025, 3)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	periods, err := f.svc.ListPeriods(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, periods, 1)

	records, err := f.svc.ListPayrollRecords(context.Background(), admin, payroll.RecordFilter{PeriodID: &periods[0].ID})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestPayrollService_PeriodTransitions(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	id := summary.Period.ID

	_, err = f.svc.MarkPeriodPaid(context.Background(), admin, id, payroll.MarkPaidRequest{})
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	approved, err := f.svc.ApprovePeriod(context.Background(), admin, id)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	_, err = f.svc.ApprovePeriod(context.Background(), admin, id)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)

	paid, err := f.svc.MarkPeriodPaid(context.Background(), admin, id, payroll.MarkPaidRequest{PaymentDate: "2025-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "2025-02-01", *paid.PaymentDate)

	_, err = f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	assert.ErrorIs(t, err, payroll.ErrPeriodLocked)
}

// hookedAggregator runs hook once, before the first aggregation after the
// hook is set.
type hookedAggregator struct {
	Aggregator
	once sync.Once
	hook func()
}

func (a *hookedAggregator) Aggregate(ctx context.Context, employeeID string, start, end time.Time) (attendance.Summary, error) {
	if a.hook != nil {
		a.once.Do(a.hook)
	}
	return a.Aggregator.Aggregate(ctx, employeeID, start, end)
}

func newHookedFixture(t *testing.T) (*fixture, *hookedAggregator) {
	t.Helper()
	agg := &hookedAggregator{}
	f := buildFixture(t, Config{}, nil, func(inner Aggregator) Aggregator {
		agg.Aggregator = inner
		return agg
	})
	return f, agg
}

func TestPayrollService_ApprovePeriod_WaitsForRunningPayroll(t *testing.T) {
	f, agg := newHookedFixture(t)
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	first, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	_, err = f.store.Structures().Upsert(context.Background(), salary.Structure{
		EmployeeID: e.ID,
		Earnings:   salary.Earnings{Basic: d("99999")},
	})
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	agg.hook = func() {
		close(started)
		<-release
	}

	runDone := make(chan error, 1)
	go func() {
		_, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
		runDone <- err
	}()
	<-started

	approveDone := make(chan error, 1)
	go func() {
		_, err := f.svc.ApprovePeriod(context.Background(), admin, first.Period.ID)
		approveDone <- err
	}()

	select {
	case err := <-approveDone:
		t.Fatalf("approval finished during the payroll run: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-runDone)
	require.NoError(t, <-approveDone)

	period, err := f.svc.GetPeriod(context.Background(), admin, first.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", period.Status)

	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, first.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, "99999.00", rec.GrossSalary.StringFixed(2))

	_, err = f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	assert.ErrorIs(t, err, payroll.ErrPeriodLocked)
}

func TestPayrollService_ProcessPayroll_StopsWhenApprovedMidRun(t *testing.T) {
	f, agg := newHookedFixture(t)
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	first, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	before, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, first.Period.ID)
	require.NoError(t, err)

	_, err = f.store.Structures().Upsert(context.Background(), salary.Structure{
		EmployeeID: e.ID,
		Earnings:   salary.Earnings{Basic: d("99999")},
	})
	require.NoError(t, err)

	// another writer approves the period without holding the run lock
	agg.hook = func() {
		p, err := f.store.Periods().GetByID(context.Background(), first.Period.ID)
		if !assert.NoError(t, err) {
			return
		}
		approved, err := p.Approve("admin-2", time.Now().UTC())
		if !assert.NoError(t, err) {
			return
		}
		_, err = f.store.Periods().Save(context.Background(), approved, p.Status)
		assert.NoError(t, err)
	}

	_, err = f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	assert.ErrorIs(t, err, payroll.ErrPeriodLocked)

	after, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, first.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "35500.00", after.GrossSalary.StringFixed(2))
}

func TestPayrollService_ProcessPayroll_CallerCancelKeepsRunGoing(t *testing.T) {
	f, agg := newHookedFixture(t)
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	started := make(chan struct{})
	release := make(chan struct{})
	agg.hook = func() {
		close(started)
		<-release
	}

	ctx, cancel := context.WithCancel(context.Background())
	callerDone := make(chan error, 1)
	go func() {
		_, err := f.svc.ProcessPayroll(ctx, admin, 2025, 1)
		callerDone <- err
	}()
	<-started

	cancel()
	assert.ErrorIs(t, <-callerDone, context.Canceled)

	close(release)
	assert.Eventually(t, func() bool {
		periods, err := f.svc.ListPeriods(context.Background(), admin)
		return err == nil && len(periods) == 1 && periods[0].Status == "processed"
	}, time.Second, 10*time.Millisecond)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, "35500.00", rec.GrossSalary.StringFixed(2))
}

func TestPayrollService_ApprovePeriod_NotFound(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.svc.ApprovePeriod(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, payroll.ErrPeriodNotFound)
}

func TestPayrollService_InstallmentDeduction(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	installments := 3
	loan, err := f.store.Deductions().Create(context.Background(), deduction.Deduction{
		EmployeeID:           e.ID,
		Type:                 deduction.TypeLoan,
		Amount:               d("3000"),
		Description:          "sewing machine",
		FromDate:             date("2025-01-01"),
		ToDate:               date("2025-03-31"),
		NumberOfInstallments: &installments,
		IsActive:             true,
	})
	require.NoError(t, err)

	for month := 1; month <= 3; month++ {
		summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, month)
		require.NoError(t, err)

		rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
		require.NoError(t, err)
		assert.Equal(t, "1000.00", rec.LedgerDeductions.StringFixed(2), "month %d", month)
		assert.Equal(t, "6050.00", rec.TotalDeductions.StringFixed(2), "month %d", month)

		_, err = f.svc.ApprovePeriod(context.Background(), admin, summary.Period.ID)
		require.NoError(t, err)
		_, err = f.svc.MarkPeriodPaid(context.Background(), admin, summary.Period.ID, payroll.MarkPaidRequest{})
		require.NoError(t, err)

		stored, err := f.store.Deductions().GetByID(context.Background(), loan.ID)
		require.NoError(t, err)
		assert.Equal(t, month, stored.InstallmentsPaid)
	}

	stored, err := f.store.Deductions().GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestPayrollService_InstallmentDeduction_OutOfOrderPayment(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	installments := 3
	loan, err := f.store.Deductions().Create(context.Background(), deduction.Deduction{
		EmployeeID:           e.ID,
		Type:                 deduction.TypeLoan,
		Amount:               d("3000"),
		FromDate:             date("2025-01-01"),
		ToDate:               date("2025-03-31"),
		NumberOfInstallments: &installments,
		IsActive:             true,
	})
	require.NoError(t, err)

	jan, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	feb, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 2)
	require.NoError(t, err)

	_, err = f.svc.ApprovePeriod(context.Background(), admin, feb.Period.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkPeriodPaid(context.Background(), admin, feb.Period.ID, payroll.MarkPaidRequest{})
	require.NoError(t, err)

	// January is corrected after February was paid
	_, err = f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, jan.Period.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", rec.LedgerDeductions.StringFixed(2))

	stored, err := f.store.Deductions().GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, stored.PaidInstallments)
	assert.Equal(t, 1, stored.InstallmentsPaid)
	assert.True(t, stored.IsActive)

	_, err = f.svc.ApprovePeriod(context.Background(), admin, jan.Period.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkPeriodPaid(context.Background(), admin, jan.Period.ID, payroll.MarkPaidRequest{})
	require.NoError(t, err)

	stored, err = f.store.Deductions().GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, stored.PaidInstallments)
	assert.True(t, stored.IsActive)
}

func TestPayrollService_ListPayrollRecords_EmployeeSeesOwn(t *testing.T) {
	f := newFixture(t, Config{})
	own := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, own.ID)
	other := f.addEmployee(t, "E002", employee.StatusActive)
	f.addStructure(t, other.ID)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)

	actor := auth.Actor{UserID: "user-1", Role: user.RoleEmployee, EmployeeID: &own.ID}
	records, err := f.svc.ListPayrollRecords(context.Background(), actor, payroll.RecordFilter{EmployeeID: &other.ID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, own.ID, records[0].EmployeeID)

	_, err = f.svc.GetPayrollRecord(context.Background(), actor, other.ID, summary.Period.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestPayrollService_OpenSlipPDF(t *testing.T) {
	f := newFixture(t, Config{CompanyName: "Gate Garments"})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
	require.NoError(t, err)
	stored, err := f.store.Slips().GetByRecordID(context.Background(), rec.ID)
	require.NoError(t, err)

	rc, name, err := f.svc.OpenSlipPDF(context.Background(), admin, stored.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "SLIP-2025-01-E001.pdf", name)
	assert.Equal(t, "%PDF-", string(body[:5]))

	draft, err := f.svc.GetSlip(context.Background(), admin, stored.ID)
	require.NoError(t, err)
	assert.False(t, draft.PDFGenerated)

	_, err = f.svc.ApprovePeriod(context.Background(), admin, summary.Period.ID)
	require.NoError(t, err)

	rc, _, err = f.svc.OpenSlipPDF(context.Background(), admin, stored.ID)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	issued, err := f.svc.GetSlip(context.Background(), admin, stored.ID)
	require.NoError(t, err)
	assert.True(t, issued.PDFGenerated)
	assert.NotNil(t, issued.GeneratedDate)
	assert.Equal(t, "30450.00", issued.Record.NetSalary.StringFixed(2))
}

func TestPayrollService_GetSlip_Forbidden(t *testing.T) {
	f := newFixture(t, Config{})
	e := f.addEmployee(t, "E001", employee.StatusActive)
	f.addStructure(t, e.ID)

	summary, err := f.svc.ProcessPayroll(context.Background(), admin, 2025, 1)
	require.NoError(t, err)
	rec, err := f.svc.GetPayrollRecord(context.Background(), admin, e.ID, summary.Period.ID)
	require.NoError(t, err)
	stored, err := f.store.Slips().GetByRecordID(context.Background(), rec.ID)
	require.NoError(t, err)

	someoneElse := "emp-other"
	actor := auth.Actor{UserID: "user-2", Role: user.RoleEmployee, EmployeeID: &someoneElse}
	_, err = f.svc.GetSlip(context.Background(), actor, stored.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.svc.GetSlip(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, payroll.ErrSlipNotFound)
}

func TestPayrollService_GeneratePendingSlips(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{BatchSize: 1})
	for _, code := range []string{"E001", "E002"} {
		e := f.addEmployee(t, code, employee.StatusActive)
		f.addStructure(t, e.ID)
	}

	summary, err := f.svc.ProcessPayroll(ctx, admin, 2025, 1)
	require.NoError(t, err)

	// Processed periods may still change, so nothing is stored yet.
	n, err := f.svc.GeneratePendingSlips(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.ApprovePeriod(ctx, admin, summary.Period.ID)
	require.NoError(t, err)

	// One slip per call with a batch size of 1.
	n, err = f.svc.GeneratePendingSlips(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = f.svc.GeneratePendingSlips(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = f.svc.GeneratePendingSlips(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	records, err := f.svc.ListPayrollRecords(ctx, admin, payroll.RecordFilter{PeriodID: &summary.Period.ID})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		sl, err := f.store.Slips().GetByRecordID(ctx, rec.ID)
		require.NoError(t, err)
		assert.True(t, sl.PDFGenerated, sl.SlipNumber)
		require.NotNil(t, sl.PDFPath)
	}
}
