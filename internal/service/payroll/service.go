package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/holiday"
	"github.com/gate-garments/hrms-backend-go/internal/domain/payroll"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/slip"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/storage"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
	"github.com/gate-garments/hrms-backend-go/internal/service/file"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	WorkingDaysMode payroll.WorkingDaysMode
	BatchSize       int
	Workers         int
	CompanyName     string
}

// Aggregator is the slice of the attendance service the engine needs.
type Aggregator interface {
	Aggregate(ctx context.Context, employeeID string, start, end time.Time) (attendance.Summary, error)
}

type PayrollServiceImpl struct {
	tx            database.Transactor
	periodRepo    payroll.PeriodRepository
	recordRepo    payroll.RecordRepository
	slipRepo      payroll.SlipRepository
	employeeRepo  employee.EmployeeRepository
	structureRepo salary.StructureRepository
	deductionRepo deduction.DeductionRepository
	holidayRepo   holiday.HolidayRepository
	attendance    Aggregator
	fileService   file.FileService
	cfg           Config

	runs singleflight.Group
	now  func() time.Time
}

func NewPayrollService(
	tx database.Transactor,
	periodRepo payroll.PeriodRepository,
	recordRepo payroll.RecordRepository,
	slipRepo payroll.SlipRepository,
	employeeRepo employee.EmployeeRepository,
	structureRepo salary.StructureRepository,
	deductionRepo deduction.DeductionRepository,
	holidayRepo holiday.HolidayRepository,
	attendance Aggregator,
	fileService file.FileService,
	cfg Config,
) payroll.PayrollService {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 50
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.WorkingDaysMode == "" {
		cfg.WorkingDaysMode = payroll.WorkingDaysFixed
	}
	return &PayrollServiceImpl{
		tx:            tx,
		periodRepo:    periodRepo,
		recordRepo:    recordRepo,
		slipRepo:      slipRepo,
		employeeRepo:  employeeRepo,
		structureRepo: structureRepo,
		deductionRepo: deductionRepo,
		holidayRepo:   holidayRepo,
		attendance:    attendance,
		fileService:   fileService,
		cfg:           cfg,
		now:           time.Now,
	}
}

// ProcessPayroll implements payroll.PayrollService. Concurrent calls for the
// same period share one run.
func (s *PayrollServiceImpl) ProcessPayroll(ctx context.Context, actor auth.Actor, year, month int) (payroll.RunSummary, error) {
	if err := payroll.ValidatePeriod(year, month); err != nil {
		return payroll.RunSummary{}, err
	}
	if err := actor.RequireAdmin(); err != nil {
		return payroll.RunSummary{}, err
	}

	// The shared run outlives any single caller; each caller stops waiting
	// when its own context ends.
	key := fmt.Sprintf("%04d-%02d", year, month)
	runCtx := context.WithoutCancel(ctx)
	ch := s.runs.DoChan(key, func() (interface{}, error) {
		return s.process(runCtx, actor, year, month)
	})

	select {
	case <-ctx.Done():
		return payroll.RunSummary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return payroll.RunSummary{}, res.Err
		}
		if res.Shared {
			slog.Info("payroll run shared with concurrent request", "period", key, "by", actor.UserID)
		}
		return res.Val.(payroll.RunSummary), nil
	}
}

type outcome struct {
	employee employee.Employee
	skipped  bool
	err      error
}

func (s *PayrollServiceImpl) process(ctx context.Context, actor auth.Actor, year, month int) (payroll.RunSummary, error) {
	unlock, err := s.periodRepo.Lock(ctx, year, month)
	if err != nil {
		return payroll.RunSummary{}, err
	}
	defer unlock()

	period, err := s.periodRepo.GetOrCreate(ctx, year, month)
	if err != nil {
		return payroll.RunSummary{}, err
	}
	if err := period.CheckProcessable(); err != nil {
		return payroll.RunSummary{}, err
	}

	start, end := period.Range()
	workingDays, err := s.workingDays(ctx, start, end)
	if err != nil {
		return payroll.RunSummary{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.RunSummary{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	startedAt := s.now()
	slog.Info("payroll run started",
		"period", period.Label(),
		"employees", len(employees),
		"working_days", workingDays,
		"by", actor.UserID,
	)

	outcomes := make([]outcome, len(employees))
	for from := 0; from < len(employees); from += s.cfg.BatchSize {
		to := min(from+s.cfg.BatchSize, len(employees))

		var g errgroup.Group
		g.SetLimit(s.cfg.Workers)
		for i := from; i < to; i++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				e := employees[i]
				err := s.processEmployee(ctx, period, e, workingDays)
				if errors.Is(err, payroll.ErrPeriodLocked) {
					return err
				}
				outcomes[i] = outcome{
					employee: e,
					skipped:  errors.Is(err, payroll.ErrMissingSalaryStructure),
					err:      err,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return payroll.RunSummary{}, fmt.Errorf("payroll run for %s interrupted: %w", period.Label(), err)
		}
	}

	summary := payroll.RunSummary{
		Skipped: []payroll.SkippedEmployee{},
		Failed:  []payroll.FailedEmployee{},
	}
	for _, o := range outcomes {
		switch {
		case o.skipped:
			summary.Skipped = append(summary.Skipped, payroll.SkippedEmployee{
				EmployeeID:   o.employee.ID,
				EmployeeCode: o.employee.EmployeeCode,
				Reason:       payroll.SkipReasonMissingSalaryStructure,
			})
			slog.Warn("payroll skipped employee",
				"period", period.Label(),
				"employee_id", o.employee.ID,
				"employee_code", o.employee.EmployeeCode,
				"reason", payroll.SkipReasonMissingSalaryStructure,
			)
		case o.err != nil:
			summary.Failed = append(summary.Failed, payroll.FailedEmployee{
				EmployeeID:   o.employee.ID,
				EmployeeCode: o.employee.EmployeeCode,
				Err:          o.err,
			})
			slog.Error("payroll failed for employee",
				"period", period.Label(),
				"employee_id", o.employee.ID,
				"employee_code", o.employee.EmployeeCode,
				"error", o.err,
			)
		default:
			summary.Processed++
		}
	}

	processed, err := period.MarkProcessed(actor.UserID, s.now().UTC())
	if err != nil {
		return payroll.RunSummary{}, err
	}
	summary.Period, err = s.periodRepo.Save(ctx, processed, period.Status)
	if err != nil {
		return payroll.RunSummary{}, err
	}

	slog.Info("payroll run finished",
		"period", period.Label(),
		"processed", summary.Processed,
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed),
		"duration", s.now().Sub(startedAt).String(),
	)
	return summary, nil
}

func (s *PayrollServiceImpl) workingDays(ctx context.Context, start, end time.Time) (int, error) {
	if s.cfg.WorkingDaysMode != payroll.WorkingDaysCalendar {
		return payroll.StandardWorkingDays, nil
	}

	holidays, err := s.holidayRepo.ListBetween(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list holidays: %w", err)
	}
	dates := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	return payroll.CalendarWorkingDays(start, end, dates), nil
}

// processEmployee writes the record, its applied ledger deductions and the
// slip of one employee in a single transaction.
func (s *PayrollServiceImpl) processEmployee(ctx context.Context, period payroll.Period, e employee.Employee, workingDays int) error {
	start, end := period.Range()

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		structure, err := s.structureRepo.GetByEmployeeID(ctx, e.ID)
		if err != nil {
			if errors.Is(err, salary.ErrStructureNotFound) {
				return payroll.ErrMissingSalaryStructure
			}
			return err
		}

		summary, err := s.attendance.Aggregate(ctx, e.ID, start, end)
		if err != nil {
			return err
		}

		deductions, err := s.deductionRepo.ListActiveInRange(ctx, e.ID, start, end)
		if err != nil {
			return err
		}

		rec, applied, err := payroll.BuildRecord(payroll.RecordInput{
			EmployeeID:  e.ID,
			Period:      period,
			Structure:   structure,
			Attendance:  summary,
			WorkingDays: workingDays,
			Deductions:  deductions,
		})
		if err != nil {
			return err
		}

		// The period row stays share-locked until commit.
		current, err := s.periodRepo.GetForShare(ctx, period.ID)
		if err != nil {
			return err
		}
		if err := current.CheckProcessable(); err != nil {
			return err
		}

		saved, err := s.recordRepo.Upsert(ctx, rec)
		if err != nil {
			return err
		}
		if err := s.recordRepo.ReplaceAppliedDeductions(ctx, saved.ID, applied); err != nil {
			return err
		}

		_, err = s.slipRepo.Ensure(ctx, saved.ID, payroll.SlipNumber(period, e.EmployeeCode))
		return err
	})
}

// ApprovePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ApprovePeriod(ctx context.Context, actor auth.Actor, periodID string) (payroll.PeriodResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, unlock, err := s.lockPeriod(ctx, periodID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	defer unlock()

	approved, err := period.Approve(actor.UserID, s.now().UTC())
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	saved, err := s.periodRepo.Save(ctx, approved, period.Status)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	slog.Info("payroll period approved", "period", saved.Label(), "by", actor.UserID)
	return payroll.NewPeriodResponse(saved), nil
}

// MarkPeriodPaid implements payroll.PayrollService. The installment
// counters of every ledger deduction applied in the period advance in the
// same transaction.
func (s *PayrollServiceImpl) MarkPeriodPaid(ctx context.Context, actor auth.Actor, periodID string, req payroll.MarkPaidRequest) (payroll.PeriodResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return payroll.PeriodResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	paymentDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.PaymentDate != "" {
		paymentDate, _ = validator.IsValidDate(req.PaymentDate)
	}

	_, unlock, err := s.lockPeriod(ctx, periodID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	defer unlock()

	var saved payroll.Period
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		period, err := s.periodRepo.GetByID(ctx, periodID)
		if err != nil {
			return err
		}

		paid, err := period.MarkPaid(actor.UserID, paymentDate)
		if err != nil {
			return err
		}

		saved, err = s.periodRepo.Save(ctx, paid, period.Status)
		if err != nil {
			return err
		}

		applied, err := s.recordRepo.ListAppliedDeductionsByPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		for _, a := range applied {
			if err := s.deductionRepo.MarkInstallmentPaid(ctx, a.DeductionID, a.InstallmentNumber); err != nil {
				return fmt.Errorf("failed to advance deduction %s: %w", a.DeductionID, err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	slog.Info("payroll period paid",
		"period", saved.Label(),
		"payment_date", paymentDate.Format(validator.DateLayout),
		"by", actor.UserID,
	)
	return payroll.NewPeriodResponse(saved), nil
}

// lockPeriod takes the run lock of the period and returns it as read under
// the lock, so status changes wait for an in-flight run.
func (s *PayrollServiceImpl) lockPeriod(ctx context.Context, periodID string) (payroll.Period, func(), error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return payroll.Period{}, nil, err
	}

	unlock, err := s.periodRepo.Lock(ctx, period.Year, period.Month)
	if err != nil {
		return payroll.Period{}, nil, err
	}

	period, err = s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		unlock()
		return payroll.Period{}, nil, err
	}
	return period, unlock, nil
}

// ListPeriods implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, actor auth.Actor) ([]payroll.PeriodResponse, error) {
	periods, err := s.periodRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, payroll.NewPeriodResponse(p))
	}
	return responses, nil
}

// GetPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, actor auth.Actor, periodID string) (payroll.PeriodResponse, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(period), nil
}

// GetPayrollRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, actor auth.Actor, employeeID, periodID string) (payroll.RecordResponse, error) {
	if !actor.CanAccessEmployee(employeeID) {
		return payroll.RecordResponse{}, auth.ErrForbidden
	}

	rec, err := s.recordRepo.GetByEmployeeAndPeriod(ctx, employeeID, periodID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return payroll.NewRecordResponse(rec), nil
}

// ListPayrollRecords implements payroll.PayrollService. Employees only see
// their own records.
func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, actor auth.Actor, filter payroll.RecordFilter) ([]payroll.RecordResponse, error) {
	if !actor.IsAdmin() {
		if actor.EmployeeID == nil {
			return nil, auth.ErrNoEmployeeProfile
		}
		filter.EmployeeID = actor.EmployeeID
	}

	records, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.NewRecordResponse(r))
	}
	return responses, nil
}

// GetSlip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSlip(ctx context.Context, actor auth.Actor, slipID string) (payroll.SlipResponse, error) {
	sl, rec, err := s.loadSlip(ctx, actor, slipID)
	if err != nil {
		return payroll.SlipResponse{}, err
	}
	return payroll.NewSlipResponse(sl, rec), nil
}

func (s *PayrollServiceImpl) loadSlip(ctx context.Context, actor auth.Actor, slipID string) (payroll.Slip, payroll.Record, error) {
	sl, err := s.slipRepo.GetByID(ctx, slipID)
	if err != nil {
		return payroll.Slip{}, payroll.Record{}, err
	}
	rec, err := s.recordRepo.GetByID(ctx, sl.RecordID)
	if err != nil {
		return payroll.Slip{}, payroll.Record{}, err
	}
	if !actor.CanAccessEmployee(rec.EmployeeID) {
		return payroll.Slip{}, payroll.Record{}, auth.ErrForbidden
	}
	return sl, rec, nil
}

// OpenSlipPDF implements payroll.PayrollService. Slips of approved or paid
// periods are rendered once and stored; earlier ones are rendered on the
// fly because their record may still change.
func (s *PayrollServiceImpl) OpenSlipPDF(ctx context.Context, actor auth.Actor, slipID string) (io.ReadCloser, string, error) {
	sl, rec, err := s.loadSlip(ctx, actor, slipID)
	if err != nil {
		return nil, "", err
	}
	filename := sl.SlipNumber + ".pdf"

	if sl.PDFGenerated && sl.PDFPath != nil {
		rc, err := s.fileService.Open(ctx, *sl.PDFPath)
		if err == nil {
			return rc, filename, nil
		}
		if !errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", err
		}
		slog.Warn("stored slip missing, rendering again", "slip_number", sl.SlipNumber, "path", *sl.PDFPath)
	}

	period, err := s.periodRepo.GetByID(ctx, rec.PeriodID)
	if err != nil {
		return nil, "", err
	}

	if !period.IsLocked() {
		doc, err := s.buildSlipDocument(ctx, sl, rec, period)
		if err != nil {
			return nil, "", err
		}
		rc, err := s.fileService.RenderSlipPDF(ctx, doc)
		return rc, filename, err
	}

	key, err := s.storeSlip(ctx, sl, rec, period)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.fileService.Open(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return rc, filename, nil
}

// GeneratePendingSlips implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePendingSlips(ctx context.Context) (int, error) {
	pending, err := s.slipRepo.ListPending(ctx, s.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, sl := range pending {
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		rec, err := s.recordRepo.GetByID(ctx, sl.RecordID)
		if err != nil {
			return generated, err
		}
		period, err := s.periodRepo.GetByID(ctx, rec.PeriodID)
		if err != nil {
			return generated, err
		}
		if _, err := s.storeSlip(ctx, sl, rec, period); err != nil {
			slog.Error("slip render failed", "slip_number", sl.SlipNumber, "error", err)
			continue
		}
		generated++
	}
	if generated > 0 {
		slog.Info("pending slips rendered", "count", generated)
	}
	return generated, nil
}

// storeSlip renders the slip, writes it to storage and flags it generated.
// It returns the storage key.
func (s *PayrollServiceImpl) storeSlip(ctx context.Context, sl payroll.Slip, rec payroll.Record, period payroll.Period) (string, error) {
	doc, err := s.buildSlipDocument(ctx, sl, rec, period)
	if err != nil {
		return "", err
	}
	key, err := s.fileService.SaveSlipPDF(ctx, doc)
	if err != nil {
		return "", err
	}
	if err := s.slipRepo.MarkGenerated(ctx, sl.ID, key, doc.IssuedAt); err != nil {
		return "", err
	}
	return key, nil
}

func (s *PayrollServiceImpl) buildSlipDocument(ctx context.Context, sl payroll.Slip, rec payroll.Record, period payroll.Period) (slip.Document, error) {
	e, err := s.employeeRepo.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		return slip.Document{}, err
	}
	issuedAt := s.now().UTC()
	if sl.GeneratedDate != nil {
		issuedAt = *sl.GeneratedDate
	}
	return s.slipDocument(sl, rec, period, e, issuedAt), nil
}

func (s *PayrollServiceImpl) slipDocument(sl payroll.Slip, rec payroll.Record, period payroll.Period, e employee.Employee, issuedAt time.Time) slip.Document {
	doc := slip.Document{
		CompanyName:  s.cfg.CompanyName,
		SlipNumber:   sl.SlipNumber,
		Period:       period.Label(),
		IssuedAt:     issuedAt,
		EmployeeCode: e.EmployeeCode,
		EmployeeName: e.FullName(),
		Designation:  e.Designation,
		WorkingDays:  rec.WorkingDays,
		PresentDays:  rec.PresentDays,
		AbsentDays:   rec.AbsentDays,
		LeaveDays:    rec.LeaveDays,
		HalfDays:     rec.HalfDays,
		WFHDays:      rec.WFHDays,
		Earnings: []slip.Line{
			{Label: "Basic", Amount: rec.Earnings.Basic},
			{Label: "HRA", Amount: rec.Earnings.HRA},
			{Label: "DA", Amount: rec.Earnings.DA},
			{Label: "Conveyance", Amount: rec.Earnings.Conveyance},
			{Label: "Medical", Amount: rec.Earnings.Medical},
			{Label: "Other allowances", Amount: rec.Earnings.OtherAllowances},
		},
		Deductions: []slip.Line{
			{Label: "PF", Amount: rec.Deductions.PF},
			{Label: "ESI", Amount: rec.Deductions.ESI},
			{Label: "Income tax", Amount: rec.Deductions.IncomeTax},
			{Label: "Other deductions", Amount: rec.Deductions.OtherDeductions},
		},
		GrossSalary:     rec.GrossSalary,
		TotalDeductions: rec.TotalDeductions,
		NetSalary:       rec.NetSalary,
	}
	if e.DepartmentName != nil {
		doc.Department = *e.DepartmentName
	}
	if e.BankName != nil {
		doc.BankName = *e.BankName
	}
	if e.BankAccountNumber != nil {
		doc.BankAccount = *e.BankAccountNumber
	}
	labels := make([]string, 0, len(rec.DeductionsDetail))
	for label := range rec.DeductionsDetail {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		doc.Deductions = append(doc.Deductions, slip.Line{Label: label, Amount: rec.DeductionsDetail[label]})
	}
	return doc
}
