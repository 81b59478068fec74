package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/payroll"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// payrollLockClass namespaces the advisory locks taken per period.
const payrollLockClass = 7301

// ========== PERIODS ==========

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

const periodColumns = `id, year, month, status, processed_at, processed_by, approved_at, approved_by,
	payment_date, paid_by, created_at, updated_at`

func scanPeriod(row pgx.Row) (payroll.Period, error) {
	var p payroll.Period
	err := row.Scan(
		&p.ID,
		&p.Year,
		&p.Month,
		&p.Status,
		&p.ProcessedAt,
		&p.ProcessedBy,
		&p.ApprovedAt,
		&p.ApprovedBy,
		&p.PaymentDate,
		&p.PaidBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// GetOrCreate implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) GetOrCreate(ctx context.Context, year, month int) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO payroll_periods (id, year, month, status)
		VALUES ($1, $2, $3, 'draft')
		ON CONFLICT (year, month) DO NOTHING
	`, newID(), year, month)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to create payroll period %04d-%02d: %w", year, month, err)
	}

	p, err := scanPeriod(q.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM payroll_periods WHERE year = $1 AND month = $2`, year, month))
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to get payroll period %04d-%02d: %w", year, month, err)
	}
	return p, nil
}

// GetByID implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPeriod(q.QueryRow(ctx, `SELECT `+periodColumns+` FROM payroll_periods WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period %s: %w", id, err)
	}
	return p, nil
}

// GetForShare implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) GetForShare(ctx context.Context, id string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPeriod(q.QueryRow(ctx, `SELECT `+periodColumns+` FROM payroll_periods WHERE id = $1 FOR SHARE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to share-lock payroll period %s: %w", id, err)
	}
	return p, nil
}

// List implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) List(ctx context.Context) ([]payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+periodColumns+` FROM payroll_periods ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// Save implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) Save(ctx context.Context, p payroll.Period, from payroll.PeriodStatus) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_periods
		SET status = $1, processed_at = $2, processed_by = $3, approved_at = $4, approved_by = $5,
			payment_date = $6, paid_by = $7, updated_at = NOW()
		WHERE id = $8 AND status = $9
	`, p.Status, p.ProcessedAt, p.ProcessedBy, p.ApprovedAt, p.ApprovedBy,
		p.PaymentDate, p.PaidBy, p.ID, from)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to save payroll period %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return payroll.Period{}, err
		}
		return payroll.Period{}, payroll.ErrInvalidTransition
	}
	return r.GetByID(ctx, p.ID)
}

// Lock implements payroll.PeriodRepository with a session advisory lock
// held on a dedicated pool connection.
func (r *periodRepositoryImpl) Lock(ctx context.Context, year, month int) (func(), error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection for payroll lock: %w", err)
	}

	key := year*100 + month
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1, $2)`, payrollLockClass, key); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to lock payroll period %04d-%02d: %w", year, month, err)
	}

	return func() {
		// The caller's context may already be done.
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1, $2)`, payrollLockClass, key); err != nil {
			// Closing the connection drops the session lock.
			_ = conn.Conn().Close(context.Background())
		}
		conn.Release()
	}, nil
}

// IsDateLocked implements payroll.PeriodRepository.
func (r *periodRepositoryImpl) IsDateLocked(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var locked bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payroll_periods
			WHERE year = $1 AND month = $2 AND status IN ('approved', 'paid')
		)
	`, date.Year(), int(date.Month())).Scan(&locked)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll period lock: %w", err)
	}
	return locked, nil
}

// ========== RECORDS ==========

type recordRepositoryImpl struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) payroll.RecordRepository {
	return &recordRepositoryImpl{db: db}
}

const recordSelect = `
	SELECT r.id, r.employee_id, r.period_id, r.working_days, r.present_days, r.absent_days,
		r.leave_days, r.half_days, r.wfh_days,
		r.basic_salary, r.hra, r.da, r.conveyance_allowance, r.medical_allowance, r.other_allowances,
		r.pf_deduction, r.esi_deduction, r.income_tax, r.other_deductions,
		r.ledger_deductions, r.deductions_detail, r.gross_salary, r.total_deductions, r.net_salary,
		r.created_at, r.updated_at, e.employee_code,
		NULLIF(TRIM(e.first_name || ' ' || e.last_name), ''), p.year, p.month
	FROM payroll_records r
	JOIN employees e ON e.id = r.employee_id
	JOIN payroll_periods p ON p.id = r.period_id`

func scanRecord(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	var detail []byte
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.PeriodID,
		&rec.WorkingDays,
		&rec.PresentDays,
		&rec.AbsentDays,
		&rec.LeaveDays,
		&rec.HalfDays,
		&rec.WFHDays,
		&rec.Earnings.Basic,
		&rec.Earnings.HRA,
		&rec.Earnings.DA,
		&rec.Earnings.Conveyance,
		&rec.Earnings.Medical,
		&rec.Earnings.OtherAllowances,
		&rec.Deductions.PF,
		&rec.Deductions.ESI,
		&rec.Deductions.IncomeTax,
		&rec.Deductions.OtherDeductions,
		&rec.LedgerDeductions,
		&detail,
		&rec.GrossSalary,
		&rec.TotalDeductions,
		&rec.NetSalary,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.EmployeeCode,
		&rec.EmployeeName,
		&rec.PeriodYear,
		&rec.PeriodMonth,
	)
	if err != nil {
		return payroll.Record{}, err
	}
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &rec.DeductionsDetail); err != nil {
			return payroll.Record{}, fmt.Errorf("failed to decode deductions detail: %w", err)
		}
	}
	return rec, nil
}

// Upsert implements payroll.RecordRepository.
func (r *recordRepositoryImpl) Upsert(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	detail := rec.DeductionsDetail
	if detail == nil {
		detail = map[string]decimal.Decimal{}
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode deductions detail: %w", err)
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, period_id, working_days, present_days, absent_days, leave_days,
			half_days, wfh_days, basic_salary, hra, da, conveyance_allowance, medical_allowance,
			other_allowances, pf_deduction, esi_deduction, income_tax, other_deductions,
			ledger_deductions, deductions_detail, gross_salary, total_deductions, net_salary
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
		ON CONFLICT (employee_id, period_id) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			present_days = EXCLUDED.present_days,
			absent_days = EXCLUDED.absent_days,
			leave_days = EXCLUDED.leave_days,
			half_days = EXCLUDED.half_days,
			wfh_days = EXCLUDED.wfh_days,
			basic_salary = EXCLUDED.basic_salary,
			hra = EXCLUDED.hra,
			da = EXCLUDED.da,
			conveyance_allowance = EXCLUDED.conveyance_allowance,
			medical_allowance = EXCLUDED.medical_allowance,
			other_allowances = EXCLUDED.other_allowances,
			pf_deduction = EXCLUDED.pf_deduction,
			esi_deduction = EXCLUDED.esi_deduction,
			income_tax = EXCLUDED.income_tax,
			other_deductions = EXCLUDED.other_deductions,
			ledger_deductions = EXCLUDED.ledger_deductions,
			deductions_detail = EXCLUDED.deductions_detail,
			gross_salary = EXCLUDED.gross_salary,
			total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary,
			updated_at = NOW()
		RETURNING id
	`

	var id string
	err = q.QueryRow(ctx, query,
		newID(),
		rec.EmployeeID,
		rec.PeriodID,
		rec.WorkingDays,
		rec.PresentDays,
		rec.AbsentDays,
		rec.LeaveDays,
		rec.HalfDays,
		rec.WFHDays,
		rec.Earnings.Basic,
		rec.Earnings.HRA,
		rec.Earnings.DA,
		rec.Earnings.Conveyance,
		rec.Earnings.Medical,
		rec.Earnings.OtherAllowances,
		rec.Deductions.PF,
		rec.Deductions.ESI,
		rec.Deductions.IncomeTax,
		rec.Deductions.OtherDeductions,
		rec.LedgerDeductions,
		detailJSON,
		rec.GrossSalary,
		rec.TotalDeductions,
		rec.NetSalary,
	).Scan(&id)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to upsert payroll record of employee %s: %w", rec.EmployeeID, err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements payroll.RecordRepository.
func (r *recordRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	return r.getOne(ctx, recordSelect+` WHERE r.id = $1`, id)
}

// GetByEmployeeAndPeriod implements payroll.RecordRepository.
func (r *recordRepositoryImpl) GetByEmployeeAndPeriod(ctx context.Context, employeeID, periodID string) (payroll.Record, error) {
	return r.getOne(ctx, recordSelect+` WHERE r.employee_id = $1 AND r.period_id = $2`, employeeID, periodID)
}

func (r *recordRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanRecord(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

// List implements payroll.RecordRepository.
func (r *recordRepositoryImpl) List(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.PeriodID != nil {
		conditions = append(conditions, fmt.Sprintf("r.period_id = $%d", argIdx))
		args = append(args, *filter.PeriodID)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("r.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
	}

	query := recordSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.year DESC, p.month DESC, e.employee_code"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReplaceAppliedDeductions implements payroll.RecordRepository.
func (r *recordRepositoryImpl) ReplaceAppliedDeductions(ctx context.Context, recordID string, applied []deduction.Applied) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_record_deductions WHERE record_id = $1`, recordID); err != nil {
		return fmt.Errorf("failed to clear applied deductions of record %s: %w", recordID, err)
	}

	for _, a := range applied {
		_, err := q.Exec(ctx, `
			INSERT INTO payroll_record_deductions
				(record_id, deduction_id, deduction_type, description, amount, installment_number)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, recordID, a.DeductionID, a.Type, a.Description, a.Amount, a.InstallmentNumber)
		if err != nil {
			return fmt.Errorf("failed to store applied deduction %s: %w", a.DeductionID, err)
		}
	}
	return nil
}

// ListAppliedDeductionsByPeriod implements payroll.RecordRepository.
func (r *recordRepositoryImpl) ListAppliedDeductionsByPeriod(ctx context.Context, periodID string) ([]deduction.Applied, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT d.deduction_id, d.deduction_type, d.description, d.amount, d.installment_number
		FROM payroll_record_deductions d
		JOIN payroll_records r ON r.id = d.record_id
		WHERE r.period_id = $1
		ORDER BY d.deduction_id
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied deductions of period %s: %w", periodID, err)
	}
	defer rows.Close()

	var applied []deduction.Applied
	for rows.Next() {
		var a deduction.Applied
		if err := rows.Scan(&a.DeductionID, &a.Type, &a.Description, &a.Amount, &a.InstallmentNumber); err != nil {
			return nil, fmt.Errorf("failed to scan applied deduction: %w", err)
		}
		applied = append(applied, a)
	}
	return applied, rows.Err()
}

// ========== SLIPS ==========

type slipRepositoryImpl struct {
	db *database.DB
}

func NewSlipRepository(db *database.DB) payroll.SlipRepository {
	return &slipRepositoryImpl{db: db}
}

const slipColumns = `id, record_id, slip_number, pdf_generated, pdf_path, generated_date, created_at`

func scanSlip(row pgx.Row) (payroll.Slip, error) {
	var s payroll.Slip
	err := row.Scan(
		&s.ID,
		&s.RecordID,
		&s.SlipNumber,
		&s.PDFGenerated,
		&s.PDFPath,
		&s.GeneratedDate,
		&s.CreatedAt,
	)
	return s, err
}

// Ensure implements payroll.SlipRepository.
func (r *slipRepositoryImpl) Ensure(ctx context.Context, recordID, slipNumber string) (payroll.Slip, error) {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO salary_slips (id, record_id, slip_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (record_id) DO NOTHING
	`, newID(), recordID, slipNumber)
	if err != nil {
		return payroll.Slip{}, fmt.Errorf("failed to issue slip %s: %w", slipNumber, err)
	}
	return r.GetByRecordID(ctx, recordID)
}

// GetByID implements payroll.SlipRepository.
func (r *slipRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Slip, error) {
	return r.getOne(ctx, `SELECT `+slipColumns+` FROM salary_slips WHERE id = $1`, id)
}

// GetByRecordID implements payroll.SlipRepository.
func (r *slipRepositoryImpl) GetByRecordID(ctx context.Context, recordID string) (payroll.Slip, error) {
	return r.getOne(ctx, `SELECT `+slipColumns+` FROM salary_slips WHERE record_id = $1`, recordID)
}

func (r *slipRepositoryImpl) getOne(ctx context.Context, query string, arg string) (payroll.Slip, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSlip(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Slip{}, payroll.ErrSlipNotFound
		}
		return payroll.Slip{}, fmt.Errorf("failed to get salary slip: %w", err)
	}
	return s, nil
}

// MarkGenerated implements payroll.SlipRepository.
func (r *slipRepositoryImpl) MarkGenerated(ctx context.Context, id, path string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE salary_slips SET pdf_generated = TRUE, pdf_path = $1, generated_date = $2
		WHERE id = $3
	`, path, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark slip %s generated: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSlipNotFound
	}
	return nil
}

// ListPending implements payroll.SlipRepository.
func (r *slipRepositoryImpl) ListPending(ctx context.Context, limit int) ([]payroll.Slip, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT s.id, s.record_id, s.slip_number, s.pdf_generated, s.pdf_path, s.generated_date, s.created_at
		FROM salary_slips s
		JOIN payroll_records pr ON pr.id = s.record_id
		JOIN payroll_periods pp ON pp.id = pr.period_id
		WHERE NOT s.pdf_generated AND pp.status IN ('approved', 'paid')
		ORDER BY s.slip_number
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending slips: %w", err)
	}
	defer rows.Close()

	var slips []payroll.Slip
	for rows.Next() {
		s, err := scanSlip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary slip: %w", err)
		}
		slips = append(slips, s)
	}
	return slips, rows.Err()
}
