package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deductionRepositoryImpl struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepositoryImpl{db: db}
}

const deductionColumns = `id, employee_id, deduction_type, amount, description, from_date, to_date,
	number_of_installments, monthly_installment, paid_installments, installments_paid, is_active,
	created_at, updated_at`

func scanDeduction(row pgx.Row) (deduction.Deduction, error) {
	var d deduction.Deduction
	err := row.Scan(
		&d.ID,
		&d.EmployeeID,
		&d.Type,
		&d.Amount,
		&d.Description,
		&d.FromDate,
		&d.ToDate,
		&d.NumberOfInstallments,
		&d.MonthlyInstallment,
		&d.PaidInstallments,
		&d.InstallmentsPaid,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Create implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) Create(ctx context.Context, d deduction.Deduction) (deduction.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deductions (
			id, employee_id, deduction_type, amount, description, from_date, to_date,
			number_of_installments, monthly_installment, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + deductionColumns

	created, err := scanDeduction(q.QueryRow(ctx, query,
		newID(),
		d.EmployeeID,
		d.Type,
		d.Amount,
		d.Description,
		d.FromDate,
		d.ToDate,
		d.NumberOfInstallments,
		d.MonthlyInstallment,
		d.IsActive,
	))
	if err != nil {
		return deduction.Deduction{}, fmt.Errorf("failed to create deduction: %w", err)
	}
	return created, nil
}

// GetByID implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) GetByID(ctx context.Context, id string) (deduction.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDeduction(q.QueryRow(ctx, `SELECT `+deductionColumns+` FROM deductions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deduction.Deduction{}, deduction.ErrDeductionNotFound
		}
		return deduction.Deduction{}, fmt.Errorf("failed to get deduction %s: %w", id, err)
	}
	return d, nil
}

// ListByEmployee implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]deduction.Deduction, error) {
	query := `SELECT ` + deductionColumns + ` FROM deductions
		WHERE employee_id = $1 AND (NOT $2 OR is_active)
		ORDER BY created_at DESC`
	return r.query(ctx, query, employeeID, activeOnly)
}

// ListActiveInRange implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) ListActiveInRange(ctx context.Context, employeeID string, start, end time.Time) ([]deduction.Deduction, error) {
	query := `SELECT ` + deductionColumns + ` FROM deductions
		WHERE employee_id = $1 AND is_active AND from_date <= $3 AND to_date >= $2
		ORDER BY from_date, id`
	return r.query(ctx, query, employeeID, start, end)
}

// Deactivate implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE deductions SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate deduction %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return deduction.ErrDeductionNotFound
	}
	return nil
}

// MarkInstallmentPaid implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) MarkInstallmentPaid(ctx context.Context, id string, number int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE deductions d
		SET paid_installments = n.paid,
			installments_paid = cardinality(n.paid),
			is_active = d.is_active AND cardinality(n.paid) < COALESCE(d.number_of_installments, 1),
			updated_at = NOW()
		FROM (
			SELECT id, ARRAY(
				SELECT DISTINCT x FROM unnest(array_append(paid_installments, $2::INTEGER)) AS x ORDER BY x
			) AS paid
			FROM deductions
			WHERE id = $1
		) n
		WHERE d.id = n.id
	`
	tag, err := q.Exec(ctx, query, id, number)
	if err != nil {
		return fmt.Errorf("failed to advance installments of deduction %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return deduction.ErrDeductionNotFound
	}
	return nil
}

func (r *deductionRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]deduction.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deductions: %w", err)
	}
	defer rows.Close()

	var deductions []deduction.Deduction
	for rows.Next() {
		d, err := scanDeduction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}
