package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryStructureRepositoryImpl struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) salary.StructureRepository {
	return &salaryStructureRepositoryImpl{db: db}
}

const salaryStructureColumns = `id, employee_id, basic_salary, hra, da, conveyance_allowance, medical_allowance,
	other_allowances, pf_deduction, esi_deduction, income_tax, other_deductions, created_at, updated_at`

func scanSalaryStructure(row pgx.Row) (salary.Structure, error) {
	var s salary.Structure
	err := row.Scan(
		&s.ID,
		&s.EmployeeID,
		&s.Earnings.Basic,
		&s.Earnings.HRA,
		&s.Earnings.DA,
		&s.Earnings.Conveyance,
		&s.Earnings.Medical,
		&s.Earnings.OtherAllowances,
		&s.Deductions.PF,
		&s.Deductions.ESI,
		&s.Deductions.IncomeTax,
		&s.Deductions.OtherDeductions,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// GetByEmployeeID implements salary.StructureRepository.
func (r *salaryStructureRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryStructureColumns + ` FROM salary_structures WHERE employee_id = $1`
	s, err := scanSalaryStructure(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Structure{}, salary.ErrStructureNotFound
		}
		return salary.Structure{}, fmt.Errorf("failed to get salary structure of employee %s: %w", employeeID, err)
	}
	return s, nil
}

// Upsert implements salary.StructureRepository.
func (r *salaryStructureRepositoryImpl) Upsert(ctx context.Context, s salary.Structure) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_structures (
			id, employee_id, basic_salary, hra, da, conveyance_allowance, medical_allowance,
			other_allowances, pf_deduction, esi_deduction, income_tax, other_deductions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (employee_id) DO UPDATE SET
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
			updated_at = NOW()
		RETURNING ` + salaryStructureColumns

	saved, err := scanSalaryStructure(q.QueryRow(ctx, query,
		newID(),
		s.EmployeeID,
		s.Earnings.Basic,
		s.Earnings.HRA,
		s.Earnings.DA,
		s.Earnings.Conveyance,
		s.Earnings.Medical,
		s.Earnings.OtherAllowances,
		s.Deductions.PF,
		s.Deductions.ESI,
		s.Deductions.IncomeTax,
		s.Deductions.OtherDeductions,
	))
	if err != nil {
		return salary.Structure{}, fmt.Errorf("failed to save salary structure of employee %s: %w", s.EmployeeID, err)
	}
	return saved, nil
}
