package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.date, a.status,
		to_char(a.check_in_time, 'HH24:MI'), to_char(a.check_out_time, 'HH24:MI'),
		a.remarks, a.created_at, a.updated_at, e.employee_code,
		NULLIF(TRIM(e.first_name || ' ' || e.last_name), '')
	FROM attendance a
	JOIN employees e ON e.id = a.employee_id`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	err := row.Scan(
		&r.ID,
		&r.EmployeeID,
		&r.Date,
		&r.Status,
		&r.CheckInTime,
		&r.CheckOutTime,
		&r.Remarks,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.EmployeeCode,
		&r.EmployeeName,
	)
	return r, err
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (id, employee_id, date, status, check_in_time, check_out_time, remarks)
		VALUES ($1, $2, $3, $4, $5::text::time, $6::text::time, $7)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			remarks = EXCLUDED.remarks,
			updated_at = NOW()
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		newID(),
		rec.EmployeeID,
		rec.Date,
		rec.Status,
		rec.CheckInTime,
		rec.CheckOutTime,
		rec.Remarks,
	).Scan(&id)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance of employee %s on %s: %w",
			rec.EmployeeID, rec.Date.Format(time.DateOnly), err)
	}

	saved, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to reload attendance %s: %w", id, err)
	}
	return saved, nil
}

// ListByEmployeeBetween implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	query := attendanceSelect + ` WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3 ORDER BY a.date`
	return r.query(ctx, query, employeeID, start, end)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance a`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := attendanceSelect + where +
		fmt.Sprintf(" ORDER BY a.date DESC, e.employee_code LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	records, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *attendanceRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
