package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/domain/leave"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveSelect = `
	SELECT l.id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.reason, l.status,
		l.approved_by, l.approval_date, l.created_at, l.updated_at, e.employee_code,
		NULLIF(TRIM(e.first_name || ' ' || e.last_name), '')
	FROM leaves l
	JOIN employees e ON e.id = l.employee_id`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.Type,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.ApprovedBy,
		&l.ApprovalDate,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.EmployeeCode,
		&l.EmployeeName,
	)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	id := newID()
	_, err := q.Exec(ctx, `
		INSERT INTO leaves (id, employee_id, leave_type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, l.EmployeeID, l.Type, l.StartDate, l.EndDate, l.Reason, l.Status)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, leaveSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave %s: %w", id, err)
	}
	return l, nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.LeaveType != nil {
		conditions = append(conditions, fmt.Sprintf("l.leave_type = $%d", argIdx))
		args = append(args, *filter.LeaveType)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leaves l`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leaves: %w", err)
	}

	query := leaveSelect + where + fmt.Sprintf(" ORDER BY l.start_date DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	leaves, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

// Decide implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Decide(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leaves
		SET status = $1, approved_by = $2, approval_date = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`, l.Status, l.ApprovedBy, l.ApprovalDate, l.ID)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to decide leave %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or another approver got there first.
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return leave.Leave{}, err
		}
		return leave.Leave{}, leave.ErrLeaveAlreadyDecided
	}
	return r.GetByID(ctx, l.ID)
}

// HasOverlap implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leaves
			WHERE employee_id = $1 AND status IN ('pending', 'approved')
				AND start_date <= $3 AND end_date >= $2
		)
	`, employeeID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	return exists, nil
}

// ListApprovedBetween implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedBetween(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	query := leaveSelect + ` WHERE l.employee_id = $1 AND l.status = 'approved'
		AND l.start_date <= $3 AND l.end_date >= $2 ORDER BY l.start_date`
	return r.query(ctx, query, employeeID, start, end)
}

func (r *leaveRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}
