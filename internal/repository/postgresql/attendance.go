package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/domain/biometric"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.user_id, a.date, a.check_in_time, a.check_out_time, a.status,
	a.created_at, a.updated_at,
	NULLIF(TRIM(COALESCE(e.first_name, '') || ' ' || COALESCE(e.last_name, '')), '') AS employee_name`

const attendanceFrom = `
	FROM attendances a
	LEFT JOIN employment_infos e ON e.user_id = a.user_id`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att     attendance.Attendance
		in, out pgtype.Time
	)
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &in, &out, &att.Status,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.CheckIn = timeutil.ClockFromPG(in)
	att.CheckOut = timeutil.ClockFromPG(out)
	return att, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository. The
// (user_id, date) constraint settles races between concurrent first punches.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (user_id, date, check_in_time, check_out_time, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO NOTHING
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.Date,
		timeutil.ClockPtrPG(newAttendance.CheckIn),
		timeutil.ClockPtrPG(newAttendance.CheckOut),
		newAttendance.Status,
	).Scan(&id)

	created := true
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
	} else if err != nil {
		return attendance.Attendance{}, false, fmt.Errorf("failed to create attendance: %w", err)
	}

	var stored attendance.Attendance
	if created {
		stored, err = a.GetByID(ctx, id)
	} else {
		stored, err = a.GetByUserAndDate(ctx, newAttendance.UserID, newAttendance.Date)
	}
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	return stored, created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.user_id = $1 AND a.date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, timeutil.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return att, nil
}

// AdvanceCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) AdvanceCheckOut(ctx context.Context, id string, at timeutil.Clock) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $1,
			check_in_time = COALESCE(check_in_time, $1),
			updated_at = NOW()
		WHERE id = $2
		  AND (check_out_time IS NULL OR check_out_time < $1)
	`
	tag, err := q.Exec(ctx, query, at.PG(), id)
	if err != nil {
		return false, fmt.Errorf("failed to advance check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM attendances WHERE id = $1)`, id).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check attendance: %w", err)
		}
		if !exists {
			return false, attendance.ErrAttendanceNotFound
		}
		return false, nil
	}
	return true, nil
}

// UpdateStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `UPDATE attendances SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update attendance status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_time = $1, check_out_time = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query,
		timeutil.ClockPtrPG(att.CheckIn),
		timeutil.ClockPtrPG(att.CheckOut),
		att.Status,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "check_in_time":
		orderByField = "a.check_in_time"
	case "check_out_time":
		orderByField = "a.check_out_time"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY %s %s
		%s
	`, attendanceColumns, attendanceFrom, baseWhere, orderByField, sortOrder,
		limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	return attendances, total, rows.Err()
}

// ListByUserBetween implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + `
		WHERE a.user_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC
	`
	rows, err := q.Query(ctx, query, userID, timeutil.DateOf(start), timeutil.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances in period: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	return attendances, rows.Err()
}

// ========== BIOMETRIC PUNCHES ==========

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) biometric.PunchRepository {
	return &punchRepository{db: db}
}

// Create implements biometric.PunchRepository. Punches are append-only.
func (r *punchRepository) Create(ctx context.Context, punch biometric.Punch) (biometric.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO biometric_punches (employee_number, punched_at, source)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := q.QueryRow(ctx, query, punch.EmployeeNumber, punch.Timestamp, punch.Source).Scan(&punch.ID, &punch.CreatedAt); err != nil {
		return biometric.Punch{}, fmt.Errorf("failed to store punch: %w", err)
	}
	return punch, nil
}

// List implements biometric.PunchRepository.
func (r *punchRepository) List(ctx context.Context, filter biometric.PunchFilter) ([]biometric.Punch, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeNumber != nil {
		baseWhere += fmt.Sprintf(" AND employee_number = $%d", argIdx)
		args = append(args, *filter.EmployeeNumber)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND punched_at::date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND punched_at::date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM biometric_punches WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punches: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, employee_number, punched_at, source, created_at
		FROM biometric_punches
		WHERE %s
		ORDER BY created_at DESC
		%s
	`, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []biometric.Punch
	for rows.Next() {
		var p biometric.Punch
		if err := rows.Scan(&p.ID, &p.EmployeeNumber, &p.Timestamp, &p.Source, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	return punches, total, rows.Err()
}
