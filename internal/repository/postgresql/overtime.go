package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ========== ATTENDANCE SUMMARIES ==========

type summaryRepository struct {
	db *database.DB
}

func NewSummaryRepository(db *database.DB) summary.SummaryRepository {
	return &summaryRepository{db: db}
}

const summaryColumns = `
	id, user_id, period_start, period_end, actual_hours, overtime_hours,
	late_minutes, undertime_minutes, total_actual_minutes, total_overtime_minutes,
	attendance_id, created_at, updated_at`

func scanSummary(row pgx.Row) (summary.AttendanceSummary, error) {
	var s summary.AttendanceSummary
	err := row.Scan(
		&s.ID, &s.UserID, &s.PeriodStart, &s.PeriodEnd, &s.ActualHours, &s.OvertimeHours,
		&s.LateMinutes, &s.UndertimeMinutes, &s.TotalActualMinutes, &s.TotalOvertimeMinutes,
		&s.AttendanceID, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Upsert implements summary.SummaryRepository.
func (r *summaryRepository) Upsert(ctx context.Context, s summary.AttendanceSummary) (summary.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_summaries (
			user_id, period_start, period_end, actual_hours, overtime_hours,
			late_minutes, undertime_minutes, total_actual_minutes, total_overtime_minutes,
			attendance_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, period_start) DO UPDATE SET
			period_end = EXCLUDED.period_end,
			actual_hours = EXCLUDED.actual_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			late_minutes = EXCLUDED.late_minutes,
			undertime_minutes = EXCLUDED.undertime_minutes,
			total_actual_minutes = EXCLUDED.total_actual_minutes,
			total_overtime_minutes = EXCLUDED.total_overtime_minutes,
			attendance_id = EXCLUDED.attendance_id,
			updated_at = NOW()
		RETURNING ` + summaryColumns

	stored, err := scanSummary(q.QueryRow(ctx, query,
		s.UserID, s.PeriodStart, s.PeriodEnd, s.ActualHours, s.OvertimeHours,
		s.LateMinutes, s.UndertimeMinutes, s.TotalActualMinutes, s.TotalOvertimeMinutes,
		s.AttendanceID,
	))
	if err != nil {
		return summary.AttendanceSummary{}, fmt.Errorf("failed to upsert attendance summary: %w", err)
	}
	return stored, nil
}

func (r *summaryRepository) GetByID(ctx context.Context, id string) (summary.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSummary(q.QueryRow(ctx, `SELECT `+summaryColumns+` FROM attendance_summaries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary.AttendanceSummary{}, summary.ErrSummaryNotFound
		}
		return summary.AttendanceSummary{}, fmt.Errorf("failed to get attendance summary: %w", err)
	}
	return s, nil
}

func (r *summaryRepository) GetByUserAndPeriod(ctx context.Context, userID string, periodStart time.Time) (summary.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + ` FROM attendance_summaries WHERE user_id = $1 AND period_start = $2`
	s, err := scanSummary(q.QueryRow(ctx, query, userID, timeutil.DateOf(periodStart)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary.AttendanceSummary{}, summary.ErrSummaryNotFound
		}
		return summary.AttendanceSummary{}, fmt.Errorf("failed to get attendance summary for period: %w", err)
	}
	return s, nil
}

func (r *summaryRepository) List(ctx context.Context, filter summary.SummaryFilter) ([]summary.AttendanceSummary, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.PeriodStart != nil && *filter.PeriodStart != "" {
		baseWhere += fmt.Sprintf(" AND period_start = $%d", argIdx)
		args = append(args, *filter.PeriodStart)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_summaries WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance summaries: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM attendance_summaries WHERE %s ORDER BY period_start DESC %s`,
		summaryColumns, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance summaries: %w", err)
	}
	defer rows.Close()

	var summaries []summary.AttendanceSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// ========== OVERTIME HOURS ==========

type hoursRepository struct {
	db *database.DB
}

func NewOvertimeHoursRepository(db *database.DB) overtime.HoursRepository {
	return &hoursRepository{db: db}
}

const hoursColumns = `
	id, user_id, summary_id, period_start,
	regular_ot, regular_holiday, special_holiday, late_minutes, undertime_hours,
	rest_day, night_diff, backwage, created_at, updated_at`

func scanHours(row pgx.Row) (overtime.OvertimeHours, error) {
	var h overtime.OvertimeHours
	err := row.Scan(
		&h.ID, &h.UserID, &h.SummaryID, &h.PeriodStart,
		&h.RegularOT, &h.RegularHoliday, &h.SpecialHoliday, &h.LateMinutes, &h.UndertimeHours,
		&h.RestDay, &h.NightDiff, &h.Backwage, &h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}

// UpsertDerived implements overtime.HoursRepository. The conflict branch
// never touches rest_day, night_diff or backwage.
func (r *hoursRepository) UpsertDerived(ctx context.Context, h overtime.OvertimeHours) (overtime.OvertimeHours, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_hours (
			user_id, summary_id, period_start,
			regular_ot, regular_holiday, special_holiday, late_minutes, undertime_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (summary_id) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			regular_ot = EXCLUDED.regular_ot,
			regular_holiday = EXCLUDED.regular_holiday,
			special_holiday = EXCLUDED.special_holiday,
			late_minutes = EXCLUDED.late_minutes,
			undertime_hours = EXCLUDED.undertime_hours,
			updated_at = NOW()
		RETURNING ` + hoursColumns

	stored, err := scanHours(q.QueryRow(ctx, query,
		h.UserID, h.SummaryID, h.PeriodStart,
		h.RegularOT, h.RegularHoliday, h.SpecialHoliday, h.LateMinutes, h.UndertimeHours,
	))
	if err != nil {
		return overtime.OvertimeHours{}, fmt.Errorf("failed to upsert overtime hours: %w", err)
	}
	return stored, nil
}

func (r *hoursRepository) GetByID(ctx context.Context, id string) (overtime.OvertimeHours, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHours(q.QueryRow(ctx, `SELECT `+hoursColumns+` FROM overtime_hours WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OvertimeHours{}, overtime.ErrOvertimeHoursNotFound
		}
		return overtime.OvertimeHours{}, fmt.Errorf("failed to get overtime hours: %w", err)
	}
	return h, nil
}

func (r *hoursRepository) UpdateManual(ctx context.Context, id string, restDay, nightDiff, backwage decimal.Decimal) (overtime.OvertimeHours, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_hours
		SET rest_day = $1, night_diff = $2, backwage = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + hoursColumns

	h, err := scanHours(q.QueryRow(ctx, query, restDay, nightDiff, backwage, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OvertimeHours{}, overtime.ErrOvertimeHoursNotFound
		}
		return overtime.OvertimeHours{}, fmt.Errorf("failed to update overtime hours: %w", err)
	}
	return h, nil
}

func (r *hoursRepository) ListByUser(ctx context.Context, userID string) ([]overtime.OvertimeHours, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+hoursColumns+` FROM overtime_hours WHERE user_id = $1 ORDER BY period_start ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime hours: %w", err)
	}
	defer rows.Close()

	var hours []overtime.OvertimeHours
	for rows.Next() {
		h, err := scanHours(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime hours: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

func (r *hoursRepository) List(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.OvertimeHours, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := overtimeWhere(filter)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM overtime_hours WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime hours: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM overtime_hours WHERE %s ORDER BY period_start DESC %s`,
		hoursColumns, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query overtime hours: %w", err)
	}
	defer rows.Close()

	var hours []overtime.OvertimeHours
	for rows.Next() {
		h, err := scanHours(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime hours: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, total, rows.Err()
}

func overtimeWhere(filter overtime.OvertimeFilter) (string, []interface{}, int) {
	if filter.UserID != nil && *filter.UserID != "" {
		return "user_id = $1", []interface{}{*filter.UserID}, 2
	}
	return "1=1", []interface{}{}, 1
}

// ========== TOTAL OVERTIME ==========

type totalRepository struct {
	db *database.DB
}

func NewTotalOvertimeRepository(db *database.DB) overtime.TotalRepository {
	return &totalRepository{db: db}
}

const totalColumns = `
	id, overtime_hours_id, user_id, period_start,
	regular_ot, regular_holiday, special_holiday, rest_day, night_diff, backwage,
	late, undertime, total, created_at, updated_at`

func scanTotal(row pgx.Row) (overtime.TotalOvertime, error) {
	var t overtime.TotalOvertime
	err := row.Scan(
		&t.ID, &t.OvertimeHoursID, &t.UserID, &t.PeriodStart,
		&t.RegularOT, &t.RegularHoliday, &t.SpecialHoliday, &t.RestDay, &t.NightDiff, &t.Backwage,
		&t.Late, &t.Undertime, &t.Total, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Upsert implements overtime.TotalRepository.
func (r *totalRepository) Upsert(ctx context.Context, t overtime.TotalOvertime) (overtime.TotalOvertime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO total_overtimes (
			overtime_hours_id, user_id, period_start,
			regular_ot, regular_holiday, special_holiday, rest_day, night_diff, backwage,
			late, undertime, total
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (overtime_hours_id) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			regular_ot = EXCLUDED.regular_ot,
			regular_holiday = EXCLUDED.regular_holiday,
			special_holiday = EXCLUDED.special_holiday,
			rest_day = EXCLUDED.rest_day,
			night_diff = EXCLUDED.night_diff,
			backwage = EXCLUDED.backwage,
			late = EXCLUDED.late,
			undertime = EXCLUDED.undertime,
			total = EXCLUDED.total,
			updated_at = NOW()
		RETURNING ` + totalColumns

	stored, err := scanTotal(q.QueryRow(ctx, query,
		t.OvertimeHoursID, t.UserID, t.PeriodStart,
		t.RegularOT, t.RegularHoliday, t.SpecialHoliday, t.RestDay, t.NightDiff, t.Backwage,
		t.Late, t.Undertime, t.Total,
	))
	if err != nil {
		return overtime.TotalOvertime{}, fmt.Errorf("failed to upsert total overtime: %w", err)
	}
	return stored, nil
}

func (r *totalRepository) GetByID(ctx context.Context, id string) (overtime.TotalOvertime, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTotal(q.QueryRow(ctx, `SELECT `+totalColumns+` FROM total_overtimes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.TotalOvertime{}, overtime.ErrTotalOvertimeNotFound
		}
		return overtime.TotalOvertime{}, fmt.Errorf("failed to get total overtime: %w", err)
	}
	return t, nil
}

func (r *totalRepository) LatestByUser(ctx context.Context, userID string, n int) ([]overtime.TotalOvertime, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + totalColumns + ` FROM total_overtimes WHERE user_id = $1 ORDER BY period_start DESC LIMIT $2`
	rows, err := q.Query(ctx, query, userID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest total overtime: %w", err)
	}
	defer rows.Close()

	var totals []overtime.TotalOvertime
	for rows.Next() {
		t, err := scanTotal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan total overtime: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *totalRepository) List(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.TotalOvertime, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := overtimeWhere(filter)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM total_overtimes WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count total overtime: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM total_overtimes WHERE %s ORDER BY period_start DESC %s`,
		totalColumns, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query total overtime: %w", err)
	}
	defer rows.Close()

	var totals []overtime.TotalOvertime
	for rows.Next() {
		t, err := scanTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan total overtime: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, total, rows.Err()
}
