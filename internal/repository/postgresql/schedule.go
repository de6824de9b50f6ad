package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/holiday"
	"github.com/fresco-hris/payroll-backend/internal/domain/schedule"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ========== SHIFTS ==========

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, date, shift_start, shift_end, expected_hours, created_at, updated_at`

func scanShift(row pgx.Row) (schedule.Shift, error) {
	var (
		sh         schedule.Shift
		start, end pgtype.Time
	)
	if err := row.Scan(&sh.ID, &sh.Date, &start, &end, &sh.ExpectedHours, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
		return schedule.Shift{}, err
	}
	sh.Start = *timeutil.ClockFromPG(start)
	sh.End = *timeutil.ClockFromPG(end)
	return sh, nil
}

func (r *shiftRepository) Create(ctx context.Context, shift schedule.Shift) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (date, shift_start, shift_end, expected_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query, shift.Date, shift.Start.PG(), shift.End.PG(), shift.ExpectedHours))
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	sh, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return sh, nil
}

func (r *shiftRepository) Update(ctx context.Context, shift schedule.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET date = $1, shift_start = $2, shift_end = $3, expected_hours = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, shift.Date, shift.Start.PG(), shift.End.PG(), shift.ExpectedHours, shift.ID)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrShiftNotFound
	}
	return nil
}

// Delete refuses shifts still attached to a schedule.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return schedule.ErrShiftInUse
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrShiftNotFound
	}
	return nil
}

func (r *shiftRepository) List(ctx context.Context, filter schedule.ShiftFilter) ([]schedule.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM shifts WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM shifts WHERE %s ORDER BY date ASC, shift_start ASC %s`,
		shiftColumns, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []schedule.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, total, rows.Err()
}

func (r *shiftRepository) GetOnDate(ctx context.Context, ids []string, date time.Time) (schedule.Shift, error) {
	if len(ids) == 0 {
		return schedule.Shift{}, schedule.ErrShiftNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = ANY($1) AND date = $2 ORDER BY shift_start LIMIT 1`
	sh, err := scanShift(q.QueryRow(ctx, query, ids, timeutil.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift on date: %w", err)
	}
	return sh, nil
}

// ========== SCHEDULES ==========

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `
	s.id, s.user_id, s.period_policy, s.period_start, s.period_end, s.created_at, s.updated_at,
	COALESCE(ARRAY(SELECT ss.shift_id::text FROM schedule_shifts ss WHERE ss.schedule_id = s.id ORDER BY ss.position), '{}')`

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var sc schedule.Schedule
	err := row.Scan(&sc.ID, &sc.UserID, &sc.PeriodPolicy, &sc.PeriodStart, &sc.PeriodEnd, &sc.CreatedAt, &sc.UpdatedAt, &sc.ShiftIDs)
	return sc, err
}

func (r *scheduleRepository) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedules (user_id, period_policy, period_start, period_end)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	if err := q.QueryRow(ctx, query, s.UserID, s.PeriodPolicy, s.PeriodStart, s.PeriodEnd).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to create schedule: %w", err)
	}
	if err := r.insertShifts(ctx, q, s.ID, s.ShiftIDs); err != nil {
		return schedule.Schedule{}, err
	}
	return s, nil
}

// insertShifts appends links after the schedule's current last position.
func (r *scheduleRepository) insertShifts(ctx context.Context, q database.Querier, scheduleID string, shiftIDs []string) error {
	if len(shiftIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO schedule_shifts (schedule_id, shift_id, position)
		SELECT $1, ids.shift_id, ids.ord + COALESCE((SELECT MAX(position) FROM schedule_shifts WHERE schedule_id = $1), 0)
		FROM UNNEST($2::uuid[]) WITH ORDINALITY AS ids(shift_id, ord)
	`
	if _, err := q.Exec(ctx, query, scheduleID, shiftIDs); err != nil {
		if database.IsUniqueViolation(err) {
			return schedule.ErrShiftAlreadyAdded
		}
		if database.IsForeignKeyViolation(err) {
			return schedule.ErrShiftNotFound
		}
		return fmt.Errorf("failed to attach shifts: %w", err)
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	sc, err := scanSchedule(q.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedules s WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return sc, nil
}

func (r *scheduleRepository) ListByUser(ctx context.Context, userID string) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+scheduleColumns+` FROM schedules s WHERE s.user_id = $1 ORDER BY s.created_at DESC, s.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, sc)
	}
	return schedules, rows.Err()
}

func (r *scheduleRepository) AttachShifts(ctx context.Context, scheduleID string, shiftIDs []string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schedules WHERE id = $1)`, scheduleID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check schedule: %w", err)
	}
	if !exists {
		return schedule.ErrScheduleNotFound
	}
	if err := r.insertShifts(ctx, q, scheduleID, shiftIDs); err != nil {
		return err
	}
	_, err := q.Exec(ctx, `UPDATE schedules SET updated_at = NOW() WHERE id = $1`, scheduleID)
	return err
}

func (r *scheduleRepository) DetachShift(ctx context.Context, scheduleID, shiftID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedule_shifts WHERE schedule_id = $1 AND shift_id = $2`, scheduleID, shiftID)
	if err != nil {
		return fmt.Errorf("failed to detach shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, scheduleID); err != nil {
			return err
		}
		return schedule.ErrShiftNotFound
	}
	_, err = q.Exec(ctx, `UPDATE schedules SET updated_at = NOW() WHERE id = $1`, scheduleID)
	return err
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// ========== HOLIDAYS ==========

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

const holidayColumns = `id, name, date, type, description, created_at, updated_at`

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(&h.ID, &h.Name, &h.Date, &h.Type, &h.Description, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (r *holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (name, date, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + holidayColumns

	created, err := scanHoliday(q.QueryRow(ctx, query, h.Name, h.Date, h.Type, h.Description))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

func (r *holidayRepository) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return h, nil
}

func (r *holidayRepository) Update(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE holidays
		SET name = $1, date = $2, type = $3, description = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, h.Name, h.Date, h.Type, h.Description, h.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return holiday.ErrHolidayExists
		}
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepository) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE date BETWEEN $1 AND $2 ORDER BY date ASC`
	rows, err := q.Query(ctx, query, timeutil.DateOf(start), timeutil.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
