package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.role, u.is_active, u.created_at, u.updated_at,
	e.id, e.employee_number, e.first_name, e.last_name, e.position, e.address, e.hire_date,
	e.created_at, e.updated_at`

// scanUser reads userColumns; the employment join may be all NULL.
func scanUser(row pgx.Row) (user.User, error) {
	var (
		u              user.User
		infoID         *string
		employeeNumber *int64
		info           user.EmploymentInfo
		firstName      *string
		lastName       *string
		position       *string
		address        *string
		hireDate       *time.Time
		infoCreated    *time.Time
		infoUpdated    *time.Time
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		&infoID, &employeeNumber, &firstName, &lastName, &position, &address, &hireDate,
		&infoCreated, &infoUpdated,
	)
	if err != nil {
		return user.User{}, err
	}
	if infoID != nil {
		info.ID = *infoID
		info.UserID = u.ID
		info.EmployeeNumber = *employeeNumber
		info.FirstName = *firstName
		info.LastName = *lastName
		info.Position = *position
		info.Address = *address
		info.HireDate = *hireDate
		info.CreatedAt = *infoCreated
		info.UpdatedAt = *infoUpdated
		u.EmploymentInfo = &info
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, role, is_active, created_at, updated_at
	`

	var created user.User
	err := q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.IsActive,
	).Scan(
		&created.ID,
		&created.Email,
		&created.PasswordHash,
		&created.Role,
		&created.IsActive,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employment_infos e ON e.user_id = u.id
		WHERE u.id = $1
	`

	found, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return found, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employment_infos e ON e.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
	`

	found, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return found, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND u.role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND u.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (u.email ILIKE $%d OR (e.first_name || ' ' || e.last_name) ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM users u LEFT JOIN employment_infos e ON e.user_id = u.id WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s
		FROM users u
		LEFT JOIN employment_infos e ON e.user_id = u.id
		WHERE %s
		ORDER BY u.created_at ASC
		%s
	`, userColumns, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET email = $1, password_hash = $2, role = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, u.Email, u.PasswordHash, u.Role, u.IsActive, u.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrUserEmailExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetActive implements user.UserRepository.
func (r *userRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set user activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ListActiveIDs implements user.UserRepository.
func (r *userRepositoryImpl) ListActiveIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM users WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ========== EMPLOYMENT INFO ==========

type employmentInfoRepositoryImpl struct {
	db *database.DB
}

func NewEmploymentInfoRepository(db *database.DB) user.EmploymentInfoRepository {
	return &employmentInfoRepositoryImpl{db: db}
}

const employmentColumns = `
	id, user_id, employee_number, first_name, last_name, position, address, hire_date,
	created_at, updated_at`

func scanEmployment(row pgx.Row) (user.EmploymentInfo, error) {
	var e user.EmploymentInfo
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Position, &e.Address, &e.HireDate,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements user.EmploymentInfoRepository.
func (r *employmentInfoRepositoryImpl) Create(ctx context.Context, info user.EmploymentInfo) (user.EmploymentInfo, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employment_infos (user_id, employee_number, first_name, last_name, position, address, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + employmentColumns

	created, err := scanEmployment(q.QueryRow(ctx, query,
		info.UserID, info.EmployeeNumber, info.FirstName, info.LastName, info.Position, info.Address, info.HireDate,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.EmploymentInfo{}, user.ErrEmployeeNumberExists
		}
		return user.EmploymentInfo{}, fmt.Errorf("failed to create employment info: %w", err)
	}
	return created, nil
}

// GetByUserID implements user.EmploymentInfoRepository.
func (r *employmentInfoRepositoryImpl) GetByUserID(ctx context.Context, userID string) (user.EmploymentInfo, error) {
	q := GetQuerier(ctx, r.db)

	info, err := scanEmployment(q.QueryRow(ctx, `SELECT `+employmentColumns+` FROM employment_infos WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.EmploymentInfo{}, user.ErrEmploymentInfoNotFound
		}
		return user.EmploymentInfo{}, fmt.Errorf("failed to get employment info: %w", err)
	}
	return info, nil
}

// GetByEmployeeNumber implements user.EmploymentInfoRepository.
func (r *employmentInfoRepositoryImpl) GetByEmployeeNumber(ctx context.Context, employeeNumber int64) (user.EmploymentInfo, error) {
	q := GetQuerier(ctx, r.db)

	info, err := scanEmployment(q.QueryRow(ctx, `SELECT `+employmentColumns+` FROM employment_infos WHERE employee_number = $1`, employeeNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.EmploymentInfo{}, user.ErrEmploymentInfoNotFound
		}
		return user.EmploymentInfo{}, fmt.Errorf("failed to get employment info by employee number: %w", err)
	}
	return info, nil
}

// Update implements user.EmploymentInfoRepository.
func (r *employmentInfoRepositoryImpl) Update(ctx context.Context, info user.EmploymentInfo) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employment_infos
		SET employee_number = $1, first_name = $2, last_name = $3, position = $4,
			address = $5, hire_date = $6, updated_at = NOW()
		WHERE user_id = $7
	`
	tag, err := q.Exec(ctx, query,
		info.EmployeeNumber, info.FirstName, info.LastName, info.Position, info.Address, info.HireDate, info.UserID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrEmployeeNumberExists
		}
		return fmt.Errorf("failed to update employment info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrEmploymentInfoNotFound
	}
	return nil
}
