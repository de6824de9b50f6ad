package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// Compensation tables are append-only; the newest row per user is the one
// in force, so every read orders by created_at DESC.

// ========== EARNINGS ==========

type earningsRepository struct {
	db *database.DB
}

func NewEarningsRepository(db *database.DB) compensation.EarningsRepository {
	return &earningsRepository{db: db}
}

const earningsColumns = `id, user_id, basic_rate, allowance, tax_exempt, created_at`

func scanEarnings(row pgx.Row) (compensation.Earnings, error) {
	var e compensation.Earnings
	err := row.Scan(&e.ID, &e.UserID, &e.BasicRate, &e.Allowance, &e.TaxExempt, &e.CreatedAt)
	return e, err
}

func (r *earningsRepository) Create(ctx context.Context, e compensation.Earnings) (compensation.Earnings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO earnings (user_id, basic_rate, allowance, tax_exempt)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + earningsColumns

	created, err := scanEarnings(q.QueryRow(ctx, query, e.UserID, e.BasicRate, e.Allowance, e.TaxExempt))
	if err != nil {
		return compensation.Earnings{}, fmt.Errorf("failed to create earnings: %w", err)
	}
	return created, nil
}

func (r *earningsRepository) GetByID(ctx context.Context, id string) (compensation.Earnings, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEarnings(q.QueryRow(ctx, `SELECT `+earningsColumns+` FROM earnings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.Earnings{}, compensation.ErrEarningsNotFound
		}
		return compensation.Earnings{}, fmt.Errorf("failed to get earnings: %w", err)
	}
	return e, nil
}

func (r *earningsRepository) Latest(ctx context.Context, userID string) (compensation.Earnings, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + earningsColumns + ` FROM earnings WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	e, err := scanEarnings(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.Earnings{}, compensation.ErrEarningsNotFound
		}
		return compensation.Earnings{}, fmt.Errorf("failed to get latest earnings: %w", err)
	}
	return e, nil
}

func (r *earningsRepository) ListByUser(ctx context.Context, userID string) ([]compensation.Earnings, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+earningsColumns+` FROM earnings WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query earnings: %w", err)
	}
	defer rows.Close()

	var out []compensation.Earnings
	for rows.Next() {
		e, err := scanEarnings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan earnings: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ========== DEDUCTIONS ==========

type deductionsRepository struct {
	db *database.DB
}

func NewDeductionsRepository(db *database.DB) compensation.DeductionsRepository {
	return &deductionsRepository{db: db}
}

const deductionsColumns = `id, user_id, withholding_tax, absences, loan, charges, other_loan, late_base, created_at`

func scanDeductions(row pgx.Row) (compensation.Deductions, error) {
	var d compensation.Deductions
	err := row.Scan(&d.ID, &d.UserID, &d.WithholdingTax, &d.Absences, &d.Loan, &d.Charges, &d.OtherLoan, &d.LateBase, &d.CreatedAt)
	return d, err
}

func (r *deductionsRepository) Create(ctx context.Context, d compensation.Deductions) (compensation.Deductions, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deductions (user_id, withholding_tax, absences, loan, charges, other_loan, late_base)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + deductionsColumns

	created, err := scanDeductions(q.QueryRow(ctx, query,
		d.UserID, d.WithholdingTax, d.Absences, d.Loan, d.Charges, d.OtherLoan, d.LateBase,
	))
	if err != nil {
		return compensation.Deductions{}, fmt.Errorf("failed to create deductions: %w", err)
	}
	return created, nil
}

func (r *deductionsRepository) GetByID(ctx context.Context, id string) (compensation.Deductions, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDeductions(q.QueryRow(ctx, `SELECT `+deductionsColumns+` FROM deductions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.Deductions{}, compensation.ErrDeductionsNotFound
		}
		return compensation.Deductions{}, fmt.Errorf("failed to get deductions: %w", err)
	}
	return d, nil
}

func (r *deductionsRepository) Latest(ctx context.Context, userID string) (compensation.Deductions, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deductionsColumns + ` FROM deductions WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	d, err := scanDeductions(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.Deductions{}, compensation.ErrDeductionsNotFound
		}
		return compensation.Deductions{}, fmt.Errorf("failed to get latest deductions: %w", err)
	}
	return d, nil
}

func (r *deductionsRepository) ListByUser(ctx context.Context, userID string) ([]compensation.Deductions, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+deductionsColumns+` FROM deductions WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deductions: %w", err)
	}
	defer rows.Close()

	var out []compensation.Deductions
	for rows.Next() {
		d, err := scanDeductions(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deductions: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ========== OVERTIME BASE ==========

type overtimeBaseRepository struct {
	db *database.DB
}

func NewOvertimeBaseRepository(db *database.DB) compensation.OvertimeBaseRepository {
	return &overtimeBaseRepository{db: db}
}

func (r *overtimeBaseRepository) Create(ctx context.Context, o compensation.OvertimeBase) (compensation.OvertimeBase, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_bases (user_id, backwage_base)
		VALUES ($1, $2)
		RETURNING id, user_id, backwage_base, created_at
	`
	var created compensation.OvertimeBase
	err := q.QueryRow(ctx, query, o.UserID, o.BackwageBase).Scan(&created.ID, &created.UserID, &created.BackwageBase, &created.CreatedAt)
	if err != nil {
		return compensation.OvertimeBase{}, fmt.Errorf("failed to create overtime base: %w", err)
	}
	return created, nil
}

func (r *overtimeBaseRepository) Latest(ctx context.Context, userID string) (compensation.OvertimeBase, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, backwage_base, created_at
		FROM overtime_bases
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var o compensation.OvertimeBase
	err := q.QueryRow(ctx, query, userID).Scan(&o.ID, &o.UserID, &o.BackwageBase, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.OvertimeBase{}, compensation.ErrOvertimeBaseNotFound
		}
		return compensation.OvertimeBase{}, fmt.Errorf("failed to get latest overtime base: %w", err)
	}
	return o, nil
}

func (r *overtimeBaseRepository) ListByUser(ctx context.Context, userID string) ([]compensation.OvertimeBase, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, backwage_base, created_at
		FROM overtime_bases
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime bases: %w", err)
	}
	defer rows.Close()

	var out []compensation.OvertimeBase
	for rows.Next() {
		var o compensation.OvertimeBase
		if err := rows.Scan(&o.ID, &o.UserID, &o.BackwageBase, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan overtime base: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ========== BENEFIT CONTRIBUTIONS ==========

type benefitRepository struct {
	db *database.DB
}

func NewBenefitRepository(db *database.DB) compensation.BenefitRepository {
	return &benefitRepository{db: db}
}

const benefitColumns = `id, user_id, kind, employee_share, employer_share, total, created_at`

func scanBenefit(row pgx.Row) (compensation.Benefit, error) {
	var b compensation.Benefit
	err := row.Scan(&b.ID, &b.UserID, &b.Kind, &b.EmployeeShare, &b.EmployerShare, &b.Total, &b.CreatedAt)
	return b, err
}

func (r *benefitRepository) Create(ctx context.Context, b compensation.Benefit) (compensation.Benefit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO benefit_contributions (user_id, kind, employee_share, employer_share, total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + benefitColumns

	created, err := scanBenefit(q.QueryRow(ctx, query, b.UserID, b.Kind, b.EmployeeShare, b.EmployerShare, b.Total))
	if err != nil {
		return compensation.Benefit{}, fmt.Errorf("failed to create benefit contribution: %w", err)
	}
	return created, nil
}

func (r *benefitRepository) GetByID(ctx context.Context, id string) (compensation.Benefit, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBenefit(q.QueryRow(ctx, `SELECT `+benefitColumns+` FROM benefit_contributions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.Benefit{}, compensation.ErrBenefitNotFound
		}
		return compensation.Benefit{}, fmt.Errorf("failed to get benefit contribution: %w", err)
	}
	return b, nil
}

// Latest implements compensation.BenefitRepository.
func (r *benefitRepository) Latest(ctx context.Context, userID string) (compensation.Benefits, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (kind) ` + benefitColumns + `
		FROM benefit_contributions
		WHERE user_id = $1
		ORDER BY kind, created_at DESC, id DESC
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return compensation.Benefits{}, fmt.Errorf("failed to query latest benefits: %w", err)
	}
	defer rows.Close()

	var bs compensation.Benefits
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return compensation.Benefits{}, fmt.Errorf("failed to scan benefit contribution: %w", err)
		}
		bs.Set(b)
	}
	return bs, rows.Err()
}

func (r *benefitRepository) ListByUser(ctx context.Context, userID string) ([]compensation.Benefit, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+benefitColumns+` FROM benefit_contributions WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query benefit contributions: %w", err)
	}
	defer rows.Close()

	var out []compensation.Benefit
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan benefit contribution: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
