package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// payDateWhere appends the shared pay-date and user filters.
func payDateWhere(filter payroll.PayrollFilter, alias string) (string, []interface{}, int) {
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND %s.user_id = $%d", alias, argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND %s.pay_date >= $%d", alias, argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND %s.pay_date <= $%d", alias, argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	return baseWhere, args, argIdx
}

// ========== SALARIES ==========

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) payroll.SalaryRepository {
	return &salaryRepository{db: db}
}

const salaryColumns = `
	s.id, s.user_id, s.pay_date, s.earnings_id, s.deductions_id, s.overtime_id,
	s.sss_id, s.philhealth_id, s.pagibig_id, s.created_at`

func scanSalary(row pgx.Row) (payroll.Salary, error) {
	var s payroll.Salary
	err := row.Scan(
		&s.ID, &s.UserID, &s.PayDate, &s.EarningsID, &s.DeductionsID, &s.OvertimeID,
		&s.SSSID, &s.PhilHealthID, &s.PagIBIGID, &s.CreatedAt,
	)
	return s, err
}

// CreateIfAbsent implements payroll.SalaryRepository.
func (r *salaryRepository) CreateIfAbsent(ctx context.Context, s payroll.Salary) (payroll.Salary, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salaries AS s (
			user_id, pay_date, earnings_id, deductions_id, overtime_id,
			sss_id, philhealth_id, pagibig_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, pay_date) DO NOTHING
		RETURNING ` + salaryColumns

	stored, err := scanSalary(q.QueryRow(ctx, query,
		s.UserID, s.PayDate, s.EarningsID, s.DeductionsID, s.OvertimeID,
		s.SSSID, s.PhilHealthID, s.PagIBIGID,
	))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.Salary{}, false, fmt.Errorf("failed to create salary: %w", err)
	}

	query = `SELECT ` + salaryColumns + ` FROM salaries s WHERE s.user_id = $1 AND s.pay_date = $2`
	stored, err = scanSalary(q.QueryRow(ctx, query, s.UserID, s.PayDate))
	if err != nil {
		return payroll.Salary{}, false, fmt.Errorf("failed to load existing salary: %w", err)
	}
	return stored, false, nil
}

func (r *salaryRepository) ExistsForPayDate(ctx context.Context, userID string, payDate time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM salaries WHERE user_id = $1 AND pay_date = $2)`, userID, payDate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check salary: %w", err)
	}
	return exists, nil
}

func (r *salaryRepository) GetByID(ctx context.Context, id string) (payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSalary(q.QueryRow(ctx, `SELECT `+salaryColumns+` FROM salaries s WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Salary{}, payroll.ErrSalaryNotFound
		}
		return payroll.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

func (r *salaryRepository) ListAll(ctx context.Context) ([]payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+salaryColumns+` FROM salaries s ORDER BY s.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query salaries: %w", err)
	}
	defer rows.Close()

	var salaries []payroll.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	return salaries, rows.Err()
}

func (r *salaryRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Salary, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := payDateWhere(filter, "s")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM salaries s WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salaries: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM salaries s WHERE %s ORDER BY s.pay_date DESC %s`,
		salaryColumns, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query salaries: %w", err)
	}
	defer rows.Close()

	var salaries []payroll.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	return salaries, total, rows.Err()
}

// ========== PAYROLLS ==========

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.user_id, p.salary_id, p.gross_pay, p.total_deductions, p.net_pay, p.pay_date,
	p.created_at, p.updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(&p.ID, &p.UserID, &p.SalaryID, &p.GrossPay, &p.TotalDeductions, &p.NetPay, &p.PayDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Upsert implements payroll.PayrollRepository. xmax = 0 only on a fresh
// insert, which is how created is reported.
func (r *payrollRepository) Upsert(ctx context.Context, p payroll.Payroll) (payroll.Payroll, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls AS p (user_id, salary_id, gross_pay, total_deductions, net_pay, pay_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (salary_id) DO UPDATE SET
			gross_pay = EXCLUDED.gross_pay,
			total_deductions = EXCLUDED.total_deductions,
			net_pay = EXCLUDED.net_pay,
			pay_date = EXCLUDED.pay_date,
			updated_at = NOW()
		RETURNING ` + payrollColumns + `, (xmax = 0) AS inserted`

	var (
		stored   payroll.Payroll
		inserted bool
	)
	err := q.QueryRow(ctx, query, p.UserID, p.SalaryID, p.GrossPay, p.TotalDeductions, p.NetPay, p.PayDate).Scan(
		&stored.ID, &stored.UserID, &stored.SalaryID, &stored.GrossPay, &stored.TotalDeductions, &stored.NetPay,
		&stored.PayDate, &stored.CreatedAt, &stored.UpdatedAt, &inserted,
	)
	if err != nil {
		return payroll.Payroll{}, false, fmt.Errorf("failed to upsert payroll: %w", err)
	}
	return stored, inserted, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payrolls p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ListWithoutPayslip(ctx context.Context) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		WHERE NOT EXISTS (SELECT 1 FROM payslips ps WHERE ps.payroll_id = p.id)
		ORDER BY p.created_at ASC
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payrolls without payslip: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, rows.Err()
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := payDateWhere(filter, "p")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls p WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM payrolls p WHERE %s ORDER BY p.pay_date DESC %s`,
		payrollColumns, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, total, rows.Err()
}

// ========== PAYSLIPS ==========

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepository{db: db}
}

const payslipSelect = `
	SELECT ps.id, ps.user_id, ps.payroll_id, ps.approved, ps.approved_at, ps.approved_by,
		   ps.generated_at, ps.is_protected, ps.created_at,
		   ` + payrollColumns + `
	FROM payslips ps
	JOIN payrolls p ON p.id = ps.payroll_id`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var (
		ps payroll.Payslip
		p  payroll.Payroll
	)
	err := row.Scan(
		&ps.ID, &ps.UserID, &ps.PayrollID, &ps.Approved, &ps.ApprovedAt, &ps.ApprovedBy,
		&ps.GeneratedAt, &ps.IsProtected, &ps.CreatedAt,
		&p.ID, &p.UserID, &p.SalaryID, &p.GrossPay, &p.TotalDeductions, &p.NetPay, &p.PayDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}
	ps.Payroll = &p
	return ps, nil
}

// CreateIfAbsent implements payroll.PayslipRepository.
func (r *payslipRepository) CreateIfAbsent(ctx context.Context, ps payroll.Payslip) (payroll.Payslip, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslips (user_id, payroll_id, approved, is_protected)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (payroll_id) DO NOTHING
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query, ps.UserID, ps.PayrollID, ps.Approved, ps.IsProtected).Scan(&id)
	created := true
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
	} else if err != nil {
		return payroll.Payslip{}, false, fmt.Errorf("failed to create payslip: %w", err)
	}

	var stored payroll.Payslip
	if created {
		stored, err = r.GetByID(ctx, id)
	} else {
		stored, err = scanPayslip(q.QueryRow(ctx, payslipSelect+` WHERE ps.payroll_id = $1`, ps.PayrollID))
	}
	if err != nil {
		return payroll.Payslip{}, false, err
	}
	return stored, created, nil
}

func (r *payslipRepository) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	ps, err := scanPayslip(q.QueryRow(ctx, payslipSelect+` WHERE ps.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return ps, nil
}

func (r *payslipRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := payDateWhere(filter, "p")
	if filter.Approved != nil {
		baseWhere += fmt.Sprintf(" AND ps.approved = $%d", argIdx)
		args = append(args, *filter.Approved)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM payslips ps JOIN payrolls p ON p.id = ps.payroll_id WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	selectQuery := fmt.Sprintf(`%s WHERE %s ORDER BY p.pay_date DESC, ps.created_at DESC %s`,
		payslipSelect, baseWhere, limitOffset(&args, argIdx, filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		ps, err := scanPayslip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, ps)
	}
	return payslips, total, rows.Err()
}

// Approve implements payroll.PayslipRepository.
func (r *payslipRepository) Approve(ctx context.Context, id, approverID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslips
		SET approved = TRUE, approved_at = $1, approved_by = $2
		WHERE id = $3 AND NOT approved
	`
	tag, err := q.Exec(ctx, query, at, approverID, id)
	if err != nil {
		return fmt.Errorf("failed to approve payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		ps, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ps.Approved {
			return payroll.ErrPayslipAlreadyApproved
		}
	}
	return nil
}

func (r *payslipRepository) MarkGenerated(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payslips SET generated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark payslip generated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}
