package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/pkg/utils"
)

type PayrollServiceImpl struct {
	Sources
	salaries   payroll.SalaryRepository
	payrolls   payroll.PayrollRepository
	payslips   payroll.PayslipRepository
	employment user.EmploymentInfoRepository
	renderer   payroll.PayslipRenderer
	now        func() time.Time
}

func NewPayrollService(
	sources Sources,
	salaryRepository payroll.SalaryRepository,
	payrollRepository payroll.PayrollRepository,
	payslipRepository payroll.PayslipRepository,
	employmentRepository user.EmploymentInfoRepository,
	renderer payroll.PayslipRenderer,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		Sources:    sources,
		salaries:   salaryRepository,
		payrolls:   payrollRepository,
		payslips:   payslipRepository,
		employment: employmentRepository,
		renderer:   renderer,
		now:        time.Now,
	}
}

// ========== SALARIES ==========

func (s *PayrollServiceImpl) GetSalary(ctx context.Context, id string) (payroll.SalaryResponse, error) {
	sal, err := s.salaries.GetByID(ctx, id)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	return mapSalaryToResponse(sal), nil
}

func (s *PayrollServiceImpl) ListSalaries(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListResponse[payroll.SalaryResponse], error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListResponse[payroll.SalaryResponse]{}, err
	}

	rows, total, err := s.salaries.List(ctx, filter)
	if err != nil {
		return payroll.ListResponse[payroll.SalaryResponse]{}, fmt.Errorf("failed to list salaries: %w", err)
	}

	items := make([]payroll.SalaryResponse, 0, len(rows))
	for _, sal := range rows {
		items = append(items, mapSalaryToResponse(sal))
	}
	return listResponse(items, total, filter), nil
}

// ========== PAYROLLS ==========

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.payrolls.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return mapPayrollToResponse(p), nil
}

func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListResponse[payroll.PayrollResponse], error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListResponse[payroll.PayrollResponse]{}, err
	}

	rows, total, err := s.payrolls.List(ctx, filter)
	if err != nil {
		return payroll.ListResponse[payroll.PayrollResponse]{}, fmt.Errorf("failed to list payrolls: %w", err)
	}

	items := make([]payroll.PayrollResponse, 0, len(rows))
	for _, p := range rows {
		items = append(items, mapPayrollToResponse(p))
	}
	return listResponse(items, total, filter), nil
}

// ========== PAYSLIPS ==========

// visiblePayslip loads a payslip the caller may see: their own, or any
// with the payroll view permission.
func (s *PayrollServiceImpl) visiblePayslip(ctx context.Context, id string) (payroll.Payslip, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.Payslip{}, err
	}

	ps, err := s.payslips.GetByID(ctx, id)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if ps.UserID != claims.UserID && !claims.Can(user.PermissionPayrollViewAll) {
		return payroll.Payslip{}, payroll.ErrPayslipAccessDenied
	}
	return ps, nil
}

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	ps, err := s.visiblePayslip(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return mapPayslipToResponse(ps), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListResponse[payroll.PayslipResponse], error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListResponse[payroll.PayslipResponse]{}, err
	}

	rows, total, err := s.payslips.List(ctx, filter)
	if err != nil {
		return payroll.ListResponse[payroll.PayslipResponse]{}, fmt.Errorf("failed to list payslips: %w", err)
	}

	items := make([]payroll.PayslipResponse, 0, len(rows))
	for _, ps := range rows {
		items = append(items, mapPayslipToResponse(ps))
	}
	return listResponse(items, total, filter), nil
}

// ListMyPayslips lists the caller's own payslips whatever user filter was
// sent.
func (s *PayrollServiceImpl) ListMyPayslips(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListResponse[payroll.PayslipResponse], error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListResponse[payroll.PayslipResponse]{}, err
	}
	filter.UserID = &claims.UserID
	return s.ListPayslips(ctx, filter)
}

func (s *PayrollServiceImpl) ApprovePayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	if err := s.payslips.Approve(ctx, id, claims.UserID, s.now().UTC()); err != nil {
		return payroll.PayslipResponse{}, err
	}

	ps, err := s.payslips.GetByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	slog.Info("payslip approved", "payslip_id", id, "user_id", ps.UserID, "approved_by", claims.UserID)
	return mapPayslipToResponse(ps), nil
}

// RenderPayslip writes the PDF of an approved payslip and records the
// generation time.
func (s *PayrollServiceImpl) RenderPayslip(ctx context.Context, id string, w io.Writer) error {
	ps, err := s.visiblePayslip(ctx, id)
	if err != nil {
		return err
	}
	if !ps.Approved {
		return payroll.ErrPayslipNotApproved
	}

	p, err := s.payrolls.GetByID(ctx, ps.PayrollID)
	if err != nil {
		return err
	}
	sal, err := s.salaries.GetByID(ctx, p.SalaryID)
	if err != nil {
		return err
	}
	in, err := s.inputs(ctx, sal)
	if err != nil {
		return err
	}

	doc := Document(ps, p, in)
	info, err := s.employment.GetByUserID(ctx, ps.UserID)
	switch {
	case err == nil:
		doc.EmployeeName = info.FullName()
		doc.EmployeeNumber = info.EmployeeNumber
		doc.Position = info.Position
	case !errors.Is(err, user.ErrEmploymentInfoNotFound):
		return fmt.Errorf("failed to load employment info: %w", err)
	}

	if err := s.renderer.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render payslip: %w", err)
	}
	if err := s.payslips.MarkGenerated(ctx, id, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to mark payslip generated: %w", err)
	}
	return nil
}

func listResponse[T any](items []T, total int64, filter payroll.PayrollFilter) payroll.ListResponse[T] {
	totalPages, _ := utils.Paging(total, filter.Page, filter.Limit)
	return payroll.ListResponse[T]{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Items:      items,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func mapSalaryToResponse(sal payroll.Salary) payroll.SalaryResponse {
	return payroll.SalaryResponse{
		ID:           sal.ID,
		UserID:       sal.UserID,
		PayDate:      sal.PayDate.Format(timeutil.DateLayout),
		EarningsID:   sal.EarningsID,
		DeductionsID: sal.DeductionsID,
		OvertimeID:   sal.OvertimeID,
		SSSID:        sal.SSSID,
		PhilHealthID: sal.PhilHealthID,
		PagIBIGID:    sal.PagIBIGID,
	}
}

func mapPayrollToResponse(p payroll.Payroll) payroll.PayrollResponse {
	return payroll.PayrollResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		SalaryID:        p.SalaryID,
		GrossPay:        p.GrossPay,
		TotalDeductions: p.TotalDeductions,
		NetPay:          p.NetPay,
		PayDate:         p.PayDate.Format(timeutil.DateLayout),
	}
}

func mapPayslipToResponse(ps payroll.Payslip) payroll.PayslipResponse {
	resp := payroll.PayslipResponse{
		ID:          ps.ID,
		UserID:      ps.UserID,
		PayrollID:   ps.PayrollID,
		Status:      ps.Approved,
		ApprovedAt:  formatTime(ps.ApprovedAt),
		GeneratedAt: formatTime(ps.GeneratedAt),
		IsProtected: ps.IsProtected,
	}
	if ps.Payroll != nil {
		p := mapPayrollToResponse(*ps.Payroll)
		resp.Payroll = &p
	}
	return resp
}
