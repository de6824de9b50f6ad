package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/fresco-hris/payroll-backend/internal/pkg/tasks"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Salaries
	GetSalary(w http.ResponseWriter, r *http.Request)
	ListSalaries(w http.ResponseWriter, r *http.Request)

	// Payrolls
	GetPayroll(w http.ResponseWriter, r *http.Request)
	ListPayrolls(w http.ResponseWriter, r *http.Request)

	// Payslips
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	ListMyPayslips(w http.ResponseWriter, r *http.Request)
	ApprovePayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)

	// Sweeps
	TriggerSalarySweep(w http.ResponseWriter, r *http.Request)
	GetTask(w http.ResponseWriter, r *http.Request)
}

// SweepRunner starts background sweeps and reports their progress.
type SweepRunner interface {
	TriggerSalarySweep(ctx context.Context) (payroll.TaskResponse, error)
	TaskStatus(ctx context.Context, id string) (tasks.Status, error)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	sweeps         SweepRunner
}

func NewPayrollHandler(payrollService payroll.PayrollService, sweeps SweepRunner) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		sweeps:         sweeps,
	}
}

func payrollFilter(r *http.Request) payroll.PayrollFilter {
	filter := payroll.PayrollFilter{
		UserID:    optionalQuery(r, "user_id"),
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Approved:  optionalBoolQuery(r, "approved"),
	}
	filter.Page, filter.Limit = pagination(r)
	return filter
}

// ========== SALARIES ==========

func (h *payrollHandlerImpl) GetSalary(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetSalary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListSalaries(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListSalaries(r.Context(), payrollFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYROLLS ==========

func (h *payrollHandlerImpl) GetPayroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrolls(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPayrolls(r.Context(), payrollFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPayslips(r.Context(), payrollFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListMyPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListMyPayslips(r.Context(), payrollFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ApprovePayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ApprovePayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip approved", result)
}

// DownloadPayslip renders into memory first so a failed render still gets a
// JSON error instead of a truncated PDF.
func (h *payrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.payrollService.RenderPayslip(r.Context(), id, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write payslip pdf", "payslip_id", id, "error", err)
	}
}

// ========== SWEEPS ==========

// TriggerSalarySweep answers 202 with the task id; poll GetTask for the result.
func (h *payrollHandlerImpl) TriggerSalarySweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeps.TriggerSalarySweep(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Salary sweep queued", result)
}

func (h *payrollHandlerImpl) GetTask(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeps.TaskStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
