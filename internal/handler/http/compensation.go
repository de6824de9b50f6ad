package http

import (
	"encoding/json"
	"net/http"

	"github.com/fresco-hris/payroll-backend/internal/domain/compensation"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompensationHandler interface {
	GetCurrent(w http.ResponseWriter, r *http.Request)
	CreateEarnings(w http.ResponseWriter, r *http.Request)
	ListEarnings(w http.ResponseWriter, r *http.Request)
	CreateDeductions(w http.ResponseWriter, r *http.Request)
	ListDeductions(w http.ResponseWriter, r *http.Request)
	CreateOvertimeBase(w http.ResponseWriter, r *http.Request)
	CreateSSS(w http.ResponseWriter, r *http.Request)
	RefreshBenefits(w http.ResponseWriter, r *http.Request)
	ListBenefits(w http.ResponseWriter, r *http.Request)
}

type compensationHandlerImpl struct {
	compensationService compensation.CompensationService
}

func NewCompensationHandler(compensationService compensation.CompensationService) CompensationHandler {
	return &compensationHandlerImpl{compensationService: compensationService}
}

// requireUserID reads the user_id query parameter, answering 400 when absent.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id query parameter is required", nil)
		return "", false
	}
	return userID, true
}

// GetCurrent returns the latest record of every compensation kind.
func (h *compensationHandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	result, err := h.compensationService.GetCurrent(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== EARNINGS ==========

func (h *compensationHandlerImpl) CreateEarnings(w http.ResponseWriter, r *http.Request) {
	var req compensation.EarningsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.compensationService.CreateEarnings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Earnings recorded", result)
}

func (h *compensationHandlerImpl) ListEarnings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.compensationService.ListEarnings(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== DEDUCTIONS ==========

func (h *compensationHandlerImpl) CreateDeductions(w http.ResponseWriter, r *http.Request) {
	var req compensation.DeductionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.compensationService.CreateDeductions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deductions recorded", result)
}

func (h *compensationHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.compensationService.ListDeductions(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== OVERTIME BASE ==========

func (h *compensationHandlerImpl) CreateOvertimeBase(w http.ResponseWriter, r *http.Request) {
	var req compensation.OvertimeBaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.compensationService.CreateOvertimeBase(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime base recorded", result)
}

// ========== BENEFITS ==========

func (h *compensationHandlerImpl) CreateSSS(w http.ResponseWriter, r *http.Request) {
	var req compensation.SSSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.compensationService.CreateSSS(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "SSS contribution recorded", result)
}

// RefreshBenefits recomputes PhilHealth and Pag-IBIG from the latest earnings.
func (h *compensationHandlerImpl) RefreshBenefits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.compensationService.RefreshBenefits(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Benefit contributions refreshed", result)
}

func (h *compensationHandlerImpl) ListBenefits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.compensationService.ListBenefits(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
