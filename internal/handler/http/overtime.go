package http

import (
	"encoding/json"
	"net/http"

	"github.com/fresco-hris/payroll-backend/internal/domain/overtime"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	GetHours(w http.ResponseWriter, r *http.Request)
	ListHours(w http.ResponseWriter, r *http.Request)
	UpdateHours(w http.ResponseWriter, r *http.Request)
	GetTotal(w http.ResponseWriter, r *http.Request)
	ListTotals(w http.ResponseWriter, r *http.Request)
	Recompute(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{overtimeService: overtimeService}
}

func overtimeFilter(r *http.Request) overtime.OvertimeFilter {
	filter := overtime.OvertimeFilter{UserID: optionalQuery(r, "user_id")}
	filter.Page, filter.Limit = pagination(r)
	return filter
}

// ========== OVERTIME HOURS ==========

func (h *overtimeHandlerImpl) GetHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.GetHours(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) ListHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.ListHours(r.Context(), overtimeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateHours sets the manually entered categories. Derived hours are
// owned by the summarizer and cannot be changed here.
func (h *overtimeHandlerImpl) UpdateHours(w http.ResponseWriter, r *http.Request) {
	var req overtime.UpdateOvertimeHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.overtimeService.UpdateHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime hours updated successfully", result)
}

// ========== TOTAL OVERTIME ==========

func (h *overtimeHandlerImpl) GetTotal(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.GetTotal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) ListTotals(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.ListTotals(r.Context(), overtimeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Recompute reprices every total of one user from the latest compensation.
func (h *overtimeHandlerImpl) Recompute(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id query parameter is required", nil)
		return
	}

	count, err := h.overtimeService.RecomputeForUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Total overtime recomputed", map[string]int{"updated": count})
}
