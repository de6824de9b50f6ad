package http

import (
	"net/http"

	"github.com/fresco-hris/payroll-backend/internal/domain/summary"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SummaryHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type summaryHandlerImpl struct {
	summaryService summary.SummaryService
}

func NewSummaryHandler(summaryService summary.SummaryService) SummaryHandler {
	return &summaryHandlerImpl{summaryService: summaryService}
}

func (h *summaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.summaryService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *summaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := summary.SummaryFilter{
		UserID:      optionalQuery(r, "user_id"),
		PeriodStart: optionalQuery(r, "period_start"),
	}
	filter.Page, filter.Limit = pagination(r)

	result, err := h.summaryService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
