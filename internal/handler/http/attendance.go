package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fresco-hris/payroll-backend/internal/domain/attendance"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

// AttendanceCorrector applies a manual correction and re-runs everything
// derived from the corrected row.
type AttendanceCorrector interface {
	CorrectAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.Attendance, error)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	corrector         AttendanceCorrector
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, corrector AttendanceCorrector) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		corrector:         corrector,
	}
}

func attendanceFilter(r *http.Request) attendance.AttendanceFilter {
	filter := attendance.AttendanceFilter{
		UserID:    optionalQuery(r, "user_id"),
		Date:      optionalQuery(r, "date"),
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Status:    optionalQuery(r, "status"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	filter.Page, filter.Limit = pagination(r)
	return filter
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.List(r.Context(), attendanceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListMine(r.Context(), attendanceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	corrected, err := h.corrector.CorrectAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetByID(r.Context(), corrected.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}
