package summary

import "github.com/fresco-hris/payroll-backend/internal/pkg/validator"

type SummaryResponse struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	PeriodStart      string `json:"date"`
	PeriodEnd        string `json:"period_end"`
	ActualHours      int    `json:"actual_hours"`
	OvertimeHours    int    `json:"overtime_hours"`
	LateMinutes      int    `json:"late_minutes"`
	UndertimeMinutes int    `json:"undertime"`

	TotalActualMinutes   int `json:"total_actual_minutes"`
	TotalOvertimeMinutes int `json:"total_overtime_minutes"`

	AttendanceID *string `json:"attendance_id,omitempty"`
}

type SummaryFilter struct {
	UserID      *string `json:"user_id,omitempty"`
	PeriodStart *string `json:"period_start,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *SummaryFilter) Validate() error {
	var errs validator.ValidationErrors
	validator.Pagination(&errs, &f.Page, &f.Limit)
	if f.PeriodStart != nil && *f.PeriodStart != "" {
		if _, ok := validator.IsValidDate(*f.PeriodStart); !ok {
			errs.Add("period_start", "period_start must be in YYYY-MM-DD format")
		}
	}
	return errs.OrNil()
}

type ListSummaryResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Summaries  []SummaryResponse `json:"attendance_summaries"`
}
