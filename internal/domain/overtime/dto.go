package overtime

import (
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type OvertimeHoursResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	SummaryID      string          `json:"attendance_summary_id"`
	PeriodStart    string          `json:"biweek_start"`
	RegularOT      decimal.Decimal `json:"regularot"`
	RegularHoliday decimal.Decimal `json:"regularholiday"`
	SpecialHoliday decimal.Decimal `json:"specialholiday"`
	RestDay        decimal.Decimal `json:"restday"`
	NightDiff      decimal.Decimal `json:"nightdiff"`
	Backwage       decimal.Decimal `json:"backwage"`
	LateMinutes    decimal.Decimal `json:"late"`
	UndertimeHours decimal.Decimal `json:"undertime"`
}

type TotalOvertimeResponse struct {
	ID              string          `json:"id"`
	OvertimeHoursID string          `json:"overtimehours_id"`
	UserID          string          `json:"user_id"`
	PeriodStart     string          `json:"biweek_start"`
	RegularOT       decimal.Decimal `json:"total_regularot"`
	RegularHoliday  decimal.Decimal `json:"total_regularholiday"`
	SpecialHoliday  decimal.Decimal `json:"total_specialholiday"`
	RestDay         decimal.Decimal `json:"total_restday"`
	NightDiff       decimal.Decimal `json:"total_nightdiff"`
	Backwage        decimal.Decimal `json:"total_backwage"`
	Late            decimal.Decimal `json:"total_late"`
	Undertime       decimal.Decimal `json:"total_undertime"`
	Total           decimal.Decimal `json:"total_overtime"`
}

// UpdateOvertimeHoursRequest edits the administrator-entered hour counts.
type UpdateOvertimeHoursRequest struct {
	ID        string           `json:"-"`
	RestDay   *decimal.Decimal `json:"restday,omitempty"`
	NightDiff *decimal.Decimal `json:"nightdiff,omitempty"`
	Backwage  *decimal.Decimal `json:"backwage,omitempty"`
}

func (r *UpdateOvertimeHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.RestDay == nil && r.NightDiff == nil && r.Backwage == nil {
		errs.Add("restday", "at least one of restday, nightdiff, backwage is required")
	}
	for field, v := range map[string]*decimal.Decimal{"restday": r.RestDay, "nightdiff": r.NightDiff, "backwage": r.Backwage} {
		if v != nil && validator.IsNegative(*v) {
			errs.Add(field, field+" must not be negative")
		}
	}

	return errs.OrNil()
}

type OvertimeFilter struct {
	UserID *string `json:"user_id,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *OvertimeFilter) Validate() error {
	var errs validator.ValidationErrors
	validator.Pagination(&errs, &f.Page, &f.Limit)
	return errs.OrNil()
}

type ListOvertimeHoursResponse struct {
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	Items      []OvertimeHoursResponse `json:"overtime_hours"`
}

type ListTotalOvertimeResponse struct {
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	Items      []TotalOvertimeResponse `json:"total_overtimes"`
}
