package schedule

import (
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Date          string `json:"date"`        // YYYY-MM-DD
	Start         string `json:"shift_start"` // HH:MM
	End           string `json:"shift_end"`   // HH:MM
	ExpectedHours int    `json:"expected_hours"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	start, startErr := timeutil.ParseClock(r.Start)
	if startErr != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_start",
			Message: "shift_start must be in HH:MM format",
		})
	}
	end, endErr := timeutil.ParseClock(r.End)
	if endErr != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_end",
			Message: "shift_end must be in HH:MM format",
		})
	}
	if startErr == nil && endErr == nil && end <= start {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_end",
			Message: "shift_end must be after shift_start",
		})
	}

	if r.ExpectedHours < 1 || r.ExpectedHours > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "expected_hours",
			Message: "expected_hours must be between 1 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID string `json:"-"`
	CreateShiftRequest
}

type ShiftResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Start         string `json:"shift_start"`
	End           string `json:"shift_end"`
	ExpectedHours int    `json:"expected_hours"`
}

type ShiftFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ShiftFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&errs, &f.Page, &f.Limit)
	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.OrNil()
}

type ListShiftResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Shifts     []ShiftResponse `json:"shifts"`
}

// CreateScheduleRequest creates a schedule. PeriodStart and PeriodEnd are
// required for explicit schedules; calendar-half schedules derive them from
// PeriodStart or, when absent, the earliest attached shift.
type CreateScheduleRequest struct {
	UserID       string   `json:"user_id"`
	ShiftIDs     []string `json:"shift_ids"`
	PeriodPolicy string   `json:"period_policy,omitempty"`
	PeriodStart  *string  `json:"period_start,omitempty"`
	PeriodEnd    *string  `json:"period_end,omitempty"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if r.PeriodPolicy != "" {
		if _, err := ParsePeriodPolicy(r.PeriodPolicy); err != nil {
			errs.Add("period_policy", "period_policy must be one of: calendar_halves, schedule_explicit")
		}
	}

	var start, end *string
	if r.PeriodStart != nil && *r.PeriodStart != "" {
		if _, ok := validator.IsValidDate(*r.PeriodStart); !ok {
			errs.Add("period_start", "period_start must be in YYYY-MM-DD format")
		} else {
			start = r.PeriodStart
		}
	}
	if r.PeriodEnd != nil && *r.PeriodEnd != "" {
		if _, ok := validator.IsValidDate(*r.PeriodEnd); !ok {
			errs.Add("period_end", "period_end must be in YYYY-MM-DD format")
		} else {
			end = r.PeriodEnd
		}
	}

	if PeriodPolicy(r.PeriodPolicy) == PeriodScheduleExplicit {
		if r.PeriodStart == nil || *r.PeriodStart == "" {
			errs.Add("period_start", "period_start is required for schedule_explicit")
		}
		if r.PeriodEnd == nil || *r.PeriodEnd == "" {
			errs.Add("period_end", "period_end is required for schedule_explicit")
		}
		if start != nil && end != nil && *end < *start {
			errs.Add("period_end", "period_end must not be before period_start")
		}
	} else if start == nil && len(r.ShiftIDs) == 0 {
		errs.Add("period_start", "period_start or shift_ids is required")
	}

	for _, id := range r.ShiftIDs {
		if validator.IsEmpty(id) {
			errs.Add("shift_ids", "shift_ids must not contain empty values")
			break
		}
	}

	return errs.OrNil()
}

type AttachShiftsRequest struct {
	ScheduleID string   `json:"-"`
	ShiftIDs   []string `json:"shift_ids"`
}

func (r *AttachShiftsRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.ShiftIDs) == 0 {
		errs.Add("shift_ids", "at least one shift id is required")
	}
	return errs.OrNil()
}

type ScheduleResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	PeriodPolicy string          `json:"period_policy"`
	PeriodStart  string          `json:"period_start"`
	PeriodEnd    string          `json:"period_end"`
	Shifts       []ShiftResponse `json:"shifts"`
}
