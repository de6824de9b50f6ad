package attendance

import (
	"strings"

	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
)

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	CheckIn      *string `json:"check_in_time"`
	CheckOut     *string `json:"check_out_time"`
	Status       string  `json:"status"`
	IsComplete   bool    `json:"is_complete"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type AttendanceFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&errs, &f.Page, &f.Limit)

	if f.Status != nil && *f.Status != "" {
		if _, err := ParseStatus(*f.Status); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: Present, Late, Undertime, Overtime",
			})
		}
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, ok := validator.IsValidDate(*value); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_time", "check_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_time, check_out_time, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateAttendanceRequest lets an admin correct the punched times.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	CheckIn  *string `json:"check_in_time,omitempty"`  // HH:MM[:SS]
	CheckOut *string `json:"check_out_time,omitempty"` // HH:MM[:SS]
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.CheckIn == nil && r.CheckOut == nil {
		errs.Add("check_in_time", "check_in_time or check_out_time is required")
	}

	var in, out *timeutil.Clock
	if r.CheckIn != nil {
		c, err := timeutil.ParseClock(*r.CheckIn)
		if err != nil {
			errs.Add("check_in_time", "check_in_time must be in HH:MM format")
		} else {
			in = &c
		}
	}
	if r.CheckOut != nil {
		c, err := timeutil.ParseClock(*r.CheckOut)
		if err != nil {
			errs.Add("check_out_time", "check_out_time must be in HH:MM format")
		} else {
			out = &c
		}
	}
	if in != nil && out != nil && *out < *in {
		errs.Add("check_out_time", ErrCheckOutBeforeIn.Error())
	}

	return errs.OrNil()
}
