package biometric

import (
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
)

// PunchRequest is the payload pushed by a biometric device.
type PunchRequest struct {
	EmployeeNumber int64  `json:"employee_external_id"`
	Timestamp      string `json:"timestamp"` // RFC3339
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeNumber <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_external_id",
			Message: "employee_external_id must be greater than 0",
		})
	}
	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be an ISO8601 timestamp with timezone",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PunchResponse struct {
	ID             string `json:"id"`
	EmployeeNumber int64  `json:"employee_external_id"`
	Timestamp      string `json:"timestamp"`
	Source         string `json:"source"`
	// Resolved is false when no user owns the employee number yet.
	Resolved     bool    `json:"resolved"`
	AttendanceID *string `json:"attendance_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type PunchFilter struct {
	EmployeeNumber *int64  `json:"employee_external_id,omitempty"`
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PunchFilter) Validate() error {
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

type ListPunchResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Punches    []PunchResponse `json:"punches"`
}

// ImportRowError reports a workbook row that could not be recorded.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResponse struct {
	Accepted   int              `json:"accepted"`
	Unresolved int              `json:"unresolved"`
	Rejected   int              `json:"rejected"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}
