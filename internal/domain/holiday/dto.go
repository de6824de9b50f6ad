package holiday

import "github.com/fresco-hris/payroll-backend/internal/pkg/validator"

type HolidayRequest struct {
	ID          string  `json:"-"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
}

func (r *HolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if _, err := ParseType(r.Type); err != nil {
		errs.Add("type", "type must be one of: regular, special")
	}

	return errs.OrNil()
}

type HolidayResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
}

type HolidayFilter struct {
	Year int `json:"year"`
}
