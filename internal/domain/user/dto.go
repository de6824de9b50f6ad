package user

import (
	"time"

	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string                  `json:"id"`
	Email          string                  `json:"email"`
	Role           string                  `json:"role"`
	IsActive       bool                    `json:"is_active"`
	EmploymentInfo *EmploymentInfoResponse `json:"employment_info,omitempty"`
	CreatedAt      string                  `json:"created_at"`
	UpdatedAt      string                  `json:"updated_at"`
}

type EmploymentInfoResponse struct {
	EmployeeNumber int64  `json:"employee_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Position       string `json:"position"`
	Address        string `json:"address"`
	HireDate       string `json:"hire_date"`
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Users      []UserResponse `json:"users"`
}

// EmploymentInfoRequest is shared by create and update.
type EmploymentInfoRequest struct {
	EmployeeNumber int64  `json:"employee_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Position       string `json:"position"`
	Address        string `json:"address"`
	HireDate       string `json:"hire_date"` // YYYY-MM-DD
}

// Validate checks employment fields; today bounds the hire date.
func (r *EmploymentInfoRequest) Validate(today time.Time) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if r.EmployeeNumber <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_number",
			Message: "employee_number must be greater than 0",
		})
	}
	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "first_name",
			Message: "first_name is required",
		})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{
			Field:   "last_name",
			Message: "last_name is required",
		})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position is required",
		})
	}
	if validator.IsEmpty(r.Address) {
		errs = append(errs, validator.ValidationError{
			Field:   "address",
			Message: "address is required",
		})
	}

	if validator.IsEmpty(r.HireDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date is required",
		})
	} else if hireDate, err := timeutil.ParseDate(r.HireDate); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date must be in YYYY-MM-DD format",
		})
	} else if hireDate.After(timeutil.DateOf(today)) {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date cannot be in the future",
		})
	}

	return errs
}

// CreateUserRequest represents request to create a new user with employment info
type CreateUserRequest struct {
	Email          string                `json:"email"`
	Password       string                `json:"password"`
	Role           string                `json:"role"`
	EmploymentInfo EmploymentInfoRequest `json:"employment_info"`
}

func (r *CreateUserRequest) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if _, err := ParseRole(r.Role); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: owner, admin, employee",
		})
	}

	for _, e := range r.EmploymentInfo.Validate(today) {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_info." + e.Field,
			Message: e.Message,
		})
	}

	return errs.OrNil()
}

// UpdateUserRequest updates role, activity and employment info.
type UpdateUserRequest struct {
	ID             string                 `json:"-"`
	Role           *string                `json:"role,omitempty"`
	IsActive       *bool                  `json:"is_active,omitempty"`
	EmploymentInfo *EmploymentInfoRequest `json:"employment_info,omitempty"`
}

func (r *UpdateUserRequest) Validate(today time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Role != nil {
		if _, err := ParseRole(*r.Role); err != nil {
			errs.Add("role", "role must be one of: owner, admin, employee")
		}
	}
	if r.EmploymentInfo != nil {
		for _, e := range r.EmploymentInfo.Validate(today) {
			errs.Add("employment_info."+e.Field, e.Message)
		}
	}

	return errs.OrNil()
}

type UserFilter struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&errs, &f.Page, &f.Limit)
	if f.Role != nil {
		if _, err := ParseRole(*f.Role); err != nil {
			errs.Add("role", "role must be one of: owner, admin, employee")
		}
	}

	return errs.OrNil()
}
