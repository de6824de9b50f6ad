package user

import (
	"errors"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func validEmployment() EmploymentInfoRequest {
	return EmploymentInfoRequest{
		EmployeeNumber: 1042,
		FirstName:      "Maria",
		LastName:       "Santos",
		Position:       "Baker",
		Address:        "12 Rizal St, Quezon City",
		HireDate:       "2022-01-03",
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []string{"owner", "admin", "employee"} {
		role, err := ParseRole(r)
		require.NoError(t, err)
		assert.Equal(t, Role(r), role)
	}

	_, err := ParseRole("manager")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionUserManage))
	assert.False(t, HasPermission(RoleAdmin, PermissionUserManage))
	assert.True(t, HasPermission(RoleAdmin, PermissionPayrollRun))
	assert.True(t, HasPermission(RoleEmployee, PermissionPayslipViewOwn))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollViewAll))
	assert.False(t, HasPermission(Role("pending"), PermissionViewOwnProfile))
}

func TestEmploymentInfoRequest_Validate_Success(t *testing.T) {
	req := validEmployment()
	assert.Empty(t, req.Validate(today))

	req.HireDate = "2024-06-10"
	assert.Empty(t, req.Validate(today), "hire date today is allowed")
}

func TestEmploymentInfoRequest_Validate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *EmploymentInfoRequest)
		field  string
	}{
		{"negative employee number", func(r *EmploymentInfoRequest) { r.EmployeeNumber = -5 }, "employee_number"},
		{"zero employee number", func(r *EmploymentInfoRequest) { r.EmployeeNumber = 0 }, "employee_number"},
		{"blank first name", func(r *EmploymentInfoRequest) { r.FirstName = "   " }, "first_name"},
		{"blank last name", func(r *EmploymentInfoRequest) { r.LastName = "" }, "last_name"},
		{"blank position", func(r *EmploymentInfoRequest) { r.Position = "" }, "position"},
		{"blank address", func(r *EmploymentInfoRequest) { r.Address = " " }, "address"},
		{"future hire date", func(r *EmploymentInfoRequest) { r.HireDate = "2024-06-11" }, "hire_date"},
		{"malformed hire date", func(r *EmploymentInfoRequest) { r.HireDate = "06/01/2024" }, "hire_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validEmployment()
			tc.mutate(&req)
			errs := req.Validate(today)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
		})
	}
}

func TestCreateUserRequest_Validate_PrefixesEmploymentFields(t *testing.T) {
	req := CreateUserRequest{
		Email:          "maria@fresco.ph",
		Password:       "s3cretpass",
		Role:           "employee",
		EmploymentInfo: validEmployment(),
	}
	require.NoError(t, req.Validate(today))

	req.Role = "pending"
	req.EmploymentInfo.EmployeeNumber = -1
	err := req.Validate(today)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	m := verrs.ToMap()
	assert.Contains(t, m, "role")
	assert.Contains(t, m, "employment_info.employee_number")
}
