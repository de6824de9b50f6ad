package user

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleOwner    Role = "owner"    // Business owner - full access
	RoleAdmin    Role = "admin"    // Payroll and HR administrator
	RoleEmployee Role = "employee" // Regular employee
)

// Roles lists every valid role.
var Roles = []Role{RoleOwner, RoleAdmin, RoleEmployee}

// ParseRole rejects anything outside the closed role set.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmploymentInfo *EmploymentInfo
}

// IsOwner checks if user is the business owner
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsAdmin checks if user is admin or owner
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleOwner
}

// EmploymentInfo links a user to the employee number printed on the
// biometric device.
type EmploymentInfo struct {
	ID             string
	UserID         string
	EmployeeNumber int64
	FirstName      string
	LastName       string
	Position       string
	Address        string
	HireDate       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e EmploymentInfo) FullName() string {
	return e.FirstName + " " + e.LastName
}
