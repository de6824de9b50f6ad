package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrEmployeeNumberExists    = errors.New("employee number already registered")
	ErrEmploymentInfoNotFound  = errors.New("employment info not found")
	ErrInvalidRole             = errors.New("invalid role")
	ErrUserInactive            = errors.New("user is inactive")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrOwnerAccessRequired     = errors.New("owner access required")
)
