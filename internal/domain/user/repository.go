package user

import (
	"context"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Update(ctx context.Context, u User) error
	SetActive(ctx context.Context, id string, active bool) error
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type EmploymentInfoRepository interface {
	Create(ctx context.Context, info EmploymentInfo) (EmploymentInfo, error)
	GetByUserID(ctx context.Context, userID string) (EmploymentInfo, error)
	// GetByEmployeeNumber resolves the identifier sent by biometric devices.
	GetByEmployeeNumber(ctx context.Context, employeeNumber int64) (EmploymentInfo, error)
	Update(ctx context.Context, info EmploymentInfo) error
}
