package user

import "context"

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context, filter UserFilter) (ListUserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, id string) error
	GetMe(ctx context.Context) (UserResponse, error)
	// ResolveByEmployeeNumber maps a device employee number to its user.
	ResolveByEmployeeNumber(ctx context.Context, employeeNumber int64) (User, error)
}
