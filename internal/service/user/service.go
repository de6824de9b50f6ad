package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/database"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
	"github.com/fresco-hris/payroll-backend/internal/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	user.EmploymentInfoRepository
	now func() time.Time
}

func NewUserService(tx database.Transactor, userRepository user.UserRepository, employmentInfoRepository user.EmploymentInfoRepository) user.UserService {
	return &UserServiceImpl{
		tx:                       tx,
		UserRepository:           userRepository,
		EmploymentInfoRepository: employmentInfoRepository,
		now:                      time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	role, _ := user.ParseRole(req.Role)
	hireDate, _ := timeutil.ParseDate(req.EmploymentInfo.HireDate)

	var created user.User
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.EmploymentInfoRepository.GetByEmployeeNumber(txCtx, req.EmploymentInfo.EmployeeNumber); err == nil {
			return user.ErrEmployeeNumberExists
		} else if !errors.Is(err, user.ErrEmploymentInfoNotFound) {
			return fmt.Errorf("failed to check employee number: %w", err)
		}

		created, err = s.UserRepository.Create(txCtx, user.User{
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hashed,
			Role:         role,
			IsActive:     true,
		})
		if err != nil {
			return err
		}

		info, err := s.EmploymentInfoRepository.Create(txCtx, user.EmploymentInfo{
			UserID:         created.ID,
			EmployeeNumber: req.EmploymentInfo.EmployeeNumber,
			FirstName:      strings.TrimSpace(req.EmploymentInfo.FirstName),
			LastName:       strings.TrimSpace(req.EmploymentInfo.LastName),
			Position:       strings.TrimSpace(req.EmploymentInfo.Position),
			Address:        strings.TrimSpace(req.EmploymentInfo.Address),
			HireDate:       hireDate,
		})
		if err != nil {
			return err
		}
		created.EmploymentInfo = &info
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return mapUserToResponse(created), nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return mapUserToResponse(u), nil
}

// GetMe implements user.UserService.
func (s *UserServiceImpl) GetMe(ctx context.Context) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.GetByID(ctx, claims.UserID)
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, mapUserToResponse(u))
	}
	totalPages, showing := utils.Paging(total, filter.Page, filter.Limit)

	return user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Users:      responses,
	}, nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return user.UserResponse{}, err
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.UserRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.Role != nil || req.IsActive != nil {
			if req.Role != nil {
				existing.Role, _ = user.ParseRole(*req.Role)
			}
			if req.IsActive != nil {
				existing.IsActive = *req.IsActive
			}
			if err := s.UserRepository.Update(txCtx, existing); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		if req.EmploymentInfo != nil {
			hireDate, _ := timeutil.ParseDate(req.EmploymentInfo.HireDate)
			info := user.EmploymentInfo{
				UserID:         existing.ID,
				EmployeeNumber: req.EmploymentInfo.EmployeeNumber,
				FirstName:      strings.TrimSpace(req.EmploymentInfo.FirstName),
				LastName:       strings.TrimSpace(req.EmploymentInfo.LastName),
				Position:       strings.TrimSpace(req.EmploymentInfo.Position),
				Address:        strings.TrimSpace(req.EmploymentInfo.Address),
				HireDate:       hireDate,
			}
			if err := s.EmploymentInfoRepository.Update(txCtx, info); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return s.GetByID(ctx, req.ID)
}

// Deactivate implements user.UserService.
func (s *UserServiceImpl) Deactivate(ctx context.Context, id string) error {
	return s.UserRepository.SetActive(ctx, id, false)
}

// ResolveByEmployeeNumber implements user.UserService.
func (s *UserServiceImpl) ResolveByEmployeeNumber(ctx context.Context, employeeNumber int64) (user.User, error) {
	info, err := s.EmploymentInfoRepository.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, user.ErrEmploymentInfoNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, info.UserID)
	if err != nil {
		return user.User{}, err
	}
	if !u.IsActive {
		return user.User{}, user.ErrUserInactive
	}
	return u, nil
}

func mapUserToResponse(u user.User) user.UserResponse {
	resp := user.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
	if info := u.EmploymentInfo; info != nil {
		resp.EmploymentInfo = &user.EmploymentInfoResponse{
			EmployeeNumber: info.EmployeeNumber,
			FirstName:      info.FirstName,
			LastName:       info.LastName,
			Position:       info.Position,
			Address:        info.Address,
			HireDate:       info.HireDate.Format(timeutil.DateLayout),
		}
	}
	return resp
}
