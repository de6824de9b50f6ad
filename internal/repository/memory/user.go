package memory

import (
	"context"
	"strings"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/auth"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
)

type userRepository struct{ s *Store }

func NewUserRepository(s *Store) user.UserRepository { return &userRepository{s: s} }

func (r *userRepository) Create(_ context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	u.ID = r.s.newID()
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	u.EmploymentInfo = nil
	r.s.users = append(r.s.users, u)
	return u, nil
}

func (r *userRepository) withEmployment(u user.User) user.User {
	for i := range r.s.employment {
		if r.s.employment[i].UserID == u.ID {
			info := r.s.employment[i]
			u.EmploymentInfo = &info
		}
	}
	return u
}

func (r *userRepository) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			return r.withEmployment(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return r.withEmployment(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) List(_ context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []user.User
	for _, u := range r.s.users {
		if filter.Role != nil && string(u.Role) != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		u = r.withEmployment(u)
		if filter.Search != nil && *filter.Search != "" {
			needle := strings.ToLower(*filter.Search)
			hay := strings.ToLower(u.Email)
			if u.EmploymentInfo != nil {
				hay += " " + strings.ToLower(u.EmploymentInfo.FullName())
			}
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		out = append(out, u)
	}
	items, total := page(out, filter.Page, filter.Limit)
	return items, total, nil
}

func (r *userRepository) Update(_ context.Context, u user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == u.ID {
			u.CreatedAt = r.s.users[i].CreatedAt
			u.UpdatedAt = r.s.now()
			u.EmploymentInfo = nil
			r.s.users[i] = u
			return nil
		}
	}
	return user.ErrUserNotFound
}

func (r *userRepository) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			r.s.users[i].IsActive = active
			r.s.users[i].UpdatedAt = r.s.now()
			return nil
		}
	}
	return user.ErrUserNotFound
}

func (r *userRepository) ListActiveIDs(context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for _, u := range r.s.users {
		if u.IsActive {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

type employmentInfoRepository struct{ s *Store }

func NewEmploymentInfoRepository(s *Store) user.EmploymentInfoRepository {
	return &employmentInfoRepository{s: s}
}

func (r *employmentInfoRepository) Create(_ context.Context, info user.EmploymentInfo) (user.EmploymentInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employment {
		if e.EmployeeNumber == info.EmployeeNumber {
			return user.EmploymentInfo{}, user.ErrEmployeeNumberExists
		}
	}
	info.ID = r.s.newID()
	info.CreatedAt = r.s.now()
	info.UpdatedAt = info.CreatedAt
	r.s.employment = append(r.s.employment, info)
	return info, nil
}

func (r *employmentInfoRepository) GetByUserID(_ context.Context, userID string) (user.EmploymentInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employment {
		if e.UserID == userID {
			return e, nil
		}
	}
	return user.EmploymentInfo{}, user.ErrEmploymentInfoNotFound
}

func (r *employmentInfoRepository) GetByEmployeeNumber(_ context.Context, employeeNumber int64) (user.EmploymentInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employment {
		if e.EmployeeNumber == employeeNumber {
			return e, nil
		}
	}
	return user.EmploymentInfo{}, user.ErrEmploymentInfoNotFound
}

func (r *employmentInfoRepository) Update(_ context.Context, info user.EmploymentInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	idx := -1
	for i, e := range r.s.employment {
		if e.UserID == info.UserID {
			idx = i
		} else if e.EmployeeNumber == info.EmployeeNumber {
			return user.ErrEmployeeNumberExists
		}
	}
	if idx < 0 {
		return user.ErrEmploymentInfoNotFound
	}
	info.ID = r.s.employment[idx].ID
	info.CreatedAt = r.s.employment[idx].CreatedAt
	info.UpdatedAt = r.s.now()
	r.s.employment[idx] = info
	return nil
}

type refreshTokenRepository struct{ s *Store }

func NewRefreshTokenRepository(s *Store) auth.RefreshTokenRepository {
	return &refreshTokenRepository{s: s}
}

func (r *refreshTokenRepository) Create(_ context.Context, userID, token string, expiresAt int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[token] = refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r *refreshTokenRepository) IsRevoked(_ context.Context, token string) (string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[token]
	if !ok {
		return "", true, nil
	}
	return t.userID, t.revoked || !t.expiresAt.After(r.s.now()), nil
}

func (r *refreshTokenRepository) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens[token]; ok {
		t.revoked = true
		r.s.tokens[token] = t
	}
	return nil
}
