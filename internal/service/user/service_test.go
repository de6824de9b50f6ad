package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/pkg/validator"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *UserServiceImpl {
	t.Helper()
	store := memory.NewStore()
	svc := NewUserService(store, memory.NewUserRepository(store), memory.NewEmploymentInfoRepository(store)).(*UserServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func createReq(email string, number int64) user.CreateUserRequest {
	return user.CreateUserRequest{
		Email:    email,
		Password: "password123",
		Role:     "employee",
		EmploymentInfo: user.EmploymentInfoRequest{
			EmployeeNumber: number,
			FirstName:      "Juan",
			LastName:       "Dela Cruz",
			Position:       "Cashier",
			Address:        "Makati City",
			HireDate:       "2023-02-01",
		},
	}
}

func TestUserService_Create_Success(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	resp, err := svc.Create(ctx, createReq("Juan@Fresco.ph", 7))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "juan@fresco.ph", resp.Email)
	assert.True(t, resp.IsActive)
	require.NotNil(t, resp.EmploymentInfo)
	assert.Equal(t, int64(7), resp.EmploymentInfo.EmployeeNumber)
	assert.Equal(t, "2023-02-01", resp.EmploymentInfo.HireDate)

	stored, err := svc.UserRepository.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestUserService_Create_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.Create(ctx, createReq("a@fresco.ph", 7))
	require.NoError(t, err)

	t.Run("duplicate employee number", func(t *testing.T) {
		_, err := svc.Create(ctx, createReq("b@fresco.ph", 7))
		assert.ErrorIs(t, err, user.ErrEmployeeNumberExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, createReq("A@fresco.ph", 8))
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("future hire date", func(t *testing.T) {
		req := createReq("c@fresco.ph", 9)
		req.EmploymentInfo.HireDate = "2024-06-11"
		_, err := svc.Create(ctx, req)
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap(), "employment_info.hire_date")
	})
}

func TestUserService_ResolveByEmployeeNumber(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	created, err := svc.Create(ctx, createReq("juan@fresco.ph", 1042))
	require.NoError(t, err)

	u, err := svc.ResolveByEmployeeNumber(ctx, 1042)
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = svc.ResolveByEmployeeNumber(ctx, 9999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	require.NoError(t, svc.Deactivate(ctx, created.ID))
	_, err = svc.ResolveByEmployeeNumber(ctx, 1042)
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestUserService_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	first, err := svc.Create(ctx, createReq("one@fresco.ph", 1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("two@fresco.ph", 2))
	require.NoError(t, err)

	admin := "admin"
	info := createReq("", 11).EmploymentInfo
	info.Position = "Supervisor"
	updated, err := svc.Update(ctx, user.UpdateUserRequest{ID: first.ID, Role: &admin, EmploymentInfo: &info})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)
	assert.Equal(t, "Supervisor", updated.EmploymentInfo.Position)
	assert.Equal(t, int64(11), updated.EmploymentInfo.EmployeeNumber)

	list, err := svc.List(ctx, user.UserFilter{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, first.ID, list.Users[0].ID)
	assert.Equal(t, "1-1 of 1", list.Showing)
}

func TestUserService_GetMe(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	created, err := svc.Create(ctx, createReq("me@fresco.ph", 3))
	require.NoError(t, err)

	_, err = svc.GetMe(ctx)
	require.Error(t, err)

	meCtx := jwt.ContextWithClaims(ctx, jwt.Claims{UserID: created.ID, Role: user.RoleEmployee})
	me, err := svc.GetMe(meCtx)
	require.NoError(t, err)
	assert.Equal(t, "me@fresco.ph", me.Email)
}
