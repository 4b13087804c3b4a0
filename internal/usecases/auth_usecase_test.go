package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/usecases"
	"monthly-club.backend/pkg/crypto"
	"monthly-club.backend/pkg/jwt"
	"monthly-club.backend/pkg/redis"
)

func newAuthUsecaseForTest(userRepo *MockUserRepository, sessions usecases.SessionStore) (*usecases.AuthUsecase, *jwt.JWTService) {
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return usecases.NewAuthUsecase(userRepo, jwtService, sessions, time.Hour), jwtService
}

func testUser(t *testing.T, password string) *entities.User {
	t.Helper()
	hash, err := crypto.HashPasswordWithCost(password, 4)
	require.NoError(t, err)
	return &entities.User{ID: uuid.New(), Email: "owner@example.com", Name: "Owner", PasswordHash: hash}
}

func TestAuthUsecase_Register(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)

	userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, domainerrors.ErrUserNotFound).Once()
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@example.com" && u.ID != uuid.Nil && crypto.CheckPassword("password123", u.PasswordHash)
	})).Return(nil).Once()

	user, err := uc.Register(ctx, &entities.RegisterInput{Email: " New@Example.com ", Name: "New", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	userRepo.AssertExpectations(t)
}

func TestAuthUsecase_Register_Duplicate(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)

	userRepo.On("GetByEmail", ctx, "owner@example.com").Return(&entities.User{ID: uuid.New()}, nil).Once()

	_, err := uc.Register(ctx, &entities.RegisterInput{Email: "owner@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_Tokens(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	uc, jwtService := newAuthUsecaseForTest(userRepo, nil)
	user := testUser(t, "password123")

	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: "password123"})
	require.NoError(t, err)
	assert.Empty(t, resp.SessionID)

	claims, err := jwtService.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthUsecase_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	user := testUser(t, "password123")

	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domainerrors.ErrUserNotFound).Once()
	_, err = uc.Login(ctx, &entities.LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthUsecase_Login_Session(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	sessions := new(MockSessionStore)
	uc, _ := newAuthUsecaseForTest(userRepo, sessions)
	user := testUser(t, "password123")

	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	sessions.On("CreateSession", ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(d *redis.SessionData) bool {
		return d.UserID == user.ID.String() && d.AccessToken != "" && d.RefreshToken != ""
	}), time.Hour).Return(nil).Once()

	resp, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: "password123", UseSession: true})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Empty(t, resp.AccessToken)
	sessions.AssertExpectations(t)
}

func TestAuthUsecase_Login_SessionUnavailable(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	user := testUser(t, "password123")

	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

	_, err := uc.Login(ctx, &entities.LoginInput{Email: user.Email, Password: "password123", UseSession: true})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthUsecase_Logout(t *testing.T) {
	ctx := context.Background()
	sessions := new(MockSessionStore)
	uc, _ := newAuthUsecaseForTest(new(MockUserRepository), sessions)

	sessions.On("DeleteSession", ctx, "sess-1").Return(nil).Once()
	require.NoError(t, uc.Logout(ctx, "sess-1"))
	require.NoError(t, uc.Logout(ctx, ""))
	sessions.AssertNumberOfCalls(t, "DeleteSession", 1)
}

func TestAuthUsecase_RefreshToken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	uc, jwtService := newAuthUsecaseForTest(userRepo, nil)
	user := testUser(t, "password123")

	pair, err := jwtService.GenerateTokenPair(user.ID, user.Email)
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	refreshed, err := uc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = uc.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = uc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
