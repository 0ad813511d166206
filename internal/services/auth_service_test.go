package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
	"recipeapi/internal/services"
)

const testSessionSecret = "test_session_secret"

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuthService(users *MockUserRepository, tokens *MockTokenRepository) *services.AuthService {
	return services.NewAuthService(users, tokens, testSessionSecret, time.Hour, nopLog)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	authService := newAuthService(users, new(MockTokenRepository))

	user := &models.User{Email: "test@example.com", Password: hashed(t, "testpass123"), IsActive: true}
	user.ID = 4

	// Email lookup is case-insensitive.
	users.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Twice()
	got, err := authService.Authenticate(ctx, "Test@Example.COM", "testpass123")
	require.NoError(t, err)
	assert.Equal(t, uint(4), got.ID)

	// Wrong password.
	_, err = authService.Authenticate(ctx, "test@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, services.ErrPasswordMismatch)

	// Unknown user looks the same to the caller.
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, errs.NotFound("user with email", "nobody@example.com")).Once()
	_, err = authService.Authenticate(ctx, "nobody@example.com", "testpass123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Inactive accounts cannot log in.
	inactive := &models.User{Email: "off@example.com", Password: hashed(t, "testpass123")}
	users.On("GetByEmail", ctx, "off@example.com").Return(inactive, nil).Once()
	_, err = authService.Authenticate(ctx, "off@example.com", "testpass123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Storage failures are not credential problems.
	users.On("GetByEmail", ctx, "db@example.com").Return(nil, fmt.Errorf("connection reset")).Once()
	_, err = authService.Authenticate(ctx, "db@example.com", "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)

	users.AssertExpectations(t)
}

func TestAuthService_IssueToken(t *testing.T) {
	ctx := context.Background()
	tokens := new(MockTokenRepository)
	authService := newAuthService(new(MockUserRepository), tokens)

	user := &models.User{}
	user.ID = 9

	tokens.On("GetOrCreate", ctx, uint(9)).Return(nil, nil).Once()
	token, err := authService.IssueToken(ctx, user)
	require.NoError(t, err)
	assert.Len(t, token.Key, 32)
	assert.Equal(t, uint(9), token.UserID)

	existing := &models.Token{Key: "abc", UserID: 9}
	tokens.On("GetOrCreate", ctx, uint(9)).Return(existing, nil).Once()
	token, err = authService.IssueToken(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "abc", token.Key)
	tokens.AssertExpectations(t)
}

func TestAuthService_UserByToken(t *testing.T) {
	ctx := context.Background()
	tokens := new(MockTokenRepository)
	authService := newAuthService(new(MockUserRepository), tokens)

	active := &models.User{Email: "a@example.com", IsActive: true}
	tokens.On("GetUserByKey", ctx, "good").Return(active, nil).Once()
	user, err := authService.UserByToken(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, active, user)

	tokens.On("GetUserByKey", ctx, "bad").Return(nil, errs.NotFound("token", "bad")).Once()
	_, err = authService.UserByToken(ctx, "bad")
	assert.ErrorIs(t, err, errs.ErrAuthentication)

	tokens.On("GetUserByKey", ctx, "off").Return(&models.User{}, nil).Once()
	_, err = authService.UserByToken(ctx, "off")
	assert.ErrorIs(t, err, errs.ErrAuthentication)
	tokens.AssertExpectations(t)
}

func TestAuthService_Sessions(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	authService := newAuthService(users, new(MockTokenRepository))

	staff := &models.User{Email: "admin@example.com", Password: hashed(t, "password123"), IsActive: true, IsStaff: true}
	staff.ID = 1
	users.On("GetByEmail", ctx, "admin@example.com").Return(staff, nil).Once()

	session, err := authService.StartSession(ctx, "admin@example.com", "password123")
	require.NoError(t, err)

	claims, err := authService.ValidateSession(session)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims["email"])

	users.On("GetByID", ctx, uint(1)).Return(staff, nil).Once()
	user, err := authService.SessionUser(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, staff, user)

	// Non-staff accounts authenticate but may not open a session.
	plain := &models.User{Email: "user@example.com", Password: hashed(t, "password123"), IsActive: true}
	users.On("GetByEmail", ctx, "user@example.com").Return(plain, nil).Once()
	_, err = authService.StartSession(ctx, "user@example.com", "password123")
	assert.ErrorIs(t, err, errs.ErrPermission)

	users.AssertExpectations(t)
}

func TestAuthService_ValidateSession(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), new(MockTokenRepository))

	_, err := authService.ValidateSession("invalid.token.string")
	assert.ErrorIs(t, err, errs.ErrAuthentication)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(testSessionSecret))
	_, err = authService.ValidateSession(expiredString)
	assert.ErrorIs(t, err, errs.ErrAuthentication)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	foreignString, _ := foreign.SignedString([]byte("another secret"))
	_, err = authService.ValidateSession(foreignString)
	assert.ErrorIs(t, err, errs.ErrAuthentication)
}

func TestAuthService_SessionUserGone(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	authService := newAuthService(users, new(MockTokenRepository))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 77,
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte(testSessionSecret))

	users.On("GetByID", ctx, uint(77)).Return(nil, errs.NotFound("user", 77)).Once()
	_, err := authService.SessionUser(ctx, signed)
	assert.ErrorIs(t, err, errs.ErrAuthentication)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}
