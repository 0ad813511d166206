package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

var (
	// ErrUserNotFound and ErrPasswordMismatch stay inside the service; callers
	// only ever see ErrInvalidCredentials.
	ErrUserNotFound     = errors.New("no user with this email")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrUserInactive     = errors.New("user is inactive")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvalidCredentialsMessage is shown to clients for ErrInvalidCredentials.
const InvalidCredentialsMessage = "Unable to authenticate with provided credentials."

// AuthService handles credentials, API tokens and admin sessions.
type AuthService struct {
	users         repositories.UserRepository
	tokens        repositories.TokenRepository
	sessionSecret []byte
	sessionTTL    time.Duration
	log           *zap.SugaredLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, tokens repositories.TokenRepository, sessionSecret string, sessionTTL time.Duration, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
		log:           log,
	}
}

func (s *AuthService) verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrPasswordMismatch
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

// Authenticate checks email and password. Any credential problem comes back
// as ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.verify(ctx, email, password)
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrUserInactive):
		s.log.Debugw("authentication rejected", "reason", err)
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, err
	}
	return user, nil
}

func newTokenKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IssueToken returns the API token of user, creating it on first use.
func (s *AuthService) IssueToken(ctx context.Context, user *models.User) (*models.Token, error) {
	token, err := s.tokens.GetOrCreate(ctx, user.ID, newTokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// UserByToken resolves an API key. Unknown keys and inactive owners are
// authentication failures.
func (s *AuthService) UserByToken(ctx context.Context, key string) (*models.User, error) {
	user, err := s.tokens.GetUserByKey(ctx, key)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("invalid token: %w", errs.ErrAuthentication)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user inactive or deleted: %w", errs.ErrAuthentication)
	}
	return user, nil
}

// StartSession authenticates a staff member and returns a signed session for
// the admin pages.
func (s *AuthService) StartSession(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	if !user.IsStaff {
		return "", fmt.Errorf("user %d is not staff: %w", user.ID, errs.ErrPermission)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.sessionTTL).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString(s.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// ValidateSession parses and validates a session token, returning its claims.
func (s *AuthService) ValidateSession(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.sessionSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session: %v: %w", err, errs.ErrAuthentication)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid session: %w", errs.ErrAuthentication)
}

// SessionUser loads the account behind a session. The account must still be
// active; staff is checked separately so callers can answer 403.
func (s *AuthService) SessionUser(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateSession(tokenString)
	if err != nil {
		return nil, err
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("session without user: %w", errs.ErrAuthentication)
	}
	user, err := s.users.GetByID(ctx, uint(rawID))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("session user gone: %w", errs.ErrAuthentication)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user inactive or deleted: %w", errs.ErrAuthentication)
	}
	return user, nil
}
