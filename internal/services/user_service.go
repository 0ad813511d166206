package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

const (
	MinPasswordLength = 5
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72

	msgBlank          = "This field may not be blank."
	msgEmailTaken     = "user with this email already exists."
	msgPasswordLength = "Ensure this field has at least 5 characters."
	msgPasswordLong   = "Ensure this field has no more than 72 bytes."
)

// NormalizeEmail makes an email usable as the case-insensitive identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser is the input of CreateUser.
type NewUser struct {
	Email       string
	Password    string
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// ProfileUpdate carries the fields a user may change on their own account.
// Nil fields are left alone.
type ProfileUpdate struct {
	Email    *string
	Password *string
	Name     *string
}

// AccountFlags is what the admin pages may change on any account.
type AccountFlags struct {
	Name        string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

// UserService manages user accounts.
type UserService struct {
	users repositories.UserRepository
	log   *zap.SugaredLogger
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, log *zap.SugaredLogger) *UserService {
	return &UserService{users: users, log: log}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errs.NewValidation("password", msgPasswordLong)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uint) error {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return errs.NewValidation("email", msgEmailTaken)
	}
	return nil
}

// CreateUser registers an account. The email is lower-cased and only a bcrypt
// hash of the password is stored.
func (s *UserService) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, errs.NewValidation("email", msgBlank)
	}
	if in.Password == "" {
		return nil, errs.NewValidation("password", msgBlank)
	}
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:       email,
		Password:    hashed,
		Name:        in.Name,
		IsActive:    true,
		IsStaff:     in.IsStaff,
		IsSuperuser: in.IsSuperuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewValidation("email", msgEmailTaken)
		}
		return nil, err
	}
	s.log.Infow("user created", "user_id", user.ID, "staff", user.IsStaff)
	return user, nil
}

// CreateSuperuser registers an account with staff and superuser rights.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, NewUser{Email: email, Password: password, IsStaff: true, IsSuperuser: true})
}

// UpdateProfile applies the non-nil fields of in to user and saves it.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	updated := *user

	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email == "" {
			return nil, errs.NewValidation("email", msgBlank)
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
		}
		updated.Email = email
	}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return nil, errs.NewValidation("password", msgPasswordLength)
		}
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updated.Password = hashed
	}
	if in.Name != nil {
		updated.Name = *in.Name
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewValidation("email", msgEmailTaken)
		}
		return nil, err
	}
	return &updated, nil
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// GetUser returns one account by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateFlags sets the name and permission flags of account id.
func (s *UserService) UpdateFlags(ctx context.Context, id uint, flags AccountFlags) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = flags.Name
	user.IsActive = flags.IsActive
	user.IsStaff = flags.IsStaff
	user.IsSuperuser = flags.IsSuperuser
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Infow("user flags changed", "user_id", id, "active", flags.IsActive, "staff", flags.IsStaff, "superuser", flags.IsSuperuser)
	return user, nil
}
