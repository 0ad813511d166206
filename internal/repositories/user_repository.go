package repositories

import (
	"context"

	"recipeapi/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// TokenRepository stores the one API token each user may hold.
type TokenRepository interface {
	GetOrCreate(ctx context.Context, userID uint, newKey func() string) (*models.Token, error)
	GetUserByKey(ctx context.Context, key string) (*models.User, error)
}
