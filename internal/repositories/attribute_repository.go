package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recipeapi/internal/models"
)

// Attribute is a recipe attribute table: tags or ingredients.
type Attribute interface {
	models.Tag | models.Ingredient
	GetID() uint
}

// AttributeRepository defines owner-scoped access to one attribute table.
type AttributeRepository[T Attribute] interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]T, error)
	Create(ctx context.Context, item *T) error
	FindOwned(ctx context.Context, ownerID uint, ids []uint) ([]T, error)
}

// GORMAttributeRepository is a GORM implementation of AttributeRepository.
type GORMAttributeRepository[T Attribute] struct {
	db *gorm.DB
}

// NewGORMAttributeRepository creates a repository for the table of T.
func NewGORMAttributeRepository[T Attribute](db *gorm.DB) *GORMAttributeRepository[T] {
	return &GORMAttributeRepository[T]{db: db}
}

// ListByOwner returns the owner's rows, name descending.
func (r *GORMAttributeRepository[T]) ListByOwner(ctx context.Context, ownerID uint) ([]T, error) {
	items := make([]T, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("name desc").Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %T for user %d: %w", *new(T), ownerID, err)
	}
	return items, nil
}

// Create inserts item; its owner must already be set.
func (r *GORMAttributeRepository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create %T: %w", *item, err)
	}
	return nil
}

// FindOwned returns the rows among ids that belong to ownerID. Ids owned by
// someone else are simply absent from the result.
func (r *GORMAttributeRepository[T]) FindOwned(ctx context.Context, ownerID uint, ids []uint) ([]T, error) {
	items := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", ownerID, ids).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to find %T by ids: %w", *new(T), err)
	}
	return items, nil
}
