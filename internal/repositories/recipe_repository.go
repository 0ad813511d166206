package repositories

import (
	"context"

	"recipeapi/internal/models"
)

// RecipeFilter narrows a recipe listing. Each non-empty list keeps recipes
// linked to at least one of its ids; both lists must match when both are set.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeChanges tells Save which relations to rewrite.
type RecipeChanges struct {
	ReplaceTags        bool
	ReplaceIngredients bool
}

// RecipeRepository defines owner-scoped access to recipes.
type RecipeRepository interface {
	List(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error)
	Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Save(ctx context.Context, recipe *models.Recipe, changes RecipeChanges) error
	SetImage(ctx context.Context, ownerID, id uint, key string) error
	Delete(ctx context.Context, ownerID, id uint) (*models.Recipe, error)
}
