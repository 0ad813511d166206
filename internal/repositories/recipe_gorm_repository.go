package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{db: db}
}

func preloadRelations(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return db.Preload("Tags", byID).Preload("Ingredients", byID)
}

// membership builds "id IN (SELECT recipe_id FROM <table> WHERE <column> IN (...))".
func membership(table, column string, ids []uint) (string, []interface{}, error) {
	sub, args, err := sq.Select("recipe_id").From(table).Where(sq.Eq{column: ids}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build %s filter: %w", table, err)
	}
	return "id IN (" + sub + ")", args, nil
}

// List returns the owner's recipes, newest first, narrowed by filter.
func (r *GORMRecipeRepository) List(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)

	if len(filter.TagIDs) > 0 {
		cond, args, err := membership(models.RecipeTagsTable, "tag_id", filter.TagIDs)
		if err != nil {
			return nil, err
		}
		q = q.Where(cond, args...)
	}
	if len(filter.IngredientIDs) > 0 {
		cond, args, err := membership(models.RecipeIngredientsTable, "ingredient_id", filter.IngredientIDs)
		if err != nil {
			return nil, err
		}
		q = q.Where(cond, args...)
	}

	recipes := make([]models.Recipe, 0)
	if err := preloadRelations(q).Order("id desc").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes for user %d: %w", ownerID, err)
	}
	return recipes, nil
}

// Get returns one recipe owned by ownerID. Foreign and missing ids look the same.
func (r *GORMRecipeRepository) Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	return r.get(preloadRelations(r.db.WithContext(ctx)), ownerID, id)
}

func (r *GORMRecipeRepository) get(db *gorm.DB, ownerID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.Where("user_id = ?", ownerID).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// Create inserts recipe with its relation rows in one transaction.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User").Create(recipe).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Save writes the scalar columns of recipe and, per changes, replaces its
// relations. Everything happens in one transaction.
func (r *GORMRecipeRepository) Save(ctx context.Context, recipe *models.Recipe, changes RecipeChanges) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).
			Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
			Updates(map[string]interface{}{
				"title":        recipe.Title,
				"time_minutes": recipe.TimeMinutes,
				"price_cents":  recipe.PriceCents,
				"link":         recipe.Link,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("recipe", recipe.ID)
		}

		if changes.ReplaceTags {
			if err := replaceAssociation(tx, recipe, "Tags", recipe.Tags); err != nil {
				return err
			}
		}
		if changes.ReplaceIngredients {
			if err := replaceAssociation(tx, recipe, "Ingredients", recipe.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to save recipe %d: %w", recipe.ID, err)
	}
	return nil
}

func replaceAssociation[T any](tx *gorm.DB, recipe *models.Recipe, name string, rows []T) error {
	assoc := tx.Model(recipe).Association(name)
	if len(rows) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(rows)
}

// SetImage stores the image key of one owned recipe.
func (r *GORMRecipeRepository) SetImage(ctx context.Context, ownerID, id uint, key string) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("image", key)
	if res.Error != nil {
		return fmt.Errorf("failed to set image of recipe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("recipe", id)
	}
	return nil
}

// Delete removes an owned recipe and its relation rows, returning the removed
// row so the caller can clean up its image.
func (r *GORMRecipeRepository) Delete(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	var deleted *models.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := r.get(tx, ownerID, id)
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(recipe).Error; err != nil {
			return err
		}
		deleted = recipe
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return deleted, nil
}
