package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
	"recipeapi/internal/storage"
)

const (
	// MaxPriceCents is 999.99, the largest price with five digits and two places.
	MaxPriceCents = 99999

	msgRequired = "This field is required."
	msgNegative = "Ensure this value is greater than or equal to 0."
	msgTooLarge = "Ensure that there are no more than 5 digits in total."
)

func invalidPKMessage(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// RecipeInput carries recipe fields from a request. Nil means "not supplied".
type RecipeInput struct {
	Title         *string
	TimeMinutes   *int
	PriceCents    *int64
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// RecipeService implements the recipe operations for one owner at a time.
type RecipeService struct {
	recipes     repositories.RecipeRepository
	tags        *AttributeService[models.Tag]
	ingredients *AttributeService[models.Ingredient]
	images      storage.ImageStore
	events      EventPublisher
	log         *zap.SugaredLogger
}

// NewRecipeService creates a new RecipeService. events may be nil.
func NewRecipeService(
	recipes repositories.RecipeRepository,
	tags *AttributeService[models.Tag],
	ingredients *AttributeService[models.Ingredient],
	images storage.ImageStore,
	events EventPublisher,
	log *zap.SugaredLogger,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		images:      images,
		events:      events,
		log:         log,
	}
}

// List returns the owner's recipes, newest first, narrowed by filter.
func (s *RecipeService) List(ctx context.Context, owner *models.User, filter repositories.RecipeFilter) ([]models.Recipe, error) {
	return s.recipes.List(ctx, owner.ID, filter)
}

// Get returns one of the owner's recipes. Other users' recipes are not found.
func (s *RecipeService) Get(ctx context.Context, owner *models.User, id uint) (*models.Recipe, error) {
	return s.recipes.Get(ctx, owner.ID, id)
}

func checkScalars(in RecipeInput, requireAll bool) error {
	v := &errs.ValidationError{}
	if requireAll {
		if in.Title == nil {
			v.Add("title", msgRequired)
		}
		if in.TimeMinutes == nil {
			v.Add("time_minutes", msgRequired)
		}
		if in.PriceCents == nil {
			v.Add("price", msgRequired)
		}
	}
	if in.Title != nil && *in.Title == "" {
		v.Add("title", msgBlank)
	}
	if in.TimeMinutes != nil && *in.TimeMinutes < 0 {
		v.Add("time_minutes", msgNegative)
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			v.Add("price", msgNegative)
		} else if *in.PriceCents > MaxPriceCents {
			v.Add("price", msgTooLarge)
		}
	}
	return v.OrNil()
}

// applyRelations resolves supplied id lists against the owner's rows. With
// reset set, omitted lists clear the relation.
func (s *RecipeService) applyRelations(ctx context.Context, owner *models.User, recipe *models.Recipe, in RecipeInput, reset bool) (repositories.RecipeChanges, error) {
	var changes repositories.RecipeChanges

	if in.TagIDs != nil {
		tags, err := s.tags.Resolve(ctx, owner, "tags", *in.TagIDs)
		if err != nil {
			return changes, err
		}
		recipe.Tags = tags
		changes.ReplaceTags = true
	} else if reset {
		recipe.Tags = []models.Tag{}
		changes.ReplaceTags = true
	}

	if in.IngredientIDs != nil {
		ingredients, err := s.ingredients.Resolve(ctx, owner, "ingredients", *in.IngredientIDs)
		if err != nil {
			return changes, err
		}
		recipe.Ingredients = ingredients
		changes.ReplaceIngredients = true
	} else if reset {
		recipe.Ingredients = []models.Ingredient{}
		changes.ReplaceIngredients = true
	}
	return changes, nil
}

// Create stores a recipe owned by owner with the given relations.
func (s *RecipeService) Create(ctx context.Context, owner *models.User, in RecipeInput) (*models.Recipe, error) {
	if err := checkScalars(in, true); err != nil {
		return nil, err
	}
	recipe := &models.Recipe{
		Title:       *in.Title,
		TimeMinutes: *in.TimeMinutes,
		PriceCents:  *in.PriceCents,
		UserID:      owner.ID,
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}
	if _, err := s.applyRelations(ctx, owner, recipe, in, true); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	publish(ctx, s.events, s.log, EventRecipeCreated, RecipeEvent(owner.ID, recipe.ID))
	return recipe, nil
}

// Update changes one of the owner's recipes. A full update (partial false)
// needs every required field and clears the link and relations it omits; a
// partial update touches only supplied fields.
func (s *RecipeService) Update(ctx context.Context, owner *models.User, id uint, in RecipeInput, partial bool) (*models.Recipe, error) {
	recipe, err := s.recipes.Get(ctx, owner.ID, id)
	if err != nil {
		return nil, err
	}
	if err := checkScalars(in, !partial); err != nil {
		return nil, err
	}

	if in.Title != nil {
		recipe.Title = *in.Title
	}
	if in.TimeMinutes != nil {
		recipe.TimeMinutes = *in.TimeMinutes
	}
	if in.PriceCents != nil {
		recipe.PriceCents = *in.PriceCents
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	} else if !partial {
		recipe.Link = ""
	}

	changes, err := s.applyRelations(ctx, owner, recipe, in, !partial)
	if err != nil {
		return nil, err
	}
	if err := s.recipes.Save(ctx, recipe, changes); err != nil {
		return nil, err
	}
	publish(ctx, s.events, s.log, EventRecipeUpdated, RecipeEvent(owner.ID, recipe.ID))
	return recipe, nil
}

// UploadImage replaces the image of one of the owner's recipes. Data must
// decode as an image. The old object is removed only after the new one is
// stored and recorded; on any failure the recipe keeps its previous image.
func (s *RecipeService) UploadImage(ctx context.Context, owner *models.User, id uint, filename string, data []byte) (*models.Recipe, error) {
	recipe, err := s.recipes.Get(ctx, owner.ID, id)
	if err != nil {
		return nil, err
	}
	contentType, err := storage.DetectImage(data)
	if err != nil {
		return nil, err
	}

	key := storage.RecipeImageKey(filename)
	if err := s.images.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if err := s.recipes.SetImage(ctx, owner.ID, id, key); err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}

	if previous := recipe.Image; previous != "" && previous != key {
		s.removeImage(ctx, previous)
	}
	recipe.Image = key
	publish(ctx, s.events, s.log, EventRecipeImageUploaded, RecipeEvent(owner.ID, recipe.ID))
	return recipe, nil
}

// Delete removes one of the owner's recipes together with its image.
func (s *RecipeService) Delete(ctx context.Context, owner *models.User, id uint) error {
	deleted, err := s.recipes.Delete(ctx, owner.ID, id)
	if err != nil {
		return err
	}
	if deleted.Image != "" {
		s.removeImage(ctx, deleted.Image)
	}
	publish(ctx, s.events, s.log, EventRecipeDeleted, RecipeEvent(owner.ID, id))
	return nil
}

// ImageURL returns the public address of an image key.
func (s *RecipeService) ImageURL(key string) string {
	if key == "" {
		return ""
	}
	return s.images.URL(key)
}

func (s *RecipeService) removeImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warnw("failed to remove image object", "key", key, "error", err)
	}
}
