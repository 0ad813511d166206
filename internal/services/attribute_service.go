package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

// AttributeService lists and creates one kind of recipe attribute for its owner.
type AttributeService[T repositories.Attribute] struct {
	repo  repositories.AttributeRepository[T]
	build func(ownerID uint, name string) T
	log   *zap.SugaredLogger
}

// NewTagService creates the service behind /recipe/tags/.
func NewTagService(repo repositories.AttributeRepository[models.Tag], log *zap.SugaredLogger) *AttributeService[models.Tag] {
	return &AttributeService[models.Tag]{repo: repo, build: models.NewTag, log: log}
}

// NewIngredientService creates the service behind /recipe/ingredients/.
func NewIngredientService(repo repositories.AttributeRepository[models.Ingredient], log *zap.SugaredLogger) *AttributeService[models.Ingredient] {
	return &AttributeService[models.Ingredient]{repo: repo, build: models.NewIngredient, log: log}
}

// List returns the owner's rows, name descending.
func (s *AttributeService[T]) List(ctx context.Context, owner *models.User) ([]T, error) {
	return s.repo.ListByOwner(ctx, owner.ID)
}

// Create stores a new row owned by owner.
func (s *AttributeService[T]) Create(ctx context.Context, owner *models.User, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidation("name", msgBlank)
	}
	item := s.build(owner.ID, name)
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Resolve maps ids to the owner's rows. Ids that are missing or belong to
// another user are reported on field.
func (s *AttributeService[T]) Resolve(ctx context.Context, owner *models.User, field string, ids []uint) ([]T, error) {
	unique := dedupe(ids)
	found, err := s.repo.FindOwned(ctx, owner.ID, unique)
	if err != nil {
		return nil, err
	}
	if len(found) == len(unique) {
		return found, nil
	}

	have := make(map[uint]struct{}, len(found))
	for i := range found {
		have[found[i].GetID()] = struct{}{}
	}
	for _, id := range unique {
		if _, ok := have[id]; !ok {
			return nil, errs.NewValidation(field, invalidPKMessage(id))
		}
	}
	return found, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
