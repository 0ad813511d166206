package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recipeapi/internal/errs"
	"recipeapi/internal/models"
	"recipeapi/internal/services"
)

func owner(id uint) *models.User {
	u := &models.User{Email: "owner@example.com", IsActive: true}
	u.ID = id
	return u
}

func tag(id, ownerID uint, name string) models.Tag {
	t := models.NewTag(ownerID, name)
	t.ID = id
	return t
}

func TestAttributeService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAttributeRepository[models.Tag])
	tagService := services.NewTagService(repo, nopLog)

	repo.On("Create", ctx, mock.MatchedBy(func(tg *models.Tag) bool {
		return tg.UserID == 3 && tg.Name == "Vegan"
	})).Return(nil).Once()
	created, err := tagService.Create(ctx, owner(3), " Vegan ")
	require.NoError(t, err)
	assert.Equal(t, "Vegan", created.Name)

	_, err = tagService.Create(ctx, owner(3), "")
	var v *errs.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "name")
	repo.AssertExpectations(t)
}

func TestAttributeService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAttributeRepository[models.Ingredient])
	ingredientService := services.NewIngredientService(repo, nopLog)

	rows := []models.Ingredient{models.NewIngredient(2, "Salt"), models.NewIngredient(2, "Kale")}
	repo.On("ListByOwner", ctx, uint(2)).Return(rows, nil).Once()

	got, err := ingredientService.List(ctx, owner(2))
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	repo.AssertExpectations(t)
}

func TestAttributeService_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAttributeRepository[models.Tag])
	tagService := services.NewTagService(repo, nopLog)

	mine := []models.Tag{tag(1, 3, "Vegan"), tag(2, 3, "Dessert")}
	repo.On("FindOwned", ctx, uint(3), []uint{1, 2}).Return(mine, nil).Once()
	got, err := tagService.Resolve(ctx, owner(3), "tags", []uint{1, 2, 1})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Id 5 belongs to someone else, so it is missing from the owner's rows.
	repo.On("FindOwned", ctx, uint(3), []uint{1, 5}).Return(mine[:1], nil).Once()
	_, err = tagService.Resolve(ctx, owner(3), "tags", []uint{1, 5})
	var v *errs.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, `Invalid pk "5" - object does not exist.`, v.Fields["tags"])
	repo.AssertExpectations(t)
}
