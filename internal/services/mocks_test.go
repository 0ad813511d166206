package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

var nopLog = zap.NewNop().Sugar()

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of repositories.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) GetOrCreate(ctx context.Context, userID uint, newKey func() string) (*models.Token, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return &models.Token{Key: newKey(), UserID: userID}, args.Error(1)
	}
	return args.Get(0).(*models.Token), args.Error(1)
}

func (m *MockTokenRepository) GetUserByKey(ctx context.Context, key string) (*models.User, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockAttributeRepository is a mock implementation of repositories.AttributeRepository
type MockAttributeRepository[T repositories.Attribute] struct {
	mock.Mock
}

func (m *MockAttributeRepository[T]) ListByOwner(ctx context.Context, ownerID uint) ([]T, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockAttributeRepository[T]) Create(ctx context.Context, item *T) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockAttributeRepository[T]) FindOwned(ctx context.Context, ownerID uint, ids []uint) ([]T, error) {
	args := m.Called(ctx, ownerID, ids)
	return args.Get(0).([]T), args.Error(1)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) List(ctx context.Context, ownerID uint, filter repositories.RecipeFilter) ([]models.Recipe, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	if args.Error(0) == nil && recipe.ID == 0 {
		recipe.ID = 1
	}
	return args.Error(0)
}

func (m *MockRecipeRepository) Save(ctx context.Context, recipe *models.Recipe, changes repositories.RecipeChanges) error {
	args := m.Called(ctx, recipe, changes)
	return args.Error(0)
}

func (m *MockRecipeRepository) SetImage(ctx context.Context, ownerID, id uint, key string) error {
	args := m.Called(ctx, ownerID, id, key)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// MockImageStore is a mock implementation of storage.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) URL(key string) string {
	return "/media/" + key
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload map[string]interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}
