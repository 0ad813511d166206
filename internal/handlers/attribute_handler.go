package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/middleware"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
	"recipeapi/internal/serializers"
	"recipeapi/internal/services"
)

// AttributeHandler serves list and create for tags or ingredients.
type AttributeHandler[T repositories.Attribute] struct {
	service *services.AttributeService[T]
	present func([]T) []serializers.AttributeResponse
	log     *zap.SugaredLogger
}

// NewTagHandler creates the handler of /recipe/tags.
func NewTagHandler(service *services.AttributeService[models.Tag], log *zap.SugaredLogger) *AttributeHandler[models.Tag] {
	return &AttributeHandler[models.Tag]{service: service, present: serializers.Tags, log: log}
}

// NewIngredientHandler creates the handler of /recipe/ingredients.
func NewIngredientHandler(service *services.AttributeService[models.Ingredient], log *zap.SugaredLogger) *AttributeHandler[models.Ingredient] {
	return &AttributeHandler[models.Ingredient]{service: service, present: serializers.Ingredients, log: log}
}

// RegisterRoutes mounts list and create under path.
func (h *AttributeHandler[T]) RegisterRoutes(router fiber.Router, path string) {
	router.Get(path, h.HandleList)
	router.Post(path, h.HandleCreate)
}

// HandleList returns the caller's rows.
func (h *AttributeHandler[T]) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve items")
	}
	return c.JSON(h.present(items))
}

// HandleCreate adds a row owned by the caller. Any user in the payload is ignored.
func (h *AttributeHandler[T]) HandleCreate(c *fiber.Ctx) error {
	var req serializers.AttributeRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not create item")
	}

	item, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		return respondError(c, h.log, err, "Could not create item")
	}
	return c.Status(fiber.StatusCreated).JSON(h.present([]T{*item})[0])
}
