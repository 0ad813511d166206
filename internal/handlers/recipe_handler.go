package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/errs"
	"recipeapi/internal/middleware"
	"recipeapi/internal/models"
	"recipeapi/internal/serializers"
	"recipeapi/internal/services"
)

// RecipeHandler handles HTTP requests for the caller's recipes.
type RecipeHandler struct {
	service        *services.RecipeService
	maxUploadBytes int64
	log            *zap.SugaredLogger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService, maxUploadBytes int64, log *zap.SugaredLogger) *RecipeHandler {
	return &RecipeHandler{service: service, maxUploadBytes: maxUploadBytes, log: log}
}

// RegisterRoutes registers the recipe routes.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleList)
	recipeRoutes.Post("/", h.HandleCreate)
	recipeRoutes.Get("/:id", h.HandleGet)
	recipeRoutes.Put("/:id", h.HandleUpdate)
	recipeRoutes.Patch("/:id", h.HandlePatch)
	recipeRoutes.Delete("/:id", h.HandleDelete)
	recipeRoutes.Post("/:id/upload-image", h.HandleUploadImage)
}

func (h *RecipeHandler) write(c *fiber.Ctx, status int, op serializers.Operation, recipe *models.Recipe) error {
	body, err := serializers.Recipe(op, recipe, h.service.ImageURL)
	if err != nil {
		return respondError(c, h.log, err, "Could not serialize recipe")
	}
	return c.Status(status).JSON(body)
}

// HandleList returns the caller's recipes, optionally filtered by ?tags= and ?ingredients=.
func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	filter, err := serializers.RecipeFilterFrom(c.Query("tags"), c.Query("ingredients"))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve recipes")
	}

	recipes, err := h.service.List(c.UserContext(), middleware.CurrentUser(c), filter)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve recipes")
	}
	body, err := serializers.Recipes(serializers.OpList, recipes, h.service.ImageURL)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve recipes")
	}
	return c.JSON(body)
}

// HandleGet returns one recipe with nested tags and ingredients.
func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve recipe")
	}
	recipe, err := h.service.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve recipe")
	}
	return h.write(c, fiber.StatusOK, serializers.OpRetrieve, recipe)
}

// HandleCreate creates a recipe owned by the caller.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	var req serializers.RecipeRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not create recipe")
	}
	recipe, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), req.Input())
	if err != nil {
		return respondError(c, h.log, err, "Could not create recipe")
	}
	return h.write(c, fiber.StatusCreated, serializers.OpCreate, recipe)
}

// HandleUpdate replaces a recipe; omitted link and relations are cleared.
func (h *RecipeHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return respondError(c, h.log, err, "Could not update recipe")
	}
	var req serializers.RecipeRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not update recipe")
	}
	return h.update(c, id, req.Input(), false)
}

// HandlePatch changes only the supplied fields of a recipe.
func (h *RecipeHandler) HandlePatch(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return respondError(c, h.log, err, "Could not update recipe")
	}
	var req serializers.RecipePatchRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err, "Could not update recipe")
	}
	return h.update(c, id, req.Input(), true)
}

func (h *RecipeHandler) update(c *fiber.Ctx, id uint, in services.RecipeInput, partial bool) error {
	recipe, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c), id, in, partial)
	if err != nil {
		return respondError(c, h.log, err, "Could not update recipe")
	}
	return h.write(c, fiber.StatusOK, serializers.OpUpdate, recipe)
}

// HandleDelete removes a recipe and its image.
func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return respondError(c, h.log, err, "Could not delete recipe")
	}
	if err := h.service.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, h.log, err, "Could not delete recipe")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage stores the multipart "image" file as the recipe's picture.
func (h *RecipeHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return respondError(c, h.log, err, "Could not upload image")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, h.log, errs.NewValidation("image", "No file was submitted."), "Could not upload image")
	}
	if file.Size > h.maxUploadBytes {
		msg := fmt.Sprintf("Ensure the file is at most %d bytes.", h.maxUploadBytes)
		return respondError(c, h.log, errs.NewValidation("image", msg), "Could not upload image")
	}

	f, err := file.Open()
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("failed to open upload: %w", err), "Could not upload image")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes))
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("failed to read upload: %w", err), "Could not upload image")
	}

	recipe, err := h.service.UploadImage(c.UserContext(), middleware.CurrentUser(c), id, file.Filename, data)
	if err != nil {
		return respondError(c, h.log, err, "Could not upload image")
	}
	return h.write(c, fiber.StatusOK, serializers.OpUploadImage, recipe)
}
