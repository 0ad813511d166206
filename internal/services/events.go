package services

import (
	"context"

	"go.uber.org/zap"
)

// Routing keys of recipe events.
const (
	EventRecipeCreated       = "recipe.created"
	EventRecipeUpdated       = "recipe.updated"
	EventRecipeDeleted       = "recipe.deleted"
	EventRecipeImageUploaded = "recipe.image_uploaded"
)

// EventPublisher announces changes to other processes. The RabbitMQ client
// implements it; a nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload map[string]interface{}) error
}

// RecipeEvent is the payload of every recipe event.
func RecipeEvent(ownerID, recipeID uint) map[string]interface{} {
	return map[string]interface{}{
		"user_id":   ownerID,
		"recipe_id": recipeID,
	}
}

// publish never fails the caller: the database write already happened.
func publish(ctx context.Context, pub EventPublisher, log *zap.SugaredLogger, key string, payload map[string]interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, key, payload); err != nil {
		log.Warnw("failed to publish event", "event", key, "error", err)
	}
}
